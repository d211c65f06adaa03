package dashboard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/inventory-manager/internal/http/handlers/handlertest"
	"github.com/magabrotheeeer/inventory-manager/internal/http/views"
	"github.com/magabrotheeeer/inventory-manager/internal/lib/sl"
	"github.com/magabrotheeeer/inventory-manager/internal/models"
	"github.com/magabrotheeeer/inventory-manager/internal/session"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Stats(ctx context.Context, ownerID int64) (models.DashboardStats, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(models.DashboardStats), args.Error(1)
}

func TestDashboardHandler(t *testing.T) {
	alice := models.Caller{UserID: 7, Username: "alice", Role: models.RoleStandard}
	stats := models.DashboardStats{UserProducts: 1, TotalProducts: 4, ActiveUsers: 3}

	tests := []struct {
		name       string
		identity   *models.Caller
		setupMock  func(m *MockService)
		wantStatus int
	}{
		{
			name:     "счётчики пользователя",
			identity: &alice,
			setupMock: func(m *MockService) {
				m.On("Stats", mock.Anything, int64(7)).Return(stats, nil).Once()
			},
			wantStatus: http.StatusOK,
		},
		{
			name:     "ошибка хранилища",
			identity: &alice,
			setupMock: func(m *MockService) {
				m.On("Stats", mock.Anything, int64(7)).Return(models.DashboardStats{}, errors.New("db down")).Once()
			},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "без сессии",
			setupMock:  func(_ *MockService) {},
			wantStatus: http.StatusFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)
			renderer := new(handlertest.RendererMock)

			req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
			if tt.identity != nil {
				req = req.WithContext(session.WithIdentity(req.Context(), *tt.identity))
			}
			w := httptest.NewRecorder()
			New(sl.Discard(), svc, new(handlertest.SessionsMock), renderer).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, views.PageDashboard, renderer.Name)
				assert.Equal(t, views.DashboardData{Stats: stats}, renderer.Page.Data)
				assert.Equal(t, alice, *renderer.Page.Identity)
			}
			assert.NotContains(t, w.Body.String(), "db down")
			svc.AssertExpectations(t)
		})
	}
}
