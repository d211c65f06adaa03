package list

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/inventory-manager/internal/http/handlers/handlertest"
	"github.com/magabrotheeeer/inventory-manager/internal/lib/apperr"
	"github.com/magabrotheeeer/inventory-manager/internal/lib/sl"
	"github.com/magabrotheeeer/inventory-manager/internal/models"
	"github.com/magabrotheeeer/inventory-manager/internal/session"
)

// MockService реализует интерфейс list.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) ListUsers(ctx context.Context, caller models.Caller) ([]models.UserWithCount, error) {
	args := m.Called(ctx, caller)
	list, _ := args.Get(0).([]models.UserWithCount)
	return list, args.Error(1)
}

func TestUserListHandler(t *testing.T) {
	admin := models.Caller{UserID: 1, Username: "admin", Role: models.RoleAdmin}
	alice := models.Caller{UserID: 2, Username: "alice", Role: models.RoleStandard}
	rows := []models.UserWithCount{{
		User: models.User{ID: 2, Username: "alice", Email: "a@x.com", FullName: "Alice A", IsActive: true,
			CreatedAt: time.Date(2024, 2, 3, 10, 0, 0, 0, time.UTC)},
		ProductsCount: 1,
	}}

	tests := []struct {
		name         string
		caller       models.Caller
		setupMock    func(m *MockService)
		wantStatus   int
		expectedBody string
	}{
		{
			name:   "администратор",
			caller: admin,
			setupMock: func(m *MockService) {
				m.On("ListUsers", mock.Anything, admin).Return(rows, nil).Once()
			},
			wantStatus: http.StatusOK,
			expectedBody: `[{"id":2,"username":"alice","email":"a@x.com","full_name":"Alice A","is_active":true,
				"created_at":"03/02/2024","products_count":1}]`,
		},
		{
			name:   "не администратор",
			caller: alice,
			setupMock: func(m *MockService) {
				m.On("ListUsers", mock.Anything, alice).Return(nil, apperr.ErrForbidden).Once()
			},
			wantStatus:   http.StatusForbidden,
			expectedBody: `{"status":"Error","error":"forbidden"}`,
		},
		{
			name:   "ошибка хранилища",
			caller: admin,
			setupMock: func(m *MockService) {
				m.On("ListUsers", mock.Anything, admin).Return(nil, errors.New("timeout")).Once()
			},
			wantStatus:   http.StatusInternalServerError,
			expectedBody: `{"status":"Error","error":"internal error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := handlertest.WithRequestID(httptest.NewRequest(http.MethodGet, "/api/users", nil))
			req = req.WithContext(session.WithIdentity(req.Context(), tt.caller))
			w := httptest.NewRecorder()
			New(sl.Discard(), svc).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			svc.AssertExpectations(t)
		})
	}
}
