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
	"github.com/magabrotheeeer/inventory-manager/internal/lib/sl"
	"github.com/magabrotheeeer/inventory-manager/internal/models"
	"github.com/magabrotheeeer/inventory-manager/internal/session"
)

// MockService реализует интерфейс list.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) ListProducts(ctx context.Context, ownerID int64) ([]models.Product, error) {
	args := m.Called(ctx, ownerID)
	list, _ := args.Get(0).([]models.Product)
	return list, args.Error(1)
}

func TestListHandler(t *testing.T) {
	price := 120.5
	desk := models.Product{
		ID: 1, Name: "Desk", Description: "Wood desk", Price: &price, Category: "Casa", Quantity: 2,
		IsAvailable: true, UserID: 1, CreatedAt: time.Date(2024, 1, 2, 15, 4, 0, 0, time.UTC),
	}

	tests := []struct {
		name         string
		identity     *models.Caller
		setupMock    func(m *MockService)
		wantStatus   int
		expectedBody string
	}{
		{
			name:     "товары пользователя",
			identity: &models.Caller{UserID: 1},
			setupMock: func(m *MockService) {
				m.On("ListProducts", mock.Anything, int64(1)).Return([]models.Product{desk}, nil).Once()
			},
			wantStatus: http.StatusOK,
			expectedBody: `[{"id":1,"name":"Desk","description":"Wood desk","price":120.5,"category":"Casa",
				"quantity":2,"is_available":true,"created_at":"02/01/2024 15:04"}]`,
		},
		{
			name:     "пустой список",
			identity: &models.Caller{UserID: 2},
			setupMock: func(m *MockService) {
				m.On("ListProducts", mock.Anything, int64(2)).Return([]models.Product{}, nil).Once()
			},
			wantStatus:   http.StatusOK,
			expectedBody: `[]`,
		},
		{
			name:         "без сессии",
			setupMock:    func(_ *MockService) {},
			wantStatus:   http.StatusUnauthorized,
			expectedBody: `{"status":"Error","error":"unauthorized"}`,
		},
		{
			name:     "ошибка хранилища не раскрывается",
			identity: &models.Caller{UserID: 1},
			setupMock: func(m *MockService) {
				m.On("ListProducts", mock.Anything, int64(1)).Return(nil, errors.New("pq: connection refused")).Once()
			},
			wantStatus:   http.StatusInternalServerError,
			expectedBody: `{"status":"Error","error":"internal error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := handlertest.WithRequestID(httptest.NewRequest(http.MethodGet, "/api/products", nil))
			if tt.identity != nil {
				req = req.WithContext(session.WithIdentity(req.Context(), *tt.identity))
			}
			w := httptest.NewRecorder()
			New(sl.Discard(), svc).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			svc.AssertExpectations(t)
		})
	}
}
