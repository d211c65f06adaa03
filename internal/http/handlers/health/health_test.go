package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/inventory-manager/internal/lib/sl"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name         string
		pingErr      error
		wantStatus   int
		expectedBody string
	}{
		{name: "хранилище доступно", wantStatus: http.StatusOK, expectedBody: `{"status":"OK","message":"ok"}`},
		{name: "хранилище недоступно", pingErr: errors.New("connection refused"), wantStatus: http.StatusServiceUnavailable,
			expectedBody: `{"status":"Error","error":"storage unavailable"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(sl.Discard(), pingerFunc(func(context.Context) error { return tt.pingErr }))
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}
