// Package handlertest содержит общие моки и помощники для тестов HTTP-обработчиков.
package handlertest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/inventory-manager/internal/http/views"
	"github.com/magabrotheeeer/inventory-manager/internal/session"
)

// SessionsMock реализует интерфейсы Sessions всех обработчиков.
// Flash-сообщения копятся в Added, а PopFlashes возвращает Pending.
type SessionsMock struct {
	mock.Mock
	Pending []session.Flash
	Added   []session.Flash
}

func (m *SessionsMock) Login(w http.ResponseWriter, r *http.Request, identity session.Identity) error {
	return m.Called(identity).Error(0)
}

func (m *SessionsMock) Logout(w http.ResponseWriter, r *http.Request) error {
	return m.Called().Error(0)
}

func (m *SessionsMock) AddFlash(_ http.ResponseWriter, _ *http.Request, kind, message string) {
	m.Added = append(m.Added, session.Flash{Kind: kind, Message: message})
}

func (m *SessionsMock) PopFlashes(_ http.ResponseWriter, _ *http.Request) []session.Flash {
	flashes := m.Pending
	m.Pending = nil
	return flashes
}

// RendererMock запоминает последнюю отрисованную страницу.
type RendererMock struct {
	Status int
	Name   string
	Page   views.Page
	Err    error
}

func (m *RendererMock) Render(w http.ResponseWriter, status int, name string, page views.Page) error {
	if m.Err != nil {
		return m.Err
	}
	m.Status, m.Name, m.Page = status, name, page
	w.WriteHeader(status)
	return nil
}

// FlashMessages возвращает тексты flash-сообщений страницы.
func (m *RendererMock) FlashMessages() []string {
	var out []string
	for _, f := range m.Page.Flashes {
		out = append(out, f.Message)
	}
	return out
}

// JSONRequest создаёт запрос с телом v в JSON. Строка передаётся как есть.
func JSONRequest(t *testing.T, method, target string, v any) *http.Request {
	t.Helper()
	var body []byte
	if s, ok := v.(string); ok {
		body = []byte(s)
	} else {
		var err error
		body, err = json.Marshal(v)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return WithRequestID(req)
}

// FormRequest создаёт запрос с телом application/x-www-form-urlencoded.
func FormRequest(method, target string, values url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return WithRequestID(req)
}

// WithRequestID добавляет идентификатор запроса, как это делает middleware.RequestID.
func WithRequestID(req *http.Request) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "req-id"))
}

// WithURLParam устанавливает параметр маршрута chi.
func WithURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}
