package views

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/inventory-manager/internal/models"
	"github.com/magabrotheeeer/inventory-manager/internal/session"
)

func TestRender(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	price := 120.5
	admin := &models.Caller{UserID: 1, Username: "admin", FullName: "Administrador", Role: models.RoleAdmin}
	standard := &models.Caller{UserID: 2, Username: "alice", FullName: "Alice A", Role: models.RoleStandard}

	tests := []struct {
		name        string
		page        string
		data        Page
		contains    []string
		notContains []string
	}{
		{
			name:     "вход с сообщением",
			page:     PageLogin,
			data:     Page{Title: "Entrar", Flashes: []session.Flash{{Kind: session.FlashError, Message: "Usuário ou senha incorretos!"}}},
			contains: []string{`class="flash flash-error"`, "Usuário ou senha incorretos!", `action="/login"`},
		},
		{
			name:     "регистрация",
			page:     PageRegister,
			data:     Page{Title: "Cadastro"},
			contains: []string{`name="full_name"`},
		},
		{
			name: "dashboard",
			page: PageDashboard,
			data: Page{Title: "Dashboard", Identity: standard,
				Data: DashboardData{Stats: models.DashboardStats{UserProducts: 1, TotalProducts: 4, ActiveUsers: 3}}},
			contains:    []string{`id="user-products">1<`, `id="total-products">4<`, `id="active-users">3<`, "Alice A"},
			notContains: []string{`href="/users"`},
		},
		{
			name: "товары экранируются",
			page: PageProducts,
			data: Page{Title: "Produtos", Identity: admin, Data: ProductsData{
				Products: []models.Product{{ID: 1, Name: "<b>Desk</b>", Price: &price, Category: "Casa",
					CreatedAt: time.Date(2024, 1, 2, 3, 4, 0, 0, time.UTC)}},
				Categories: []models.Category{{ID: 1, Name: "Casa"}},
			}},
			contains:    []string{"&lt;b&gt;Desk&lt;/b&gt;", "R$ 120.50", "02/01/2024 03:04", `<option value="Casa">`, `href="/users"`},
			notContains: []string{"<b>Desk</b>"},
		},
		{
			name: "пользователи",
			page: PageUsers,
			data: Page{Title: "Usuários", Identity: admin, Data: UsersData{Users: []models.UserWithCount{
				{User: models.User{ID: 2, Username: "usuario1", IsActive: true, CreatedAt: time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)}, ProductsCount: 1},
			}}},
			contains: []string{"usuario1", "06/05/2024", "<td>1</td>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			require.NoError(t, r.Render(w, http.StatusOK, tt.page, tt.data))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
			body := w.Body.String()
			for _, s := range tt.contains {
				assert.Contains(t, body, s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, body, s)
			}
		})
	}
}

func TestRenderUnknownPage(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	w := httptest.NewRecorder()
	assert.Error(t, r.Render(w, http.StatusOK, "missing", Page{}))
	assert.Empty(t, w.Body.String())
}
