// Package views отрисовывает HTML-страницы приложения из встроенных шаблонов.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/magabrotheeeer/inventory-manager/internal/models"
	"github.com/magabrotheeeer/inventory-manager/internal/session"
)

//go:embed templates/*.html
var files embed.FS

// Имена страниц.
const (
	PageLogin     = "login"
	PageRegister  = "register"
	PageDashboard = "dashboard"
	PageProducts  = "products"
	PageUsers     = "users"
)

// Page — данные, общие для всех страниц.
type Page struct {
	Title    string
	Identity *models.Caller
	Flashes  []session.Flash
	Data     any
}

// DashboardData — данные главной страницы.
type DashboardData struct {
	Stats models.DashboardStats
}

// ProductsData — данные страницы товаров.
type ProductsData struct {
	Products   []models.Product
	Categories []models.Category
}

// UsersData — данные страницы пользователей.
type UsersData struct {
	Users []models.UserWithCount
}

// Renderer хранит разобранные шаблоны страниц.
type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"price": func(p *float64) string {
		if p == nil {
			return "-"
		}
		return fmt.Sprintf("R$ %.2f", *p)
	},
	"date": func(t time.Time) string {
		return t.Format("02/01/2006")
	},
	"datetime": func(t time.Time) string {
		return t.Format("02/01/2006 15:04")
	},
}

// New разбирает встроенные шаблоны. Каждая страница собирается из layout.html
// и собственного файла.
func New() (*Renderer, error) {
	const op = "views.New"
	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, name := range []string{PageLogin, PageRegister, PageDashboard, PageProducts, PageUsers} {
		t, err := template.New("layout.html").Funcs(funcs).
			ParseFS(files, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render отрисовывает страницу name с кодом ответа status.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, page Page) error {
	const op = "views.Render"
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("%s: unknown page %q", op, name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", page); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
