package inventory

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/inventory-manager/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/inventory-manager/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/inventory-manager/internal/http/handlers/auth/register"
	categorylist "github.com/magabrotheeeer/inventory-manager/internal/http/handlers/category/list"
	"github.com/magabrotheeeer/inventory-manager/internal/http/handlers/health"
	"github.com/magabrotheeeer/inventory-manager/internal/http/handlers/pages/dashboard"
	"github.com/magabrotheeeer/inventory-manager/internal/http/handlers/pages/products"
	"github.com/magabrotheeeer/inventory-manager/internal/http/handlers/pages/users"
	productcreate "github.com/magabrotheeeer/inventory-manager/internal/http/handlers/product/create"
	productlist "github.com/magabrotheeeer/inventory-manager/internal/http/handlers/product/list"
	"github.com/magabrotheeeer/inventory-manager/internal/http/handlers/product/remove"
	"github.com/magabrotheeeer/inventory-manager/internal/http/handlers/product/update"
	"github.com/magabrotheeeer/inventory-manager/internal/http/handlers/setup/initdb"
	usercreate "github.com/magabrotheeeer/inventory-manager/internal/http/handlers/user/create"
	userlist "github.com/magabrotheeeer/inventory-manager/internal/http/handlers/user/list"
	"github.com/magabrotheeeer/inventory-manager/internal/http/middlewarectx"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, d Deps) {
	log := d.Logger

	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		d.Sessions.Middleware,
		d.Metrics.Handler,
		middlewarectx.RequireAuthentication(log),
	)

	// Открытые маршруты
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
	})
	loginHandler := login.New(log, d.Auth, d.Sessions, d.Views)
	r.Get("/login", loginHandler.Form)
	r.Post("/login", loginHandler.ServeHTTP)
	registerHandler := register.New(log, d.Auth, d.Sessions, d.Views)
	r.Get("/register", registerHandler.Form)
	r.Post("/register", registerHandler.ServeHTTP)
	r.Get("/init-db", initdb.New(log, d.Setup, d.Sessions).ServeHTTP)
	r.Get("/health", health.New(log, d.Storage).ServeHTTP)

	// Страницы
	r.Get("/logout", logout.New(log, d.Sessions).ServeHTTP)
	r.Get("/dashboard", dashboard.New(log, d.Catalog, d.Sessions, d.Views).ServeHTTP)
	r.Get("/products", products.New(log, d.Catalog, d.Sessions, d.Views).ServeHTTP)
	r.Get("/users", users.New(log, d.Directory, d.Sessions, d.Views).ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", productlist.New(log, d.Catalog).ServeHTTP)
		r.Post("/products", productcreate.New(log, d.Catalog).ServeHTTP)
		r.Put("/products/{id}", update.New(log, d.Catalog).ServeHTTP)
		r.Delete("/products/{id}", remove.New(log, d.Catalog).ServeHTTP)
		r.Get("/categories", categorylist.New(log, d.Catalog).ServeHTTP)

		// Группа только для администраторов
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RequireAdmin(log))
			r.Get("/users", userlist.New(log, d.Directory).ServeHTTP)
			r.Post("/users", usercreate.New(log, d.Directory, d.Sessions).ServeHTTP)
		})
	})

	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}

// RegisterMetricsRoutes регистрирует маршруты сервера метрик. Он слушает
// отдельный адрес, поэтому /metrics не проходит через проверку сессии.
func RegisterMetricsRoutes(r chi.Router) {
	r.Handle("/metrics", promhttp.Handler())
}
