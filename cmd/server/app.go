package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/diewo77/go-gestion/auth"
	"github.com/diewo77/go-gestion/internal/currency"
	"github.com/diewo77/go-gestion/internal/handlers"
	"github.com/diewo77/go-gestion/internal/middleware"
	"github.com/diewo77/go-gestion/internal/obs"
)

// App bundles the handlers and router of the back-office.
type App struct {
	router  chi.Router
	log     zerolog.Logger
	metrics *obs.Metrics

	Auth      *handlers.AuthHandler
	Dashboard *handlers.DashboardHandler
	Health    *handlers.HealthHandler
	Clients   *handlers.ClientHandler
	Articles  *handlers.ArticleHandler
	Bookings  *handlers.BookingHandler
	Invoices  *handlers.InvoiceHandler
	Company   *handlers.CompanyHandler
}

// NewApp creates the application with all routes configured.
func NewApp(db *gorm.DB, log zerolog.Logger, metrics *obs.Metrics, money *currency.Formatter) *App {
	if money == nil {
		money = currency.New("")
	}
	app := &App{
		router:  chi.NewRouter(),
		log:     log,
		metrics: metrics,

		Auth:      handlers.NewAuthHandler(db),
		Dashboard: handlers.NewDashboardHandler(db),
		Health:    handlers.NewHealthHandler(db),
		Clients:   handlers.NewClientHandler(db),
		Articles:  handlers.NewArticleHandler(db),
		Bookings:  handlers.NewBookingHandler(db, metrics, money.Unit),
		Invoices:  handlers.NewInvoiceHandler(db, metrics, money),
		Company:   handlers.NewCompanyHandler(db),
	}
	app.setupRoutes()
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

func (a *App) setupRoutes() {
	r := a.router
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(obs.RequestLogger{Logger: a.log}.Middleware)
	r.Use(chimw.Recoverer)
	r.Use(a.metrics.Middleware)
	r.Use(middleware.Prefs)
	r.Use(auth.Middleware)

	// Public
	r.Get("/health", a.Health.Live)
	r.Get("/healthz", a.Health.Ready)
	if a.metrics != nil {
		r.Method(http.MethodGet, "/metrics", a.metrics.Handler())
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	})
	r.Get("/login", a.Auth.LoginForm)
	r.Post("/login", a.Auth.Login)
	r.Get("/signup", a.Auth.SignupForm)
	r.Post("/signup", a.Auth.Signup)
	r.Post("/logout", a.Auth.Logout)

	// Logged-in only
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth)

		r.Get("/dashboard", a.Dashboard.Show)

		r.Route("/clients", func(r chi.Router) {
			ch := a.Clients
			r.Get("/", ch.List)
			r.Post("/", ch.Create)
			r.Get("/{id}", ch.Get)
			r.Get("/{id}/edit", ch.Edit)
			r.Post("/{id}", ch.Update)
			r.Put("/{id}", ch.Update)
			r.Post("/{id}/delete", ch.Delete)
			r.Delete("/{id}", ch.Delete)
		})

		r.Route("/articles", func(r chi.Router) {
			ah := a.Articles
			r.Get("/", ah.List)
			r.Post("/", ah.Create)
			r.Get("/{id}", ah.Get)
			r.Get("/{id}/edit", ah.Edit)
			r.Post("/{id}", ah.Update)
			r.Put("/{id}", ah.Update)
			r.Post("/{id}/delete", ah.Delete)
			r.Delete("/{id}", ah.Delete)
		})

		r.Route("/bookings", func(r chi.Router) {
			bh := a.Bookings
			r.Get("/", bh.List)
			r.Post("/", bh.Create)
			r.Get("/new", bh.New)
			r.Get("/export.xlsx", bh.Export)
			r.Get("/{id}", bh.Show)
			r.Get("/{id}/edit", bh.Edit)
			r.Post("/{id}", bh.Update)
			r.Put("/{id}", bh.Update)
			r.Post("/{id}/delete", bh.Delete)
			r.Delete("/{id}", bh.Delete)
		})

		r.Route("/factures", func(r chi.Router) {
			ih := a.Invoices
			r.Get("/", ih.List)
			r.Post("/", ih.Create)
			r.Get("/new", ih.New)
			r.Get("/{id}", ih.Show)
			r.Get("/{id}/edit", ih.Edit)
			r.Get("/{id}/pdf", ih.PDF)
			r.Post("/{id}", ih.Update)
			r.Put("/{id}", ih.Update)
			r.Post("/{id}/delete", ih.Delete)
			r.Delete("/{id}", ih.Delete)
		})

		r.Get("/settings", a.Company.Edit)
		r.Post("/settings", a.Company.Update)
		r.Get("/setup", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/settings", http.StatusMovedPermanently)
		})
	})
}
