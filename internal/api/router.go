package api

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/baharkarakas/shelfhub/internal/api/handlers"
	"github.com/baharkarakas/shelfhub/internal/config"
	"github.com/baharkarakas/shelfhub/internal/metrics"
	"github.com/baharkarakas/shelfhub/internal/middleware"
	"github.com/baharkarakas/shelfhub/internal/models"
	"github.com/baharkarakas/shelfhub/internal/services"
)

type RouterDeps struct {
	Cfg         config.Config
	UserSvc     *services.UserService
	CatalogSvc  *services.CatalogService
	RequestsSvc *services.RequestService
}

func NewRouter(d RouterDeps) http.Handler {
	limits := handlers.Limits{MaxUploadBytes: d.Cfg.MaxUploadMB << 20}
	authH := handlers.NewAuthHandler(d.UserSvc, limits, d.Cfg.SessionCookie, d.Cfg.IsProd())
	booksH := handlers.NewBooksHandler(d.CatalogSvc, limits)
	catsH := handlers.NewCategoriesHandler(d.CatalogSvc, limits)
	reqH := handlers.NewRequestsHandler(d.RequestsSvc, limits)
	session := middleware.NewAuthMiddleware(d.UserSvc, d.Cfg.SessionCookie)
	librarian := middleware.RequireRole(models.RoleLibrarian)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.HTTPMetrics, middleware.RateLimit(d.Cfg.RateRPS))
	// browsers refuse credentials alongside a wildcard origin
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.Cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: !slices.Contains(d.Cfg.CORSOrigins, "*"),
	}))

	// health & metrics
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(session.Session)

		// ---------- auth ----------
		r.Group(func(r chi.Router) {
			r.Use(middleware.RedirectIfAuthenticated)
			r.Post("/auth/register", authH.Register)
			r.Post("/auth/login", authH.Login)
		})
		r.Post("/auth/logout", authH.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser)
			r.Get("/me", authH.Me)
			r.Patch("/me", authH.UpdateMe)
			r.Get("/books/{id}/download", booksH.Download)
			r.Post("/requests/order", reqH.Submit(models.KindOrder))
			r.Post("/requests/send", reqH.Submit(models.KindSend))
		})

		// ---------- catalog ----------
		r.Get("/books", booksH.List)
		r.Get("/books/{id}", booksH.Get)
		r.Get("/categories", catsH.List)
		r.Get("/categories/{id}", catsH.Get)
		r.Get("/categories/{id}/books", booksH.ListByCategory)

		// ---------- librarian ----------
		r.Group(func(r chi.Router) {
			r.Use(librarian)
			r.Post("/books", booksH.Create)
			r.Put("/books/{id}", booksH.Update)
			r.Delete("/books/{id}", booksH.Delete)

			r.Post("/categories", catsH.Create)
			r.Delete("/categories/{id}", catsH.Delete)
			r.Post("/categories/{id}/subcategories", catsH.CreateSub)
			r.Delete("/subcategories/{id}", catsH.DeleteSub)

			for kind, plural := range map[models.RequestKind]string{models.KindOrder: "orders", models.KindSend: "sends"} {
				r.Get("/requests/"+plural, reqH.List(kind))
				r.Get("/requests/"+plural+"/{id}", reqH.Get(kind))
				r.Post("/requests/"+plural+"/{id}/review", reqH.Review(kind))
			}
		})
	})

	return r
}
