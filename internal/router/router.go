package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"

	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/config"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/handlers"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/mailer"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/metrics"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/middleware"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/models"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/repository"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/service"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/storage"
)

// Deps is everything the router wires together, constructed once at boot and
// passed in explicitly.
type Deps struct {
	Log      zerolog.Logger
	Cfg      config.Config
	Users    repository.UserRepository
	Depts    repository.DepartmentRepository
	Records  map[string]repository.RecordRepository // keyed by Resource.Name
	Pipeline handlers.ArtifactPipeline
	Notifier mailer.Notifier
	Store    storage.ObjectStore
	Metrics  *metrics.Metrics
}

func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestLogger(d.Log))
	r.Use(middleware.Recoverer(d.Log))
	r.Use(d.Metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{d.Cfg.Origin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(httprate.LimitByIP(200, time.Minute))

	r.Get("/healthz", handlers.Health())
	r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())

	auth := middleware.WithAuth(d.Log, d.Cfg, d.Users)
	authSvc := service.NewAuthService(d.Users, d.Cfg.SessionSecret, d.Cfg.SessionTTL)
	ah := handlers.NewAuthHTTP(authSvc)
	uh := handlers.NewUploadHTTP(d.Store, d.Log)

	r.Route("/api", func(r chi.Router) {
		r.Use(auth)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", ah.Register())
			r.Post("/login", ah.Login())
			r.With(middleware.RequireAuth).Get("/me", ah.Me())
		})

		r.With(middleware.RequireAuth).Post("/uploads/signature", uh.Signature())

		for _, res := range handlers.Resources() {
			repo, ok := d.Records[res.Name]
			if !ok {
				continue
			}
			rh := handlers.NewRecordHTTP(res, repo, d.Users, d.Depts, d.Pipeline, d.Notifier, d.Log)
			r.Route("/"+res.Name, func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Get("/", rh.List())
				r.With(middleware.RequireRoles(models.RoleUser, models.RoleManager, models.RoleAdmin)).
					Post("/", rh.Create())
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", rh.Get())
					r.With(middleware.RequireRoles(models.RoleUser, models.RoleManager, models.RoleAdmin)).
						Patch("/", rh.Update())
					r.With(middleware.RequireRoles(models.RoleUser, models.RoleManager, models.RoleAdmin)).
						Post("/render", rh.Render())
					r.With(middleware.RequireRoles(models.RoleManager, models.RoleAdmin)).
						Delete("/", rh.Delete())
				})
			})
		}

		// Admin console: direct CRUD over users and departments.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRoles(models.RoleAdmin))

			auh := handlers.NewAdminUsersHTTP(d.Users)
			r.Route("/users", func(r chi.Router) {
				r.Get("/", auh.List())
				r.Post("/", auh.Create())
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", auh.Get())
					r.Patch("/", auh.Update())
					r.Delete("/", auh.Delete())
				})
			})

			adh := handlers.NewAdminDepartmentsHTTP(d.Depts, d.Users)
			r.Route("/departments", func(r chi.Router) {
				r.Get("/", adh.List())
				r.Post("/", adh.Create())
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", adh.Get())
					r.Patch("/", adh.Update())
					r.Delete("/", adh.Delete())
				})
			})
		})
	})

	return r
}
