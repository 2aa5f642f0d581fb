package rest

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi"
	"github.com/treyfatech/sitecms/internal"
	"github.com/treyfatech/sitecms/internal/auth"
	"github.com/treyfatech/sitecms/internal/blog"
	"github.com/treyfatech/sitecms/internal/collection"
	"github.com/treyfatech/sitecms/internal/consultation"
	"github.com/treyfatech/sitecms/internal/sitedata"
	"github.com/treyfatech/sitecms/internal/transport"
	"github.com/treyfatech/sitecms/internal/transport/middleware"
	"github.com/treyfatech/sitecms/internal/transport/swagger"
	"github.com/treyfatech/sitecms/internal/upload"
	"github.com/treyfatech/sitecms/internal/user"
)

// Handlers bundles every mounted handler for route registration.
type Handlers struct {
	Auth         *auth.Handler
	User         *user.Handler
	Consultation *consultation.Handler
	Blog         *blog.Handler
	SiteData     *sitedata.Handler
	Portfolio    *collection.Handler
	Gallery      *collection.Handler
	Upload       *upload.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, cfg *internal.Config, h Handlers, logger *slog.Logger) {
	transport.Init(cfg.IsProduction())

	healthHandler := NewHealthHandler(db, cfg.App.Environment)
	rbac := auth.NewRBACAuthorization(logger)

	router.Use(middleware.CORS(strings.Split(cfg.Server.AllowedOrigins, ",")))
	router.Use(middleware.RequestID)
	router.Use(middleware.Recovery(logger, cfg.IsProduction()))
	router.Use(middleware.Logging(logger))

	// OpenAPI spec and swagger UI live outside the API prefix
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	// Uploaded files are served straight off disk
	uploadDir := strings.TrimSuffix(cfg.Upload.Dir, "/")
	fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadDir)))
	router.Get("/uploads/*", fileServer.ServeHTTP)

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.Post("/logout", h.Auth.Logout)
			sr.With(h.Auth.AuthMiddleware).Get("/me", h.Auth.Me)
		})

		// User administration is admin only
		r.Route("/users", func(sr chi.Router) {
			sr.Use(h.Auth.AuthMiddleware)
			sr.Get("/me", h.Auth.Me)

			sr.Group(func(ar chi.Router) {
				ar.Use(rbac.RequireAdmin())
				ar.Get("/", h.User.ListUsers)
				ar.Post("/", h.User.CreateUser)
				ar.Put("/{id}", h.User.UpdateUser)
				ar.Delete("/{id}", h.User.DeleteUser)
			})
		})

		r.Route("/consultations", func(sr chi.Router) {
			// Public submission form
			sr.Post("/", h.Consultation.CreateConsultation)

			sr.Group(func(pr chi.Router) {
				pr.Use(h.Auth.AuthMiddleware)
				pr.Get("/", h.Consultation.ListConsultations)
				pr.Get("/stats", h.Consultation.GetStats)
				pr.Get("/{id}", h.Consultation.GetConsultation)
				pr.Put("/{id}/status", h.Consultation.UpdateStatus)
				pr.Post("/{id}/followups", h.Consultation.AddFollowUp)
				pr.Put("/{id}/followups/{followupId}", h.Consultation.UpdateFollowUp)
			})
		})

		r.Route("/blog", func(sr chi.Router) {
			sr.Get("/", h.Blog.ListPosts)
			sr.Get("/meta/categories", h.Blog.GetCategories)
			sr.Get("/meta/tags", h.Blog.GetTags)
			sr.Get("/{id}", h.Blog.GetPost)

			sr.Group(func(pr chi.Router) {
				pr.Use(h.Auth.AuthMiddleware)
				pr.Post("/", h.Blog.CreatePost)
				pr.Put("/{id}", h.Blog.UpdatePost)
				pr.Delete("/{id}", h.Blog.DeletePost)
			})
		})

		r.Route("/site-data", func(sr chi.Router) {
			sr.Get("/", h.SiteData.GetAll)
			sr.Get("/{section}", h.SiteData.GetSection)

			sr.Group(func(pr chi.Router) {
				pr.Use(h.Auth.AuthMiddleware)
				pr.Put("/{section}", h.SiteData.UpdateSection)
				pr.Post("/initialize", h.SiteData.Initialize)
			})
		})

		registerCollection(r, "/portfolio", h.Auth, h.Portfolio)
		registerCollection(r, "/gallery", h.Auth, h.Gallery)

		r.Route("/upload", func(sr chi.Router) {
			sr.Use(h.Auth.AuthMiddleware)
			sr.Post("/single", h.Upload.UploadSingle)
			sr.Post("/multiple", h.Upload.UploadMultiple)
			sr.Get("/{category}", h.Upload.ListFiles)
			sr.Delete("/{category}/{filename}", h.Upload.DeleteFile)
		})
	})
}

func registerCollection(r chi.Router, pattern string, authHandler *auth.Handler, h *collection.Handler) {
	r.Route(pattern, func(sr chi.Router) {
		sr.Get("/", h.ListItems)

		sr.Group(func(pr chi.Router) {
			pr.Use(authHandler.AuthMiddleware)
			pr.Post("/", h.AddItem)
			pr.Put("/{id}", h.UpdateItem)
			pr.Delete("/{id}", h.DeleteItem)
		})
	})
}
