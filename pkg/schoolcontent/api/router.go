// Package api exposes the school content service over HTTP: public read
// endpoints per content kind, authenticated admin write endpoints, media
// uploads and Web Push subscriptions.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth"
	"github.com/go-chi/render"

	"github.com/sekolahkita/school-content/pkg/schoolcontent"
	"github.com/sekolahkita/school-content/pkg/schoolcontent/push"
)

// RouterConfig carries the collaborators and settings the router needs.
type RouterConfig struct {
	Service  schoolcontent.Service
	Store    schoolcontent.BlobStore
	Notifier *push.Notifier

	AdminAuth      *jwtauth.JWTAuth
	VAPIDPublicKey string

	// Development enables permissive CORS for local frontends.
	Development bool
}

// NewRouter assembles the full HTTP surface of the service.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	if cfg.Development {
		r.Use(devCORS)
	}

	r.Get("/health", handleHealth)

	contentHandler := NewContentHandler(cfg.Service)
	adminHandler := NewAdminHandler(cfg.Service)
	filesHandler := NewFilesHandler(cfg.Store)
	pushHandler := NewPushHandler(cfg.Service, cfg.Notifier, cfg.VAPIDPublicKey)

	r.Route("/api", func(r chi.Router) {
		contentHandler.Register(r)
		r.Mount("/push", pushHandler.Routes())

		// Per-kind write endpoints share the public paths but require an
		// admin session.
		r.Group(func(r chi.Router) {
			r.Use(AdminVerifier(cfg.AdminAuth))
			r.Use(RequireAdmin)

			for _, kp := range kindPaths {
				adminHandler.KindRoutes(r, kp.Path, kp.Kind)
			}
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(AdminVerifier(cfg.AdminAuth))
			r.Use(RequireAdmin)

			r.Mount("/", adminHandler.Routes())
			r.Mount("/upload", filesHandler.Routes())
			r.Post("/push/send", pushHandler.Broadcast)
		})
	})

	// Direct object streaming for backends without a public URL prefix.
	r.Get("/uploads/*", filesHandler.DownloadFile)

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

func devCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
