// Package http is the HTTP delivery layer of the shortener: the JSON API,
// the token redirect and the stats pages.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/go-playground/validator/v10"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/vadimbarashkov/uriz/pkg/middleware/recoverer"
)

type RouterConfig struct {
	// BaseURL prefixes tokens in short_url. Derived from the request when empty.
	BaseURL string
	// DocsPath is the swagger document served at /docs/swagger.yml.
	DocsPath string
}

func NewRouter(
	logger *httplog.Logger,
	cfg RouterConfig,
	shortenUseCase shortenUseCase,
	redirectUseCase redirectUseCase,
) *chi.Mux {
	if cfg.DocsPath == "" {
		cfg.DocsPath = "./docs/swagger.yml"
	}

	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"POST", "GET", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           84600,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(recoverer.New(logger.Logger))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/swagger.yml"),
	))

	r.Get("/docs/swagger.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, cfg.DocsPath)
	})

	h := newURLHandler(shortenUseCase, redirectUseCase, validator.New(), cfg.BaseURL)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/ping", handlePing)

		r.Route("/shorten", func(r chi.Router) {
			r.Post("/", h.shortenURL)
			r.Get("/{token}/stats", h.getStats)
		})
	})

	r.Get("/{token}", h.redirect)
	r.Get("/{token}/", h.redirect)

	return r
}
