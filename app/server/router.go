// Package server wires the page handlers into the HTTP router.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/softura/inventario/app/catalog"
	"github.com/softura/inventario/app/categories"
	"github.com/softura/inventario/app/products"
	"github.com/softura/inventario/app/web"
	"github.com/softura/inventario/models"
)

type Server struct {
	repo   models.Inventory
	view   *web.Renderer
	logger *slog.Logger
}

func New(repo models.Inventory, view *web.Renderer, l *slog.Logger) *Server {
	if l == nil {
		l = slog.Default()
	}
	return &Server{repo: repo, view: view, logger: l}
}

// Routes returns the router with all routes configured.
func (s *Server) Routes() http.Handler {
	catalogHandler := catalog.NewCatalogHandler(s.repo, s.view, s.logger)
	productsHandler := products.NewProductsHandler(s.repo, s.view, s.logger)
	categoryHandler := categories.NewCategoryHandler(s.repo, s.view, s.logger)

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Get("/", catalogHandler.HandleList)
	r.Get("/buscar", catalogHandler.HandleSearchForm)
	r.Post("/buscar", catalogHandler.HandleSearch)

	r.Get("/crear", productsHandler.HandleCreateForm)
	r.Post("/crear", productsHandler.HandleCreate)
	r.Get("/editar/{id:[0-9]+}", productsHandler.HandleEditForm)
	r.Post("/editar/{id:[0-9]+}", productsHandler.HandleEdit)
	r.Get("/eliminar/{id:[0-9]+}", productsHandler.HandleDeleteConfirm)
	r.Post("/eliminar/{id:[0-9]+}", productsHandler.HandleDelete)

	r.Get("/categorias", categoryHandler.HandleSummary)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.view.Error(w, r, http.StatusNotFound, web.MsgPageNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.view.Error(w, r, http.StatusMethodNotAllowed, "Método no permitido")
	})

	return r
}

// requestLogger logs one line per request once it has been served.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			s.logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := s.repo.Ping(r.Context()); err != nil {
		s.logger.Warn("health check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("unavailable\n"))
		return
	}
	_, _ = w.Write([]byte("ok\n"))
}
