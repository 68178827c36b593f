package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/JakeFAU/sheetbridge/internal/bridge"
	"github.com/JakeFAU/sheetbridge/internal/config"
	"github.com/JakeFAU/sheetbridge/internal/metrics"
	"github.com/JakeFAU/sheetbridge/internal/sheet"
	"github.com/JakeFAU/sheetbridge/internal/upload"
)

// Server wires HTTP handlers to the task service, upload spool, and encoders.
type Server struct {
	router   chi.Router
	service  bridge.TaskService
	proxy    *bridge.Proxy
	spool    *upload.Spool
	encoder  *sheet.Encoder
	messages Messages
	cfg      config.Config
	logger   *zap.Logger
}

// NewServer constructs a Server with middleware and routes.
func NewServer(
	service bridge.TaskService,
	spool *upload.Spool,
	cfg config.Config,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		service:  service,
		proxy:    bridge.NewProxy(service, logger.Named("proxy")),
		spool:    spool,
		encoder:  sheet.NewEncoder(cfg.Download.SheetName),
		messages: MessagesFor(cfg.Locale),
		cfg:      cfg,
		logger:   logger,
	}
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(logger))
	r.Use(recoverMiddleware(logger))
	r.Use(metrics.Middleware)
	r.Use(timeoutMiddleware(cfg.RequestTimeout()))

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/upload", s.uploadSheet)
		r.Get("/status/{taskId}", s.getStatus)
		r.Get("/download/{taskId}", s.downloadResult)
		r.Get("/template", s.downloadTemplate)
	})

	if cfg.Server.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(cfg.Server.StaticDir)))
	}

	s.router = r
	return s
}

// Handler returns the Router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, _ *http.Request) {
	// The bridge holds no state; readiness does not probe the task service.
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
