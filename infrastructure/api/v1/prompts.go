package v1

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/helixml/hackai-log/application/service"
	"github.com/helixml/hackai-log/infrastructure/api/middleware"
)

// PromptsRouter exposes the stored prompt records.
type PromptsRouter struct {
	extractor *service.Extractor
	logger    *slog.Logger
}

// NewPromptsRouter creates a new PromptsRouter. extractor may be nil.
func NewPromptsRouter(extractor *service.Extractor, logger *slog.Logger) *PromptsRouter {
	if logger == nil {
		logger = slog.Default()
	}
	return &PromptsRouter{extractor: extractor, logger: logger}
}

// Routes returns the chi router for prompt endpoints.
func (r *PromptsRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", r.List)

	return router
}

// List handles GET /api/v1/prompts. Records are returned as stored.
func (r *PromptsRouter) List(w http.ResponseWriter, req *http.Request) {
	if r.extractor == nil {
		middleware.WriteError(w, req, service.ErrNotConfigured, r.logger)
		return
	}
	opts, err := extractionOptions(req)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	docs, err := r.extractor.ExtractRecords(req.Context(), service.PromptsKey, opts...)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, docs)
}
