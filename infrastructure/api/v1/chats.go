package v1

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/helixml/hackai-log/application/service"
	"github.com/helixml/hackai-log/domain/chat"
	"github.com/helixml/hackai-log/infrastructure/api/middleware"
	"github.com/helixml/hackai-log/infrastructure/markdown"
)

// ChatsRouter handles chat rendering and extraction endpoints.
type ChatsRouter struct {
	extractor *service.Extractor
	renderer  markdown.Renderer
	threshold int
	logger    *slog.Logger
}

// NewChatsRouter creates a new ChatsRouter. extractor may be nil when no
// chat store is configured; the store-backed endpoints then fail with 503.
func NewChatsRouter(extractor *service.Extractor, renderer markdown.Renderer, threshold int, logger *slog.Logger) *ChatsRouter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatsRouter{
		extractor: extractor,
		renderer:  renderer,
		threshold: threshold,
		logger:    logger,
	}
}

// Routes returns the chi router for chat endpoints.
func (r *ChatsRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/markdown", r.Markdown)
	router.Get("/conversation", r.Conversation)

	return router
}

// Markdown handles POST /api/v1/chats/markdown. The body is a formatted
// chat; the response is its Markdown rendering.
func (r *ChatsRouter) Markdown(w http.ResponseWriter, req *http.Request) {
	threshold, err := nonNegativeParam(req, "threshold", r.threshold)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	var c chat.FormattedChat
	if err := json.NewDecoder(http.MaxBytesReader(w, req.Body, maxBodyBytes)).Decode(&c); err != nil {
		middleware.WriteError(w, req, middleware.BadRequest("invalid chat body", err), r.logger)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(r.renderer.Render(c, threshold)))
}

// Conversation handles GET /api/v1/chats/conversation, pairing the stored
// prompts and generations that pass the query filters.
func (r *ChatsRouter) Conversation(w http.ResponseWriter, req *http.Request) {
	if r.extractor == nil {
		middleware.WriteError(w, req, service.ErrNotConfigured, r.logger)
		return
	}
	opts, err := extractionOptions(req)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	c, err := r.extractor.Conversation(req.Context(), opts...)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, c)
}
