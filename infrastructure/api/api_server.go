package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/helixml/hackai-log/application/service"
	"github.com/helixml/hackai-log/infrastructure/api/middleware"
	v1 "github.com/helixml/hackai-log/infrastructure/api/v1"
	"github.com/helixml/hackai-log/infrastructure/markdown"
	mcpinternal "github.com/helixml/hackai-log/internal/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// APIServer serves the diff and chat pipelines over HTTP.
type APIServer struct {
	diffs     *service.Diff
	extractor *service.Extractor
	renderer  markdown.Renderer
	threshold int
	version   string
	server    *Server
	router    chi.Router
	logger    *slog.Logger
}

// APIServerOption configures an APIServer.
type APIServerOption func(*APIServer)

// WithExtractor enables the chat store endpoints.
func WithExtractor(e *service.Extractor) APIServerOption {
	return func(a *APIServer) { a.extractor = e }
}

// WithCharacterThreshold sets the default collapse threshold.
func WithCharacterThreshold(n int) APIServerOption {
	return func(a *APIServer) { a.threshold = n }
}

// WithVersion sets the version reported by the health and MCP endpoints.
func WithVersion(v string) APIServerOption {
	return func(a *APIServer) { a.version = v }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) APIServerOption {
	return func(a *APIServer) { a.logger = l }
}

// NewAPIServer creates a new APIServer over the diff service.
func NewAPIServer(diffs *service.Diff, opts ...APIServerOption) *APIServer {
	a := &APIServer{
		diffs:     diffs,
		renderer:  markdown.NewRenderer(nil),
		threshold: markdown.DefaultCharacterThreshold,
		version:   "dev",
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	return a
}

// mountRoutes wires up the health, v1 and MCP routes on router.
func (a *APIServer) mountRoutes(router chi.Router) {
	router.Get("/healthz", a.health)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(chimiddleware.Timeout(60 * time.Second))

		r.Mount("/diffs", v1.NewDiffsRouter(a.diffs, a.logger).Routes())
		r.Mount("/chats", v1.NewChatsRouter(a.extractor, a.renderer, a.threshold, a.logger).Routes())
		r.Mount("/prompts", v1.NewPromptsRouter(a.extractor, a.logger).Routes())
	})

	// Streaming responses are incompatible with the Timeout middleware.
	var records mcpinternal.RecordExtractor
	if a.extractor != nil {
		records = a.extractor
	}
	mcpSrv := mcpinternal.NewServer(a.diffs, a.renderer, records, a.threshold, a.version, a.logger)
	router.Mount("/mcp", server.NewStreamableHTTPServer(mcpSrv.MCPServer()))
}

func (a *APIServer) health(w http.ResponseWriter, _ *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"status":     "healthy",
		"version":    a.version,
		"chat_store": a.extractor != nil,
	})
}

// ListenAndServe starts the HTTP server on addr and blocks until it stops.
func (a *APIServer) ListenAndServe(addr string) error {
	srv := NewServer(addr, a.logger)
	a.server = &srv
	a.mountRoutes(srv.Router())
	return srv.Start()
}

// Shutdown gracefully shuts down the server.
func (a *APIServer) Shutdown(ctx context.Context) error {
	if a.server == nil {
		return nil
	}
	return a.server.Shutdown(ctx)
}

// Handler returns the fully routed handler for use with custom servers.
func (a *APIServer) Handler() http.Handler {
	if a.router == nil {
		srv := NewServer("", a.logger)
		a.mountRoutes(srv.Router())
		a.router = srv.Router()
	}
	return a.router
}
