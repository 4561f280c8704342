package v1

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/helixml/hackai-log/application/service"
	"github.com/helixml/hackai-log/infrastructure/api/middleware"
	"github.com/helixml/hackai-log/infrastructure/api/v1/dto"
)

// DiffsRouter handles diff processing endpoints.
type DiffsRouter struct {
	diffs  *service.Diff
	logger *slog.Logger
}

// NewDiffsRouter creates a new DiffsRouter.
func NewDiffsRouter(diffs *service.Diff, logger *slog.Logger) *DiffsRouter {
	if logger == nil {
		logger = slog.Default()
	}
	return &DiffsRouter{diffs: diffs, logger: logger}
}

// Routes returns the chi router for diff endpoints.
func (r *DiffsRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", r.Process)

	return router
}

// Process handles POST /api/v1/diffs. The body is a raw unified diff.
// max_hunk_lines and context_lines override the configured limits.
func (r *DiffsRouter) Process(w http.ResponseWriter, req *http.Request) {
	maxHunkLines, err := nonNegativeParam(req, "max_hunk_lines", 0)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	contextLines, err := nonNegativeParam(req, "context_lines", -1)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, req.Body, maxBodyBytes))
	if err != nil {
		middleware.WriteError(w, req, middleware.NewAPIError(http.StatusRequestEntityTooLarge, "diff too large", err), r.logger)
		return
	}

	result := r.diffs.ProcessWithLimits(string(body), maxHunkLines, contextLines)
	r.logger.DebugContext(req.Context(), "processed diff", "hunks", result.Len())
	middleware.WriteJSON(w, http.StatusOK, dto.NewDiffResponse(result))
}
