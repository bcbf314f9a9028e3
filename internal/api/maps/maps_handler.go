package maps

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/FACorreiaa/go-skopje-guide/internal/api"
	"github.com/FACorreiaa/go-skopje-guide/internal/types"
)

type Handler struct {
	ingestionService IngestionService
	logger           *slog.Logger
}

func NewHandler(ingestionService IngestionService, logger *slog.Logger) *Handler {
	return &Handler{
		ingestionService: ingestionService,
		logger:           logger,
	}
}

type ingestResult struct {
	Stored int `json:"stored"`
}

// IngestAll refreshes the whole catalog from the maps provider. Admin only;
// the call is synchronous and can take minutes on a cold catalog.
func (h *Handler) IngestAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "IngestAll"))

	stored, err := h.ingestionService.IngestAll(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Full ingestion failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadGateway, "Ingestion from maps provider failed")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, ingestResult{Stored: stored})
}

func (h *Handler) IngestCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "IngestCategory"))

	category := types.PlaceType(chi.URLParam(r, "category"))
	if _, ok := ingestibleCategories[category]; !ok {
		api.ErrorResponse(w, r, http.StatusBadRequest, "unknown or non-ingestible category")
		return
	}

	stored, err := h.ingestionService.IngestCategory(ctx, category)
	if err != nil {
		l.ErrorContext(ctx, "Category ingestion failed",
			slog.String("category", string(category)), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadGateway, "Ingestion from maps provider failed")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, ingestResult{Stored: stored})
}
