package enrichment

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/FACorreiaa/go-skopje-guide/internal/api"
	"github.com/FACorreiaa/go-skopje-guide/internal/types"
)

type Handler struct {
	enrichmentService Service
	logger            *slog.Logger
}

func NewHandler(enrichmentService Service, logger *slog.Logger) *Handler {
	return &Handler{
		enrichmentService: enrichmentService,
		logger:            logger,
	}
}

// EnrichPlace regenerates the description (and sentiment tag, where
// applicable) for one place on demand.
func (h *Handler) EnrichPlace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "EnrichPlace"))

	placeID, err := api.IDParam(r, "placeID")
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.enrichmentService.EnrichPlace(ctx, placeID)
	if err != nil {
		if types.IsNotFound(err) {
			api.ErrorResponse(w, r, http.StatusNotFound, err.Error())
			return
		}
		l.ErrorContext(ctx, "Failed to enrich place", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadGateway, "Failed to enrich place")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, p)
}

type batchResult struct {
	Enriched int `json:"enriched"`
}

// EnrichPending triggers a batch run manually, ahead of the scheduler.
func (h *Handler) EnrichPending(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "EnrichPending"))

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}

	enriched, err := h.enrichmentService.EnrichPending(ctx, limit)
	if err != nil {
		l.ErrorContext(ctx, "Batch enrichment failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadGateway, "Batch enrichment failed")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, batchResult{Enriched: enriched})
}
