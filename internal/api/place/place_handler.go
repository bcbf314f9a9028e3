package place

import (
	"log/slog"
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-skopje-guide/internal/api"
	"github.com/FACorreiaa/go-skopje-guide/internal/types"
)

type Handler struct {
	placeService Service
	logger       *slog.Logger
}

func NewHandler(placeService Service, logger *slog.Logger) *Handler {
	return &Handler{
		placeService: placeService,
		logger:       logger,
	}
}

// ListPlaces returns a paginated, filterable page of the catalog.
func (h *Handler) ListPlaces(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlaceHandler").Start(r.Context(), "ListPlaces", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/places"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "ListPlaces"))

	page, size := api.PageParams(r)
	filter := types.PlaceFilter{
		Name:     r.URL.Query().Get("name"),
		Page:     page,
		PageSize: size,
		SortBy:   r.URL.Query().Get("sortBy"),
		SortDesc: r.URL.Query().Get("sortDir") == "desc",
	}
	if t := r.URL.Query().Get("type"); t != "" {
		pt := types.PlaceType(t)
		filter.PlaceType = &pt
	}
	if raw := r.URL.Query().Get("minRating"); raw != "" {
		rating, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid minRating")
			return
		}
		filter.MinimumRating = &rating
	}

	result, err := h.placeService.SearchPlaces(ctx, filter)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list places", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list places")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, result)
}

func (h *Handler) GetPlace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetPlace"))

	id, err := api.IDParam(r, "placeID")
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	place, err := h.placeService.GetPlaceDetail(ctx, id)
	if err != nil {
		if types.IsNotFound(err) {
			api.ErrorResponse(w, r, http.StatusNotFound, err.Error())
			return
		}
		l.ErrorContext(ctx, "Failed to get place", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to get place")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, place)
}

func (h *Handler) GetPlacesByType(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	placeType := types.PlaceType(r.URL.Query().Get("type"))
	if placeType == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "type query parameter is required")
		return
	}

	places, err := h.placeService.GetPlacesByType(ctx, placeType)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to get places by type", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to get places by type")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, places)
}

func (h *Handler) GetTopRatedPlaces(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	placeType := types.PlaceType(r.URL.Query().Get("type"))
	if placeType == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "type query parameter is required")
		return
	}
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}

	places, err := h.placeService.GetTopRatedPlacesByType(ctx, placeType, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to get top rated places", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to get top rated places")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, places)
}

func (h *Handler) SearchBySentimentTag(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tag := r.URL.Query().Get("tag")
	if tag == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "tag query parameter is required")
		return
	}

	places, err := h.placeService.SearchPlacesBySentimentTag(ctx, tag)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to search by sentiment tag", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to search places")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, places)
}

func (h *Handler) UpdatePlace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "UpdatePlace"))

	id, err := api.IDParam(r, "placeID")
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var req types.UpdatePlaceRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	place, err := h.placeService.UpdatePlace(ctx, id, req)
	if err != nil {
		if types.IsNotFound(err) {
			api.ErrorResponse(w, r, http.StatusNotFound, err.Error())
			return
		}
		l.ErrorContext(ctx, "Failed to update place", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to update place")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, place)
}

func (h *Handler) DeletePlace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := api.IDParam(r, "placeID")
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.placeService.DeletePlace(ctx, id); err != nil {
		if types.IsNotFound(err) {
			api.ErrorResponse(w, r, http.StatusNotFound, err.Error())
			return
		}
		h.logger.ErrorContext(ctx, "Failed to delete place", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to delete place")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}
