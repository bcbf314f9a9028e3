package tour

import (
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	appMiddleware "github.com/FACorreiaa/go-skopje-guide/app/middleware"
	"github.com/FACorreiaa/go-skopje-guide/internal/api"
	"github.com/FACorreiaa/go-skopje-guide/internal/types"
)

type Handler struct {
	tourService Service
	logger      *slog.Logger
}

func NewHandler(tourService Service, logger *slog.Logger) *Handler {
	return &Handler{
		tourService: tourService,
		logger:      logger,
	}
}

func (h *Handler) writeTourError(w http.ResponseWriter, r *http.Request, err error, l *slog.Logger, fallbackMessage string) {
	switch {
	case errors.Is(err, types.ErrInvalidPreference):
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
	case types.IsNotFound(err):
		api.ErrorResponse(w, r, http.StatusNotFound, err.Error())
	default:
		l.ErrorContext(r.Context(), fallbackMessage, slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, fallbackMessage)
	}
}

func (h *Handler) CreateTour(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TourHandler").Start(r.Context(), "CreateTour", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/tours"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "CreateTour"))

	var req types.CreateTourRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.UserID == 0 {
		if userID, ok := appMiddleware.UserIDFromContext(ctx); ok {
			req.UserID = userID
		}
	}

	t, err := h.tourService.CreateTour(ctx, req)
	if err != nil {
		span.RecordError(err)
		h.writeTourError(w, r, err, l, "Failed to create tour")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, t)
}

func (h *Handler) GetTour(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetTour"))

	id, err := api.IDParam(r, "tourID")
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	t, err := h.tourService.GetTour(ctx, id)
	if err != nil {
		h.writeTourError(w, r, err, l, "Failed to get tour")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, t)
}

func (h *Handler) GetToursByUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetToursByUser"))

	userID, err := api.IDParam(r, "userID")
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	tours, err := h.tourService.GetToursByUser(ctx, userID)
	if err != nil {
		h.writeTourError(w, r, err, l, "Failed to list tours")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, tours)
}

func (h *Handler) GetToursByPreference(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetToursByPreference"))

	preferenceID, err := api.IDParam(r, "preferenceID")
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	tours, err := h.tourService.GetToursByPreference(ctx, preferenceID)
	if err != nil {
		h.writeTourError(w, r, err, l, "Failed to list tours")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, tours)
}

func (h *Handler) SearchTours(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "SearchTours"))

	title := r.URL.Query().Get("title")
	if title == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "title query parameter is required")
		return
	}

	tours, err := h.tourService.SearchToursByTitle(ctx, title)
	if err != nil {
		h.writeTourError(w, r, err, l, "Failed to search tours")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, tours)
}

func (h *Handler) UpdateTour(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "UpdateTour"))

	id, err := api.IDParam(r, "tourID")
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var req types.UpdateTourRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	t, err := h.tourService.UpdateTour(ctx, id, req)
	if err != nil {
		h.writeTourError(w, r, err, l, "Failed to update tour")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, t)
}

func (h *Handler) RegenerateTour(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "RegenerateTour"))

	id, err := api.IDParam(r, "tourID")
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	t, err := h.tourService.RegenerateTour(ctx, id)
	if err != nil {
		h.writeTourError(w, r, err, l, "Failed to regenerate tour")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, t)
}

func (h *Handler) AddPlaceToTour(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "AddPlaceToTour"))

	tourID, err := api.IDParam(r, "tourID")
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	placeID, err := api.IDParam(r, "placeID")
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	t, err := h.tourService.AddPlaceToTour(ctx, tourID, placeID)
	if err != nil {
		h.writeTourError(w, r, err, l, "Failed to add place to tour")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, t)
}

func (h *Handler) RemovePlaceFromTour(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "RemovePlaceFromTour"))

	tourID, err := api.IDParam(r, "tourID")
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	placeID, err := api.IDParam(r, "placeID")
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	t, err := h.tourService.RemovePlaceFromTour(ctx, tourID, placeID)
	if err != nil {
		h.writeTourError(w, r, err, l, "Failed to remove place from tour")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, t)
}

func (h *Handler) DeleteTour(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "DeleteTour"))

	id, err := api.IDParam(r, "tourID")
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.tourService.DeleteTour(ctx, id); err != nil {
		h.writeTourError(w, r, err, l, "Failed to delete tour")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}
