package preference

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/FACorreiaa/go-skopje-guide/internal/api"
	"github.com/FACorreiaa/go-skopje-guide/internal/types"
)

type Handler struct {
	preferenceService Service
	logger            *slog.Logger
}

func NewHandler(preferenceService Service, logger *slog.Logger) *Handler {
	return &Handler{
		preferenceService: preferenceService,
		logger:            logger,
	}
}

func (h *Handler) GetPreference(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := api.IDParam(r, "preferenceID")
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.preferenceService.GetPreference(ctx, id)
	if err != nil {
		if types.IsNotFound(err) {
			api.ErrorResponse(w, r, http.StatusNotFound, err.Error())
			return
		}
		h.logger.ErrorContext(ctx, "Failed to get preference", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to get preference")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, p)
}

func (h *Handler) GetPreferencesByUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := api.IDParam(r, "userID")
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	preferences, err := h.preferenceService.GetPreferencesByUser(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list preferences", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list preferences")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, preferences)
}

func (h *Handler) CreatePreference(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "CreatePreference"))

	userID, err := api.IDParam(r, "userID")
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var req types.CreatePreferenceRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.preferenceService.CreatePreference(ctx, userID, req)
	if err != nil {
		if errors.Is(err, types.ErrInvalidPreference) {
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
			return
		}
		if types.IsNotFound(err) {
			api.ErrorResponse(w, r, http.StatusNotFound, err.Error())
			return
		}
		l.ErrorContext(ctx, "Failed to create preference", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to create preference")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, p)
}

func (h *Handler) DeletePreference(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := api.IDParam(r, "preferenceID")
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.preferenceService.DeletePreference(ctx, id); err != nil {
		if types.IsNotFound(err) {
			api.ErrorResponse(w, r, http.StatusNotFound, err.Error())
			return
		}
		h.logger.ErrorContext(ctx, "Failed to delete preference", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to delete preference")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}
