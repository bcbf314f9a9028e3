package review

import (
	"log/slog"
	"net/http"

	"github.com/FACorreiaa/go-skopje-guide/internal/api"
	"github.com/FACorreiaa/go-skopje-guide/internal/types"
)

type Handler struct {
	reviewService Service
	logger        *slog.Logger
}

func NewHandler(reviewService Service, logger *slog.Logger) *Handler {
	return &Handler{
		reviewService: reviewService,
		logger:        logger,
	}
}

func (h *Handler) GetReviewsByPlace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	placeID, err := api.IDParam(r, "placeID")
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	page, size := api.PageParams(r)

	result, err := h.reviewService.GetReviewsByPlace(ctx, placeID, page, size)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to get reviews", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to get reviews")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, result)
}

func (h *Handler) GetReviewsByUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := api.IDParam(r, "userID")
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	reviews, err := h.reviewService.GetReviewsByUser(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to get user reviews", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to get user reviews")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, reviews)
}

func (h *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "CreateReview"))

	placeID, err := api.IDParam(r, "placeID")
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var req types.CreateReviewRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	review, err := h.reviewService.CreateReview(ctx, placeID, req)
	if err != nil {
		if types.IsNotFound(err) {
			api.ErrorResponse(w, r, http.StatusNotFound, err.Error())
			return
		}
		l.ErrorContext(ctx, "Failed to create review", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to create review")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, review)
}

func (h *Handler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := api.IDParam(r, "reviewID")
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.reviewService.DeleteReview(ctx, id); err != nil {
		if types.IsNotFound(err) {
			api.ErrorResponse(w, r, http.StatusNotFound, err.Error())
			return
		}
		h.logger.ErrorContext(ctx, "Failed to delete review", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to delete review")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}
