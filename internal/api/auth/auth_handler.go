package auth

import (
	"errors"
	"log/slog"
	"net/http"

	appMiddleware "github.com/FACorreiaa/go-skopje-guide/app/middleware"
	"github.com/FACorreiaa/go-skopje-guide/internal/api"
	"github.com/FACorreiaa/go-skopje-guide/internal/types"
)

type Handler struct {
	authService Service
	logger      *slog.Logger
}

func NewHandler(authService Service, logger *slog.Logger) *Handler {
	return &Handler{
		authService: authService,
		logger:      logger,
	}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Register"))

	var req types.RegisterRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.authService.Register(ctx, req)
	if err != nil {
		if errors.Is(err, ErrDuplicateAccount) {
			api.ErrorResponse(w, r, http.StatusConflict, err.Error())
			return
		}
		l.ErrorContext(ctx, "Registration failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, resp)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Login"))

	var req types.LoginRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.authService.Login(ctx, req)
	if err != nil {
		if IsCredentialError(err) {
			api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		l.ErrorContext(ctx, "Login failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Login failed")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Refresh"))

	var req types.RefreshRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.authService.Refresh(ctx, req.RefreshToken)
	if err != nil {
		if IsCredentialError(err) {
			api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid refresh token")
			return
		}
		l.ErrorContext(ctx, "Token refresh failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Token refresh failed")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := appMiddleware.UserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Not authenticated")
		return
	}

	if err := h.authService.Logout(ctx, userID); err != nil {
		h.logger.ErrorContext(ctx, "Logout failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Logout failed")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := appMiddleware.UserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Not authenticated")
		return
	}

	u, err := h.authService.GetProfile(ctx, userID)
	if err != nil {
		if types.IsNotFound(err) {
			api.ErrorResponse(w, r, http.StatusNotFound, err.Error())
			return
		}
		h.logger.ErrorContext(ctx, "Failed to load profile", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to load profile")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, u)
}
