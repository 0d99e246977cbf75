package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ordr/internal/platform/metrics"
	"ordr/internal/platform/middleware"
	"ordr/internal/transport/http/shared"
	dErrors "ordr/pkg/domain-errors"
)

// Service defines the auth operations the handler needs.
type Service interface {
	Register(ctx context.Context, username, email, password string) (string, error)
	Confirm(ctx context.Context, username, key string) error
	Login(ctx context.Context, username, password string) (string, error)
}

type Handler struct {
	auth    Service
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func New(auth Service, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{auth: auth, logger: logger, metrics: m}
}

// Register registers the auth routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/registration", h.handleRegister)
	r.Get("/registration/confirm", h.handleConfirm)
	r.Post("/auth/login", h.handleLogin)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	key, err := h.auth.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.logger.WarnContext(r.Context(), "registration failed",
			"username", req.Username,
			"error", err.Error(),
			"request_id", middleware.GetRequestID(r.Context()),
		)
		shared.WriteError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.UsersRegistered.Inc()
	}
	// The activation key would normally travel by mail only; it is echoed
	// here because the development setup has no relay configured.
	shared.WriteJSON(w, http.StatusCreated, map[string]string{
		"username":       req.Username,
		"activation_key": key,
	})
}

func (h *Handler) handleConfirm(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	key := r.URL.Query().Get("key")

	if err := h.auth.Confirm(r.Context(), username, key); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	token, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]string{"token": token})
}
