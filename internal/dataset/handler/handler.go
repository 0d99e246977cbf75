package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"ordr/internal/dataset/models"
	"ordr/internal/dataset/query"
	"ordr/internal/platform/middleware"
	"ordr/internal/transport/http/shared"
	dErrors "ordr/pkg/domain-errors"
)

// Service defines the dataset operations the handler needs.
type Service interface {
	List(ctx context.Context, q query.Query) ([]*models.Dataset, error)
	ListByOwner(ctx context.Context, owner string, q query.Query) ([]*models.Dataset, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Dataset, error)
	GetOwned(ctx context.Context, owner string, id uuid.UUID) (*models.Dataset, error)
	Create(ctx context.Context, actor string, input *models.Dataset) (*models.Dataset, error)
	UpdateByOwner(ctx context.Context, actor string, id uuid.UUID, input *models.Dataset) (*models.Dataset, error)
	UpdateByReviewer(ctx context.Context, actor string, id uuid.UUID, input *models.Dataset) (*models.Dataset, error)
	DeleteByOwner(ctx context.Context, actor string, id uuid.UUID) error
	DeleteByReviewer(ctx context.Context, actor string, id uuid.UUID) error
}

type Handler struct {
	datasets  Service
	validator middleware.JWTValidator
	logger    *slog.Logger
}

func New(datasets Service, validator middleware.JWTValidator, logger *slog.Logger) *Handler {
	return &Handler{datasets: datasets, validator: validator, logger: logger}
}

// Register registers the dataset routes with the chi router. The public
// collection is read-only; writes go through the owner-scoped profile routes
// or the reviewer-gated record routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/datasets", h.handleList)
	r.Get("/datasets/{id}", h.handleGet)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.validator, h.logger))

		r.Route("/profile/datasets", func(r chi.Router) {
			r.Get("/", h.handleListOwned)
			r.Post("/", h.handleCreate)
			r.Get("/{id}", h.handleGetOwned)
			r.Put("/{id}", h.handleUpdateOwned)
			r.Delete("/{id}", h.handleDeleteOwned)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireReviewer(h.logger))
			r.Put("/datasets/{id}", h.handleUpdateByReviewer)
			r.Delete("/datasets/{id}", h.handleDeleteByReviewer)
		})
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	records, err := h.datasets.List(r.Context(), query.FromValues(r.URL.Query()))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, records)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	d, err := h.datasets.Get(r.Context(), id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, d)
}

func (h *Handler) handleListOwned(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetUsername(r.Context())
	records, err := h.datasets.ListByOwner(r.Context(), owner, query.FromValues(r.URL.Query()))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, records)
}

func (h *Handler) handleGetOwned(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	owner := middleware.GetUsername(r.Context())
	d, err := h.datasets.GetOwned(r.Context(), owner, id)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, d)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeDataset(w, r)
	if !ok {
		return
	}
	actor := middleware.GetUsername(r.Context())
	d, err := h.datasets.Create(r.Context(), actor, input)
	if err != nil {
		h.logger.WarnContext(r.Context(), "dataset create failed",
			"actor", actor,
			"error", err.Error(),
			"request_id", middleware.GetRequestID(r.Context()),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, d)
}

func (h *Handler) handleUpdateOwned(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	input, ok := decodeDataset(w, r)
	if !ok {
		return
	}
	actor := middleware.GetUsername(r.Context())
	d, err := h.datasets.UpdateByOwner(r.Context(), actor, id, input)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, d)
}

func (h *Handler) handleDeleteOwned(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	actor := middleware.GetUsername(r.Context())
	if err := h.datasets.DeleteByOwner(r.Context(), actor, id); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleUpdateByReviewer(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	input, ok := decodeDataset(w, r)
	if !ok {
		return
	}
	actor := middleware.GetUsername(r.Context())
	d, err := h.datasets.UpdateByReviewer(r.Context(), actor, id, input)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, d)
}

func (h *Handler) handleDeleteByReviewer(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	actor := middleware.GetUsername(r.Context())
	if err := h.datasets.DeleteByReviewer(r.Context(), actor, id); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid dataset id"))
		return uuid.Nil, false
	}
	return id, true
}

func decodeDataset(w http.ResponseWriter, r *http.Request) (*models.Dataset, bool) {
	var input models.Dataset
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return nil, false
	}
	return &input, true
}
