package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ordr/internal/dataset/query"
	"ordr/internal/scoring"
	"ordr/internal/transport/http/shared"
)

// Service defines the report operations the handler needs.
type Service interface {
	WorldSummary(ctx context.Context, q query.Query) (*scoring.WorldSummary, error)
	CountryDetails(ctx context.Context, iso2 string, q query.Query) (*scoring.CountryDetails, error)
	WorldByCategory(ctx context.Context, q query.Query) ([][]string, error)
}

type Handler struct {
	reports Service
	logger  *slog.Logger
}

func New(reports Service, logger *slog.Logger) *Handler {
	return &Handler{reports: reports, logger: logger}
}

// Register registers the public scoring report routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/scoring/world", h.handleWorld)
	r.Get("/scoring/world/categories", h.handleWorldByCategory)
	r.Get("/scoring/country/{iso2}", h.handleCountry)
}

func (h *Handler) handleWorld(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reports.WorldSummary(r.Context(), query.FromValues(r.URL.Query()))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) handleWorldByCategory(w http.ResponseWriter, r *http.Request) {
	matrix, err := h.reports.WorldByCategory(r.Context(), query.FromValues(r.URL.Query()))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, matrix)
}

func (h *Handler) handleCountry(w http.ResponseWriter, r *http.Request) {
	iso2 := chi.URLParam(r, "iso2")
	details, err := h.reports.CountryDetails(r.Context(), iso2, query.FromValues(r.URL.Query()))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, details)
}
