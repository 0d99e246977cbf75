package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"ordr/internal/refdata"
	"ordr/internal/transport/http/shared"
	dErrors "ordr/pkg/domain-errors"
)

type Handler struct {
	ref refdata.Store
}

func New(ref refdata.Store) *Handler {
	return &Handler{ref: ref}
}

// Register registers the public reference-table routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/regions", h.handleRegions)
	r.Get("/countries", h.handleCountries)
	r.Get("/countries/{iso2}", h.handleCountry)
	r.Get("/perils", h.handlePerils)
	r.Get("/categories", h.handleCategories)
	r.Get("/keydatasets", h.handleKeyDatasets)
}

func (h *Handler) handleRegions(w http.ResponseWriter, r *http.Request) {
	shared.WriteJSON(w, http.StatusOK, h.ref.Regions(r.Context()))
}

func (h *Handler) handleCountries(w http.ResponseWriter, r *http.Request) {
	shared.WriteJSON(w, http.StatusOK, h.ref.Countries(r.Context()))
}

func (h *Handler) handleCountry(w http.ResponseWriter, r *http.Request) {
	iso2 := chi.URLParam(r, "iso2")
	country, ok := h.ref.Country(r.Context(), iso2)
	if !ok {
		shared.WriteError(w, dErrors.Newf(dErrors.CodeNotFound, "unknown country %q", iso2))
		return
	}
	shared.WriteJSON(w, http.StatusOK, country)
}

func (h *Handler) handlePerils(w http.ResponseWriter, r *http.Request) {
	perils := h.ref.Perils(r.Context())
	names := make([]string, 0, len(perils))
	for _, p := range perils {
		names = append(names, p.Name)
	}
	shared.WriteJSON(w, http.StatusOK, names)
}

func (h *Handler) handleCategories(w http.ResponseWriter, r *http.Request) {
	shared.WriteJSON(w, http.StatusOK, h.ref.Categories(r.Context()))
}

func (h *Handler) handleKeyDatasets(w http.ResponseWriter, r *http.Request) {
	shared.WriteJSON(w, http.StatusOK, h.ref.KeyDatasets(r.Context()))
}
