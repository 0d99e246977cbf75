package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordr/internal/dataset/models"
	datasetstore "ordr/internal/dataset/store"
	"ordr/internal/refdata"
	"ordr/internal/scoring"
	scoringservice "ordr/internal/scoring/service"
)

func newRouter(t *testing.T) chi.Router {
	t.Helper()
	ref := refdata.Seed()
	store := datasetstore.NewInMemory(ref)
	require.NoError(t, store.Create(t.Context(), &models.Dataset{
		ID: uuid.New(), Owner: "alice", CountryISO2: "NL", KeydatasetCode: "CAT1-1",
		IsExisting: true, IsDigitalForm: true, IsAvailOnline: true, IsAvailOnlineMeta: true,
		IsBulkAvail: true, IsMachineRead: true, IsPubAvailable: true, IsAvailForFree: true,
		IsOpenLicence: true, IsProvTimely: true,
	}))

	svc, err := scoringservice.New(store, ref)
	require.NoError(t, err)

	r := chi.NewRouter()
	New(svc, slog.Default()).Register(r)
	return r
}

func TestWorldReport(t *testing.T) {
	r := newRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/scoring/world", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var summary scoring.WorldSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.DatasetsCount)
	require.Len(t, summary.Scores, 1)
	assert.Equal(t, "NL", summary.Scores[0].Country)
}

func TestWorldByCategoryReport(t *testing.T) {
	r := newRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/scoring/world/categories", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var matrix [][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &matrix))
	require.Len(t, matrix, 2)
	assert.Equal(t, "country", matrix[0][0])
}

func TestCountryReport(t *testing.T) {
	r := newRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/scoring/country/NL", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var details scoring.CountryDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &details))
	assert.Equal(t, "16.7", details.Score)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/scoring/country/ZZ", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
