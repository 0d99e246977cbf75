package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordr/internal/refdata"
)

func get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	New(refdata.Seed()).Register(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestReferenceCollections(t *testing.T) {
	cases := map[string]int{
		"/regions":     5,
		"/countries":   5,
		"/perils":      8,
		"/categories":  5,
		"/keydatasets": 7,
	}
	for path, want := range cases {
		t.Run(path, func(t *testing.T) {
			rec := get(t, path)
			require.Equal(t, http.StatusOK, rec.Code)
			var items []json.RawMessage
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
			assert.Len(t, items, want)
		})
	}
}

func TestPerilsAreNames(t *testing.T) {
	rec := get(t, "/perils")
	require.Equal(t, http.StatusOK, rec.Code)
	var names []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &names))
	assert.Contains(t, names, "earthquake")
}

func TestCountryLookup(t *testing.T) {
	rec := get(t, "/countries/it")
	require.Equal(t, http.StatusOK, rec.Code)
	var country refdata.Country
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &country))
	assert.Equal(t, "Italy", country.Name)

	rec = get(t, "/countries/ZZ")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
