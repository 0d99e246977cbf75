package httptransport

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	"ordr/internal/platform/metrics"
	"ordr/internal/refdata"
	refdatahandler "ordr/internal/refdata/handler"
)

func newTestRouter() http.Handler {
	return NewRouter(Deps{
		Logger:   slog.Default(),
		Metrics:  metrics.NewWith(prometheus.NewRegistry()),
		Handlers: []Registrar{refdatahandler.New(refdata.Seed())},
	})
}

func TestOperationalEndpoints(t *testing.T) {
	router := newTestRouter()

	for _, path := range []string{"/healthz", "/version", "/metrics"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestRouterMountsHandlers(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/countries/NL", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Netherlands")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRouterRecoversFromPanics(t *testing.T) {
	panicky := registrarFunc(func(r chi.Router) {
		r.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })
	})
	router := NewRouter(Deps{Logger: slog.Default(), Handlers: []Registrar{panicky}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

type registrarFunc func(chi.Router)

func (f registrarFunc) Register(r chi.Router) { f(r) }
