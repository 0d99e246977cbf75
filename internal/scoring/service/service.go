// Package service exposes the scoring reports over the dataset store: each
// call reads a snapshot of the filtered records, builds the ephemeral score
// tree and assembles the response. No cross-request state beyond the optional
// report cache.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"ordr/internal/dataset/query"
	datasetstore "ordr/internal/dataset/store"
	"ordr/internal/platform/metrics"
	"ordr/internal/refdata"
	"ordr/internal/scoring"
	"ordr/internal/scoring/cache"
	dErrors "ordr/pkg/domain-errors"
)

type Service struct {
	store   datasetstore.Store
	ref     refdata.Store
	cache   *cache.ReportCache
	metrics *metrics.Metrics
	logger  *slog.Logger
	tracer  trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithCache(c *cache.ReportCache) Option {
	return func(s *Service) { s.cache = c }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(store datasetstore.Store, ref refdata.Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("dataset store is required")
	}
	if ref == nil {
		return nil, fmt.Errorf("reference store is required")
	}
	svc := &Service{
		store:  store,
		ref:    ref,
		logger: slog.Default(),
		tracer: otel.Tracer("ordr/scoring"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// WorldSummary reports every country holding submissions with its aggregate
// score. Only the applicability and category parameters filter this view.
func (s *Service) WorldSummary(ctx context.Context, q query.Query) (*scoring.WorldSummary, error) {
	ctx, span := s.tracer.Start(ctx, "scoring.WorldSummary")
	defer span.End()

	q = query.Query{Applicability: q.Applicability, Category: q.Category}
	key := cacheKey("world", "", q)

	var cached scoring.WorldSummary
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	records, err := s.store.Find(ctx, q)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load dataset records")
	}

	summary := scoring.AssembleWorldSummary(ctx, records, s.ref)
	s.cache.Set(ctx, key, summary)
	s.countReport("world")
	return summary, nil
}

// CountryDetails reports one country's score and its best dataset per
// keydataset. Unknown country codes fail with not-found before any tree is
// built.
func (s *Service) CountryDetails(ctx context.Context, iso2 string, q query.Query) (*scoring.CountryDetails, error) {
	ctx, span := s.tracer.Start(ctx, "scoring.CountryDetails")
	defer span.End()

	country, ok := s.ref.Country(ctx, iso2)
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "unknown country %q", iso2)
	}

	q = query.Query{
		Country:       []string{country.ISO2},
		Applicability: q.Applicability,
		Category:      q.Category,
	}
	key := cacheKey("country", country.ISO2, q)

	var cached scoring.CountryDetails
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	records, err := s.store.Find(ctx, q)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load dataset records")
	}

	details := scoring.AssembleCountryDetails(ctx, records, country, s.ref)
	s.cache.Set(ctx, key, details)
	s.countReport("country")
	return details, nil
}

// WorldByCategory reports the per-country per-category score matrix. Only the
// applicability parameter filters this view.
func (s *Service) WorldByCategory(ctx context.Context, q query.Query) ([][]string, error) {
	ctx, span := s.tracer.Start(ctx, "scoring.WorldByCategory")
	defer span.End()

	q = query.Query{Applicability: q.Applicability}
	key := cacheKey("world_categories", "", q)

	var cached [][]string
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	records, err := s.store.Find(ctx, q)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load dataset records")
	}

	matrix := scoring.AssembleWorldByCategory(ctx, records, s.ref)
	s.cache.Set(ctx, key, matrix)
	s.countReport("world_categories")
	return matrix, nil
}

func (s *Service) countReport(kind string) {
	if s.metrics != nil {
		s.metrics.ReportsBuilt.WithLabelValues(kind).Inc()
	}
}

// cacheKey canonicalizes the filter parameters so equivalent queries share a
// cache entry regardless of value order.
func cacheKey(report, subject string, q query.Query) string {
	values := url.Values{}
	add := func(name string, list []string) {
		if len(list) == 0 {
			return
		}
		sorted := make([]string, len(list))
		for i, v := range list {
			sorted[i] = strings.ToLower(v)
		}
		sort.Strings(sorted)
		values[name] = sorted
	}
	add("applicability", q.Applicability)
	add("category", q.Category)
	return "scoring:" + report + ":" + subject + ":" + values.Encode()
}
