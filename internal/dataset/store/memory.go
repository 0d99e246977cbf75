package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"ordr/internal/dataset/models"
	"ordr/internal/dataset/query"
	"ordr/internal/refdata"
	"ordr/pkg/platform/sentinel"
)

// InMemory keeps dataset records in a map. It intentionally favors clarity
// over performance; the reference store is consulted for ordering and for the
// category/applicability filter dimensions.
type InMemory struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*models.Dataset
	ref     refdata.Store
}

func NewInMemory(ref refdata.Store) *InMemory {
	return &InMemory{
		records: make(map[uuid.UUID]*models.Dataset),
		ref:     ref,
	}
}

func (s *InMemory) Create(_ context.Context, d *models.Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[d.ID]; ok {
		return sentinel.ErrConflict
	}
	s.records[d.ID] = d.Clone()
	return nil
}

func (s *InMemory) Get(_ context.Context, id uuid.UUID) (*models.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.records[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return d.Clone(), nil
}

func (s *InMemory) Update(_ context.Context, d *models.Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[d.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.records[d.ID] = d.Clone()
	return nil
}

func (s *InMemory) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.records, id)
	return nil
}

// Find applies the filter predicate to every record. The predicate model
// yields each record at most once, so no separate de-duplication step is
// needed.
func (s *InMemory) Find(ctx context.Context, q query.Query) ([]*models.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*models.Dataset, 0)
	for _, d := range s.records {
		if q.Matches(ctx, d, s.ref) {
			matched = append(matched, d.Clone())
		}
	}
	SortRecords(ctx, matched, s.ref)
	return matched, nil
}

// SortRecords orders records by (country name, keydataset code, id) - the
// listing order of the registry. The id tiebreak keeps equal pairs stable.
func SortRecords(ctx context.Context, records []*models.Dataset, ref refdata.Store) {
	name := func(iso2 string) string {
		if c, ok := ref.Country(ctx, iso2); ok {
			return c.Name
		}
		return iso2
	}
	sort.SliceStable(records, func(i, j int) bool {
		ni, nj := name(records[i].CountryISO2), name(records[j].CountryISO2)
		if ni != nj {
			return ni < nj
		}
		if records[i].KeydatasetCode != records[j].KeydatasetCode {
			return records[i].KeydatasetCode < records[j].KeydatasetCode
		}
		return records[i].ID.String() < records[j].ID.String()
	})
}
