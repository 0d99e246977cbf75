package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordr/internal/dataset/models"
	"ordr/internal/dataset/query"
	"ordr/internal/refdata"
	"ordr/pkg/platform/sentinel"
)

func newRecord(owner, iso2, kd string) *models.Dataset {
	return &models.Dataset{
		ID:             uuid.New(),
		Owner:          owner,
		CountryISO2:    iso2,
		KeydatasetCode: kd,
	}
}

func TestInMemoryCRUD(t *testing.T) {
	s := NewInMemory(refdata.Seed())
	ctx := context.Background()

	d := newRecord("alice", "NL", "CAT1-1")
	require.NoError(t, s.Create(ctx, d))
	assert.ErrorIs(t, s.Create(ctx, d), sentinel.ErrConflict)

	got, err := s.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, d.ID, got.ID)
	assert.NotSame(t, d, got, "store hands out copies")

	got.Notes = "edited"
	require.NoError(t, s.Update(ctx, got))
	again, err := s.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", again.Notes)

	require.NoError(t, s.Delete(ctx, d.ID))
	_, err = s.Get(ctx, d.ID)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, d.ID), sentinel.ErrNotFound)
	assert.ErrorIs(t, s.Update(ctx, d), sentinel.ErrNotFound)
}

func TestInMemoryFindFiltersAndOrders(t *testing.T) {
	s := NewInMemory(refdata.Seed())
	ctx := context.Background()

	nl := newRecord("alice", "NL", "CAT1-2")
	nl2 := newRecord("bob", "NL", "CAT1-1")
	it := newRecord("alice", "IT", "CAT2-1")
	for _, d := range []*models.Dataset{nl, nl2, it} {
		require.NoError(t, s.Create(ctx, d))
	}

	all, err := s.Find(ctx, query.Query{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Ordered by country name then keydataset code: Italy, Netherlands.
	assert.Equal(t, "IT", all[0].CountryISO2)
	assert.Equal(t, "CAT1-1", all[1].KeydatasetCode)
	assert.Equal(t, "CAT1-2", all[2].KeydatasetCode)

	owned, err := s.Find(ctx, query.Query{Owner: "alice"})
	require.NoError(t, err)
	assert.Len(t, owned, 2)

	hazard, err := s.Find(ctx, query.Query{Category: []string{"hazard"}})
	require.NoError(t, err)
	require.Len(t, hazard, 1)
	assert.Equal(t, it.ID, hazard[0].ID)
}
