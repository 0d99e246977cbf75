package scoring

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordr/internal/dataset/models"
	"ordr/internal/refdata"
)

func TestLoadCountryTreeRetainsBestScore(t *testing.T) {
	ref := refdata.Seed()
	ctx := context.Background()
	country, ok := ref.Country(ctx, "NL")
	require.True(t, ok)

	// 0.30 then 0.60 with full coverage on CAT1-1.
	low := &models.Dataset{CountryISO2: "NL", KeydatasetCode: "CAT1-1", IsOpenLicence: true}
	high := &models.Dataset{
		CountryISO2:    "NL",
		KeydatasetCode: "CAT1-1",
		IsOpenLicence:  true,
		IsAvailForFree: true,
		IsMachineRead:  true,
	}

	for name, records := range map[string][]*models.Dataset{
		"ascending":  {low, high},
		"descending": {high, low},
	} {
		t.Run(name, func(t *testing.T) {
			tree := BuildCountryTree(ctx, records, country, ref)
			cat, ok := tree.Category("CAT1")
			require.True(t, ok)
			assert.Equal(t, 2, cat.Counter, "every folded record counts")

			entry, ok := cat.Best("CAT1-1")
			require.True(t, ok)
			assert.InDelta(t, 0.6, entry.Score, 1e-9)
			assert.Same(t, high, entry.Dataset)
		})
	}
}

func TestLoadCountryTreeTieKeepsFirstSeen(t *testing.T) {
	ref := refdata.Seed()
	ctx := context.Background()
	country, ok := ref.Country(ctx, "NL")
	require.True(t, ok)

	first := &models.Dataset{CountryISO2: "NL", KeydatasetCode: "CAT1-1", IsOpenLicence: true, Notes: "first"}
	second := &models.Dataset{CountryISO2: "NL", KeydatasetCode: "CAT1-1", IsOpenLicence: true, Notes: "second"}

	tree := BuildCountryTree(ctx, []*models.Dataset{first, second}, country, ref)
	cat, _ := tree.Category("CAT1")
	entry, ok := cat.Best("CAT1-1")
	require.True(t, ok)
	assert.Same(t, first, entry.Dataset)
	assert.Equal(t, 2, cat.Counter)
}

func TestBuildWorldTreeSkipsUnknownReferences(t *testing.T) {
	ref := refdata.Seed()
	ctx := context.Background()

	records := []*models.Dataset{
		fullRecord("NL", "CAT1-1"),
		fullRecord("ZZ", "CAT1-1"),
		fullRecord("NL", "NOPE-9"),
	}
	world := BuildWorldTree(ctx, records, ref)

	assert.Equal(t, 1, world.Len())
	tree, ok := world.Country("NL")
	require.True(t, ok)
	cat, ok := tree.Category("CAT1")
	require.True(t, ok)
	assert.Equal(t, 1, cat.Counter)
}

func TestTreePreservesFirstSeenOrder(t *testing.T) {
	ref := refdata.Seed()
	ctx := context.Background()
	country, ok := ref.Country(ctx, "PH")
	require.True(t, ok)

	records := []*models.Dataset{
		fullRecord("PH", "CAT5-1"),
		fullRecord("PH", "CAT1-2"),
		fullRecord("PH", "CAT1-1"),
	}
	tree := BuildCountryTree(ctx, records, country, ref)

	assert.Equal(t, []string{"CAT5", "CAT1"}, tree.Categories())
	cat, _ := tree.Category("CAT1")
	assert.Equal(t, []string{"CAT1-2", "CAT1-1"}, cat.Keydatasets())
}
