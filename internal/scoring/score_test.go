package scoring

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordr/internal/dataset/models"
	"ordr/internal/refdata"
)

// fullRecord is a submission with every openness criterion satisfied.
func fullRecord(iso2, kd string) *models.Dataset {
	return &models.Dataset{
		CountryISO2:       iso2,
		KeydatasetCode:    kd,
		IsExisting:        true,
		IsDigitalForm:     true,
		IsAvailOnline:     true,
		IsAvailOnlineMeta: true,
		IsBulkAvail:       true,
		IsMachineRead:     true,
		IsPubAvailable:    true,
		IsAvailForFree:    true,
		IsOpenLicence:     true,
		IsProvTimely:      true,
	}
}

func TestCriterionWeightsSumToOne(t *testing.T) {
	sum := 0.0
	for _, w := range criterionWeights {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.Len(t, criterionWeights, len(models.Criteria))
}

func TestDatasetScore(t *testing.T) {
	ref := refdata.Seed()
	ctx := context.Background()
	kd, ok := ref.KeyDataset(ctx, "CAT1-1")
	require.True(t, ok)

	nl := map[string]struct{}{"river_flood": {}, "coastal_flood": {}}

	t.Run("all criteria and full coverage give a perfect score", func(t *testing.T) {
		d := fullRecord("NL", "CAT1-1")
		assert.InDelta(t, 1.0, DatasetScore(d, kd, nl), 1e-9)
		assert.Equal(t, "100.0", FormatScore(DatasetScore(d, kd, nl)))
	})

	t.Run("no criteria give zero", func(t *testing.T) {
		d := &models.Dataset{CountryISO2: "NL", KeydatasetCode: "CAT1-1"}
		assert.Zero(t, DatasetScore(d, kd, nl))
	})

	t.Run("empty applicability gives zero instead of dividing", func(t *testing.T) {
		d := fullRecord("NL", "CAT1-1")
		assert.Zero(t, DatasetScore(d, kd, map[string]struct{}{}))
	})

	t.Run("coverage discounts by matched perils over the country set", func(t *testing.T) {
		seismic, ok := ref.KeyDataset(ctx, "CAT2-1")
		require.True(t, ok)

		// CAT2-1 only carries earthquake, which is not relevant to NL.
		d := fullRecord("NL", "CAT2-1")
		assert.Zero(t, DatasetScore(d, seismic, nl))

		// A river_flood tag extends the coverage to 1 of 2 perils.
		d.Tags = []string{"river_flood"}
		assert.InDelta(t, 0.5, DatasetScore(d, seismic, nl), 1e-9)
	})

	t.Run("tags overlapping built-in perils are not double counted", func(t *testing.T) {
		d := fullRecord("NL", "CAT1-1")
		d.Tags = []string{"river_flood", "coastal_flood"}
		assert.InDelta(t, 1.0, DatasetScore(d, kd, nl), 1e-9)
	})
}

func TestCategoryScore(t *testing.T) {
	ref := refdata.Seed()
	ctx := context.Background()
	country, ok := ref.Country(ctx, "NL")
	require.True(t, ok)

	low := &models.Dataset{CountryISO2: "NL", KeydatasetCode: "CAT1-1", IsOpenLicence: true}
	high := fullRecord("NL", "CAT1-2")

	tree := BuildCountryTree(ctx, []*models.Dataset{low, high}, country, ref)

	assert.InDelta(t, 1.0, CategoryScore(tree, "CAT1"), 1e-9)
	assert.Zero(t, CategoryScore(tree, "CAT5"), "absent category scores zero")
}

func TestCountryScoreWeightedAverage(t *testing.T) {
	ctx := context.Background()
	ref := refdata.NewInMemory(
		nil,
		[]refdata.Country{{ISO2: "XX", Name: "Testland", ThinkHazardAppl: []string{"earthquake"}}},
		[]refdata.Category{
			{ID: 1, Code: "A", Name: "alpha", Weight: 1},
			{ID: 2, Code: "B", Name: "beta", Weight: 1},
		},
		[]refdata.Peril{{Name: "earthquake"}},
		[]refdata.KeyDataset{
			{Code: "A-1", CategoryCode: "A", Applicability: []string{"earthquake"}},
			{Code: "B-1", CategoryCode: "B", Applicability: []string{"earthquake"}},
		},
	)
	country, ok := ref.Country(ctx, "XX")
	require.True(t, ok)

	// 0.30+0.15+0.15+0.10+0.05+0.05 = 0.8 with full coverage.
	d := &models.Dataset{
		CountryISO2:    "XX",
		KeydatasetCode: "A-1",
		IsOpenLicence:  true,
		IsAvailForFree: true,
		IsMachineRead:  true,
		IsBulkAvail:    true,
		IsExisting:     true,
		IsDigitalForm:  true,
	}
	tree := BuildCountryTree(ctx, []*models.Dataset{d}, country, ref)

	// Category B has no submissions: its weight stays in the denominator.
	score := CountryScore(ctx, tree, ref)
	assert.InDelta(t, 0.4, score, 1e-9)
	assert.Equal(t, "40.0", FormatScore(score))
}

func TestCountryScoreEmptyWeightSum(t *testing.T) {
	ctx := context.Background()
	ref := refdata.NewInMemory(nil, nil, nil, nil, nil)
	assert.Zero(t, CountryScore(ctx, NewCountryTree(), ref))
}

func TestFormatScore(t *testing.T) {
	assert.Equal(t, "100.0", FormatScore(1))
	assert.Equal(t, "0.0", FormatScore(0))
	assert.Equal(t, "16.7", FormatScore(1.0/6.0))
	assert.Equal(t, "-100.0", FormatScore(noScore))
}
