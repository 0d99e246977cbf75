package query

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"ordr/internal/dataset/models"
	"ordr/internal/refdata"
)

func record(mod func(*models.Dataset)) *models.Dataset {
	d := &models.Dataset{
		Owner:          "alice",
		CountryISO2:    "NL",
		KeydatasetCode: "CAT1-1",
	}
	if mod != nil {
		mod(d)
	}
	return d
}

func TestFromValues(t *testing.T) {
	values, err := url.ParseQuery("kd=CAT1-1&kd=CAT1-2&country=NL&category=hazard&applicability=earthquake&tag=tsunami&is_reviewed=true")
	assert.NoError(t, err)

	q := FromValues(values)
	assert.Equal(t, []string{"CAT1-1", "CAT1-2"}, q.KD)
	assert.Equal(t, []string{"NL"}, q.Country)
	assert.Equal(t, []string{"hazard"}, q.Category)
	assert.Equal(t, []string{"earthquake"}, q.Applicability)
	assert.Equal(t, []string{"tsunami"}, q.Tag)
	assert.Equal(t, []string{"true"}, q.IsReviewed)
	assert.Empty(t, q.Owner, "owner never comes from the query string")
	assert.False(t, q.IsZero())
	assert.True(t, FromValues(url.Values{}).IsZero())
}

func TestMatches(t *testing.T) {
	ref := refdata.Seed()
	ctx := context.Background()

	tests := []struct {
		name string
		q    Query
		d    *models.Dataset
		want bool
	}{
		{"empty query matches everything", Query{}, record(nil), true},
		{"owner exact match", Query{Owner: "alice"}, record(nil), true},
		{"owner mismatch", Query{Owner: "bob"}, record(nil), false},
		{"kd case-insensitive", Query{KD: []string{"cat1-1"}}, record(nil), true},
		{"kd or-union", Query{KD: []string{"CAT9-9", "CAT1-1"}}, record(nil), true},
		{"kd none match", Query{KD: []string{"CAT9-9"}}, record(nil), false},
		{"country case-insensitive", Query{Country: []string{"nl"}}, record(nil), true},
		{"country mismatch", Query{Country: []string{"IT"}}, record(nil), false},
		{"is_reviewed true", Query{IsReviewed: []string{"true"}},
			record(func(d *models.Dataset) { d.IsReviewed = true }), true},
		{"is_reviewed false excludes reviewed", Query{IsReviewed: []string{"false"}},
			record(func(d *models.Dataset) { d.IsReviewed = true }), false},
		{"is_reviewed garbage matches nothing", Query{IsReviewed: []string{"maybe"}}, record(nil), false},
		{"tag membership", Query{Tag: []string{"tsunami"}},
			record(func(d *models.Dataset) { d.Tags = []string{"TSUNAMI", "drought"} }), true},
		{"tag absent", Query{Tag: []string{"cyclone"}}, record(nil), false},
		{"category matches by name", Query{Category: []string{"Base"}}, record(nil), true},
		{"category mismatch", Query{Category: []string{"hazard"}}, record(nil), false},
		{"applicability via built-in peril", Query{Applicability: []string{"earthquake"}}, record(nil), true},
		{"applicability via record tag", Query{Applicability: []string{"earthquake"}},
			record(func(d *models.Dataset) {
				d.KeydatasetCode = "CAT2-2"
				d.Tags = []string{"earthquake"}
			}), true},
		{"applicability neither peril nor tag", Query{Applicability: []string{"earthquake"}},
			record(func(d *models.Dataset) { d.KeydatasetCode = "CAT2-2" }), false},
		{"parameters are anded", Query{Country: []string{"NL"}, KD: []string{"CAT9-9"}}, record(nil), false},
		{"unknown kd fails only category and applicability",
			Query{Country: []string{"NL"}},
			record(func(d *models.Dataset) { d.KeydatasetCode = "NOPE-1" }), true},
		{"unknown kd fails category", Query{Category: []string{"base"}},
			record(func(d *models.Dataset) { d.KeydatasetCode = "NOPE-1" }), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.q.Matches(ctx, tt.d, ref))
		})
	}
}
