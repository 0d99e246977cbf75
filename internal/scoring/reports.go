package scoring

import (
	"context"

	"ordr/internal/dataset/models"
	"ordr/internal/refdata"
)

// CountryScoreEntry is one country's formatted score in the world summary.
type CountryScoreEntry struct {
	Country string `json:"country"`
	Score   string `json:"score"`
}

// CategoryCounter reports how many submissions exist for a category.
type CategoryCounter struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// PerilCounter is a per-peril entry in the summary reports.
type PerilCounter struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// WorldSummary lists every country holding submissions with its aggregate
// score, plus world-wide submission counters.
type WorldSummary struct {
	Scores             []CountryScoreEntry `json:"scores"`
	DatasetsCount      int                 `json:"datasets_count"`
	CountriesCount     int                 `json:"countries_count"`
	CategoriesCounters []CategoryCounter   `json:"categories_counters"`
	PerilsCounters     []PerilCounter      `json:"perils_counters"`
}

// CountryDetails reports one country's aggregate score and a tabular matrix
// of its best dataset per keydataset: a header row followed by one row per
// keydataset carrying the raw criterion booleans of the retained record.
type CountryDetails struct {
	Score              string            `json:"score"`
	Scores             [][]any           `json:"scores"`
	DatasetsCount      int               `json:"datasets_count"`
	CategoriesCounters []CategoryCounter `json:"categories_counters"`
	PerilsCounters     []PerilCounter    `json:"perils_counters"`
}

// AssembleWorldSummary builds the world summary report from an already
// filtered record collection. Countries appear ordered by name.
func AssembleWorldSummary(ctx context.Context, records []*models.Dataset, ref refdata.Store) *WorldSummary {
	world := BuildWorldTree(ctx, records, ref)

	summary := &WorldSummary{
		Scores:             []CountryScoreEntry{},
		DatasetsCount:      len(records),
		CountriesCount:     world.Len(),
		CategoriesCounters: []CategoryCounter{},
		PerilsCounters:     perilCounters(ctx, ref),
	}

	for _, cat := range ref.Categories(ctx) {
		count := 0
		for _, country := range ref.Countries(ctx) {
			if tree, ok := world.Country(country.ISO2); ok {
				if catTree, ok := tree.Category(cat.Code); ok {
					count += catTree.Counter
				}
			}
		}
		summary.CategoriesCounters = append(summary.CategoriesCounters, CategoryCounter{
			Category: cat.Name,
			Count:    count,
		})
	}

	for _, country := range ref.Countries(ctx) {
		tree, ok := world.Country(country.ISO2)
		if !ok {
			continue
		}
		summary.Scores = append(summary.Scores, CountryScoreEntry{
			Country: country.ISO2,
			Score:   FormatScore(CountryScore(ctx, tree, ref)),
		})
	}

	return summary
}

// AssembleCountryDetails builds the single-country report from records
// already filtered down to that country.
func AssembleCountryDetails(ctx context.Context, records []*models.Dataset, country refdata.Country, ref refdata.Store) *CountryDetails {
	tree := BuildCountryTree(ctx, records, country, ref)

	details := &CountryDetails{
		Score:              FormatScore(CountryScore(ctx, tree, ref)),
		DatasetsCount:      len(records),
		CategoriesCounters: []CategoryCounter{},
		PerilsCounters:     perilCounters(ctx, ref),
	}

	for _, cat := range ref.Categories(ctx) {
		count := 0
		if catTree, ok := tree.Category(cat.Code); ok {
			count = catTree.Counter
		}
		details.CategoriesCounters = append(details.CategoriesCounters, CategoryCounter{
			Category: cat.Name,
			Count:    count,
		})
	}

	header := []any{"kd_code", "kd_description", "score"}
	for _, c := range models.Criteria {
		header = append(header, c.Label)
	}
	details.Scores = [][]any{header}

	for _, catCode := range tree.Categories() {
		catTree, _ := tree.Category(catCode)
		for _, kdCode := range catTree.Keydatasets() {
			entry, _ := catTree.Best(kdCode)
			if entry.Dataset == nil {
				continue
			}
			description := ""
			if kd, ok := ref.KeyDataset(ctx, kdCode); ok {
				description = kd.Description
			}
			row := []any{kdCode, description, FormatScore(entry.Score)}
			for _, c := range models.Criteria {
				row = append(row, c.Get(entry.Dataset))
			}
			details.Scores = append(details.Scores, row)
		}
	}

	return details
}

// AssembleWorldByCategory builds the world-by-category matrix: a header row,
// then one row per country (ordered by name) with the aggregate score
// followed by each category's score in category id order. Categories without
// submissions render as FormatScore(-1).
func AssembleWorldByCategory(ctx context.Context, records []*models.Dataset, ref refdata.Store) [][]string {
	world := BuildWorldTree(ctx, records, ref)
	categories := ref.Categories(ctx)

	header := []string{"country", "score"}
	for _, cat := range categories {
		header = append(header, cat.Name)
	}
	matrix := [][]string{header}

	for _, country := range ref.Countries(ctx) {
		tree, ok := world.Country(country.ISO2)
		if !ok {
			continue
		}
		row := []string{country.ISO2, FormatScore(CountryScore(ctx, tree, ref))}
		for _, cat := range categories {
			if _, ok := tree.Category(cat.Code); !ok {
				row = append(row, FormatScore(noScore))
				continue
			}
			row = append(row, FormatScore(CategoryScore(tree, cat.Code)))
		}
		matrix = append(matrix, row)
	}

	return matrix
}

// perilCounters emits one entry per peril ordered by name, with the loop
// index as the count. The index is not a real tally; existing dashboard
// consumers depend on exactly this shape, so it is kept as is.
func perilCounters(ctx context.Context, ref refdata.Store) []PerilCounter {
	perils := ref.Perils(ctx)
	counters := make([]PerilCounter, 0, len(perils))
	for i, peril := range perils {
		counters = append(counters, PerilCounter{Name: peril.Name, Count: i})
	}
	return counters
}
