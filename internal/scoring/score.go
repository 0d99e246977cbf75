package scoring

import (
	"context"
	"fmt"

	"ordr/internal/dataset/models"
	"ordr/internal/refdata"
)

// criterionWeights assigns each openness criterion its share of a perfect
// score. The weights sum to 1.00.
var criterionWeights = map[string]float64{
	"is_existing":          0.05,
	"is_digital_form":      0.05,
	"is_avail_online":      0.05,
	"is_avail_online_meta": 0.05,
	"is_bulk_avail":        0.10,
	"is_machine_read":      0.15,
	"is_pub_available":     0.05,
	"is_avail_for_free":    0.15,
	"is_open_licence":      0.30,
	"is_prov_timely":       0.05,
}

// DatasetScore computes a single record's openness score in [0,1]: the sum of
// the weights of its true criteria, discounted by how much of the country's
// applicability set is covered by the keydataset's built-in perils united
// with the record's own tags. A country without an applicability set scores 0
// rather than dividing by zero.
func DatasetScore(d *models.Dataset, kd refdata.KeyDataset, applicability map[string]struct{}) float64 {
	if len(applicability) == 0 {
		return 0
	}

	score := 0.0
	for _, c := range models.Criteria {
		if c.Get(d) {
			score += criterionWeights[c.Name]
		}
	}

	covered := make(map[string]struct{}, len(kd.Applicability)+len(d.Tags))
	for _, name := range kd.Applicability {
		if _, ok := applicability[name]; ok {
			covered[name] = struct{}{}
		}
	}
	for _, name := range d.Tags {
		if _, ok := applicability[name]; ok {
			covered[name] = struct{}{}
		}
	}

	return score * float64(len(covered)) / float64(len(applicability))
}

// CategoryScore is the maximum retained keydataset score within a category;
// 0 when the category is absent or holds no scored entries.
func CategoryScore(tree *CountryTree, categoryCode string) float64 {
	cat, ok := tree.Category(categoryCode)
	if !ok {
		return 0
	}
	score := 0.0
	for _, code := range cat.Keydatasets() {
		if entry, ok := cat.Best(code); ok && entry.Score > score {
			score = entry.Score
		}
	}
	return score
}

// CountryScore reduces a country tree to one score: the weighted sum of its
// category scores over the global sum of all category weights. Categories
// absent from the tree contribute nothing to the numerator while their
// weights stay in the denominator, so missing data depresses the score.
// An empty weight sum yields 0.
func CountryScore(ctx context.Context, tree *CountryTree, ref refdata.Store) float64 {
	weightSum := ref.CategoryWeightSum(ctx)
	if weightSum == 0 {
		return 0
	}

	score := 0.0
	for _, cat := range ref.Categories(ctx) {
		if _, ok := tree.Category(cat.Code); !ok {
			continue
		}
		score += CategoryScore(tree, cat.Code) * cat.Weight
	}
	return score / weightSum
}

// FormatScore renders a score as a percentage with one decimal place.
func FormatScore(score float64) string {
	return fmt.Sprintf("%.1f", score*100.0)
}
