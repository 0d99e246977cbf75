// Package scoring computes openness scores for submitted dataset records.
// It is a stateless module of pure functions over explicit inputs: a filtered
// record collection and the reference tables. The score tree built here is
// ephemeral and request-scoped; it is never persisted.
package scoring

import (
	"context"

	"ordr/internal/dataset/models"
	"ordr/internal/refdata"
)

// noScore is the sentinel below any valid dataset score; a slot holding it
// has seen no scored record yet.
const noScore = -1

// KeydatasetScore is the best record seen so far for one (country,
// keydataset) pair, with its score.
type KeydatasetScore struct {
	Score   float64
	Dataset *models.Dataset
}

// CategoryTree aggregates one country's records within a category. Counter
// counts every record folded in, not just the retained best ones.
type CategoryTree struct {
	Counter int

	best  map[string]*KeydatasetScore
	order []string
}

// Keydatasets returns the keydataset codes in first-seen order.
func (t *CategoryTree) Keydatasets() []string { return t.order }

// Best returns the retained entry for a keydataset code.
func (t *CategoryTree) Best(code string) (*KeydatasetScore, bool) {
	e, ok := t.best[code]
	return e, ok
}

func (t *CategoryTree) slot(code string) *KeydatasetScore {
	e, ok := t.best[code]
	if !ok {
		e = &KeydatasetScore{Score: noScore}
		t.best[code] = e
		t.order = append(t.order, code)
	}
	return e
}

// CountryTree holds one country's category trees in first-seen order.
type CountryTree struct {
	categories map[string]*CategoryTree
	order      []string
}

func NewCountryTree() *CountryTree {
	return &CountryTree{categories: make(map[string]*CategoryTree)}
}

// Categories returns the category codes in first-seen order.
func (t *CountryTree) Categories() []string { return t.order }

// Category returns the tree for a category code.
func (t *CountryTree) Category(code string) (*CategoryTree, bool) {
	c, ok := t.categories[code]
	return c, ok
}

func (t *CountryTree) category(code string) *CategoryTree {
	c, ok := t.categories[code]
	if !ok {
		c = &CategoryTree{best: make(map[string]*KeydatasetScore)}
		t.categories[code] = c
		t.order = append(t.order, code)
	}
	return c
}

// WorldTree holds per-country trees in first-seen order.
type WorldTree struct {
	countries map[string]*CountryTree
	order     []string
}

func NewWorldTree() *WorldTree {
	return &WorldTree{countries: make(map[string]*CountryTree)}
}

// Len is the number of countries with at least one folded record.
func (t *WorldTree) Len() int { return len(t.countries) }

// Country returns the tree for a country ISO2 code.
func (t *WorldTree) Country(iso2 string) (*CountryTree, bool) {
	c, ok := t.countries[iso2]
	return c, ok
}

func (t *WorldTree) country(iso2 string) *CountryTree {
	c, ok := t.countries[iso2]
	if !ok {
		c = NewCountryTree()
		t.countries[iso2] = c
		t.order = append(t.order, iso2)
	}
	return c
}

// loadCountryTree folds one record into a country tree: the category counter
// advances unconditionally, while the keydataset slot is replaced only by a
// strictly greater score, so ties keep the first-seen record.
func loadCountryTree(t *CountryTree, d *models.Dataset, kd refdata.KeyDataset, applicability map[string]struct{}) {
	cat := t.category(kd.CategoryCode)
	cat.Counter++
	slot := cat.slot(kd.Code)
	if score := DatasetScore(d, kd, applicability); slot.Score < score {
		slot.Score = score
		slot.Dataset = d
	}
}

// BuildWorldTree folds the filtered records into the three-level score tree
// in a single pass. Country applicability sets are resolved once per country.
// Records referencing an unknown country or keydataset are skipped: they
// cannot be scored. Deterministic given deterministic input order.
func BuildWorldTree(ctx context.Context, records []*models.Dataset, ref refdata.Store) *WorldTree {
	world := NewWorldTree()
	applByCountry := make(map[string]map[string]struct{})

	for _, d := range records {
		kd, ok := ref.KeyDataset(ctx, d.KeydatasetCode)
		if !ok {
			continue
		}
		appl, ok := applByCountry[d.CountryISO2]
		if !ok {
			country, found := ref.Country(ctx, d.CountryISO2)
			if !found {
				continue
			}
			appl = toSet(country.ThinkHazardAppl)
			applByCountry[d.CountryISO2] = appl
		}
		loadCountryTree(world.country(d.CountryISO2), d, kd, appl)
	}
	return world
}

// BuildCountryTree folds records for a single country, all sharing the
// country's applicability set.
func BuildCountryTree(ctx context.Context, records []*models.Dataset, country refdata.Country, ref refdata.Store) *CountryTree {
	tree := NewCountryTree()
	appl := toSet(country.ThinkHazardAppl)
	for _, d := range records {
		kd, ok := ref.KeyDataset(ctx, d.KeydatasetCode)
		if !ok {
			continue
		}
		loadCountryTree(tree, d, kd, appl)
	}
	return tree
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
