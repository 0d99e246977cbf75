package refdata

import (
	"context"
	"sort"
	"strings"
)

// InMemory serves the reference tables from memory. The tables are indexed
// once at construction and never mutated, so no locking is needed.
type InMemory struct {
	regions    []Region
	countries  []Country
	categories []Category
	perils     []Peril
	keydata    []KeyDataset

	countryByISO2 map[string]Country
	catByCode     map[string]Category
	kdByCode      map[string]KeyDataset
	weightSum     float64
}

// NewInMemory builds an indexed store. Countries and perils are kept ordered
// by name, regions and categories by id, matching the report iteration order.
func NewInMemory(regions []Region, countries []Country, categories []Category, perils []Peril, keydata []KeyDataset) *InMemory {
	s := &InMemory{
		regions:       append([]Region(nil), regions...),
		countries:     append([]Country(nil), countries...),
		categories:    append([]Category(nil), categories...),
		perils:        append([]Peril(nil), perils...),
		keydata:       append([]KeyDataset(nil), keydata...),
		countryByISO2: make(map[string]Country, len(countries)),
		catByCode:     make(map[string]Category, len(categories)),
		kdByCode:      make(map[string]KeyDataset, len(keydata)),
	}

	sort.Slice(s.regions, func(i, j int) bool { return s.regions[i].ID < s.regions[j].ID })
	sort.Slice(s.countries, func(i, j int) bool { return s.countries[i].Name < s.countries[j].Name })
	sort.Slice(s.categories, func(i, j int) bool { return s.categories[i].ID < s.categories[j].ID })
	sort.Slice(s.perils, func(i, j int) bool { return s.perils[i].Name < s.perils[j].Name })

	for _, c := range s.countries {
		s.countryByISO2[strings.ToUpper(c.ISO2)] = c
	}
	for _, kd := range s.keydata {
		s.kdByCode[strings.ToUpper(kd.Code)] = kd
	}
	for _, cat := range s.categories {
		s.catByCode[strings.ToUpper(cat.Code)] = cat
		s.weightSum += cat.Weight
	}
	return s
}

func (s *InMemory) Regions(context.Context) []Region       { return s.regions }
func (s *InMemory) Countries(context.Context) []Country    { return s.countries }
func (s *InMemory) Categories(context.Context) []Category  { return s.categories }
func (s *InMemory) Perils(context.Context) []Peril         { return s.perils }
func (s *InMemory) KeyDatasets(context.Context) []KeyDataset { return s.keydata }

func (s *InMemory) CategoryWeightSum(context.Context) float64 { return s.weightSum }

// Category looks up a category case-insensitively by code.
func (s *InMemory) Category(_ context.Context, code string) (Category, bool) {
	cat, ok := s.catByCode[strings.ToUpper(code)]
	return cat, ok
}

// Country looks up a country case-insensitively by ISO2 code.
func (s *InMemory) Country(_ context.Context, iso2 string) (Country, bool) {
	c, ok := s.countryByISO2[strings.ToUpper(iso2)]
	return c, ok
}

// KeyDataset looks up a key dataset case-insensitively by code.
func (s *InMemory) KeyDataset(_ context.Context, code string) (KeyDataset, bool) {
	kd, ok := s.kdByCode[strings.ToUpper(code)]
	return kd, ok
}
