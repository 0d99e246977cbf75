// Package refdata holds the static reference tables the registry scores
// against: regions, countries, key categories, perils and key datasets.
// The tables are immutable after construction.
package refdata

import "context"

// Region groups countries for presentation purposes.
type Region struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Country is a scoring subject. ThinkHazardAppl is the set of peril names
// relevant to the country; it drives score discounting.
type Country struct {
	ISO2            string   `json:"iso2"`
	Name            string   `json:"name"`
	RegionID        int      `json:"region"`
	ThinkHazardAppl []string `json:"thinkhazard_appl"`
}

// Category is a key-dataset grouping with a weight used to normalize a
// country's aggregate score.
type Category struct {
	ID     int     `json:"id"`
	Code   string  `json:"code"`
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// Peril is a hazard label usable both as key-dataset applicability and as a
// dataset tag.
type Peril struct {
	Name string `json:"name"`
}

// KeyDataset is one canonical indicator a country can report data for.
// Code is unique within a category and globally unique in seeded data.
type KeyDataset struct {
	Code          string   `json:"code"`
	CategoryCode  string   `json:"category"`
	Name          string   `json:"dataset"`
	Description   string   `json:"description"`
	Scale         string   `json:"scale"`
	Applicability []string `json:"applicability"`
}

// Store exposes read access to the reference tables. Implementations must be
// safe for concurrent use.
type Store interface {
	Regions(ctx context.Context) []Region
	Countries(ctx context.Context) []Country
	Country(ctx context.Context, iso2 string) (Country, bool)
	Categories(ctx context.Context) []Category
	Category(ctx context.Context, code string) (Category, bool)
	CategoryWeightSum(ctx context.Context) float64
	Perils(ctx context.Context) []Peril
	KeyDatasets(ctx context.Context) []KeyDataset
	KeyDataset(ctx context.Context, code string) (KeyDataset, bool)
}
