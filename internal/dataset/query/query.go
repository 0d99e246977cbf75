// Package query implements the dataset filter engine: a set of optional
// multi-valued parameters translated into a pure predicate over records.
// Within one parameter the values are ORed; across parameters the predicates
// are ANDed. All matching is case-insensitive. An empty value list is no
// constraint.
package query

import (
	"context"
	"net/url"
	"strings"

	"ordr/internal/dataset/models"
	"ordr/internal/refdata"
)

// Query carries the recognized filter parameters. Owner is an internal exact
// filter used by the profile endpoints; it is not exposed as a query param.
type Query struct {
	Owner         string
	KD            []string
	Country       []string
	Category      []string
	Applicability []string
	Tag           []string
	IsReviewed    []string
}

// FromValues extracts the public filter parameters from a parsed query string.
func FromValues(values url.Values) Query {
	return Query{
		KD:            values["kd"],
		Country:       values["country"],
		Category:      values["category"],
		Applicability: values["applicability"],
		Tag:           values["tag"],
		IsReviewed:    values["is_reviewed"],
	}
}

// IsZero reports whether the query constrains nothing.
func (q Query) IsZero() bool {
	return q.Owner == "" && len(q.KD) == 0 && len(q.Country) == 0 &&
		len(q.Category) == 0 && len(q.Applicability) == 0 &&
		len(q.Tag) == 0 && len(q.IsReviewed) == 0
}

// Matches reports whether d satisfies every parameter of q. The record's key
// dataset is resolved through ref for category and applicability matching; an
// unresolvable key dataset only fails the dimensions that need it.
func (q Query) Matches(ctx context.Context, d *models.Dataset, ref refdata.Store) bool {
	if q.Owner != "" && d.Owner != q.Owner {
		return false
	}
	if !matchAny(q.KD, func(v string) bool {
		return strings.EqualFold(v, d.KeydatasetCode)
	}) {
		return false
	}
	if !matchAny(q.Country, func(v string) bool {
		return strings.EqualFold(v, d.CountryISO2)
	}) {
		return false
	}
	if !matchAny(q.IsReviewed, func(v string) bool {
		if strings.EqualFold(v, "true") {
			return d.IsReviewed
		}
		if strings.EqualFold(v, "false") {
			return !d.IsReviewed
		}
		return false
	}) {
		return false
	}
	if !matchAny(q.Tag, func(v string) bool {
		return containsFold(d.Tags, v)
	}) {
		return false
	}

	kd, kdOK := ref.KeyDataset(ctx, d.KeydatasetCode)

	if !matchAny(q.Category, func(v string) bool {
		if !kdOK {
			return false
		}
		cat, ok := ref.Category(ctx, kd.CategoryCode)
		return ok && strings.EqualFold(v, cat.Name)
	}) {
		return false
	}

	// An applicability value matches if it is either a built-in peril of the
	// key dataset or an ad-hoc tag on the record. The union is intentional
	// even though tags of the hazard group overlap the peril list.
	if !matchAny(q.Applicability, func(v string) bool {
		if kdOK && containsFold(kd.Applicability, v) {
			return true
		}
		return containsFold(d.Tags, v)
	}) {
		return false
	}

	return true
}

// matchAny implements the OR-within-parameter rule: an empty value list means
// no constraint.
func matchAny(values []string, match func(string) bool) bool {
	if len(values) == 0 {
		return true
	}
	for _, v := range values {
		if match(v) {
			return true
		}
	}
	return false
}

func containsFold(haystack []string, needle string) bool {
	for _, s := range haystack {
		if strings.EqualFold(s, needle) {
			return true
		}
	}
	return false
}
