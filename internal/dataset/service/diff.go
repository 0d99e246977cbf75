package service

import (
	"context"
	"slices"

	"ordr/internal/dataset/models"
	"ordr/internal/notify"
)

// fieldValue is one audited field of a record snapshot, resolved to its
// display value.
type fieldValue struct {
	Name   string
	Label  string
	Value  any
	IsList bool
}

// snapshot resolves the audited fields of a record. The field list is
// declared statically: identity and audit columns (id, review_date, owner,
// changed_by, timestamps) are excluded from change notifications by
// construction, and foreign keys are rendered as display names.
func (s *Service) snapshot(ctx context.Context, d *models.Dataset) []fieldValue {
	countryValue := d.CountryISO2
	if country, ok := s.ref.Country(ctx, d.CountryISO2); ok {
		countryValue = country.Name
	}
	kdValue := d.KeydatasetCode
	if kd, ok := s.ref.KeyDataset(ctx, d.KeydatasetCode); ok {
		kdValue = kd.Code + " - " + kd.Description
	}

	fields := []fieldValue{
		{Name: "country", Label: "Country", Value: countryValue},
		{Name: "keydataset", Label: "Key dataset", Value: kdValue},
	}
	for _, c := range models.Criteria {
		fields = append(fields, fieldValue{Name: c.Name, Label: c.Label, Value: c.Get(d)})
	}
	fields = append(fields,
		fieldValue{Name: "url", Label: "URLs", Value: append([]string(nil), d.URLs...), IsList: true},
		fieldValue{Name: "notes", Label: "Notes", Value: d.Notes},
		fieldValue{Name: "tag", Label: "Tags", Value: append([]string(nil), d.Tags...), IsList: true},
		fieldValue{Name: "is_reviewed", Label: "Is reviewed", Value: d.IsReviewed},
	)
	return fields
}

// stateRows renders a snapshot as notification rows for create and delete
// mails, which have no previous state.
func stateRows(fields []fieldValue) []notify.Row {
	rows := make([]notify.Row, 0, len(fields))
	for _, f := range fields {
		rows = append(rows, notify.Row{Name: f.Label, Post: f.Value, IsList: f.IsList})
	}
	return rows
}

// diffRows compares two snapshots field by field for update mails. Every
// audited field appears in the table; Pre is only set where the value
// changed.
func diffRows(pre, post []fieldValue) []notify.Row {
	rows := make([]notify.Row, 0, len(post))
	for i, f := range post {
		changed := !equalValue(pre[i].Value, f.Value)
		row := notify.Row{Name: f.Label, Post: f.Value, IsChanged: changed, IsList: f.IsList}
		if changed {
			row.Pre = pre[i].Value
		}
		rows = append(rows, row)
	}
	return rows
}

func equalValue(a, b any) bool {
	if la, ok := a.([]string); ok {
		lb, ok := b.([]string)
		return ok && slices.Equal(la, lb)
	}
	return a == b
}
