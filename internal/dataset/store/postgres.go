package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"ordr/internal/dataset/models"
	"ordr/internal/dataset/query"
	"ordr/internal/refdata"
	"ordr/pkg/platform/sentinel"
)

// Postgres persists dataset records in PostgreSQL. The category and
// applicability filter dimensions depend on reference tables that live
// outside the database, so Find narrows the row set with the columns it has
// and applies the full predicate in Go - one source of truth for filter
// semantics across both stores.
type Postgres struct {
	db  *sql.DB
	ref refdata.Store
}

func NewPostgres(db *sql.DB, ref refdata.Store) *Postgres {
	return &Postgres{db: db, ref: ref}
}

const schema = `
CREATE TABLE IF NOT EXISTS datasets (
	id UUID PRIMARY KEY,
	owner_name TEXT NOT NULL,
	changed_by TEXT NOT NULL,
	country_iso2 TEXT NOT NULL,
	keydataset_code TEXT NOT NULL,
	is_existing BOOLEAN NOT NULL,
	is_digital_form BOOLEAN NOT NULL,
	is_avail_online BOOLEAN NOT NULL,
	is_avail_online_meta BOOLEAN NOT NULL,
	is_bulk_avail BOOLEAN NOT NULL,
	is_machine_read BOOLEAN NOT NULL,
	is_pub_available BOOLEAN NOT NULL,
	is_avail_for_free BOOLEAN NOT NULL,
	is_open_licence BOOLEAN NOT NULL,
	is_prov_timely BOOLEAN NOT NULL,
	tags TEXT[] NOT NULL DEFAULT '{}',
	urls TEXT[] NOT NULL DEFAULT '{}',
	notes TEXT NOT NULL DEFAULT '',
	is_reviewed BOOLEAN NOT NULL DEFAULT FALSE,
	review_date TIMESTAMPTZ,
	create_time TIMESTAMPTZ NOT NULL,
	modify_time TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS datasets_country_idx ON datasets (country_iso2);
CREATE INDEX IF NOT EXISTS datasets_keydataset_idx ON datasets (keydataset_code);
`

// Migrate creates the datasets table when missing.
func (s *Postgres) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate datasets: %w", err)
	}
	return nil
}

const datasetColumns = `id, owner_name, changed_by, country_iso2, keydataset_code,
	is_existing, is_digital_form, is_avail_online, is_avail_online_meta,
	is_bulk_avail, is_machine_read, is_pub_available, is_avail_for_free,
	is_open_licence, is_prov_timely, tags, urls, notes,
	is_reviewed, review_date, create_time, modify_time`

func (s *Postgres) Create(ctx context.Context, d *models.Dataset) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO datasets (`+datasetColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)`,
		d.ID, d.Owner, d.ChangedBy, d.CountryISO2, d.KeydatasetCode,
		d.IsExisting, d.IsDigitalForm, d.IsAvailOnline, d.IsAvailOnlineMeta,
		d.IsBulkAvail, d.IsMachineRead, d.IsPubAvailable, d.IsAvailForFree,
		d.IsOpenLicence, d.IsProvTimely,
		pq.Array(d.Tags), pq.Array(d.URLs), d.Notes,
		d.IsReviewed, d.ReviewDate, d.CreateTime, d.ModifyTime)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create dataset: %w", err)
	}
	return nil
}

func (s *Postgres) Get(ctx context.Context, id uuid.UUID) (*models.Dataset, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+datasetColumns+` FROM datasets WHERE id = $1`, id)
	d, err := scanDataset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get dataset: %w", err)
	}
	return d, nil
}

func (s *Postgres) Update(ctx context.Context, d *models.Dataset) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE datasets SET
			owner_name = $2, changed_by = $3, country_iso2 = $4, keydataset_code = $5,
			is_existing = $6, is_digital_form = $7, is_avail_online = $8,
			is_avail_online_meta = $9, is_bulk_avail = $10, is_machine_read = $11,
			is_pub_available = $12, is_avail_for_free = $13, is_open_licence = $14,
			is_prov_timely = $15, tags = $16, urls = $17, notes = $18,
			is_reviewed = $19, review_date = $20, modify_time = $21
		WHERE id = $1`,
		d.ID, d.Owner, d.ChangedBy, d.CountryISO2, d.KeydatasetCode,
		d.IsExisting, d.IsDigitalForm, d.IsAvailOnline, d.IsAvailOnlineMeta,
		d.IsBulkAvail, d.IsMachineRead, d.IsPubAvailable, d.IsAvailForFree,
		d.IsOpenLicence, d.IsProvTimely,
		pq.Array(d.Tags), pq.Array(d.URLs), d.Notes,
		d.IsReviewed, d.ReviewDate, d.ModifyTime)
	if err != nil {
		return fmt.Errorf("update dataset: %w", err)
	}
	return requireRow(res)
}

func (s *Postgres) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM datasets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete dataset: %w", err)
	}
	return requireRow(res)
}

func (s *Postgres) Find(ctx context.Context, q query.Query) ([]*models.Dataset, error) {
	sqlQuery := `SELECT ` + datasetColumns + ` FROM datasets`
	var (
		clauses []string
		args    []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if q.Owner != "" {
		clauses = append(clauses, "owner_name = "+arg(q.Owner))
	}
	if len(q.Country) > 0 {
		clauses = append(clauses, "UPPER(country_iso2) = ANY("+arg(pq.Array(upperAll(q.Country)))+")")
	}
	if len(q.KD) > 0 {
		clauses = append(clauses, "UPPER(keydataset_code) = ANY("+arg(pq.Array(upperAll(q.KD)))+")")
	}
	if len(clauses) > 0 {
		sqlQuery += " WHERE " + strings.Join(clauses, " AND ")
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("find datasets: %w", err)
	}
	defer rows.Close()

	var matched []*models.Dataset
	for rows.Next() {
		d, err := scanDataset(rows)
		if err != nil {
			return nil, fmt.Errorf("scan dataset: %w", err)
		}
		if q.Matches(ctx, d, s.ref) {
			matched = append(matched, d)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find datasets: %w", err)
	}
	SortRecords(ctx, matched, s.ref)
	return matched, nil
}

func upperAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToUpper(v)
	}
	return out
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDataset(row scanner) (*models.Dataset, error) {
	var (
		d          models.Dataset
		tags, urls pq.StringArray
		reviewDate sql.NullTime
	)
	err := row.Scan(
		&d.ID, &d.Owner, &d.ChangedBy, &d.CountryISO2, &d.KeydatasetCode,
		&d.IsExisting, &d.IsDigitalForm, &d.IsAvailOnline, &d.IsAvailOnlineMeta,
		&d.IsBulkAvail, &d.IsMachineRead, &d.IsPubAvailable, &d.IsAvailForFree,
		&d.IsOpenLicence, &d.IsProvTimely, &tags, &urls, &d.Notes,
		&d.IsReviewed, &reviewDate, &d.CreateTime, &d.ModifyTime)
	if err != nil {
		return nil, err
	}
	d.Tags = tags
	d.URLs = urls
	if reviewDate.Valid {
		t := reviewDate.Time
		d.ReviewDate = &t
	}
	return &d, nil
}
