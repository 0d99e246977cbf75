// Package service implements the dataset lifecycle: owner CRUD, reviewer
// edits with review timestamps, change-notification mails and audit events.
// Notification and audit are strictly best-effort; storage consistency never
// depends on them.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"ordr/internal/dataset/models"
	"ordr/internal/dataset/query"
	datasetstore "ordr/internal/dataset/store"
	"ordr/internal/notify"
	"ordr/internal/platform/metrics"
	"ordr/internal/platform/middleware"
	"ordr/internal/refdata"
	dErrors "ordr/pkg/domain-errors"
	"ordr/pkg/platform/audit"
	"ordr/pkg/platform/sentinel"
)

const mailSubjectPrefix = "[ordr]"

// UserDirectory resolves the mail address of a record owner so reviewer
// changes can be reported back to them.
type UserDirectory interface {
	EmailByUsername(ctx context.Context, username string) (string, error)
}

type Service struct {
	store     datasetstore.Store
	ref       refdata.Store
	users     UserDirectory
	notifier  notify.Notifier
	auditor   *audit.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
	adminMail string
	now       func() time.Time
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithNotifier(n notify.Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

func WithAuditor(a *audit.Publisher) Option {
	return func(s *Service) { s.auditor = a }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock overrides the time source; used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(store datasetstore.Store, ref refdata.Store, users UserDirectory, adminMail string, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("dataset store is required")
	}
	if ref == nil {
		return nil, fmt.Errorf("reference store is required")
	}
	svc := &Service{
		store:     store,
		ref:       ref,
		users:     users,
		adminMail: adminMail,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// List returns the filtered dataset collection ordered by (country name,
// keydataset code).
func (s *Service) List(ctx context.Context, q query.Query) ([]*models.Dataset, error) {
	records, err := s.store.Find(ctx, q)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list datasets")
	}
	return records, nil
}

// ListByOwner returns one user's records regardless of other filters' scope.
func (s *Service) ListByOwner(ctx context.Context, owner string, q query.Query) ([]*models.Dataset, error) {
	q.Owner = owner
	return s.List(ctx, q)
}

// Get loads one record by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Dataset, error) {
	d, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "dataset not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load dataset")
	}
	return d, nil
}

// GetOwned loads one record by id, reporting not-found when it belongs to
// someone else so ownership cannot be probed.
func (s *Service) GetOwned(ctx context.Context, owner string, id uuid.UUID) (*models.Dataset, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Owner != owner {
		return nil, dErrors.New(dErrors.CodeNotFound, "dataset not found")
	}
	return d, nil
}

// Create stores a new record owned by actor and notifies the registry admin.
func (s *Service) Create(ctx context.Context, actor string, input *models.Dataset) (*models.Dataset, error) {
	if err := s.validateRefs(ctx, input); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	d := input.Clone()
	d.ID = uuid.New()
	d.Owner = actor
	d.ChangedBy = actor
	d.IsReviewed = false
	d.ReviewDate = nil
	d.CreateTime = now
	d.ModifyTime = now

	if err := s.store.Create(ctx, d); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create dataset")
	}

	subject := fmt.Sprintf("%s: new dataset from user '%s' for keydataset [%s] and country [%s]",
		mailSubjectPrefix, actor, d.KeydatasetCode, d.CountryISO2)
	s.notifyBestEffort(ctx, notify.Message{
		Recipient: s.adminMail,
		Subject:   subject,
		Template:  notify.TemplateCreateByOwner,
		Context: notify.Context{
			Title:      subject,
			Owner:      actor,
			TableTitle: "Created Dataset",
			Rows:       stateRows(s.snapshot(ctx, d)),
		},
	})
	s.emit(ctx, audit.EventDatasetCreated, actor, d)
	if s.metrics != nil {
		s.metrics.DatasetsCreated.Inc()
	}
	return d, nil
}

// UpdateByOwner applies an owner's edit. Any owner edit drops the reviewed
// flag; the review date of the previous approval is left in place.
func (s *Service) UpdateByOwner(ctx context.Context, actor string, id uuid.UUID, input *models.Dataset) (*models.Dataset, error) {
	current, err := s.GetOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.validateRefs(ctx, input); err != nil {
		return nil, err
	}

	pre := s.snapshot(ctx, current)
	preKD, preCountry := current.KeydatasetCode, current.CountryISO2

	d := s.applyEdit(current, input, actor)
	d.IsReviewed = false

	if err := s.store.Update(ctx, d); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update dataset")
	}

	subject := fmt.Sprintf("%s: user '%s' updated dataset for keydataset [%s] and country [%s]",
		mailSubjectPrefix, actor, preKD, preCountry)
	if rows := diffRows(pre, s.snapshot(ctx, d)); len(rows) > 0 {
		s.notifyBestEffort(ctx, notify.Message{
			Recipient: s.adminMail,
			Subject:   subject,
			Template:  notify.TemplateUpdateByOwner,
			Context: notify.Context{
				Title:      subject,
				ChangedBy:  actor,
				IsReviewed: d.IsReviewed,
				Rows:       rows,
			},
		})
	}
	s.emit(ctx, audit.EventDatasetUpdated, actor, d)
	if s.metrics != nil {
		s.metrics.DatasetsUpdated.Inc()
	}
	return d, nil
}

// UpdateByReviewer applies a reviewer's edit to any record. The first
// transition to reviewed stamps the review date; the owner is notified of
// the changes.
func (s *Service) UpdateByReviewer(ctx context.Context, actor string, id uuid.UUID, input *models.Dataset) (*models.Dataset, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validateRefs(ctx, input); err != nil {
		return nil, err
	}

	pre := s.snapshot(ctx, current)
	preKD, preCountry := current.KeydatasetCode, current.CountryISO2

	d := s.applyEdit(current, input, actor)
	d.IsReviewed = input.IsReviewed
	reviewed := !current.IsReviewed && input.IsReviewed
	if reviewed {
		stamp := s.now().UTC().Truncate(time.Second)
		d.ReviewDate = &stamp
	}

	if err := s.store.Update(ctx, d); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update dataset")
	}

	subject := fmt.Sprintf("%s: update dataset for keydataset [%s] and country [%s]",
		mailSubjectPrefix, preKD, preCountry)
	if rows := diffRows(pre, s.snapshot(ctx, d)); len(rows) > 0 {
		if recipient := s.ownerMail(ctx, d.Owner); recipient != "" {
			s.notifyBestEffort(ctx, notify.Message{
				Recipient: recipient,
				Subject:   subject,
				Template:  notify.TemplateUpdateByReviewer,
				Context: notify.Context{
					Title:      subject,
					ChangedBy:  actor,
					IsReviewed: d.IsReviewed,
					Rows:       rows,
				},
			})
		}
	}

	action := audit.EventDatasetUpdated
	if reviewed {
		action = audit.EventDatasetReviewed
	}
	s.emit(ctx, action, actor, d)
	if s.metrics != nil {
		s.metrics.DatasetsUpdated.Inc()
	}
	return d, nil
}

// DeleteByOwner destroys an owned record and notifies the registry admin.
func (s *Service) DeleteByOwner(ctx context.Context, actor string, id uuid.UUID) error {
	d, err := s.GetOwned(ctx, actor, id)
	if err != nil {
		return err
	}
	rows := stateRows(s.snapshot(ctx, d))

	if err := s.store.Delete(ctx, id); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete dataset")
	}

	subject := fmt.Sprintf("%s: deleted dataset from user '%s' for keydataset [%s] and country [%s]",
		mailSubjectPrefix, d.ChangedBy, d.KeydatasetCode, d.CountryISO2)
	s.notifyBestEffort(ctx, notify.Message{
		Recipient: s.adminMail,
		Subject:   subject,
		Template:  notify.TemplateDeleteByOwner,
		Context: notify.Context{
			Title:      subject,
			Owner:      d.ChangedBy,
			TableTitle: "Deleted Dataset",
			Rows:       rows,
		},
	})
	s.emit(ctx, audit.EventDatasetDeleted, actor, d)
	if s.metrics != nil {
		s.metrics.DatasetsDeleted.Inc()
	}
	return nil
}

// DeleteByReviewer destroys any record and notifies its owner. The subject
// names the record's last editor, matching the established mail format.
func (s *Service) DeleteByReviewer(ctx context.Context, actor string, id uuid.UUID) error {
	d, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	rows := stateRows(s.snapshot(ctx, d))

	if err := s.store.Delete(ctx, id); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete dataset")
	}

	subject := fmt.Sprintf("%s: deleted dataset from reviewer '%s' for keydataset [%s] and country [%s]",
		mailSubjectPrefix, d.ChangedBy, d.KeydatasetCode, d.CountryISO2)
	if recipient := s.ownerMail(ctx, d.Owner); recipient != "" {
		s.notifyBestEffort(ctx, notify.Message{
			Recipient: recipient,
			Subject:   subject,
			Template:  notify.TemplateDeleteByReviewer,
			Context: notify.Context{
				Title:      subject,
				Reviewer:   actor,
				TableTitle: "Deleted Dataset",
				Rows:       rows,
			},
		})
	}
	s.emit(ctx, audit.EventDatasetDeleted, actor, d)
	if s.metrics != nil {
		s.metrics.DatasetsDeleted.Inc()
	}
	return nil
}

// applyEdit carries the writable fields of input onto a copy of current.
func (s *Service) applyEdit(current, input *models.Dataset, actor string) *models.Dataset {
	d := current.Clone()
	d.CountryISO2 = input.CountryISO2
	d.KeydatasetCode = input.KeydatasetCode
	d.IsExisting = input.IsExisting
	d.IsDigitalForm = input.IsDigitalForm
	d.IsAvailOnline = input.IsAvailOnline
	d.IsAvailOnlineMeta = input.IsAvailOnlineMeta
	d.IsBulkAvail = input.IsBulkAvail
	d.IsMachineRead = input.IsMachineRead
	d.IsPubAvailable = input.IsPubAvailable
	d.IsAvailForFree = input.IsAvailForFree
	d.IsOpenLicence = input.IsOpenLicence
	d.IsProvTimely = input.IsProvTimely
	d.Tags = append([]string(nil), input.Tags...)
	d.URLs = append([]string(nil), input.URLs...)
	d.Notes = input.Notes
	d.ChangedBy = actor
	d.ModifyTime = s.now().UTC()
	return d
}

func (s *Service) validateRefs(ctx context.Context, d *models.Dataset) error {
	if _, ok := s.ref.Country(ctx, d.CountryISO2); !ok {
		return dErrors.Newf(dErrors.CodeBadRequest, "unknown country %q", d.CountryISO2)
	}
	if _, ok := s.ref.KeyDataset(ctx, d.KeydatasetCode); !ok {
		return dErrors.Newf(dErrors.CodeBadRequest, "unknown keydataset %q", d.KeydatasetCode)
	}
	return nil
}

func (s *Service) ownerMail(ctx context.Context, owner string) string {
	if s.users == nil {
		return ""
	}
	mail, err := s.users.EmailByUsername(ctx, owner)
	if err != nil {
		s.logger.WarnContext(ctx, "owner mail lookup failed",
			"owner", owner,
			"error", err.Error(),
		)
		return ""
	}
	return mail
}

// notifyBestEffort isolates notification delivery from the write path: any
// error or panic is logged and swallowed.
func (s *Service) notifyBestEffort(ctx context.Context, msg notify.Message) {
	if s.notifier == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "notification panicked", "panic", r)
		}
	}()
	if err := s.notifier.Send(ctx, msg); err != nil {
		s.logger.ErrorContext(ctx, "notification failed",
			"recipient", msg.Recipient,
			"template", msg.Template,
			"error", err.Error(),
		)
	}
}

func (s *Service) emit(ctx context.Context, action, actor string, d *models.Dataset) {
	if s.auditor == nil {
		return
	}
	_ = s.auditor.Emit(ctx, audit.Event{
		Timestamp:  s.now().UTC(),
		Action:     action,
		Actor:      actor,
		DatasetID:  d.ID.String(),
		Country:    d.CountryISO2,
		Keydataset: d.KeydatasetCode,
		RequestID:  middleware.GetRequestID(ctx),
	})
}
