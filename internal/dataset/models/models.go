// Package models defines the submitted dataset record and its openness
// criteria metadata.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Dataset is one per-country submission describing the availability and
// openness of the data behind a key dataset. Owned by one user; reviewers may
// edit or delete any record. Every mutation records ChangedBy.
type Dataset struct {
	ID             uuid.UUID  `json:"id"`
	Owner          string     `json:"owner"`
	ChangedBy      string     `json:"changed_by"`
	CountryISO2    string     `json:"country"`
	KeydatasetCode string     `json:"keydataset"`

	IsExisting        bool `json:"is_existing"`
	IsDigitalForm     bool `json:"is_digital_form"`
	IsAvailOnline     bool `json:"is_avail_online"`
	IsAvailOnlineMeta bool `json:"is_avail_online_meta"`
	IsBulkAvail       bool `json:"is_bulk_avail"`
	IsMachineRead     bool `json:"is_machine_read"`
	IsPubAvailable    bool `json:"is_pub_available"`
	IsAvailForFree    bool `json:"is_avail_for_free"`
	IsOpenLicence     bool `json:"is_open_licence"`
	IsProvTimely      bool `json:"is_prov_timely"`

	Tags  []string `json:"tag"`
	URLs  []string `json:"url"`
	Notes string   `json:"notes"`

	IsReviewed bool       `json:"is_reviewed"`
	ReviewDate *time.Time `json:"review_date"`
	CreateTime time.Time  `json:"create_time"`
	ModifyTime time.Time  `json:"modify_time"`
}

// Clone returns a deep copy so stores can hand out records without aliasing
// their internal state.
func (d *Dataset) Clone() *Dataset {
	c := *d
	c.Tags = append([]string(nil), d.Tags...)
	c.URLs = append([]string(nil), d.URLs...)
	if d.ReviewDate != nil {
		t := *d.ReviewDate
		c.ReviewDate = &t
	}
	return &c
}

// Criterion is field metadata for one openness criterion: its wire name, the
// human label used in report headers and change mails, and an accessor.
type Criterion struct {
	Name  string
	Label string
	Get   func(*Dataset) bool
}

// Criteria lists the ten openness criteria in scoring order. Reports, diffs
// and the score calculator all iterate this single table.
var Criteria = []Criterion{
	{"is_existing", "Does the data exist?", func(d *Dataset) bool { return d.IsExisting }},
	{"is_digital_form", "Is the data in digital form?", func(d *Dataset) bool { return d.IsDigitalForm }},
	{"is_avail_online", "Is the data available online?", func(d *Dataset) bool { return d.IsAvailOnline }},
	{"is_avail_online_meta", "Is the data available online with metadata?", func(d *Dataset) bool { return d.IsAvailOnlineMeta }},
	{"is_bulk_avail", "Is the data available in bulk?", func(d *Dataset) bool { return d.IsBulkAvail }},
	{"is_machine_read", "Is the data machine readable?", func(d *Dataset) bool { return d.IsMachineRead }},
	{"is_pub_available", "Is the data publicly available?", func(d *Dataset) bool { return d.IsPubAvailable }},
	{"is_avail_for_free", "Is the data available for free?", func(d *Dataset) bool { return d.IsAvailForFree }},
	{"is_open_licence", "Is the data openly licensed?", func(d *Dataset) bool { return d.IsOpenLicence }},
	{"is_prov_timely", "Is the data provided on a timely basis?", func(d *Dataset) bool { return d.IsProvTimely }},
}
