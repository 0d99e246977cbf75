// Package notify delivers change-notification mails for dataset mutations.
// Delivery is best-effort by contract: a failed notification is logged and
// never rolls back or fails the write that triggered it.
package notify

import (
	"context"
	"sync"
)

// Template names, one per mutation flow. Owner-initiated changes notify the
// registry admin; reviewer-initiated changes notify the record owner.
const (
	TemplateCreateByOwner    = "create_by_owner"
	TemplateUpdateByOwner    = "update_by_owner"
	TemplateDeleteByOwner    = "delete_by_owner"
	TemplateUpdateByReviewer = "update_by_reviewer"
	TemplateDeleteByReviewer = "delete_by_reviewer"
)

// Row is one audited field in the change table. Pre is only set on updates
// where the value actually changed.
type Row struct {
	Name      string `json:"name"`
	Pre       any    `json:"pre,omitempty"`
	Post      any    `json:"post"`
	IsChanged bool   `json:"is_changed,omitempty"`
	IsList    bool   `json:"is_list"`
}

// Context is the data handed to both the HTML and the text template.
type Context struct {
	Title      string
	Owner      string
	ChangedBy  string
	Reviewer   string
	TableTitle string
	IsReviewed bool
	Rows       []Row
}

// Message is one notification to deliver.
type Message struct {
	Recipient string
	Subject   string
	Template  string
	Context   Context
}

// Notifier delivers notification messages.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// Memory collects messages for tests and for running without SMTP.
type Memory struct {
	mu       sync.Mutex
	messages []Message
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Send(_ context.Context, msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return nil
}

// Messages returns a snapshot of everything sent so far.
func (m *Memory) Messages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.messages...)
}
