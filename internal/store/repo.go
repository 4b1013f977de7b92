package store

import (
	"context"
	"time"

	"github.com/abhisek/preflight/internal/checklist"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	TemplateID string    // restrict to one template ("" = all)
	SessionID  string    // restrict to one session ("" = all)
	Limit      int       // max results (0 = unlimited)
	After      int64     // sequence > After
	Before     int64     // sequence < Before
	From       time.Time // timestamp >= From
	To         time.Time // timestamp <= To
}

// TemplateInfo is the listing view of a stored template.
type TemplateInfo struct {
	ID            string
	Name          string
	AircraftModel string
	Airline       string
	ItemCount     int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TemplateRepo stores checklist templates.
type TemplateRepo interface {
	// Save inserts or replaces the template with the same id.
	Save(ctx context.Context, t *checklist.Template) error

	// Get returns the template with id, or ErrNotFound.
	Get(ctx context.Context, id string) (*checklist.Template, error)

	// FindByName returns the template with the given name, or ErrNotFound.
	FindByName(ctx context.Context, name string) (*checklist.Template, error)

	// List returns all templates ordered by name.
	List(ctx context.Context) ([]TemplateInfo, error)

	Rename(ctx context.Context, id, name string) error
	Delete(ctx context.Context, id string) error
}

// StatusEventData captures one item status change.
type StatusEventData struct {
	SessionID  string
	TemplateID string
	ItemID     string
	Status     string
	Cursor     int
}

// StatusEventRecord is a stored status event.
type StatusEventRecord struct {
	StatusEventData
	Sequence  int64
	Timestamp time.Time
}

// SessionEventData captures a session lifecycle event: "start", "end" or
// "reset", with the item counts at that moment.
type SessionEventData struct {
	SessionID  string
	TemplateID string
	Action     string
	Done       int
	Skipped    int
	Total      int
}

// SessionEventRecord is a stored session event.
type SessionEventRecord struct {
	SessionEventData
	Sequence  int64
	Timestamp time.Time
}

// EventRepo provides append and query access to playback events. All event
// types share one global sequence.
type EventRepo interface {
	AppendStatusEvent(ctx context.Context, data StatusEventData) error
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// QueryStatusEvents returns status events in sequence order.
	QueryStatusEvents(ctx context.Context, opts QueryOpts) ([]StatusEventRecord, error)

	// QuerySessionEvents returns session events in sequence order.
	QuerySessionEvents(ctx context.Context, opts QueryOpts) ([]SessionEventRecord, error)
}

// Progress is the resumable playback position of one template.
type Progress struct {
	TemplateID string
	SessionID  string
	Cursor     int
	// Statuses maps item ids to "done" or "skipped". Pending items are omitted.
	Statuses  map[string]string
	Paused    bool
	UpdatedAt time.Time
}

// ProgressRepo keeps one progress row per template.
type ProgressRepo interface {
	Save(ctx context.Context, p Progress) error

	// Get returns the saved progress, or nil if none exists.
	Get(ctx context.Context, templateID string) (*Progress, error)

	Delete(ctx context.Context, templateID string) error
	DeleteAll(ctx context.Context) error
}
