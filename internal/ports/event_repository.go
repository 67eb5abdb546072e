package ports

import (
	"context"
	"errors"
)

var ErrEventNotFound = errors.New("event record not found")

type Event struct {
	EventID    uint64
	Name       string
	Date       string
	DoorsTime  string
	Phase      string
	Status     string
	FormData   []byte
	CreatedAt  string
	UpdatedAt  string
	FinishedAt *string
}

type EventCreate struct {
	Name      string
	Date      string
	DoorsTime string
	Phase     string
	Status    string
	FormData  []byte
	CreatedAt string
}

// EventPatch updates only the non-nil fields. UpdatedAt is always written.
type EventPatch struct {
	Phase      *string
	Status     *string
	FormData   []byte
	FinishedAt *string
	UpdatedAt  string
}

type EventFilter struct {
	Statuses        []string
	ExcludeStatuses []string
	Limit           int
}

type Document struct {
	DocumentID  uint64
	EventID     uint64
	Type        string
	Label       string
	FilePath    string
	ContentType string
	Metadata    []byte
	CreatedAt   string
}

type DocumentCreate struct {
	EventID     uint64
	Type        string
	Label       string
	FilePath    string
	ContentType string
	Metadata    []byte
	CreatedAt   string
}

type TimeEntry struct {
	TimeEntryID uint64
	EventID     uint64
	Role        string
	EventName   string
	EventDate   string
	PersonName  string
	Wage        float64
	StartTime   string
	EndTime     string
	Hours       float64
	Amount      float64
	Category    string
	CreatedAt   string
}

type TimeEntryCreate struct {
	EventID    uint64
	Role       string
	EventName  string
	EventDate  string
	PersonName string
	Wage       float64
	StartTime  string
	EndTime    string
	Hours      float64
	Amount     float64
	Category   string
	CreatedAt  string
}

type Role struct {
	RoleID     uint64
	Name       string
	HourlyWage float64
	SortOrder  int
}

type PersonWage struct {
	NameKey     string
	DisplayName string
	HourlyWage  float64
	UpdatedAt   string
}

type EventReadRepository interface {
	GetEvent(ctx context.Context, eventID uint64) (Event, error)
	ListEvents(ctx context.Context, filter EventFilter) ([]Event, error)
	// FindCurrentEvent returns the most recently updated event that is not
	// finished or archived.
	FindCurrentEvent(ctx context.Context) (Event, error)
	ListDocumentsForEvent(ctx context.Context, eventID uint64) ([]Document, error)
	ListTimeEntries(ctx context.Context, eventID uint64) ([]TimeEntry, error)
	ListRoles(ctx context.Context) ([]Role, error)
	GetPersonWageOverrides(ctx context.Context) (map[string]float64, error)
	GetSetting(ctx context.Context, key string) (value []byte, found bool, err error)
}

// EventRepository is the record store the closing engine runs against.
type EventRepository interface {
	EventReadRepository
	CreateEvent(ctx context.Context, input EventCreate) (Event, error)
	UpdateEvent(ctx context.Context, eventID uint64, patch EventPatch) (Event, error)
	InsertTimeEntry(ctx context.Context, input TimeEntryCreate) (TimeEntry, error)
	InsertDocument(ctx context.Context, input DocumentCreate) (Document, error)
	UpsertRole(ctx context.Context, role Role) error
	UpsertPersonWage(ctx context.Context, wage PersonWage) error
	PutSetting(ctx context.Context, key string, value []byte, updatedAt string) error
}

// CurrentEventResolver picks the event the venue is working on.
type CurrentEventResolver interface {
	CurrentEvent(ctx context.Context) (Event, error)
}
