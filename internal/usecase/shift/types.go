package shift

import (
	"encoding/json"

	domainshift "shiftclose/internal/domain/shift"
)

type CloseInput struct {
	EventID uint64
	// FormData is the freshly edited submission. Empty means use the one
	// stored on the event.
	FormData []byte
	Strategy domainshift.CloseStrategy
}

type CloseResult struct {
	EventID     uint64         `json:"event_id"`
	Strategy    string         `json:"strategy"`
	Status      string         `json:"status"`
	RunID       string         `json:"run_id"`
	FolderPath  string         `json:"folder_path,omitempty"`
	Artifacts   []Artifact     `json:"artifacts,omitempty"`
	Skipped     []SkippedGroup `json:"skipped,omitempty"`
	TimeEntries int            `json:"time_entries"`
}

// Artifact is one consolidated section PDF written during an export.
type Artifact struct {
	DocumentID uint64   `json:"document_id"`
	Category   string   `json:"category"`
	ScanName   string   `json:"scan_name"`
	Path       string   `json:"path"`
	Sources    []string `json:"sources"`
	Pages      int      `json:"pages,omitempty"`
}

// SkippedGroup is a scan group or reference that produced no artifact.
type SkippedGroup struct {
	ScanName string `json:"scan_name"`
	Source   string `json:"source,omitempty"`
	Category string `json:"category,omitempty"`
	Reason   string `json:"reason"`
}

type CreateEventInput struct {
	Name      string
	Date      string
	DoorsTime string
}

type AdvanceStatusInput struct {
	EventID uint64
	Target  string
}

type ListEventsInput struct {
	IncludeFinished bool
	Limit           int
}

type RegisterScanInput struct {
	EventID  uint64
	FileName string
	Data     []byte
	// Label is the scan-name used for grouping.
	Label string
}

type TimesheetResult struct {
	DocumentID uint64 `json:"document_id"`
	Path       string `json:"path"`
	Entries    int    `json:"entries"`
}

type EventDetail struct {
	EventID    uint64          `json:"event_id"`
	Name       string          `json:"name"`
	Date       string          `json:"date"`
	DoorsTime  string          `json:"doors_time,omitempty"`
	Phase      string          `json:"phase"`
	Status     string          `json:"status"`
	FormData   json.RawMessage `json:"form_data,omitempty"`
	CreatedAt  string          `json:"created_at"`
	UpdatedAt  string          `json:"updated_at"`
	FinishedAt string          `json:"finished_at,omitempty"`
}

type DocumentItem struct {
	DocumentID  uint64          `json:"document_id"`
	EventID     uint64          `json:"event_id"`
	Type        string          `json:"type"`
	Label       string          `json:"label"`
	FilePath    string          `json:"file_path"`
	ContentType string          `json:"content_type"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
	CreatedAt   string          `json:"created_at"`
}

type TimeEntryItem struct {
	TimeEntryID uint64  `json:"time_entry_id"`
	Role        string  `json:"role"`
	PersonName  string  `json:"person_name"`
	Category    string  `json:"category,omitempty"`
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time"`
	Hours       float64 `json:"hours"`
	Wage        float64 `json:"wage"`
	Amount      float64 `json:"amount"`
}
