package ports

import "context"

const (
	NoticeShiftFinished = "shift.finished"
	NoticeShiftExported = "shift.exported"
)

type ShiftNotice struct {
	Kind        string   `json:"kind"`
	EventID     uint64   `json:"event_id"`
	EventName   string   `json:"event_name"`
	EventDate   string   `json:"event_date"`
	Status      string   `json:"status"`
	FolderPath  string   `json:"folder_path,omitempty"`
	Artifacts   []string `json:"artifacts,omitempty"`
	TimeEntries int      `json:"time_entries"`
	RunID       string   `json:"run_id"`
	OccurredAt  string   `json:"occurred_at"`
}

// ShiftNotifier tells downstream consumers that a shift was closed or
// exported. Delivery is best effort.
type ShiftNotifier interface {
	Publish(ctx context.Context, notice ShiftNotice) error
}
