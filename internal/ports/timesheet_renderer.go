package ports

import "context"

type TimesheetInput struct {
	EventName string
	EventDate string
	Entries   []TimeEntry
}

type TimesheetRenderer interface {
	RenderTimesheet(ctx context.Context, input TimesheetInput) ([]byte, error)
	ContentType() string
	Extension() string
}
