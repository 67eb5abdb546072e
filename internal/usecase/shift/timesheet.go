package shift

import (
	"context"
	"log/slog"

	"shiftclose/internal/bootstrap/logging"
	domainshift "shiftclose/internal/domain/shift"
	"shiftclose/internal/errs"
	"shiftclose/internal/ports"
)

const timesheetLabel = "Timesheet"

// ExportTimesheet renders the booked time entries of an event into the
// event folder and records a time-tracking document.
func (s *Service) ExportTimesheet(ctx context.Context, eventID uint64) (TimesheetResult, error) {
	if err := errs.RequireContext(ctx); err != nil {
		return TimesheetResult{}, err
	}
	if s.repo == nil {
		return TimesheetResult{}, errRepositoryRequired
	}
	if s.blobs == nil {
		return TimesheetResult{}, errBlobStoreRequired
	}
	if s.timesheets == nil {
		return TimesheetResult{}, errRendererRequired
	}

	event, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return TimesheetResult{}, err
	}
	date, err := domainshift.NormalizeEventDate(event.Date)
	if err != nil {
		return TimesheetResult{}, errs.Wrapf(err, "event %d", event.EventID)
	}

	entries, err := s.repo.ListTimeEntries(ctx, event.EventID)
	if err != nil {
		return TimesheetResult{}, errs.Wrap(err, "list time entries")
	}

	data, err := s.timesheets.RenderTimesheet(ctx, ports.TimesheetInput{
		EventName: event.Name,
		EventDate: date,
		Entries:   entries,
	})
	if err != nil {
		return TimesheetResult{}, errs.Wrap(err, "render timesheet")
	}

	folder, err := s.eventFolder(ctx, date, event.Name)
	if err != nil {
		return TimesheetResult{}, err
	}
	name := domainshift.SectionFileName("", timesheetLabel, date, event.Name, s.timesheets.Extension())
	rel, err := s.writeUnique(ctx, folder, name, data)
	if err != nil {
		return TimesheetResult{}, errs.Wrap(err, "store timesheet")
	}

	doc, err := s.repo.InsertDocument(ctx, ports.DocumentCreate{
		EventID:     event.EventID,
		Type:        domainshift.DocumentTypeTimeTracking,
		Label:       timesheetLabel,
		FilePath:    rel,
		ContentType: s.timesheets.ContentType(),
		CreatedAt:   nowUTCString(),
	})
	if err != nil {
		return TimesheetResult{}, errs.Wrapf(err, "record timesheet %s", rel)
	}

	logging.Info(logging.WithEvent(ctx, event.EventID, ""), "timesheet exported",
		slog.String("path", rel),
		slog.Int("entries", len(entries)),
	)
	return TimesheetResult{
		DocumentID: doc.DocumentID,
		Path:       rel,
		Entries:    len(entries),
	}, nil
}
