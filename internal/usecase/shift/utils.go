package shift

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	domainshift "shiftclose/internal/domain/shift"
	"shiftclose/internal/ports"
)

func nowUTCString() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func cacheEventStatusKey(eventID uint64) string {
	return "event_status:" + strconv.FormatUint(eventID, 10)
}

func derefString(ptr *string) string {
	if ptr == nil {
		return ""
	}
	return *ptr
}

// loadEvent maps the store's not-found error onto the domain one.
func (s *Service) loadEvent(ctx context.Context, eventID uint64) (ports.Event, error) {
	event, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, ports.ErrEventNotFound) {
			return ports.Event{}, fmt.Errorf("%w: %d", domainshift.ErrEventNotFound, eventID)
		}
		return ports.Event{}, err
	}
	return event, nil
}

func toEventDetail(event ports.Event) EventDetail {
	var form json.RawMessage
	if len(event.FormData) > 0 && json.Valid(event.FormData) {
		form = json.RawMessage(event.FormData)
	}
	return EventDetail{
		EventID:    event.EventID,
		Name:       event.Name,
		Date:       event.Date,
		DoorsTime:  event.DoorsTime,
		Phase:      event.Phase,
		Status:     event.Status,
		FormData:   form,
		CreatedAt:  event.CreatedAt,
		UpdatedAt:  event.UpdatedAt,
		FinishedAt: derefString(event.FinishedAt),
	}
}

func toDocumentItem(doc ports.Document) DocumentItem {
	var metadata json.RawMessage
	if len(doc.Metadata) > 0 && json.Valid(doc.Metadata) {
		metadata = json.RawMessage(doc.Metadata)
	}
	return DocumentItem{
		DocumentID:  doc.DocumentID,
		EventID:     doc.EventID,
		Type:        doc.Type,
		Label:       doc.Label,
		FilePath:    doc.FilePath,
		ContentType: doc.ContentType,
		Metadata:    metadata,
		CreatedAt:   doc.CreatedAt,
	}
}

func toTimeEntryItem(entry ports.TimeEntry) TimeEntryItem {
	return TimeEntryItem{
		TimeEntryID: entry.TimeEntryID,
		Role:        entry.Role,
		PersonName:  entry.PersonName,
		Category:    entry.Category,
		StartTime:   entry.StartTime,
		EndTime:     entry.EndTime,
		Hours:       entry.Hours,
		Wage:        entry.Wage,
		Amount:      entry.Amount,
	}
}
