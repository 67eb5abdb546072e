package shift

import (
	"context"
	"errors"
	"fmt"

	domainshift "shiftclose/internal/domain/shift"
	"shiftclose/internal/errs"
	"shiftclose/internal/ports"
)

func (s *Service) GetEvent(ctx context.Context, eventID uint64) (EventDetail, error) {
	if err := errs.RequireContext(ctx); err != nil {
		return EventDetail{}, err
	}
	if s.repo == nil {
		return EventDetail{}, errRepositoryRequired
	}

	event, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return EventDetail{}, err
	}
	return toEventDetail(event), nil
}

// ListEvents returns events newest first. Finished and archived events are
// left out unless asked for.
func (s *Service) ListEvents(ctx context.Context, input ListEventsInput) ([]EventDetail, error) {
	if err := errs.RequireContext(ctx); err != nil {
		return nil, err
	}
	if s.repo == nil {
		return nil, errRepositoryRequired
	}

	filter := ports.EventFilter{Limit: input.Limit}
	if !input.IncludeFinished {
		for _, status := range domainshift.TerminalStatuses() {
			filter.ExcludeStatuses = append(filter.ExcludeStatuses, status.String())
		}
	}

	events, err := s.repo.ListEvents(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]EventDetail, 0, len(events))
	for _, event := range events {
		items = append(items, toEventDetail(event))
	}
	return items, nil
}

// CurrentEvent asks the resolver which event the venue is working on.
func (s *Service) CurrentEvent(ctx context.Context) (EventDetail, error) {
	if err := errs.RequireContext(ctx); err != nil {
		return EventDetail{}, err
	}
	if s.current == nil {
		return EventDetail{}, errors.New("current event resolver is required")
	}

	event, err := s.current.CurrentEvent(ctx)
	if err != nil {
		if errors.Is(err, ports.ErrEventNotFound) {
			return EventDetail{}, fmt.Errorf("%w: no current event", domainshift.ErrEventNotFound)
		}
		return EventDetail{}, err
	}
	return toEventDetail(event), nil
}

func (s *Service) ListTimeEntries(ctx context.Context, eventID uint64) ([]TimeEntryItem, error) {
	if err := errs.RequireContext(ctx); err != nil {
		return nil, err
	}
	if s.repo == nil {
		return nil, errRepositoryRequired
	}

	if _, err := s.loadEvent(ctx, eventID); err != nil {
		return nil, err
	}
	entries, err := s.repo.ListTimeEntries(ctx, eventID)
	if err != nil {
		return nil, err
	}

	items := make([]TimeEntryItem, 0, len(entries))
	for _, entry := range entries {
		items = append(items, toTimeEntryItem(entry))
	}
	return items, nil
}

func (s *Service) ListDocuments(ctx context.Context, eventID uint64) ([]DocumentItem, error) {
	if err := errs.RequireContext(ctx); err != nil {
		return nil, err
	}
	if s.repo == nil {
		return nil, errRepositoryRequired
	}

	if _, err := s.loadEvent(ctx, eventID); err != nil {
		return nil, err
	}
	docs, err := s.repo.ListDocumentsForEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	items := make([]DocumentItem, 0, len(docs))
	for _, doc := range docs {
		items = append(items, toDocumentItem(doc))
	}
	return items, nil
}
