package shift

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"shiftclose/internal/bootstrap/logging"
	domainshift "shiftclose/internal/domain/shift"
	"shiftclose/internal/errs"
	"shiftclose/internal/ports"
)

// CreateEvent opens a new event. It fails while another event is still
// current, i.e. not finished or archived.
func (s *Service) CreateEvent(ctx context.Context, input CreateEventInput) (EventDetail, error) {
	if err := errs.RequireContext(ctx); err != nil {
		return EventDetail{}, err
	}
	if err := s.requireStore(); err != nil {
		return EventDetail{}, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return EventDetail{}, domainshift.ErrEventNameEmpty
	}
	date, err := domainshift.NormalizeEventDate(input.Date)
	if err != nil {
		return EventDetail{}, err
	}
	doors := strings.TrimSpace(input.DoorsTime)
	if doors != "" {
		if _, ok := domainshift.ParseClockTime(doors); !ok {
			return EventDetail{}, fmt.Errorf("doors time %q is not a clock time", doors)
		}
	}

	var created ports.Event
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		current, err := s.repo.FindCurrentEvent(txCtx)
		if err == nil {
			return fmt.Errorf("%w: event %d (%s)", domainshift.ErrCurrentExists, current.EventID, current.Status)
		}
		if !errors.Is(err, ports.ErrEventNotFound) {
			return errs.Wrap(err, "find current event")
		}

		created, err = s.repo.CreateEvent(txCtx, ports.EventCreate{
			Name:      name,
			Date:      date,
			DoorsTime: doors,
			Phase:     domainshift.PhasePlanned,
			Status:    domainshift.StatusOpen.String(),
			CreatedAt: nowUTCString(),
		})
		return err
	}); err != nil {
		return EventDetail{}, err
	}

	s.setCacheBestEffort(ctx, cacheEventStatusKey(created.EventID), created.Status)
	logging.Info(logging.WithEvent(ctx, created.EventID, ""), "event created",
		slog.String("name", created.Name),
		slog.String("date", created.Date),
	)
	return toEventDetail(created), nil
}

// AdvanceStatus moves an event one step forward. checked -> finished is
// refused; it goes through Finish or CloseShift.
func (s *Service) AdvanceStatus(ctx context.Context, input AdvanceStatusInput) (EventDetail, error) {
	if err := errs.RequireContext(ctx); err != nil {
		return EventDetail{}, err
	}
	if err := s.requireStore(); err != nil {
		return EventDetail{}, err
	}

	target, err := domainshift.ParseStatus(input.Target)
	if err != nil {
		return EventDetail{}, err
	}

	var updated ports.Event
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		event, err := s.loadEvent(txCtx, input.EventID)
		if err != nil {
			return err
		}
		current, err := domainshift.ParseStatus(event.Status)
		if err != nil {
			return errs.Wrapf(err, "event %d", event.EventID)
		}
		if err := domainshift.ValidateAdvance(current, target); err != nil {
			return errs.Wrapf(err, "event %d", event.EventID)
		}

		status := target.String()
		updated, err = s.repo.UpdateEvent(txCtx, event.EventID, ports.EventPatch{
			Status:    &status,
			UpdatedAt: nowUTCString(),
		})
		return err
	}); err != nil {
		return EventDetail{}, err
	}

	s.setCacheBestEffort(ctx, cacheEventStatusKey(updated.EventID), updated.Status)
	logging.Info(logging.WithEvent(ctx, updated.EventID, ""), "event status advanced",
		slog.String("status", updated.Status),
	)
	return toEventDetail(updated), nil
}
