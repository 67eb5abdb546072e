package shift

import (
	"context"
	"log/slog"

	"shiftclose/internal/bootstrap/logging"
	domainshift "shiftclose/internal/domain/shift"
	"shiftclose/internal/errs"
	"shiftclose/internal/ports"
)

// finishTx re-checks the status inside the transaction, so of two racing
// finish calls only the first books time entries.
func (s *Service) finishTx(
	ctx context.Context,
	eventID uint64,
	strategy domainshift.CloseStrategy,
	form domainshift.FormSubmission,
	rawForm []byte,
) (ports.Event, int, error) {
	var finished ports.Event
	var booked int

	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		event, err := s.loadEvent(txCtx, eventID)
		if err != nil {
			return err
		}
		status, err := domainshift.ParseStatus(event.Status)
		if err != nil {
			return errs.Wrapf(err, "event %d", eventID)
		}
		if err := strategy.CheckPreconditions(status); err != nil {
			return errs.Wrapf(err, "event %d", eventID)
		}

		tables, err := s.loadWageTables(txCtx)
		if err != nil {
			return err
		}

		eventDate := event.Date
		if normalized, err := domainshift.NormalizeEventDate(event.Date); err == nil {
			eventDate = normalized
		}

		rows := domainshift.ExtractPayrollRows(form, event.Name, eventDate)
		drafts := domainshift.BuildTimeEntries(rows, tables)
		now := nowUTCString()
		for _, draft := range drafts {
			if _, err := s.repo.InsertTimeEntry(txCtx, ports.TimeEntryCreate{
				EventID:    eventID,
				Role:       draft.Role,
				EventName:  draft.EventName,
				EventDate:  draft.EventDate,
				PersonName: draft.PersonName,
				Wage:       draft.Wage,
				StartTime:  draft.Start,
				EndTime:    draft.End,
				Hours:      draft.Hours,
				Amount:     draft.Amount,
				Category:   draft.Category,
				CreatedAt:  now,
			}); err != nil {
				return errs.Wrapf(err, "book time entry for %s", draft.PersonName)
			}
			logging.Debug(txCtx, "time entry booked",
				slog.String("person", draft.PersonName),
				slog.String("role", draft.Role),
				slog.Float64("hours", draft.Hours),
				slog.Float64("amount", draft.Amount),
			)
		}

		phase := domainshift.PhaseClosed
		finishedStatus := domainshift.StatusFinished.String()
		updated, err := s.repo.UpdateEvent(txCtx, eventID, ports.EventPatch{
			Phase:      &phase,
			Status:     &finishedStatus,
			FormData:   rawForm,
			FinishedAt: &now,
			UpdatedAt:  now,
		})
		if err != nil {
			return errs.Wrap(err, "mark event finished")
		}

		finished = updated
		booked = len(drafts)
		return nil
	}); err != nil {
		return ports.Event{}, 0, err
	}

	return finished, booked, nil
}

func (s *Service) loadWageTables(ctx context.Context) (domainshift.WageTables, error) {
	roles, err := s.repo.ListRoles(ctx)
	if err != nil {
		return domainshift.WageTables{}, errs.Wrap(err, "load roles")
	}
	overrides, err := s.repo.GetPersonWageOverrides(ctx)
	if err != nil {
		return domainshift.WageTables{}, errs.Wrap(err, "load person wages")
	}

	roleWages := make(map[string]float64, len(roles))
	for _, role := range roles {
		roleWages[role.Name] = role.HourlyWage
	}
	return domainshift.WageTables{
		RoleWages:   roleWages,
		PersonWages: overrides,
	}, nil
}
