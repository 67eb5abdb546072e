package shift

import (
	"bytes"
	"context"
	"log/slog"

	"shiftclose/internal/bootstrap/logging"
	domainshift "shiftclose/internal/domain/shift"
	"shiftclose/internal/errs"
	"shiftclose/internal/ports"
)

// Close runs one closing strategy against an event. Status preconditions
// and form validation fail before any side effect. Section PDFs written
// before a later persistence failure stay on disk.
func (s *Service) Close(ctx context.Context, input CloseInput) (CloseResult, error) {
	if err := errs.RequireContext(ctx); err != nil {
		return CloseResult{}, err
	}
	if err := s.requireStore(); err != nil {
		return CloseResult{}, err
	}

	strategy, err := domainshift.ParseCloseStrategy(string(input.Strategy))
	if err != nil {
		return CloseResult{}, err
	}

	submitted := bytes.TrimSpace(input.FormData)
	var form domainshift.FormSubmission
	if len(submitted) > 0 {
		form, err = domainshift.ParseFormSubmission(submitted)
		if err != nil {
			return CloseResult{}, err
		}
	}

	event, err := s.loadEvent(ctx, input.EventID)
	if err != nil {
		return CloseResult{}, err
	}
	status, err := domainshift.ParseStatus(event.Status)
	if err != nil {
		return CloseResult{}, errs.Wrapf(err, "event %d", event.EventID)
	}
	if err := strategy.CheckPreconditions(status); err != nil {
		return CloseResult{}, errs.Wrapf(err, "event %d", event.EventID)
	}

	if len(submitted) == 0 {
		form, err = domainshift.ParseFormSubmission(event.FormData)
		if err != nil {
			return CloseResult{}, errs.Wrapf(err, "stored form of event %d", event.EventID)
		}
	}

	runID := s.newRunID()
	ctx = logging.WithEvent(ctx, event.EventID, runID)
	ctx = logging.WithAttrs(ctx,
		slog.String("component", "usecase.shift"),
		slog.String("strategy", string(strategy)),
	)
	logging.Info(ctx, "close shift started", slog.String("status", event.Status))

	result := CloseResult{
		EventID:  event.EventID,
		Strategy: string(strategy),
		Status:   event.Status,
		RunID:    runID,
	}

	if strategy.RunsExport() {
		exported, err := s.exportArtifacts(ctx, event, form, runID)
		if err != nil {
			logging.Error(ctx, "export section pdfs failed", slog.Any("err", errs.Loggable(err)))
			return CloseResult{}, err
		}
		result.FolderPath = exported.FolderPath
		result.Artifacts = exported.Artifacts
		result.Skipped = exported.Skipped

		s.publishBestEffort(ctx, ports.ShiftNotice{
			Kind:       ports.NoticeShiftExported,
			EventID:    event.EventID,
			EventName:  event.Name,
			EventDate:  event.Date,
			Status:     event.Status,
			FolderPath: exported.FolderPath,
			Artifacts:  artifactPaths(exported.Artifacts),
			RunID:      runID,
			OccurredAt: nowUTCString(),
		})
	}

	if strategy.RunsPayroll() {
		var rawForm []byte
		if len(submitted) > 0 {
			rawForm = submitted
		}
		finished, entries, err := s.finishTx(ctx, event.EventID, strategy, form, rawForm)
		if err != nil {
			logging.Error(ctx, "finish shift failed", slog.Any("err", errs.Loggable(err)))
			return CloseResult{}, err
		}
		result.Status = finished.Status
		result.TimeEntries = entries

		s.setCacheBestEffort(ctx, cacheEventStatusKey(event.EventID), finished.Status)
		s.publishBestEffort(ctx, ports.ShiftNotice{
			Kind:        ports.NoticeShiftFinished,
			EventID:     finished.EventID,
			EventName:   finished.Name,
			EventDate:   finished.Date,
			Status:      finished.Status,
			FolderPath:  result.FolderPath,
			Artifacts:   artifactPaths(result.Artifacts),
			TimeEntries: entries,
			RunID:       runID,
			OccurredAt:  derefString(finished.FinishedAt),
		})
	}

	logging.Info(ctx, "close shift completed",
		slog.String("status", result.Status),
		slog.Int("artifacts", len(result.Artifacts)),
		slog.Int("skipped", len(result.Skipped)),
		slog.Int("time_entries", result.TimeEntries),
	)
	return result, nil
}

// Finish books payroll and moves a checked event to finished.
func (s *Service) Finish(ctx context.Context, eventID uint64, formData []byte) (CloseResult, error) {
	return s.Close(ctx, CloseInput{EventID: eventID, FormData: formData, Strategy: domainshift.StrategyFinish})
}

// ExportFolder builds the section PDFs and returns the event folder,
// relative to the storage root.
func (s *Service) ExportFolder(ctx context.Context, eventID uint64, formData []byte) (string, error) {
	result, err := s.Close(ctx, CloseInput{EventID: eventID, FormData: formData, Strategy: domainshift.StrategyExport})
	if err != nil {
		return "", err
	}
	return result.FolderPath, nil
}

// CloseShift exports and finishes in one call, from closed or checked.
func (s *Service) CloseShift(ctx context.Context, eventID uint64, formData []byte) (CloseResult, error) {
	return s.Close(ctx, CloseInput{EventID: eventID, FormData: formData, Strategy: domainshift.StrategyLegacyClose})
}

func artifactPaths(artifacts []Artifact) []string {
	if len(artifacts) == 0 {
		return nil
	}
	out := make([]string, 0, len(artifacts))
	for _, artifact := range artifacts {
		out = append(out, artifact.Path)
	}
	return out
}
