package shift

import (
	"context"
	"encoding/json"
	"log/slog"
	"path"
	"strings"

	"shiftclose/internal/bootstrap/logging"
	domainshift "shiftclose/internal/domain/shift"
	"shiftclose/internal/errs"
	"shiftclose/internal/ports"
)

type exportOutcome struct {
	FolderPath string
	Artifacts  []Artifact
	Skipped    []SkippedGroup
}

// exportArtifacts groups every scan of the event and writes one section
// PDF per group. Only record store failures abort the export.
func (s *Service) exportArtifacts(ctx context.Context, event ports.Event, form domainshift.FormSubmission, runID string) (exportOutcome, error) {
	if s.blobs == nil {
		return exportOutcome{}, errBlobStoreRequired
	}
	if s.merger == nil {
		return exportOutcome{}, errMergerRequired
	}

	date, err := domainshift.NormalizeEventDate(event.Date)
	if err != nil {
		return exportOutcome{}, errs.Wrapf(err, "event %d", event.EventID)
	}
	folder, err := s.eventFolder(ctx, date, event.Name)
	if err != nil {
		return exportOutcome{}, err
	}

	docs, err := s.repo.ListDocumentsForEvent(ctx, event.EventID)
	if err != nil {
		return exportOutcome{}, errs.Wrap(err, "list event documents")
	}
	stored := s.storedDocuments(docs)

	outcome := exportOutcome{FolderPath: folder}

	resolved, unresolved := domainshift.ResolveScanRefs(domainshift.CollectScanRefs(form), stored, s.blobs.Rel)
	for _, ref := range unresolved {
		logging.Warn(ctx, "scan reference not resolvable",
			slog.String("source", ref.Source),
			slog.String("scan_name", ref.Ref.ScanName),
			slog.Uint64("document_id", ref.Ref.DocumentID),
			slog.String("path", ref.Ref.Path),
		)
		outcome.Skipped = append(outcome.Skipped, SkippedGroup{
			ScanName: ref.Ref.ScanName,
			Source:   ref.Source,
			Reason:   "unresolved reference",
		})
	}
	resolved = domainshift.AppendLooseScans(resolved, stored)

	for _, group := range domainshift.GroupScans(resolved) {
		artifact, reason, err := s.writeGroupArtifact(ctx, event, date, folder, group, runID)
		if err != nil {
			return outcome, err
		}
		if reason != "" {
			outcome.Skipped = append(outcome.Skipped, SkippedGroup{
				ScanName: group.ScanName,
				Source:   group.Source,
				Category: group.Category,
				Reason:   reason,
			})
			continue
		}
		outcome.Artifacts = append(outcome.Artifacts, artifact)
	}

	logging.Info(ctx, "event folder exported",
		slog.String("folder", folder),
		slog.Int("artifacts", len(outcome.Artifacts)),
	)
	return outcome, nil
}

// eventFolder is "{prefix}/{date}-{event}" with the prefix taken from the
// export.folder_prefix setting when present.
func (s *Service) eventFolder(ctx context.Context, date string, eventName string) (string, error) {
	prefix := s.eventsDir

	raw, found, err := s.repo.GetSetting(ctx, settingExportFolderPrefix)
	if err != nil {
		return "", errs.Wrap(err, "load export folder prefix")
	}
	if found {
		var configured string
		if err := json.Unmarshal(raw, &configured); err != nil {
			logging.Warn(ctx, "export folder prefix is not a JSON string, using default",
				slog.String("value", string(raw)),
			)
		} else if cleaned, ok := cleanRelativeDir(configured); ok {
			prefix = cleaned
		} else if strings.TrimSpace(configured) != "" {
			logging.Warn(ctx, "export folder prefix escapes storage root, using default",
				slog.String("value", configured),
			)
		}
	}

	return path.Join(prefix, domainshift.EventFolderName(date, eventName)), nil
}

func (s *Service) storedDocuments(docs []ports.Document) []domainshift.StoredDocument {
	out := make([]domainshift.StoredDocument, 0, len(docs))
	for _, doc := range docs {
		rel := doc.FilePath
		if normalized, ok := s.blobs.Rel(doc.FilePath); ok {
			rel = normalized
		}
		out = append(out, domainshift.StoredDocument{
			DocumentID: doc.DocumentID,
			Type:       doc.Type,
			Label:      doc.Label,
			Path:       rel,
		})
	}
	return out
}

func cleanRelativeDir(dir string) (string, bool) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return "", false
	}
	cleaned := path.Clean(strings.ReplaceAll(trimmed, "\\", "/"))
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") || strings.HasPrefix(cleaned, "/") {
		return "", false
	}
	return cleaned, true
}
