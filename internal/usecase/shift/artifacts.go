package shift

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path"

	"shiftclose/internal/bootstrap/logging"
	domainshift "shiftclose/internal/domain/shift"
	"shiftclose/internal/errs"
	"shiftclose/internal/ports"
)

type sectionMetadata struct {
	RunID    string   `json:"run_id"`
	ScanName string   `json:"scan_name"`
	Sources  []string `json:"sources"`
	Pages    int      `json:"pages,omitempty"`
	Unpaid   bool     `json:"unpaid,omitempty"`
}

// writeGroupArtifact returns a non-empty reason when the group produced no
// file. The error is reserved for record store failures.
func (s *Service) writeGroupArtifact(
	ctx context.Context,
	event ports.Event,
	date string,
	folder string,
	group domainshift.ScanGroup,
	runID string,
) (Artifact, string, error) {
	groupCtx := logging.WithAttrs(ctx,
		slog.String("scan_name", group.ScanName),
		slog.String("category", group.Category),
	)

	prefix := ""
	unpaid := false
	switch domainshift.PurchaseReceiptMark(group) {
	case domainshift.ReceiptPaid:
		logging.Info(groupCtx, "paid purchase receipts skipped")
		return Artifact{}, "paid purchase receipt", nil
	case domainshift.ReceiptUnpaid:
		prefix = domainshift.UnpaidPrefix
		unpaid = true
	}

	sources := make([]ports.PDFSource, 0, len(group.Scans))
	for _, scan := range group.Scans {
		data, err := s.blobs.ReadBytes(ctx, scan.Path)
		if err != nil {
			logging.Warn(groupCtx, "read scan failed",
				slog.String("path", scan.Path),
				slog.Any("err", errs.Loggable(err)),
			)
			return Artifact{}, fmt.Sprintf("read %s: %v", scan.Path, err), nil
		}
		sources = append(sources, ports.PDFSource{Name: scan.Path, Data: data})
	}

	data, merged, pages, reason := s.combineSources(groupCtx, sources)
	if reason != "" {
		return Artifact{}, reason, nil
	}

	name := domainshift.SectionFileName(prefix, group.Category, date, event.Name, ".pdf")
	rel, err := s.writeUnique(ctx, folder, name, data)
	if err != nil {
		logging.Warn(groupCtx, "write section pdf failed",
			slog.String("name", name),
			slog.Any("err", errs.Loggable(err)),
		)
		return Artifact{}, fmt.Sprintf("write %s: %v", name, err), nil
	}

	metadata, err := json.Marshal(sectionMetadata{
		RunID:    runID,
		ScanName: group.ScanName,
		Sources:  merged,
		Pages:    pages,
		Unpaid:   unpaid,
	})
	if err != nil {
		return Artifact{}, "", errs.Wrap(err, "encode section metadata")
	}

	doc, err := s.repo.InsertDocument(ctx, ports.DocumentCreate{
		EventID:     event.EventID,
		Type:        domainshift.DocumentTypeSection,
		Label:       group.Category,
		FilePath:    rel,
		ContentType: pdfContentType,
		Metadata:    metadata,
		CreatedAt:   nowUTCString(),
	})
	if err != nil {
		return Artifact{}, "", errs.Wrapf(err, "record section document %s", rel)
	}

	logging.Info(groupCtx, "section pdf written",
		slog.String("path", rel),
		slog.Int("sources", len(merged)),
	)
	return Artifact{
		DocumentID: doc.DocumentID,
		Category:   group.Category,
		ScanName:   group.ScanName,
		Path:       rel,
		Sources:    merged,
		Pages:      pages,
	}, "", nil
}

// combineSources copies a single source verbatim and concatenates pages
// otherwise. pages is 0 when nothing was merged.
func (s *Service) combineSources(ctx context.Context, sources []ports.PDFSource) ([]byte, []string, int, string) {
	if len(sources) == 1 {
		return sources[0].Data, []string{sources[0].Name}, 0, ""
	}

	merged, err := s.merger.MergePDFs(ctx, sources)
	for _, skipped := range merged.Skipped {
		logging.Warn(ctx, "unparseable scan skipped",
			slog.String("path", skipped.Name),
			slog.String("reason", skipped.Reason),
		)
	}
	if err != nil {
		if errors.Is(err, ports.ErrNoMergeableSources) {
			return nil, nil, 0, "no mergeable sources"
		}
		logging.Warn(ctx, "merge scans failed", slog.Any("err", errs.Loggable(err)))
		return nil, nil, 0, fmt.Sprintf("merge: %v", err)
	}
	return merged.Data, merged.Merged, merged.Pages, ""
}

// writeUnique writes data as folder/name, or name_1, name_2, ... when
// taken. Existing files are never touched.
func (s *Service) writeUnique(ctx context.Context, folder string, name string, data []byte) (string, error) {
	for attempt := 0; attempt < maxCollisionAttempts; attempt++ {
		rel := path.Join(folder, domainshift.CollisionCandidate(name, attempt))
		exists, err := s.blobs.Exists(ctx, rel)
		if err != nil {
			return "", err
		}
		if exists {
			continue
		}
		if err := s.blobs.WriteBytes(ctx, rel, data); err != nil {
			if errors.Is(err, ports.ErrBlobExists) {
				continue
			}
			return "", err
		}
		return rel, nil
	}
	return "", fmt.Errorf("no free name for %s in %s after %d attempts", name, folder, maxCollisionAttempts)
}
