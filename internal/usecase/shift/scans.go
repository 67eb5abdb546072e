package shift

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"path"
	"strconv"
	"strings"

	"shiftclose/internal/bootstrap/logging"
	domainshift "shiftclose/internal/domain/shift"
	"shiftclose/internal/errs"
	"shiftclose/internal/ports"
)

type scanMetadata struct {
	OriginalName string `json:"original_name"`
	Size         int    `json:"size"`
}

// RegisterScan stores an uploaded scan under uploads/{eventID}/ and records
// it as a scan document. Unreferenced scans end up in the Additional
// section on the next export.
func (s *Service) RegisterScan(ctx context.Context, input RegisterScanInput) (DocumentItem, error) {
	if err := errs.RequireContext(ctx); err != nil {
		return DocumentItem{}, err
	}
	if s.repo == nil {
		return DocumentItem{}, errRepositoryRequired
	}
	if s.blobs == nil {
		return DocumentItem{}, errBlobStoreRequired
	}
	if len(input.Data) == 0 {
		return DocumentItem{}, errors.New("scan is empty")
	}

	event, err := s.loadEvent(ctx, input.EventID)
	if err != nil {
		return DocumentItem{}, err
	}

	folder := path.Join(s.uploadsDir, strconv.FormatUint(event.EventID, 10))
	rel, err := s.writeUnique(ctx, folder, uploadFileName(input.FileName), input.Data)
	if err != nil {
		return DocumentItem{}, errs.Wrap(err, "store scan")
	}

	metadata, err := json.Marshal(scanMetadata{
		OriginalName: path.Base(strings.ReplaceAll(input.FileName, "\\", "/")),
		Size:         len(input.Data),
	})
	if err != nil {
		return DocumentItem{}, errs.Wrap(err, "encode scan metadata")
	}

	doc, err := s.repo.InsertDocument(ctx, ports.DocumentCreate{
		EventID:     event.EventID,
		Type:        domainshift.DocumentTypeScan,
		Label:       strings.TrimSpace(input.Label),
		FilePath:    rel,
		ContentType: http.DetectContentType(input.Data),
		Metadata:    metadata,
		CreatedAt:   nowUTCString(),
	})
	if err != nil {
		return DocumentItem{}, errs.Wrapf(err, "record scan %s", rel)
	}

	logging.Info(logging.WithEvent(ctx, event.EventID, ""), "scan registered",
		slog.String("path", rel),
		slog.String("label", doc.Label),
	)
	return toDocumentItem(doc), nil
}

// uploadFileName keeps the extension and a sanitized stem of the client
// name.
func uploadFileName(name string) string {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	ext := strings.ToLower(path.Ext(base))
	stem := domainshift.SanitizeName(strings.TrimSuffix(base, path.Ext(base)))
	if stem == "" {
		stem = "scan"
	}
	if cleanExt := domainshift.SanitizeName(strings.TrimPrefix(ext, ".")); cleanExt != "" {
		return stem + "." + cleanExt
	}
	return stem
}
