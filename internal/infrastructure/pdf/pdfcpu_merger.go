package pdf

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"shiftclose/internal/errs"
	"shiftclose/internal/ports"
)

var disableConfigDir sync.Once

// PDFCPUMerger concatenates PDFs with pdfcpu. Every source is validated on
// its own first so one damaged scan does not sink the whole group.
type PDFCPUMerger struct{}

var _ ports.PDFMerger = (*PDFCPUMerger)(nil)

func NewPDFCPUMerger() *PDFCPUMerger {
	disableConfigDir.Do(api.DisableConfigDir)
	return &PDFCPUMerger{}
}

func newConfiguration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

func (m *PDFCPUMerger) MergePDFs(ctx context.Context, sources []ports.PDFSource) (ports.MergeResult, error) {
	if err := errs.RequireContext(ctx); err != nil {
		return ports.MergeResult{}, err
	}

	result := ports.MergeResult{}
	survivors := make([][]byte, 0, len(sources))
	for _, source := range sources {
		if err := ctx.Err(); err != nil {
			return ports.MergeResult{}, errs.Wrap(err, "merge pdfs")
		}
		if reason := validateSource(source.Data); reason != "" {
			result.Skipped = append(result.Skipped, ports.SkippedSource{Name: source.Name, Reason: reason})
			continue
		}
		survivors = append(survivors, source.Data)
		result.Merged = append(result.Merged, source.Name)
	}

	if len(survivors) == 0 {
		return result, ports.ErrNoMergeableSources
	}

	var out bytes.Buffer
	if len(survivors) == 1 {
		// a lone survivor is passed through untouched
		out.Write(survivors[0])
	} else {
		readers := make([]io.ReadSeeker, 0, len(survivors))
		for _, data := range survivors {
			readers = append(readers, bytes.NewReader(data))
		}
		if err := api.MergeRaw(readers, &out, false, newConfiguration()); err != nil {
			return ports.MergeResult{}, errs.Wrap(err, "merge pdf pages")
		}
	}

	pages, err := api.PageCount(bytes.NewReader(out.Bytes()), newConfiguration())
	if err != nil {
		return ports.MergeResult{}, errs.Wrap(err, "count merged pages")
	}

	result.Data = out.Bytes()
	result.Pages = pages
	return result, nil
}

// PageCount reports the number of pages of a PDF.
func PageCount(data []byte) (int, error) {
	disableConfigDir.Do(api.DisableConfigDir)
	pages, err := api.PageCount(bytes.NewReader(data), newConfiguration())
	if err != nil {
		return 0, errs.Wrap(err, "count pages")
	}
	return pages, nil
}

func validateSource(data []byte) string {
	if len(data) == 0 {
		return "empty file"
	}
	if !bytes.HasPrefix(bytes.TrimLeft(data, "\x00\t\r\n "), []byte("%PDF-")) {
		return "not a pdf"
	}
	if err := api.Validate(bytes.NewReader(data), newConfiguration()); err != nil {
		return strings.TrimSpace(err.Error())
	}
	return ""
}
