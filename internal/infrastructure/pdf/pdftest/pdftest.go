// Package pdftest builds small, valid PDF documents for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PageSize is a page MediaBox in points.
type PageSize struct {
	Width  int
	Height int
}

// Document returns a PDF with one blank page per size, in order.
func Document(sizes ...PageSize) []byte {
	if len(sizes) == 0 {
		sizes = []PageSize{{Width: 595, Height: 842}}
	}

	var buf bytes.Buffer
	offsets := make([]int, 0, len(sizes)+2)
	buf.WriteString("%PDF-1.4\n")

	writeObject := func(num int, body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	kids := make([]string, 0, len(sizes))
	for i := range sizes {
		kids = append(kids, fmt.Sprintf("%d 0 R", i+3))
	}

	writeObject(1, "<< /Type /Catalog /Pages 2 0 R >>")
	writeObject(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(sizes)))
	for i, size := range sizes {
		writeObject(i+3, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %d %d] /Resources << >> >>",
			size.Width, size.Height,
		))
	}

	xrefOffset := buf.Len()
	objectCount := len(offsets) + 1
	fmt.Fprintf(&buf, "xref\n0 %d\n", objectCount)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", objectCount, xrefOffset)
	return buf.Bytes()
}

// Corrupt returns bytes that start like a PDF but cannot be parsed.
func Corrupt() []byte {
	return []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog /Pages 9 0 R\nthis is not a pdf\n")
}

// PageWidths reads back the page widths of a PDF, in page order.
func PageWidths(data []byte) ([]float64, error) {
	api.DisableConfigDir()
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	dims, err := api.PageDims(bytes.NewReader(data), conf)
	if err != nil {
		return nil, err
	}
	widths := make([]float64, 0, len(dims))
	for _, dim := range dims {
		widths = append(widths, dim.Width)
	}
	return widths, nil
}
