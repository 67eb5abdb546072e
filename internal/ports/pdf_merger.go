package ports

import (
	"context"
	"errors"
)

var ErrNoMergeableSources = errors.New("no mergeable pdf sources")

type PDFSource struct {
	Name string
	Data []byte
}

type SkippedSource struct {
	Name   string
	Reason string
}

type MergeResult struct {
	Data    []byte
	Pages   int
	Merged  []string
	Skipped []SkippedSource
}

// PDFMerger concatenates pages of the sources in order. Sources that do not
// parse are reported in Skipped; ErrNoMergeableSources when none parse.
type PDFMerger interface {
	MergePDFs(ctx context.Context, sources []PDFSource) (MergeResult, error)
}
