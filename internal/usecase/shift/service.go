package shift

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"shiftclose/internal/bootstrap/logging"
	"shiftclose/internal/errs"
	"shiftclose/internal/ports"
)

const (
	settingExportFolderPrefix = "export.folder_prefix"
	maxCollisionAttempts      = 1000
	pdfContentType            = "application/pdf"
)

var (
	errRepositoryRequired = errors.New("event repository is required")
	errUnitOfWorkRequired = errors.New("unit of work is required")
	errBlobStoreRequired  = errors.New("blob store is required")
	errMergerRequired     = errors.New("pdf merger is required")
	errRendererRequired   = errors.New("timesheet renderer is required")
)

// Dependencies are the collaborators of Service. Cache, Notifier and
// Current are optional.
type Dependencies struct {
	Repo       ports.EventRepository
	UnitOfWork ports.UnitOfWork
	Cache      ports.Cache
	Blobs      ports.BlobStore
	Merger     ports.PDFMerger
	Timesheets ports.TimesheetRenderer
	Notifier   ports.ShiftNotifier
	Current    ports.CurrentEventResolver
	// EventsDir is the default parent of event folders, relative to the
	// storage root.
	EventsDir  string
	UploadsDir string
}

type Service struct {
	repo       ports.EventRepository
	uow        ports.UnitOfWork
	cache      ports.Cache
	blobs      ports.BlobStore
	merger     ports.PDFMerger
	timesheets ports.TimesheetRenderer
	notifier   ports.ShiftNotifier
	current    ports.CurrentEventResolver
	eventsDir  string
	uploadsDir string
	newRunID   func() string
}

// NewService wires the closing engine. Without a CurrentEventResolver the
// repository's most recent non-terminal event is used.
func NewService(deps Dependencies) *Service {
	current := deps.Current
	if current == nil && deps.Repo != nil {
		current = NewCurrentEventResolver(deps.Repo)
	}
	return &Service{
		repo:       deps.Repo,
		uow:        deps.UnitOfWork,
		cache:      deps.Cache,
		blobs:      deps.Blobs,
		merger:     deps.Merger,
		timesheets: deps.Timesheets,
		notifier:   deps.Notifier,
		current:    current,
		eventsDir:  cleanDir(deps.EventsDir, "events"),
		uploadsDir: cleanDir(deps.UploadsDir, "uploads"),
		newRunID:   func() string { return uuid.NewString() },
	}
}

func (s *Service) requireStore() error {
	if s.repo == nil {
		return errRepositoryRequired
	}
	if s.uow == nil {
		return errUnitOfWorkRequired
	}
	return nil
}

func (s *Service) setCacheBestEffort(ctx context.Context, key string, value string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Set(ctx, key, value, 0)
}

func (s *Service) publishBestEffort(ctx context.Context, notice ports.ShiftNotice) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Publish(ctx, notice); err != nil {
		logging.Warn(ctx, "publish shift notice failed",
			slog.String("kind", notice.Kind),
			slog.Any("err", errs.Loggable(err)),
		)
	}
}

func cleanDir(dir string, fallback string) string {
	trimmed := strings.Trim(strings.TrimSpace(dir), "/")
	if trimmed == "" {
		return fallback
	}
	return trimmed
}
