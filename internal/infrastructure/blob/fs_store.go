package blob

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"shiftclose/internal/errs"
	"shiftclose/internal/ports"
)

// FSStore keeps blobs as plain files below one root directory.
type FSStore struct {
	root string
}

var _ ports.BlobStore = (*FSStore)(nil)

func NewFSStore(root string) (*FSStore, error) {
	trimmed := strings.TrimSpace(root)
	if trimmed == "" {
		return nil, errors.New("storage root is required")
	}
	absRoot, err := filepath.Abs(filepath.Clean(trimmed))
	if err != nil {
		return nil, errs.Wrap(err, "resolve storage root")
	}
	if err := os.MkdirAll(absRoot, 0o755); err != nil {
		return nil, errs.Wrapf(err, "create storage root %s", absRoot)
	}
	return &FSStore{root: absRoot}, nil
}

func (s *FSStore) Root() string {
	return s.root
}

func (s *FSStore) ReadBytes(ctx context.Context, relPath string) ([]byte, error) {
	if err := errs.RequireContext(ctx); err != nil {
		return nil, err
	}

	full, err := s.resolve(relPath)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errs.Wrapf(ports.ErrBlobNotFound, "read %s", relPath)
		}
		return nil, errs.Wrapf(err, "read %s", relPath)
	}
	return data, nil
}

func (s *FSStore) WriteBytes(ctx context.Context, relPath string, data []byte) error {
	if err := errs.RequireContext(ctx); err != nil {
		return err
	}

	full, err := s.resolve(relPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return errs.Wrapf(err, "create directory for %s", relPath)
	}

	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return errs.Wrapf(ports.ErrBlobExists, "write %s", relPath)
		}
		return errs.Wrapf(err, "open %s", relPath)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(full)
		return errs.Wrapf(err, "write %s", relPath)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(full)
		return errs.Wrapf(err, "close %s", relPath)
	}
	return nil
}

func (s *FSStore) Exists(ctx context.Context, relPath string) (bool, error) {
	if err := errs.RequireContext(ctx); err != nil {
		return false, err
	}

	full, err := s.resolve(relPath)
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(full); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, errs.Wrapf(err, "stat %s", relPath)
	}
	return true, nil
}

func (s *FSStore) Abs(relPath string) (string, error) {
	return s.resolve(relPath)
}

// Rel accepts paths stored by older releases as absolute paths, as well as
// root-relative ones.
func (s *FSStore) Rel(p string) (string, bool) {
	trimmed := strings.TrimSpace(p)
	if trimmed == "" {
		return "", false
	}

	if filepath.IsAbs(trimmed) {
		rel, err := filepath.Rel(s.root, filepath.Clean(trimmed))
		if err != nil {
			return "", false
		}
		trimmed = rel
	}

	cleaned := path.Clean(filepath.ToSlash(trimmed))
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") || strings.HasPrefix(cleaned, "/") {
		return "", false
	}
	return cleaned, true
}

func (s *FSStore) resolve(relPath string) (string, error) {
	rel, ok := s.Rel(relPath)
	if !ok {
		return "", errs.Wrapf(ports.ErrBlobPath, "resolve %q", relPath)
	}

	full := filepath.Join(s.root, filepath.FromSlash(rel))
	if full != s.root && !strings.HasPrefix(full, s.root+string(filepath.Separator)) {
		return "", errs.Wrapf(ports.ErrBlobPath, "resolve %q", relPath)
	}
	return full, nil
}
