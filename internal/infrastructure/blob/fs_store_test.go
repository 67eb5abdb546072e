package blob

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"shiftclose/internal/ports"
)

func TestFSStoreWriteReadExists(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore() error = %v", err)
	}
	ctx := context.Background()

	ok, err := store.Exists(ctx, "events/2024-05-01-Gig/a.pdf")
	if err != nil || ok {
		t.Fatalf("Exists(before) = %v, %v", ok, err)
	}

	if err := store.WriteBytes(ctx, "events/2024-05-01-Gig/a.pdf", []byte("pdf")); err != nil {
		t.Fatalf("WriteBytes() error = %v", err)
	}

	ok, err = store.Exists(ctx, "events/2024-05-01-Gig/a.pdf")
	if err != nil || !ok {
		t.Fatalf("Exists(after) = %v, %v", ok, err)
	}

	data, err := store.ReadBytes(ctx, "events/2024-05-01-Gig/a.pdf")
	if err != nil {
		t.Fatalf("ReadBytes() error = %v", err)
	}
	if string(data) != "pdf" {
		t.Fatalf("ReadBytes() = %q", data)
	}
}

func TestFSStoreNeverOverwrites(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore() error = %v", err)
	}
	ctx := context.Background()

	if err := store.WriteBytes(ctx, "a.pdf", []byte("first")); err != nil {
		t.Fatalf("WriteBytes() error = %v", err)
	}
	err = store.WriteBytes(ctx, "a.pdf", []byte("second"))
	if !errors.Is(err, ports.ErrBlobExists) {
		t.Fatalf("WriteBytes(again) error = %v, want ErrBlobExists", err)
	}

	data, err := store.ReadBytes(ctx, "a.pdf")
	if err != nil {
		t.Fatalf("ReadBytes() error = %v", err)
	}
	if string(data) != "first" {
		t.Fatalf("ReadBytes() = %q, want first", data)
	}
}

func TestFSStoreReadMissing(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore() error = %v", err)
	}

	_, err = store.ReadBytes(context.Background(), "missing.pdf")
	if !errors.Is(err, ports.ErrBlobNotFound) {
		t.Fatalf("ReadBytes() error = %v, want ErrBlobNotFound", err)
	}
}

func TestFSStoreRejectsEscapingPaths(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore() error = %v", err)
	}
	ctx := context.Background()

	for _, p := range []string{"../x.pdf", "a/../../x.pdf", "", "."} {
		if err := store.WriteBytes(ctx, p, []byte("x")); !errors.Is(err, ports.ErrBlobPath) {
			t.Fatalf("WriteBytes(%q) error = %v, want ErrBlobPath", p, err)
		}
	}
}

func TestFSStoreRel(t *testing.T) {
	root := t.TempDir()
	store, err := NewFSStore(root)
	if err != nil {
		t.Fatalf("NewFSStore() error = %v", err)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		t.Fatalf("abs root: %v", err)
	}

	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{in: "uploads/1/scan.pdf", want: "uploads/1/scan.pdf", ok: true},
		{in: "./uploads//1/scan.pdf", want: "uploads/1/scan.pdf", ok: true},
		{in: filepath.Join(absRoot, "uploads", "1", "scan.pdf"), want: "uploads/1/scan.pdf", ok: true},
		{in: filepath.Join(filepath.Dir(absRoot), "elsewhere.pdf"), ok: false},
		{in: "../elsewhere.pdf", ok: false},
	}
	for _, tc := range cases {
		got, ok := store.Rel(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("Rel(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestNewFSStoreCreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "storage")
	if _, err := NewFSStore(root); err != nil {
		t.Fatalf("NewFSStore() error = %v", err)
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		t.Fatalf("root not created: %v", err)
	}
}

func TestFSStoreAbs(t *testing.T) {
	root := t.TempDir()
	store, err := NewFSStore(root)
	if err != nil {
		t.Fatalf("NewFSStore() error = %v", err)
	}

	got, err := store.Abs("events/2024-05-01-Gig")
	if err != nil {
		t.Fatalf("Abs() error = %v", err)
	}
	want := filepath.Join(store.Root(), "events", "2024-05-01-Gig")
	if got != want {
		t.Fatalf("Abs() = %q, want %q", got, want)
	}

	if _, err := store.Abs("../outside"); !errors.Is(err, ports.ErrBlobPath) {
		t.Fatalf("Abs(outside) error = %v, want ErrBlobPath", err)
	}
}
