package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/fx"

	"shiftclose/internal/infrastructure/notify"
	"shiftclose/internal/ports"
	"shiftclose/internal/usecase/shift"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "database:\n  dsn: " + filepath.Join(dir, "db", "shiftclose.sqlite") +
		"\nstorage:\n  root: " + filepath.Join(dir, "storage") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestModuleWiresShiftService(t *testing.T) {
	ctx := context.Background()
	configFile := writeTestConfig(t)

	var app *App
	var svc *shift.Service
	var notifier ports.ShiftNotifier
	fxApp := fx.New(
		Module,
		fx.NopLogger,
		fx.Provide(func() context.Context { return ctx }),
		fx.Provide(
			fx.Annotate(
				func() string { return configFile },
				fx.ResultTags(`name:"configFile"`),
			),
		),
		fx.Populate(&app, &svc, &notifier),
	)
	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx.New() error = %v", err)
	}
	if err := fxApp.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer func() {
		if err := fxApp.Stop(ctx); err != nil {
			t.Fatalf("Stop() error = %v", err)
		}
	}()

	if _, ok := notifier.(notify.NoopNotifier); !ok {
		t.Fatalf("notifier = %T, want NoopNotifier without nats url", notifier)
	}

	if err := app.InitSchema(ctx); err != nil {
		t.Fatalf("InitSchema() error = %v", err)
	}
	event, err := svc.CreateEvent(ctx, shift.CreateEventInput{Name: "Spring Gig", Date: "2024-05-01"})
	if err != nil {
		t.Fatalf("CreateEvent() error = %v", err)
	}

	current, err := svc.CurrentEvent(ctx)
	if err != nil {
		t.Fatalf("CurrentEvent() error = %v", err)
	}
	if current.EventID != event.EventID {
		t.Fatalf("current = %d, want %d", current.EventID, event.EventID)
	}
}

func TestNewAppInitSchema(t *testing.T) {
	ctx := context.Background()

	app, err := New(ctx, writeTestConfig(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() { _ = app.Close(ctx) }()

	if err := app.InitSchema(ctx); err != nil {
		t.Fatalf("InitSchema() error = %v", err)
	}
	if !app.DB.Migrator().HasTable("events") {
		t.Fatalf("events table missing after InitSchema()")
	}
}
