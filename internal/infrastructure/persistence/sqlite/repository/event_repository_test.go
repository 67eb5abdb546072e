package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"shiftclose/internal/infrastructure/persistence/sqlite/model"
	"shiftclose/internal/infrastructure/persistence/sqlite/uow"
	"shiftclose/internal/ports"
)

func setupEventRepository(t *testing.T) (*EventRepository, *gorm.DB) {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "events.sqlite")
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return NewEventRepository(db), db
}

func mustCreateEvent(t *testing.T, repo *EventRepository, name string, status string, createdAt string) ports.Event {
	t.Helper()

	event, err := repo.CreateEvent(context.Background(), ports.EventCreate{
		Name:      name,
		Date:      "2024-05-01",
		Phase:     "closed",
		Status:    status,
		CreatedAt: createdAt,
	})
	if err != nil {
		t.Fatalf("CreateEvent(%s) error = %v", name, err)
	}
	return event
}

func TestCreateAndGetEvent(t *testing.T) {
	repo, _ := setupEventRepository(t)
	ctx := context.Background()
	now := time.Now().UTC().Format(time.RFC3339Nano)

	created, err := repo.CreateEvent(ctx, ports.EventCreate{
		Name:      "Spring Gig",
		Date:      "2024-05-01",
		DoorsTime: "19:00",
		Phase:     "closed",
		Status:    "checked",
		FormData:  []byte(`{"version":1}`),
		CreatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateEvent() error = %v", err)
	}
	if created.EventID == 0 {
		t.Fatalf("CreateEvent() expected generated id")
	}

	got, err := repo.GetEvent(ctx, created.EventID)
	if err != nil {
		t.Fatalf("GetEvent() error = %v", err)
	}
	if got.Name != "Spring Gig" || got.Status != "checked" || got.DoorsTime != "19:00" {
		t.Fatalf("GetEvent() = %+v", got)
	}
	if string(got.FormData) != `{"version":1}` {
		t.Fatalf("GetEvent() form_data = %s", got.FormData)
	}
	if got.FinishedAt != nil {
		t.Fatalf("GetEvent() finished_at = %v, want nil", *got.FinishedAt)
	}
	if got.UpdatedAt != now {
		t.Fatalf("GetEvent() updated_at = %q, want %q", got.UpdatedAt, now)
	}
}

func TestGetEventNotFound(t *testing.T) {
	repo, _ := setupEventRepository(t)

	_, err := repo.GetEvent(context.Background(), 999)
	if !errors.Is(err, ports.ErrEventNotFound) {
		t.Fatalf("GetEvent() error = %v, want ErrEventNotFound", err)
	}
}

func TestUpdateEventPatchesOnlyGivenFields(t *testing.T) {
	repo, _ := setupEventRepository(t)
	ctx := context.Background()
	event := mustCreateEvent(t, repo, "Gig", "checked", "2024-05-01T10:00:00Z")

	finished := "finished"
	finishedAt := "2024-05-02T01:00:00Z"
	updated, err := repo.UpdateEvent(ctx, event.EventID, ports.EventPatch{
		Status:     &finished,
		FinishedAt: &finishedAt,
		UpdatedAt:  finishedAt,
	})
	if err != nil {
		t.Fatalf("UpdateEvent() error = %v", err)
	}
	if updated.Status != "finished" {
		t.Fatalf("UpdateEvent() status = %q", updated.Status)
	}
	if updated.Phase != "closed" {
		t.Fatalf("UpdateEvent() phase = %q, want unchanged", updated.Phase)
	}
	if updated.FinishedAt == nil || *updated.FinishedAt != finishedAt {
		t.Fatalf("UpdateEvent() finished_at = %v", updated.FinishedAt)
	}

	_, err = repo.UpdateEvent(ctx, 999, ports.EventPatch{Status: &finished, UpdatedAt: finishedAt})
	if !errors.Is(err, ports.ErrEventNotFound) {
		t.Fatalf("UpdateEvent(missing) error = %v", err)
	}
}

func TestFindCurrentEventSkipsTerminalStatuses(t *testing.T) {
	repo, _ := setupEventRepository(t)
	ctx := context.Background()

	if _, err := repo.FindCurrentEvent(ctx); !errors.Is(err, ports.ErrEventNotFound) {
		t.Fatalf("FindCurrentEvent(empty) error = %v", err)
	}

	mustCreateEvent(t, repo, "Old", "finished", "2024-05-03T10:00:00Z")
	open := mustCreateEvent(t, repo, "Open", "closed", "2024-05-02T10:00:00Z")
	mustCreateEvent(t, repo, "Archived", "archived", "2024-05-04T10:00:00Z")

	current, err := repo.FindCurrentEvent(ctx)
	if err != nil {
		t.Fatalf("FindCurrentEvent() error = %v", err)
	}
	if current.EventID != open.EventID {
		t.Fatalf("FindCurrentEvent() = %d, want %d", current.EventID, open.EventID)
	}
}

func TestListEventsFilters(t *testing.T) {
	repo, _ := setupEventRepository(t)
	ctx := context.Background()

	mustCreateEvent(t, repo, "A", "open", "2024-05-01T10:00:00Z")
	mustCreateEvent(t, repo, "B", "finished", "2024-05-01T10:00:00Z")
	mustCreateEvent(t, repo, "C", "checked", "2024-05-01T10:00:00Z")

	items, err := repo.ListEvents(ctx, ports.EventFilter{ExcludeStatuses: []string{"finished"}})
	if err != nil {
		t.Fatalf("ListEvents() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("ListEvents() len = %d, want 2", len(items))
	}

	items, err = repo.ListEvents(ctx, ports.EventFilter{Statuses: []string{"finished"}})
	if err != nil {
		t.Fatalf("ListEvents(status) error = %v", err)
	}
	if len(items) != 1 || items[0].Name != "B" {
		t.Fatalf("ListEvents(status) = %+v", items)
	}

	items, err = repo.ListEvents(ctx, ports.EventFilter{Limit: 1})
	if err != nil {
		t.Fatalf("ListEvents(limit) error = %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("ListEvents(limit) len = %d", len(items))
	}
}

func TestDocumentsAndTimeEntriesKeepInsertOrder(t *testing.T) {
	repo, _ := setupEventRepository(t)
	ctx := context.Background()
	event := mustCreateEvent(t, repo, "Gig", "checked", "2024-05-01T10:00:00Z")
	other := mustCreateEvent(t, repo, "Other", "checked", "2024-05-01T10:00:00Z")

	for _, label := range []string{"Security", "Cashier"} {
		if _, err := repo.InsertDocument(ctx, ports.DocumentCreate{
			EventID:     event.EventID,
			Type:        "scan",
			Label:       label,
			FilePath:    "uploads/" + label + ".pdf",
			ContentType: "application/pdf",
			CreatedAt:   "2024-05-01T10:00:00Z",
		}); err != nil {
			t.Fatalf("InsertDocument(%s) error = %v", label, err)
		}
	}
	if _, err := repo.InsertDocument(ctx, ports.DocumentCreate{
		EventID:   other.EventID,
		Type:      "scan",
		FilePath:  "uploads/x.pdf",
		CreatedAt: "2024-05-01T10:00:00Z",
	}); err != nil {
		t.Fatalf("InsertDocument(other) error = %v", err)
	}

	docs, err := repo.ListDocumentsForEvent(ctx, event.EventID)
	if err != nil {
		t.Fatalf("ListDocumentsForEvent() error = %v", err)
	}
	if len(docs) != 2 || docs[0].Label != "Security" || docs[1].Label != "Cashier" {
		t.Fatalf("ListDocumentsForEvent() = %+v", docs)
	}

	entry, err := repo.InsertTimeEntry(ctx, ports.TimeEntryCreate{
		EventID:    event.EventID,
		Role:       "security",
		EventName:  "Gig",
		EventDate:  "2024-05-01",
		PersonName: "Anna",
		Wage:       18,
		StartTime:  "18:00",
		EndTime:    "24:00",
		Hours:      6,
		Amount:     108,
		CreatedAt:  "2024-05-01T10:00:00Z",
	})
	if err != nil {
		t.Fatalf("InsertTimeEntry() error = %v", err)
	}
	if entry.TimeEntryID == 0 {
		t.Fatalf("InsertTimeEntry() expected generated id")
	}

	entries, err := repo.ListTimeEntries(ctx, event.EventID)
	if err != nil {
		t.Fatalf("ListTimeEntries() error = %v", err)
	}
	if len(entries) != 1 || entries[0].Amount != 108 || entries[0].PersonName != "Anna" {
		t.Fatalf("ListTimeEntries() = %+v", entries)
	}
}

func TestWageTablesUpsert(t *testing.T) {
	repo, _ := setupEventRepository(t)
	ctx := context.Background()

	if err := repo.UpsertRole(ctx, ports.Role{Name: "security", HourlyWage: 15, SortOrder: 1}); err != nil {
		t.Fatalf("UpsertRole() error = %v", err)
	}
	if err := repo.UpsertRole(ctx, ports.Role{Name: "security", HourlyWage: 16, SortOrder: 1}); err != nil {
		t.Fatalf("UpsertRole(update) error = %v", err)
	}
	if err := repo.UpsertRole(ctx, ports.Role{Name: " "}); err == nil {
		t.Fatalf("UpsertRole(empty) expected error")
	}

	roles, err := repo.ListRoles(ctx)
	if err != nil {
		t.Fatalf("ListRoles() error = %v", err)
	}
	if len(roles) != 1 || roles[0].HourlyWage != 16 {
		t.Fatalf("ListRoles() = %+v", roles)
	}

	if err := repo.UpsertPersonWage(ctx, ports.PersonWage{NameKey: "anna", DisplayName: "Anna", HourlyWage: 18, UpdatedAt: "2024-05-01T10:00:00Z"}); err != nil {
		t.Fatalf("UpsertPersonWage() error = %v", err)
	}
	if err := repo.UpsertPersonWage(ctx, ports.PersonWage{NameKey: "anna", DisplayName: "Anna", HourlyWage: 19, UpdatedAt: "2024-05-02T10:00:00Z"}); err != nil {
		t.Fatalf("UpsertPersonWage(update) error = %v", err)
	}

	overrides, err := repo.GetPersonWageOverrides(ctx)
	if err != nil {
		t.Fatalf("GetPersonWageOverrides() error = %v", err)
	}
	if overrides["anna"] != 19 || len(overrides) != 1 {
		t.Fatalf("GetPersonWageOverrides() = %v", overrides)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	repo, _ := setupEventRepository(t)
	ctx := context.Background()

	if _, found, err := repo.GetSetting(ctx, "export.folder_prefix"); err != nil || found {
		t.Fatalf("GetSetting(missing) found=%v err=%v", found, err)
	}

	if err := repo.PutSetting(ctx, "export.folder_prefix", []byte(`"archive"`), "2024-05-01T10:00:00Z"); err != nil {
		t.Fatalf("PutSetting() error = %v", err)
	}
	if err := repo.PutSetting(ctx, "export.folder_prefix", []byte(`"exports"`), "2024-05-02T10:00:00Z"); err != nil {
		t.Fatalf("PutSetting(update) error = %v", err)
	}

	value, found, err := repo.GetSetting(ctx, "export.folder_prefix")
	if err != nil || !found {
		t.Fatalf("GetSetting() found=%v err=%v", found, err)
	}
	if string(value) != `"exports"` {
		t.Fatalf("GetSetting() = %s", value)
	}
}

func TestRepositoryJoinsUnitOfWorkTransaction(t *testing.T) {
	repo, db := setupEventRepository(t)
	ctx := context.Background()
	event := mustCreateEvent(t, repo, "Gig", "checked", "2024-05-01T10:00:00Z")
	unit := uow.NewUnitOfWork(db)

	sentinel := errors.New("abort")
	err := unit.WithTx(ctx, func(txCtx context.Context) error {
		finished := "finished"
		if _, err := repo.UpdateEvent(txCtx, event.EventID, ports.EventPatch{Status: &finished, UpdatedAt: "2024-05-02T00:00:00Z"}); err != nil {
			return err
		}
		if _, err := repo.InsertTimeEntry(txCtx, ports.TimeEntryCreate{
			EventID:    event.EventID,
			Role:       "security",
			PersonName: "Anna",
			CreatedAt:  "2024-05-02T00:00:00Z",
		}); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("WithTx() error = %v, want sentinel", err)
	}

	got, err := repo.GetEvent(ctx, event.EventID)
	if err != nil {
		t.Fatalf("GetEvent() error = %v", err)
	}
	if got.Status != "checked" {
		t.Fatalf("status after rollback = %q, want checked", got.Status)
	}
	entries, err := repo.ListTimeEntries(ctx, event.EventID)
	if err != nil {
		t.Fatalf("ListTimeEntries() error = %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("time entries after rollback = %d, want 0", len(entries))
	}
}

func TestRepositoryRejectsForeignTx(t *testing.T) {
	repo, _ := setupEventRepository(t)
	ctx := ports.WithTxContext(context.Background(), "not-a-tx")

	if _, err := repo.GetEvent(ctx, 1); err == nil {
		t.Fatalf("GetEvent() expected error for invalid tx")
	}
}
