package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shiftclose/internal/errs"
	"shiftclose/internal/infrastructure/persistence/sqlite/model"
	"shiftclose/internal/ports"
)

type EventRepository struct {
	db *gorm.DB
}

var _ ports.EventRepository = (*EventRepository)(nil)

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) dbFromContext(ctx context.Context) (*gorm.DB, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	tx := ports.TxFromContext(ctx)
	if tx == nil {
		return r.db.WithContext(ctx), nil
	}

	gormTx, ok := tx.(*gorm.DB)
	if !ok || gormTx == nil {
		return nil, fmt.Errorf("invalid tx in context: %T", tx)
	}
	return gormTx.WithContext(ctx), nil
}

func (r *EventRepository) GetEvent(ctx context.Context, eventID uint64) (ports.Event, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Event{}, err
	}
	return getEventByID(db, eventID)
}

func (r *EventRepository) ListEvents(ctx context.Context, filter ports.EventFilter) ([]ports.Event, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	query := db.Model(&model.Event{})
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if len(filter.ExcludeStatuses) > 0 {
		query = query.Where("status NOT IN ?", filter.ExcludeStatuses)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var rows []model.Event
	if err := query.Order("date desc").Order("event_id desc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query events")
	}

	items := make([]ports.Event, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapEvent(row))
	}
	return items, nil
}

func (r *EventRepository) FindCurrentEvent(ctx context.Context) (ports.Event, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Event{}, err
	}

	var row model.Event
	if err := db.
		Where("status NOT IN ?", []string{"finished", "archived"}).
		Order("updated_at desc").
		Order("event_id desc").
		Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Event{}, ports.ErrEventNotFound
		}
		return ports.Event{}, errs.Wrap(err, "query current event")
	}
	return mapEvent(row), nil
}

func (r *EventRepository) CreateEvent(ctx context.Context, input ports.EventCreate) (ports.Event, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Event{}, err
	}

	row := model.Event{
		Name:      input.Name,
		Date:      input.Date,
		DoorsTime: input.DoorsTime,
		Phase:     input.Phase,
		Status:    input.Status,
		FormData:  jsonOrNil(input.FormData),
		CreatedAt: input.CreatedAt,
		UpdatedAt: input.CreatedAt,
	}
	if err := db.Create(&row).Error; err != nil {
		return ports.Event{}, errs.Wrap(err, "insert event")
	}
	return mapEvent(row), nil
}

func (r *EventRepository) UpdateEvent(ctx context.Context, eventID uint64, patch ports.EventPatch) (ports.Event, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Event{}, err
	}

	updates := map[string]any{
		"updated_at": patch.UpdatedAt,
	}
	if patch.Phase != nil {
		updates["phase"] = *patch.Phase
	}
	if patch.Status != nil {
		updates["status"] = *patch.Status
	}
	if patch.FormData != nil {
		updates["form_data"] = datatypes.JSON(patch.FormData)
	}
	if patch.FinishedAt != nil {
		updates["finished_at"] = *patch.FinishedAt
	}

	result := db.Model(&model.Event{}).Where("event_id = ?", eventID).Updates(updates)
	if result.Error != nil {
		return ports.Event{}, errs.Wrap(result.Error, "update event")
	}
	if result.RowsAffected == 0 {
		return ports.Event{}, ports.ErrEventNotFound
	}
	return getEventByID(db, eventID)
}

func (r *EventRepository) InsertTimeEntry(ctx context.Context, input ports.TimeEntryCreate) (ports.TimeEntry, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.TimeEntry{}, err
	}

	row := model.TimeEntry{
		EventID:    input.EventID,
		Role:       input.Role,
		EventName:  input.EventName,
		EventDate:  input.EventDate,
		PersonName: input.PersonName,
		Wage:       input.Wage,
		StartTime:  input.StartTime,
		EndTime:    input.EndTime,
		Hours:      input.Hours,
		Amount:     input.Amount,
		Category:   input.Category,
		CreatedAt:  input.CreatedAt,
	}
	if err := db.Create(&row).Error; err != nil {
		return ports.TimeEntry{}, errs.Wrap(err, "insert time entry")
	}
	return mapTimeEntry(row), nil
}

func (r *EventRepository) ListTimeEntries(ctx context.Context, eventID uint64) ([]ports.TimeEntry, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.TimeEntry
	if err := db.Where("event_id = ?", eventID).Order("time_entry_id asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query time entries")
	}

	items := make([]ports.TimeEntry, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapTimeEntry(row))
	}
	return items, nil
}

func (r *EventRepository) InsertDocument(ctx context.Context, input ports.DocumentCreate) (ports.Document, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Document{}, err
	}

	row := model.Document{
		EventID:     input.EventID,
		Type:        input.Type,
		Label:       input.Label,
		FilePath:    input.FilePath,
		ContentType: input.ContentType,
		Metadata:    jsonOrNil(input.Metadata),
		CreatedAt:   input.CreatedAt,
	}
	if err := db.Create(&row).Error; err != nil {
		return ports.Document{}, errs.Wrap(err, "insert document")
	}
	return mapDocument(row), nil
}

func (r *EventRepository) ListDocumentsForEvent(ctx context.Context, eventID uint64) ([]ports.Document, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.Document
	if err := db.Where("event_id = ?", eventID).Order("document_id asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query documents")
	}

	items := make([]ports.Document, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapDocument(row))
	}
	return items, nil
}

func (r *EventRepository) ListRoles(ctx context.Context) ([]ports.Role, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.Role
	if err := db.Order("sort_order asc").Order("name asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query roles")
	}

	items := make([]ports.Role, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.Role{
			RoleID:     row.RoleID,
			Name:       row.Name,
			HourlyWage: row.HourlyWage,
			SortOrder:  row.SortOrder,
		})
	}
	return items, nil
}

func (r *EventRepository) UpsertRole(ctx context.Context, role ports.Role) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	name := strings.TrimSpace(role.Name)
	if name == "" {
		return errors.New("role name is required")
	}

	row := model.Role{
		Name:       name,
		HourlyWage: role.HourlyWage,
		SortOrder:  role.SortOrder,
	}
	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}},
		DoUpdates: clause.Assignments(map[string]any{
			"hourly_wage": row.HourlyWage,
			"sort_order":  row.SortOrder,
		}),
	}).Create(&row).Error; err != nil {
		return errs.Wrap(err, "upsert role")
	}
	return nil
}

func (r *EventRepository) GetPersonWageOverrides(ctx context.Context) (map[string]float64, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.PersonWage
	if err := db.Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query person wages")
	}

	out := make(map[string]float64, len(rows))
	for _, row := range rows {
		out[row.NameKey] = row.HourlyWage
	}
	return out, nil
}

func (r *EventRepository) UpsertPersonWage(ctx context.Context, wage ports.PersonWage) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}
	if strings.TrimSpace(wage.NameKey) == "" {
		return errors.New("person wage name key is required")
	}

	row := model.PersonWage{
		NameKey:     wage.NameKey,
		DisplayName: wage.DisplayName,
		HourlyWage:  wage.HourlyWage,
		UpdatedAt:   wage.UpdatedAt,
	}
	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name_key"}},
		DoUpdates: clause.Assignments(map[string]any{
			"display_name": row.DisplayName,
			"hourly_wage":  row.HourlyWage,
			"updated_at":   row.UpdatedAt,
		}),
	}).Create(&row).Error; err != nil {
		return errs.Wrap(err, "upsert person wage")
	}
	return nil
}

func (r *EventRepository) GetSetting(ctx context.Context, key string) ([]byte, bool, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, false, err
	}

	var row model.Setting
	if err := db.Where("`key` = ?", strings.TrimSpace(key)).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, errs.Wrap(err, "query setting")
	}
	return []byte(row.Value), true, nil
}

func (r *EventRepository) PutSetting(ctx context.Context, key string, value []byte, updatedAt string) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	trimmedKey := strings.TrimSpace(key)
	if trimmedKey == "" {
		return errors.New("setting key is required")
	}

	row := model.Setting{
		Key:       trimmedKey,
		Value:     datatypes.JSON(value),
		UpdatedAt: updatedAt,
	}
	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]any{
			"value":      row.Value,
			"updated_at": row.UpdatedAt,
		}),
	}).Create(&row).Error; err != nil {
		return errs.Wrap(err, "upsert setting")
	}
	return nil
}

func getEventByID(db *gorm.DB, eventID uint64) (ports.Event, error) {
	var row model.Event
	if err := db.Where("event_id = ?", eventID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Event{}, ports.ErrEventNotFound
		}
		return ports.Event{}, errs.Wrap(err, "query event")
	}
	return mapEvent(row), nil
}

func mapEvent(row model.Event) ports.Event {
	return ports.Event{
		EventID:    row.EventID,
		Name:       row.Name,
		Date:       row.Date,
		DoorsTime:  row.DoorsTime,
		Phase:      row.Phase,
		Status:     row.Status,
		FormData:   []byte(row.FormData),
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
		FinishedAt: row.FinishedAt,
	}
}

func mapDocument(row model.Document) ports.Document {
	return ports.Document{
		DocumentID:  row.DocumentID,
		EventID:     row.EventID,
		Type:        row.Type,
		Label:       row.Label,
		FilePath:    row.FilePath,
		ContentType: row.ContentType,
		Metadata:    []byte(row.Metadata),
		CreatedAt:   row.CreatedAt,
	}
}

func mapTimeEntry(row model.TimeEntry) ports.TimeEntry {
	return ports.TimeEntry{
		TimeEntryID: row.TimeEntryID,
		EventID:     row.EventID,
		Role:        row.Role,
		EventName:   row.EventName,
		EventDate:   row.EventDate,
		PersonName:  row.PersonName,
		Wage:        row.Wage,
		StartTime:   row.StartTime,
		EndTime:     row.EndTime,
		Hours:       row.Hours,
		Amount:      row.Amount,
		Category:    row.Category,
		CreatedAt:   row.CreatedAt,
	}
}

func jsonOrNil(raw []byte) datatypes.JSON {
	if len(raw) == 0 {
		return nil
	}
	return datatypes.JSON(raw)
}
