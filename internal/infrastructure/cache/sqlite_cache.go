package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shiftclose/internal/errs"
	"shiftclose/internal/infrastructure/persistence/sqlite/model"
	"shiftclose/internal/ports"
)

// keyPrefix keeps cache rows apart from operator settings in the same table.
const keyPrefix = "cache:"

// SQLiteCache stores cache entries as JSON strings in the settings table.
// TTL is ignored; entries are overwritten on the next Set.
type SQLiteCache struct {
	db *gorm.DB
}

var _ ports.Cache = (*SQLiteCache)(nil)

func NewSQLiteCache(db *gorm.DB) *SQLiteCache {
	return &SQLiteCache{db: db}
}

func (c *SQLiteCache) Get(ctx context.Context, key string) (string, bool, error) {
	if err := errs.RequireContext(ctx); err != nil {
		return "", false, err
	}

	storageKey, err := cacheKey(key)
	if err != nil {
		return "", false, err
	}

	var row model.Setting
	if err := c.db.WithContext(ctx).Where("`key` = ?", storageKey).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, errs.Wrap(err, "query cache by key")
	}

	var value string
	if err := json.Unmarshal(row.Value, &value); err != nil {
		return "", false, errs.Wrap(err, "decode cache value")
	}
	return value, true, nil
}

func (c *SQLiteCache) Set(ctx context.Context, key string, value string, _ time.Duration) error {
	if err := errs.RequireContext(ctx); err != nil {
		return err
	}

	storageKey, err := cacheKey(key)
	if err != nil {
		return err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return errs.Wrap(err, "encode cache value")
	}

	row := model.Setting{
		Key:       storageKey,
		Value:     datatypes.JSON(encoded),
		UpdatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}

	if err := c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]any{
			"value":      row.Value,
			"updated_at": row.UpdatedAt,
		}),
	}).Create(&row).Error; err != nil {
		return errs.Wrap(err, "upsert cache key")
	}

	return nil
}

func (c *SQLiteCache) Delete(ctx context.Context, key string) error {
	if err := errs.RequireContext(ctx); err != nil {
		return err
	}

	storageKey, err := cacheKey(key)
	if err != nil {
		return err
	}

	if err := c.db.WithContext(ctx).Where("`key` = ?", storageKey).Delete(&model.Setting{}).Error; err != nil {
		return errs.Wrap(err, "delete cache key")
	}
	return nil
}

func cacheKey(key string) (string, error) {
	trimmedKey := strings.TrimSpace(key)
	if trimmedKey == "" {
		return "", errors.New("key is required")
	}
	return keyPrefix + trimmedKey, nil
}
