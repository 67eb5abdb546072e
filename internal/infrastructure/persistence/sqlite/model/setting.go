package model

import "gorm.io/datatypes"

type Setting struct {
	Key       string         `gorm:"column:key;type:text;primaryKey"`
	Value     datatypes.JSON `gorm:"column:value;not null"`
	UpdatedAt string         `gorm:"column:updated_at;type:text;not null"`
}

func (Setting) TableName() string {
	return "settings"
}

// All lists every model for AutoMigrate.
func All() []any {
	return []any{
		&Event{},
		&Document{},
		&TimeEntry{},
		&Role{},
		&PersonWage{},
		&Setting{},
	}
}
