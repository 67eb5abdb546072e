package model

import "gorm.io/datatypes"

type Event struct {
	EventID    uint64         `gorm:"column:event_id;primaryKey;autoIncrement"`
	Name       string         `gorm:"column:name;type:text;not null"`
	Date       string         `gorm:"column:date;type:text;not null;index"`
	DoorsTime  string         `gorm:"column:doors_time;type:text;not null;default:''"`
	Phase      string         `gorm:"column:phase;type:text;not null;default:''"`
	Status     string         `gorm:"column:status;type:text;not null;index"`
	FormData   datatypes.JSON `gorm:"column:form_data"`
	CreatedAt  string         `gorm:"column:created_at;type:text;not null"`
	UpdatedAt  string         `gorm:"column:updated_at;type:text;not null;index"`
	FinishedAt *string        `gorm:"column:finished_at;type:text"`
}

func (Event) TableName() string {
	return "events"
}
