package model

import "gorm.io/datatypes"

type Document struct {
	DocumentID  uint64         `gorm:"column:document_id;primaryKey;autoIncrement"`
	EventID     uint64         `gorm:"column:event_id;not null;index"`
	Type        string         `gorm:"column:type;type:text;not null;index"`
	Label       string         `gorm:"column:label;type:text;not null;default:''"`
	FilePath    string         `gorm:"column:file_path;type:text;not null"`
	ContentType string         `gorm:"column:content_type;type:text;not null;default:''"`
	Metadata    datatypes.JSON `gorm:"column:metadata"`
	CreatedAt   string         `gorm:"column:created_at;type:text;not null"`
}

func (Document) TableName() string {
	return "documents"
}
