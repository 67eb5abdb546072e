package model

type TimeEntry struct {
	TimeEntryID uint64  `gorm:"column:time_entry_id;primaryKey;autoIncrement"`
	EventID     uint64  `gorm:"column:event_id;not null;index"`
	Role        string  `gorm:"column:role;type:text;not null"`
	EventName   string  `gorm:"column:event_name;type:text;not null"`
	EventDate   string  `gorm:"column:event_date;type:text;not null"`
	PersonName  string  `gorm:"column:person_name;type:text;not null"`
	Wage        float64 `gorm:"column:wage;not null;default:0"`
	StartTime   string  `gorm:"column:start_time;type:text;not null;default:''"`
	EndTime     string  `gorm:"column:end_time;type:text;not null;default:''"`
	Hours       float64 `gorm:"column:hours;not null;default:0"`
	Amount      float64 `gorm:"column:amount;not null;default:0"`
	Category    string  `gorm:"column:category;type:text;not null;default:''"`
	CreatedAt   string  `gorm:"column:created_at;type:text;not null"`
}

func (TimeEntry) TableName() string {
	return "time_entries"
}
