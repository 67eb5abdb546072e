package model

type Role struct {
	RoleID     uint64  `gorm:"column:role_id;primaryKey;autoIncrement"`
	Name       string  `gorm:"column:name;type:text;not null;uniqueIndex"`
	HourlyWage float64 `gorm:"column:hourly_wage;not null;default:0"`
	SortOrder  int     `gorm:"column:sort_order;not null;default:0"`
}

func (Role) TableName() string {
	return "roles"
}

// PersonWage overrides the role wage for one person, keyed by the
// normalized name.
type PersonWage struct {
	NameKey     string  `gorm:"column:name_key;type:text;primaryKey"`
	DisplayName string  `gorm:"column:display_name;type:text;not null"`
	HourlyWage  float64 `gorm:"column:hourly_wage;not null"`
	UpdatedAt   string  `gorm:"column:updated_at;type:text;not null"`
}

func (PersonWage) TableName() string {
	return "person_wages"
}
