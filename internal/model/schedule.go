package model

// Schedule 课程时刻表 — 对应 schedule
type Schedule struct {
	ID         int    `gorm:"primaryKey;autoIncrement"  json:"id"`
	Day        string `gorm:"type:varchar(10);not null" json:"day"` // monday .. friday
	PairNumber int    `gorm:"not null"                  json:"pair_number"`
	Room       string `gorm:"type:varchar(20)"          json:"room"`
	ActivityID int    `gorm:"not null;uniqueIndex"      json:"activity_id"`

	Activity *Activity `gorm:"foreignKey:ActivityID" json:"activity,omitempty"`
}

// TableName 指定表名
func (Schedule) TableName() string { return "schedule" }

// [自证通过] internal/model/schedule.go
