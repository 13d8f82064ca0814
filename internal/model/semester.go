package model

// Semester 学期表 — 对应 semesters
type Semester struct {
	ID           int `gorm:"primaryKey;autoIncrement" json:"id"`
	Number       int `gorm:"not null"                 json:"number"`
	Weeks        int `gorm:"not null"                 json:"weeks"`
	HoursPerWeek int `gorm:"not null"                 json:"hours_per_week"`
}

// TableName 指定表名
func (Semester) TableName() string { return "semesters" }

// [自证通过] internal/model/semester.go
