package model

// Section 章节表（РОЗДІЛ）— 对应 sections
type Section struct {
	ID           int    `gorm:"primaryKey;autoIncrement"   json:"id"`
	Name         string `gorm:"type:varchar(200);not null" json:"name"`
	DisciplineID int    `gorm:"not null"                   json:"discipline_id"`
	SemesterID   *int   `json:"semester_id,omitempty"`

	Discipline *Discipline `gorm:"foreignKey:DisciplineID" json:"discipline,omitempty"`
	Semester   *Semester   `gorm:"foreignKey:SemesterID"   json:"semester,omitempty"`
}

// TableName 指定表名
func (Section) TableName() string { return "sections" }

// [自证通过] internal/model/section.go
