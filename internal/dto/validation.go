package dto

// ── 校验问题分类 ──

const (
	IssueSeverityError   = "error"
	IssueSeverityWarning = "warning"
)

const (
	CategoryNonNumeric    = "non-numeric"
	CategoryNegativeHours = "negative-hours"
	CategoryMissingField  = "missing-field"
	CategoryTotalMismatch = "total-mismatch"
)

// ValidationIssue 一条校验发现
type ValidationIssue struct {
	Severity string `json:"severity"` // error 阻断装载；warning 仅提示
	Category string `json:"category"`
	Row      int    `json:"row"`   // 源表 1 起始行号
	Field    string `json:"field"` // 出错字段名
	Value    string `json:"value"` // 违规原始值
	Message  string `json:"message"`
}

// ValidationReport 一次校验调用的完整结果
type ValidationReport struct {
	IsValid      bool              `json:"is_valid"` // error 级问题数为 0
	ErrorCount   int               `json:"error_count"`
	WarningCount int               `json:"warning_count"`
	Issues       []ValidationIssue `json:"issues"`
}

// [自证通过] internal/dto/validation.go
