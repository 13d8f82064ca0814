package service

import (
	"fmt"
	"math"
	"strings"

	"github.com/UraN9/curriculum-parser/internal/dto"
)

// ── 校验引擎 ──
//
// 纯函数，不做 I/O。按行依次检查：
//   1. 学时非数值        → error / non-numeric
//   2. 学时为负          → error / negative-hours
//   3. 章节/主题/活动名缺失 → error / missing-field
// 之后按主题分组检查声明总学时与子活动学时之和是否一致（允许 0.01 容差），
// 不一致仅产生 warning，不阻断装载。

const hoursMismatchTolerance = 0.01

// Validate 校验解析出的活动行，返回完整校验报告
func Validate(rows []dto.PlanRow) dto.ValidationReport {
	report := dto.ValidationReport{}

	type themeKey struct {
		section, theme string
	}
	themeSums := make(map[themeKey]float64)
	themeDeclared := make(map[themeKey]float64)
	themeFirstRow := make(map[themeKey]int)
	var themeOrder []themeKey

	for _, row := range rows {
		hours, err := row.Hours()
		switch {
		case err != nil:
			report.Issues = append(report.Issues, dto.ValidationIssue{
				Severity: dto.IssueSeverityError,
				Category: dto.CategoryNonNumeric,
				Row:      row.RowNumber,
				Field:    "hours",
				Value:    row.HoursRaw,
				Message:  fmt.Sprintf("学时取值非数值: %q", row.HoursRaw),
			})
		case hours < 0:
			report.Issues = append(report.Issues, dto.ValidationIssue{
				Severity: dto.IssueSeverityError,
				Category: dto.CategoryNegativeHours,
				Row:      row.RowNumber,
				Field:    "hours",
				Value:    row.HoursRaw,
				Message:  fmt.Sprintf("学时取值为负: %v（必须 >= 0）", hours),
			})
		}

		if issue, bad := checkRequiredNames(row); bad {
			report.Issues = append(report.Issues, issue)
		}

		key := themeKey{section: strings.TrimSpace(row.SectionName), theme: strings.TrimSpace(row.ThemeName)}
		if _, seen := themeSums[key]; !seen {
			themeOrder = append(themeOrder, key)
			themeFirstRow[key] = row.RowNumber
			if declared, ok := row.ThemeTotal(); ok {
				themeDeclared[key] = declared
			}
		}
		if err == nil && hours >= 0 {
			themeSums[key] += hours
		}
	}

	for _, key := range themeOrder {
		declared, ok := themeDeclared[key]
		if !ok || declared <= 0 {
			continue
		}
		sum := themeSums[key]
		if math.Abs(declared-sum) > hoursMismatchTolerance {
			report.Issues = append(report.Issues, dto.ValidationIssue{
				Severity: dto.IssueSeverityWarning,
				Category: dto.CategoryTotalMismatch,
				Row:      themeFirstRow[key],
				Field:    "total_hours",
				Value:    fmt.Sprintf("%v", declared),
				Message: fmt.Sprintf("主题 %q 声明总学时 %v 与子活动学时之和 %v 不一致",
					key.theme, declared, sum),
			})
		}
	}

	for _, issue := range report.Issues {
		if issue.Severity == dto.IssueSeverityError {
			report.ErrorCount++
		} else {
			report.WarningCount++
		}
	}
	report.IsValid = report.ErrorCount == 0
	return report
}

// checkRequiredNames 章节、主题、活动名均不得为空白
func checkRequiredNames(row dto.PlanRow) (dto.ValidationIssue, bool) {
	var field string
	switch {
	case strings.TrimSpace(row.SectionName) == "":
		field = "section_name"
	case strings.TrimSpace(row.ThemeName) == "":
		field = "theme_name"
	case strings.TrimSpace(row.ActivityName) == "":
		field = "activity_name"
	default:
		return dto.ValidationIssue{}, false
	}
	return dto.ValidationIssue{
		Severity: dto.IssueSeverityError,
		Category: dto.CategoryMissingField,
		Row:      row.RowNumber,
		Field:    field,
		Message:  fmt.Sprintf("必填名称缺失: %s", field),
	}, true
}

// FormatValidationReport 将校验报告渲染为人类可读文本
func FormatValidationReport(report dto.ValidationReport) string {
	var b strings.Builder
	rule := strings.Repeat("=", 70)
	thin := strings.Repeat("-", 70)

	b.WriteString(rule + "\n")
	b.WriteString("VALIDATION REPORT\n")
	b.WriteString(rule + "\n")
	if report.IsValid {
		b.WriteString("VALID - no blocking errors\n")
	} else {
		fmt.Fprintf(&b, "INVALID - %d error(s) found\n", report.ErrorCount)
	}
	fmt.Fprintf(&b, "  Errors: %d\n", report.ErrorCount)
	fmt.Fprintf(&b, "  Warnings: %d\n\n", report.WarningCount)

	writeGroup := func(title, severity string) {
		var lines []string
		for _, issue := range report.Issues {
			if issue.Severity != severity {
				continue
			}
			lines = append(lines, fmt.Sprintf("  Row %4d | %-16s | %s",
				issue.Row, issue.Category, issue.Message))
		}
		if len(lines) == 0 {
			return
		}
		b.WriteString(title + "\n" + thin + "\n")
		for _, line := range lines {
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}
	writeGroup("ERRORS (must be fixed):", dto.IssueSeverityError)
	writeGroup("WARNINGS (informational):", dto.IssueSeverityWarning)

	b.WriteString(rule)
	return b.String()
}
