package service

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/UraN9/curriculum-parser/internal/dto"
)

// ── План 工作表解析器 ──────────────────────────────────────────
//
// 职责：将课程计划 xlsx 中的 "План" 工作表解析为教学活动行列表。
//
// 设计决策：
//   - 首列以 РОЗДІЛ 开头的行开启新章节，以 Тема 开头的行开启新主题
//   - 活动行按首列前缀识别类型（Лекція / Практична / Семінарська /
//     Лабораторна / Самостійна），学时取该类型对应的列
//   - 学期号从任意含 СЕМЕСТР 的单元格中按首个数字串提取
//   - 单元格按原始文本保留，数值解析推迟到校验阶段
// ─────────────────────────────────────────────────────────────

const (
	sectionMarker   = "РОЗДІЛ"
	themeMarker     = "Тема"
	semesterKeyword = "СЕМЕСТР"
)

// 学时列序（0 起始）：总计 / 讲课 / 实践或实验 / 自学
const (
	colLabel        = 0
	colTotalHours   = 1
	colLectureHours = 3
	colPracLabHours = 4
	colSelfHours    = 5
	colControlForm  = 6
)

// 活动类型前缀 → 标准类型名
var activityTypeByPrefix = []struct {
	prefix   string
	typeName string
}{
	{"Лекція", "Лекція"},
	{"Практична", "Практична"},
	{"Практичні", "Практична"},
	{"Семінарська", "Практична"},
	{"Лабораторна", "Лабораторна"},
	{"Самостійна", "Самостійна"},
}

var semesterNumberPattern = regexp.MustCompile(`\d+`)

// ParsedPlan План 工作表解析结果
type ParsedPlan struct {
	Rows           []dto.PlanRow
	SemesterNumber int // 未识别时为 0
}

// ParsePlanSheet 解析 xlsx 内容；工作表缺失或文件损坏返回解析错误
func ParsePlanSheet(reader io.Reader, sheetName string) (*ParsedPlan, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("无法打开 xlsx 文件: %w", err)
	}
	defer f.Close()

	grid, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("工作表 %s 不存在: %w", sheetName, err)
	}

	plan := &ParsedPlan{}
	var currentSection, currentTheme, currentThemeTotal string

	for i, row := range grid {
		rowNum := i + 1
		label := strings.TrimSpace(cell(row, colLabel))

		if plan.SemesterNumber == 0 {
			plan.SemesterNumber = scanSemesterNumber(row)
		}

		if strings.HasPrefix(label, sectionMarker) {
			currentSection = label
			currentTheme = ""
			currentThemeTotal = ""
			continue
		}
		if strings.HasPrefix(label, themeMarker) {
			currentTheme = label
			currentThemeTotal = strings.TrimSpace(cell(row, colTotalHours))
			continue
		}

		typeName, hoursCol := matchActivityType(label)
		if typeName == "" || currentTheme == "" {
			continue
		}
		plan.Rows = append(plan.Rows, dto.PlanRow{
			RowNumber:      rowNum,
			SectionName:    currentSection,
			ThemeName:      currentTheme,
			ActivityName:   label,
			TypeLabel:      typeName,
			HoursRaw:       strings.TrimSpace(cell(row, hoursCol)),
			ControlForm:    strings.TrimSpace(cell(row, colControlForm)),
			SemesterNumber: plan.SemesterNumber,
			ThemeTotalRaw:  currentThemeTotal,
		})
	}
	return plan, nil
}

// matchActivityType 按前缀识别活动类型，返回标准类型名与学时列序
func matchActivityType(label string) (string, int) {
	for _, m := range activityTypeByPrefix {
		if strings.HasPrefix(label, m.prefix) {
			switch m.typeName {
			case "Лекція":
				return m.typeName, colLectureHours
			case "Самостійна":
				return m.typeName, colSelfHours
			default:
				return m.typeName, colPracLabHours
			}
		}
	}
	return "", 0
}

// scanSemesterNumber 在整行中寻找形如 "5 СЕМЕСТР" 的单元格
func scanSemesterNumber(row []string) int {
	for _, c := range row {
		upper := strings.ToUpper(strings.TrimSpace(c))
		if !strings.Contains(upper, semesterKeyword) {
			continue
		}
		if m := semesterNumberPattern.FindString(upper); m != "" {
			var n int
			fmt.Sscanf(m, "%d", &n)
			return n
		}
	}
	return 0
}

// MatchControlForm 考核形式模糊匹配：按关键词归一到标准形式名
// 空值或无法识别返回空串
func MatchControlForm(value string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	switch {
	case v == "":
		return ""
	case strings.Contains(v, "опит"):
		return "опитування"
	case strings.Contains(v, "захист"):
		return "захист"
	case strings.Contains(v, "консп"):
		return "конспект"
	default:
		return ""
	}
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}
