package service

import (
	"math"
	"strings"

	"github.com/UraN9/curriculum-parser/internal/dto"
)

// ── 转换聚合引擎 ──
//
// 将通过校验的活动行按主题与章节分组聚合（名称去首尾空白后精确匹配），
// 产出驱动装载器 upsert 的聚合结构。保留源表首次出现顺序。

// TransformResult 转换阶段产出
type TransformResult struct {
	Sections []dto.SectionAggregate
	Themes   []dto.ThemeAggregate
}

// Transform 聚合活动行；无法解析的学时按 0 计（校验阶段已拦截 error 级问题）
func Transform(rows []dto.PlanRow) *TransformResult {
	type themeKey struct {
		section, theme string
	}

	themeIdx := make(map[themeKey]int)
	sectionIdx := make(map[string]int)
	result := &TransformResult{}

	for _, row := range rows {
		section := strings.TrimSpace(row.SectionName)
		theme := strings.TrimSpace(row.ThemeName)
		hours := 0
		if h, err := row.Hours(); err == nil && h > 0 {
			hours = int(math.Round(h))
		}

		tk := themeKey{section: section, theme: theme}
		ti, ok := themeIdx[tk]
		if !ok {
			ti = len(result.Themes)
			themeIdx[tk] = ti
			result.Themes = append(result.Themes, dto.ThemeAggregate{
				SectionName: section,
				ThemeName:   theme,
				HoursByType: map[string]int{},
			})
		}
		result.Themes[ti].ActivityCount++
		result.Themes[ti].TotalHours += hours
		result.Themes[ti].HoursByType[row.TypeLabel] += hours

		si, ok := sectionIdx[section]
		if !ok {
			si = len(result.Sections)
			sectionIdx[section] = si
			result.Sections = append(result.Sections, dto.SectionAggregate{
				SectionName: section,
				HoursByType: map[string]int{},
			})
		}
		result.Sections[si].ActivityCount++
		result.Sections[si].TotalHours += hours
		result.Sections[si].HoursByType[row.TypeLabel] += hours
	}

	// 章节主题数在主题定形后统计
	for _, theme := range result.Themes {
		if si, ok := sectionIdx[theme.SectionName]; ok {
			result.Sections[si].ThemeCount++
		}
	}
	return result
}
