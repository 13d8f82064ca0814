package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/UraN9/curriculum-parser/internal/model"
)

// SummaryView 派生汇总视图标识（与 API 路径参数一致）
type SummaryView string

const (
	ViewSections      SummaryView = "sections"
	ViewThemes        SummaryView = "themes"
	ViewActivityTypes SummaryView = "activity-types"
	ViewSemesters     SummaryView = "semesters"
	ViewControlForms  SummaryView = "control-forms"
)

// Views 返回全部汇总视图（固定刷新顺序）
func Views() []SummaryView {
	return []SummaryView{
		ViewSections, ViewThemes, ViewActivityTypes,
		ViewSemesters, ViewControlForms,
	}
}

// SummaryRepository 汇总表数据访问接口
// 汇总表只允许整表重算，禁止局部修补
type SummaryRepository interface {
	// Rebuild 在独立事务内清空并重算指定视图
	Rebuild(ctx context.Context, view SummaryView) error
	List(ctx context.Context, view SummaryView) (interface{}, error)
}

type summaryRepo struct {
	db *gorm.DB
}

// NewSummaryRepo 创建 SummaryRepository 实例
func NewSummaryRepo(db *gorm.DB) SummaryRepository {
	return &summaryRepo{db: db}
}

// rebuildSQL 各视图的重算语句（delete + insert…select，两库通用 SQL）
var rebuildSQL = map[SummaryView][2]string{
	ViewSections: {
		`DELETE FROM mv_section_summary`,
		`INSERT INTO mv_section_summary
		   (section_id, section_name, theme_count, activity_count, total_hours, refreshed_at)
		 SELECT s.id, s.name,
		        COUNT(DISTINCT t.id), COUNT(a.id), COALESCE(SUM(a.hours), 0),
		        CURRENT_TIMESTAMP
		 FROM sections s
		 LEFT JOIN themes t ON t.section_id = s.id
		 LEFT JOIN activities a ON a.theme_id = t.id
		 GROUP BY s.id, s.name`,
	},
	ViewThemes: {
		`DELETE FROM mv_theme_summary`,
		`INSERT INTO mv_theme_summary
		   (theme_id, theme_name, section_id, activity_count, total_hours, declared_hours, refreshed_at)
		 SELECT t.id, t.name, t.section_id,
		        COUNT(a.id), COALESCE(SUM(a.hours), 0), t.total_hours,
		        CURRENT_TIMESTAMP
		 FROM themes t
		 LEFT JOIN activities a ON a.theme_id = t.id
		 GROUP BY t.id, t.name, t.section_id, t.total_hours`,
	},
	ViewActivityTypes: {
		`DELETE FROM mv_activity_type_summary`,
		`INSERT INTO mv_activity_type_summary
		   (type_id, type_name, activity_count, total_hours, refreshed_at)
		 SELECT at.id, at.name,
		        COUNT(a.id), COALESCE(SUM(a.hours), 0),
		        CURRENT_TIMESTAMP
		 FROM activity_types at
		 LEFT JOIN activities a ON a.type_id = at.id
		 GROUP BY at.id, at.name`,
	},
	ViewSemesters: {
		`DELETE FROM mv_semester_summary`,
		`INSERT INTO mv_semester_summary
		   (semester_id, semester_number, section_count, activity_count, total_hours, refreshed_at)
		 SELECT sm.id, sm.number,
		        COUNT(DISTINCT s.id), COUNT(a.id), COALESCE(SUM(a.hours), 0),
		        CURRENT_TIMESTAMP
		 FROM semesters sm
		 LEFT JOIN sections s ON s.semester_id = sm.id
		 LEFT JOIN themes t ON t.section_id = s.id
		 LEFT JOIN activities a ON a.theme_id = t.id
		 GROUP BY sm.id, sm.number`,
	},
	ViewControlForms: {
		`DELETE FROM mv_control_form_summary`,
		`INSERT INTO mv_control_form_summary
		   (control_form_id, control_form_name, activity_count, total_hours, refreshed_at)
		 SELECT cf.id, cf.name,
		        COUNT(a.id), COALESCE(SUM(a.hours), 0),
		        CURRENT_TIMESTAMP
		 FROM control_forms cf
		 LEFT JOIN activities a ON a.control_form_id = cf.id
		 GROUP BY cf.id, cf.name`,
	},
}

func (r *summaryRepo) Rebuild(ctx context.Context, view SummaryView) error {
	stmts, ok := rebuildSQL[view]
	if !ok {
		return fmt.Errorf("unknown summary view: %s", view)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(stmts[0]).Error; err != nil {
			return err
		}
		return tx.Exec(stmts[1]).Error
	})
}

func (r *summaryRepo) List(ctx context.Context, view SummaryView) (interface{}, error) {
	switch view {
	case ViewSections:
		var rows []model.SectionSummary
		err := r.db.WithContext(ctx).Order("section_id").Find(&rows).Error
		return rows, err
	case ViewThemes:
		var rows []model.ThemeSummary
		err := r.db.WithContext(ctx).Order("theme_id").Find(&rows).Error
		return rows, err
	case ViewActivityTypes:
		var rows []model.ActivityTypeSummary
		err := r.db.WithContext(ctx).Order("type_id").Find(&rows).Error
		return rows, err
	case ViewSemesters:
		var rows []model.SemesterSummary
		err := r.db.WithContext(ctx).Order("semester_id").Find(&rows).Error
		return rows, err
	case ViewControlForms:
		var rows []model.ControlFormSummary
		err := r.db.WithContext(ctx).Order("control_form_id").Find(&rows).Error
		return rows, err
	default:
		return nil, fmt.Errorf("unknown summary view: %s", view)
	}
}
