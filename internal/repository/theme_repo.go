package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/UraN9/curriculum-parser/internal/model"
)

// ThemeRepository 主题数据访问接口
type ThemeRepository interface {
	// Upsert 按 (name, section_id) 自然键查找；存在则刷新 total_hours，不存在则创建
	Upsert(ctx context.Context, name string, sectionID, totalHours int) (*model.Theme, error)
	GetByID(ctx context.Context, id int) (*model.Theme, error)
	List(ctx context.Context, sectionID int) ([]model.Theme, error)
}

type themeRepo struct {
	db *gorm.DB
}

// NewThemeRepo 创建 ThemeRepository 实例
func NewThemeRepo(db *gorm.DB) ThemeRepository {
	return &themeRepo{db: db}
}

func (r *themeRepo) Upsert(ctx context.Context, name string, sectionID, totalHours int) (*model.Theme, error) {
	var theme model.Theme
	err := r.db.WithContext(ctx).
		Where("name = ? AND section_id = ?", name, sectionID).
		First(&theme).Error
	if err == nil {
		if theme.TotalHours != totalHours {
			if err := r.db.WithContext(ctx).Model(&theme).
				Update("total_hours", totalHours).Error; err != nil {
				return nil, err
			}
			theme.TotalHours = totalHours
		}
		return &theme, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	theme = model.Theme{Name: name, SectionID: sectionID, TotalHours: totalHours}
	if err := r.db.WithContext(ctx).Create(&theme).Error; err != nil {
		return nil, err
	}
	return &theme, nil
}

func (r *themeRepo) GetByID(ctx context.Context, id int) (*model.Theme, error) {
	var theme model.Theme
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&theme).Error
	if err != nil {
		return nil, err
	}
	return &theme, nil
}

// List sectionID 为 0 时返回全部主题
func (r *themeRepo) List(ctx context.Context, sectionID int) ([]model.Theme, error) {
	var themes []model.Theme
	query := r.db.WithContext(ctx).Order("id")
	if sectionID > 0 {
		query = query.Where("section_id = ?", sectionID)
	}
	err := query.Find(&themes).Error
	return themes, err
}
