package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/UraN9/curriculum-parser/internal/model"
)

// SectionRepository 章节数据访问接口
type SectionRepository interface {
	// FindOrCreate 按 (name, discipline_id, semester_id) 自然键查找或创建
	FindOrCreate(ctx context.Context, name string, disciplineID, semesterID int) (*model.Section, error)
	List(ctx context.Context, disciplineID int) ([]model.Section, error)
}

type sectionRepo struct {
	db *gorm.DB
}

// NewSectionRepo 创建 SectionRepository 实例
func NewSectionRepo(db *gorm.DB) SectionRepository {
	return &sectionRepo{db: db}
}

func (r *sectionRepo) FindOrCreate(ctx context.Context, name string, disciplineID, semesterID int) (*model.Section, error) {
	var section model.Section
	err := r.db.WithContext(ctx).
		Where("name = ? AND discipline_id = ? AND semester_id = ?", name, disciplineID, semesterID).
		First(&section).Error
	if err == nil {
		return &section, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	section = model.Section{Name: name, DisciplineID: disciplineID, SemesterID: &semesterID}
	if err := r.db.WithContext(ctx).Create(&section).Error; err != nil {
		return nil, err
	}
	return &section, nil
}

// List disciplineID 为 0 时返回全部章节
func (r *sectionRepo) List(ctx context.Context, disciplineID int) ([]model.Section, error) {
	var sections []model.Section
	query := r.db.WithContext(ctx).Order("id")
	if disciplineID > 0 {
		query = query.Where("discipline_id = ?", disciplineID)
	}
	err := query.Find(&sections).Error
	return sections, err
}
