package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/UraN9/curriculum-parser/internal/model"
)

// DisciplineRepository 学科数据访问接口
type DisciplineRepository interface {
	GetByID(ctx context.Context, id int) (*model.Discipline, error)
	List(ctx context.Context) ([]model.Discipline, error)
}

type disciplineRepo struct {
	db *gorm.DB
}

// NewDisciplineRepo 创建 DisciplineRepository 实例
func NewDisciplineRepo(db *gorm.DB) DisciplineRepository {
	return &disciplineRepo{db: db}
}

func (r *disciplineRepo) GetByID(ctx context.Context, id int) (*model.Discipline, error) {
	var discipline model.Discipline
	err := r.db.WithContext(ctx).
		Preload("Lecturer").
		Where("id = ?", id).
		First(&discipline).Error
	if err != nil {
		return nil, err
	}
	return &discipline, nil
}

func (r *disciplineRepo) List(ctx context.Context) ([]model.Discipline, error) {
	var disciplines []model.Discipline
	err := r.db.WithContext(ctx).
		Preload("Lecturer").
		Order("id").
		Find(&disciplines).Error
	return disciplines, err
}
