package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/UraN9/curriculum-parser/internal/model"
)

// SemesterRepository 学期数据访问接口
type SemesterRepository interface {
	// FindOrCreateByNumber 按学期序号查找，不存在时用给定参数创建
	FindOrCreateByNumber(ctx context.Context, number, weeks, hoursPerWeek int) (*model.Semester, error)
	List(ctx context.Context) ([]model.Semester, error)
}

type semesterRepo struct {
	db *gorm.DB
}

// NewSemesterRepo 创建 SemesterRepository 实例
func NewSemesterRepo(db *gorm.DB) SemesterRepository {
	return &semesterRepo{db: db}
}

func (r *semesterRepo) FindOrCreateByNumber(ctx context.Context, number, weeks, hoursPerWeek int) (*model.Semester, error) {
	var semester model.Semester
	err := r.db.WithContext(ctx).Where("number = ?", number).First(&semester).Error
	if err == nil {
		return &semester, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	semester = model.Semester{Number: number, Weeks: weeks, HoursPerWeek: hoursPerWeek}
	if err := r.db.WithContext(ctx).Create(&semester).Error; err != nil {
		return nil, err
	}
	return &semester, nil
}

func (r *semesterRepo) List(ctx context.Context) ([]model.Semester, error) {
	var semesters []model.Semester
	err := r.db.WithContext(ctx).Order("number").Find(&semesters).Error
	return semesters, err
}
