package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/UraN9/curriculum-parser/internal/model"
)

// ── 参照数据标准取值 ──

// DefaultActivityTypes 标准活动类型（按固定 ID 初始化）
var DefaultActivityTypes = []model.ActivityType{
	{ID: 1, Name: "Лекція"},
	{ID: 2, Name: "Практична"},
	{ID: 3, Name: "Лабораторна"},
	{ID: 4, Name: "Самостійна"},
}

// DefaultControlForms 标准考核形式（按固定 ID 初始化）
var DefaultControlForms = []model.ControlForm{
	{ID: 1, Name: "опитування"},
	{ID: 2, Name: "захист"},
	{ID: 3, Name: "конспект"},
}

// ReferenceRepository 参照数据访问接口
type ReferenceRepository interface {
	// EnsureDefaults 按固定 ID 补齐标准活动类型与考核形式，已存在的跳过
	EnsureDefaults(ctx context.Context) error
	ActivityTypesByName(ctx context.Context) (map[string]int, error)
	ControlFormsByName(ctx context.Context) (map[string]int, error)
	ListActivityTypes(ctx context.Context) ([]model.ActivityType, error)
	ListControlForms(ctx context.Context) ([]model.ControlForm, error)
}

type referenceRepo struct {
	db *gorm.DB
}

// NewReferenceRepo 创建 ReferenceRepository 实例
func NewReferenceRepo(db *gorm.DB) ReferenceRepository {
	return &referenceRepo{db: db}
}

func (r *referenceRepo) EnsureDefaults(ctx context.Context) error {
	for _, at := range DefaultActivityTypes {
		if err := r.ensureActivityType(ctx, at); err != nil {
			return err
		}
	}
	for _, cf := range DefaultControlForms {
		if err := r.ensureControlForm(ctx, cf); err != nil {
			return err
		}
	}
	return nil
}

func (r *referenceRepo) ensureActivityType(ctx context.Context, at model.ActivityType) error {
	var existing model.ActivityType
	err := r.db.WithContext(ctx).Where("id = ?", at.ID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.db.WithContext(ctx).Create(&at).Error
}

func (r *referenceRepo) ensureControlForm(ctx context.Context, cf model.ControlForm) error {
	var existing model.ControlForm
	err := r.db.WithContext(ctx).Where("id = ?", cf.ID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.db.WithContext(ctx).Create(&cf).Error
}

func (r *referenceRepo) ActivityTypesByName(ctx context.Context) (map[string]int, error) {
	types, err := r.ListActivityTypes(ctx)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]int, len(types))
	for _, t := range types {
		byName[t.Name] = t.ID
	}
	return byName, nil
}

func (r *referenceRepo) ControlFormsByName(ctx context.Context) (map[string]int, error) {
	forms, err := r.ListControlForms(ctx)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]int, len(forms))
	for _, f := range forms {
		byName[f.Name] = f.ID
	}
	return byName, nil
}

func (r *referenceRepo) ListActivityTypes(ctx context.Context) ([]model.ActivityType, error) {
	var types []model.ActivityType
	err := r.db.WithContext(ctx).Order("id").Find(&types).Error
	return types, err
}

func (r *referenceRepo) ListControlForms(ctx context.Context) ([]model.ControlForm, error) {
	var forms []model.ControlForm
	err := r.db.WithContext(ctx).Order("id").Find(&forms).Error
	return forms, err
}
