package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/UraN9/curriculum-parser/internal/model"
)

// ActivityRepository 教学活动数据访问接口
type ActivityRepository interface {
	// Upsert 按 (name, theme_id) 自然键查找；存在则刷新类型/学时/考核形式，不存在则创建
	Upsert(ctx context.Context, activity *model.Activity) (*model.Activity, error)
	GetByID(ctx context.Context, id int) (*model.Activity, error)
	List(ctx context.Context, themeID int) ([]model.Activity, error)
	Create(ctx context.Context, activity *model.Activity) error
	Updates(ctx context.Context, id int, fields map[string]interface{}) error
	Delete(ctx context.Context, id int) error
}

type activityRepo struct {
	db *gorm.DB
}

// NewActivityRepo 创建 ActivityRepository 实例
func NewActivityRepo(db *gorm.DB) ActivityRepository {
	return &activityRepo{db: db}
}

func (r *activityRepo) Upsert(ctx context.Context, activity *model.Activity) (*model.Activity, error) {
	var existing model.Activity
	err := r.db.WithContext(ctx).
		Where("name = ? AND theme_id = ?", activity.Name, activity.ThemeID).
		First(&existing).Error
	if err == nil {
		updates := map[string]interface{}{}
		if !intPtrEqual(existing.TypeID, activity.TypeID) {
			updates["type_id"] = activity.TypeID
		}
		if existing.Hours != activity.Hours {
			updates["hours"] = activity.Hours
		}
		if !intPtrEqual(existing.ControlFormID, activity.ControlFormID) {
			updates["control_form_id"] = activity.ControlFormID
		}
		if len(updates) > 0 {
			if err := r.db.WithContext(ctx).Model(&existing).
				Updates(updates).Error; err != nil {
				return nil, err
			}
			existing.TypeID = activity.TypeID
			existing.Hours = activity.Hours
			existing.ControlFormID = activity.ControlFormID
		}
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Create(activity).Error; err != nil {
		return nil, err
	}
	return activity, nil
}

func (r *activityRepo) GetByID(ctx context.Context, id int) (*model.Activity, error) {
	var activity model.Activity
	err := r.db.WithContext(ctx).
		Preload("Type").
		Preload("ControlForm").
		Where("id = ?", id).
		First(&activity).Error
	if err != nil {
		return nil, err
	}
	return &activity, nil
}

// List themeID 为 0 时返回全部活动
func (r *activityRepo) List(ctx context.Context, themeID int) ([]model.Activity, error) {
	var activities []model.Activity
	query := r.db.WithContext(ctx).
		Preload("Type").
		Preload("ControlForm").
		Order("id")
	if themeID > 0 {
		query = query.Where("theme_id = ?", themeID)
	}
	err := query.Find(&activities).Error
	return activities, err
}

func (r *activityRepo) Create(ctx context.Context, activity *model.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

func (r *activityRepo) Updates(ctx context.Context, id int, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Activity{ID: id}).Updates(fields).Error
}

func (r *activityRepo) Delete(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).Delete(&model.Activity{ID: id}).Error
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
