package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/UraN9/curriculum-parser/internal/model"
)

// ImportSessionRepository 导入会话数据访问接口
// 会话记录仅追加与置结论，永不删除
type ImportSessionRepository interface {
	Create(ctx context.Context, session *model.ImportSession) error
	UpdateOutcome(ctx context.Context, id, outcome string) error
	GetByID(ctx context.Context, id string) (*model.ImportSession, error)
}

type importSessionRepo struct {
	db *gorm.DB
}

// NewImportSessionRepo 创建 ImportSessionRepository 实例
func NewImportSessionRepo(db *gorm.DB) ImportSessionRepository {
	return &importSessionRepo{db: db}
}

func (r *importSessionRepo) Create(ctx context.Context, session *model.ImportSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *importSessionRepo) UpdateOutcome(ctx context.Context, id, outcome string) error {
	return r.db.WithContext(ctx).
		Model(&model.ImportSession{}).
		Where("id = ?", id).
		Update("outcome", outcome).Error
}

func (r *importSessionRepo) GetByID(ctx context.Context, id string) (*model.ImportSession, error) {
	var session model.ImportSession
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}
