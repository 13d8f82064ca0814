package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/UraN9/curriculum-parser/internal/model"
)

// ETLErrorRepository 导入错误日志数据访问接口（仅追加）
type ETLErrorRepository interface {
	Append(ctx context.Context, entry *model.ETLError) error
	ListBySession(ctx context.Context, sessionID string) ([]model.ETLError, error)
	ListRecent(ctx context.Context, limit int) ([]model.ETLError, error)
	// Resolve 将指定条目标记为已处理，返回实际翻转条数
	Resolve(ctx context.Context, ids []uint64) (int64, error)
}

type etlErrorRepo struct {
	db *gorm.DB
}

// NewETLErrorRepo 创建 ETLErrorRepository 实例
func NewETLErrorRepo(db *gorm.DB) ETLErrorRepository {
	return &etlErrorRepo{db: db}
}

func (r *etlErrorRepo) Append(ctx context.Context, entry *model.ETLError) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *etlErrorRepo) ListBySession(ctx context.Context, sessionID string) ([]model.ETLError, error) {
	var entries []model.ETLError
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id").
		Find(&entries).Error
	return entries, err
}

func (r *etlErrorRepo) ListRecent(ctx context.Context, limit int) ([]model.ETLError, error) {
	var entries []model.ETLError
	err := r.db.WithContext(ctx).
		Order("id DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

func (r *etlErrorRepo) Resolve(ctx context.Context, ids []uint64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Model(&model.ETLError{}).
		Where("id IN ? AND resolved = ?", ids, false).
		Update("resolved", true)
	return result.RowsAffected, result.Error
}
