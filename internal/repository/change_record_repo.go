package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/UraN9/curriculum-parser/internal/dto"
	"github.com/UraN9/curriculum-parser/internal/model"
)

// ChangeRecordRepository 变更记录数据访问接口
// 记录由捕获插件在写事务内追加；本接口只读与标记，从不修改快照内容
type ChangeRecordRepository interface {
	ListRecent(ctx context.Context, query dto.ChangeQuery) ([]model.ChangeRecord, error)
	CountUnprocessed(ctx context.Context) ([]dto.UnprocessedGroup, error)
	// MarkProcessed 幂等标记，返回实际翻转条数
	MarkProcessed(ctx context.Context, ids []uint64) (int64, error)
	// DeleteProcessedBefore 删除 cutoff 之前的已处理记录，返回删除条数
	DeleteProcessedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type changeRecordRepo struct {
	db *gorm.DB
}

// NewChangeRecordRepo 创建 ChangeRecordRepository 实例
func NewChangeRecordRepo(db *gorm.DB) ChangeRecordRepository {
	return &changeRecordRepo{db: db}
}

func (r *changeRecordRepo) ListRecent(ctx context.Context, query dto.ChangeQuery) ([]model.ChangeRecord, error) {
	var records []model.ChangeRecord
	tx := r.db.WithContext(ctx).Order("id DESC").Limit(query.Limit)
	if query.TableName != "" {
		tx = tx.Where("table_name = ?", query.TableName)
	}
	if query.Operation != "" {
		tx = tx.Where("operation = ?", query.Operation)
	}
	err := tx.Find(&records).Error
	return records, err
}

func (r *changeRecordRepo) CountUnprocessed(ctx context.Context) ([]dto.UnprocessedGroup, error) {
	var groups []dto.UnprocessedGroup
	err := r.db.WithContext(ctx).
		Model(&model.ChangeRecord{}).
		Select("table_name, operation, COUNT(*) AS count").
		Where("processed = ?", false).
		Group("table_name, operation").
		Order("table_name, operation").
		Scan(&groups).Error
	return groups, err
}

func (r *changeRecordRepo) MarkProcessed(ctx context.Context, ids []uint64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&model.ChangeRecord{}).
		Where("id IN ? AND processed = ?", ids, false).
		Updates(map[string]interface{}{
			"processed":    true,
			"processed_at": &now,
		})
	return result.RowsAffected, result.Error
}

func (r *changeRecordRepo) DeleteProcessedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("processed = ? AND changed_at < ?", true, cutoff).
		Delete(&model.ChangeRecord{})
	return result.RowsAffected, result.Error
}
