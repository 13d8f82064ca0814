package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/UraN9/curriculum-parser/internal/dto"
	"github.com/UraN9/curriculum-parser/internal/model"
	"github.com/UraN9/curriculum-parser/internal/repository"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// ChangeLogService 变更日志业务接口
type ChangeLogService interface {
	GetRecentChanges(ctx context.Context, query dto.ChangeQuery) ([]model.ChangeRecord, error)
	GetUnprocessedCount(ctx context.Context) ([]dto.UnprocessedGroup, error)
	// MarkProcessed 幂等标记，返回实际翻转条数
	MarkProcessed(ctx context.Context, ids []uint64) (int64, error)
	// Cleanup 删除保留期之前的已处理记录，返回删除条数；
	// retentionDays <= 0 时使用配置的默认保留天数
	Cleanup(ctx context.Context, retentionDays int) (int64, error)
}

type changeLogService struct {
	repo      *repository.Repository
	retention int // 默认保留天数
	logger    *zap.Logger
}

// NewChangeLogService 创建 ChangeLogService 实例
func NewChangeLogService(repo *repository.Repository, retentionDays int, logger *zap.Logger) ChangeLogService {
	return &changeLogService{repo: repo, retention: retentionDays, logger: logger}
}

func (s *changeLogService) GetRecentChanges(ctx context.Context, query dto.ChangeQuery) ([]model.ChangeRecord, error) {
	if query.Limit <= 0 || query.Limit > maxListLimit {
		query.Limit = defaultListLimit
	}
	return s.repo.Change.ListRecent(ctx, query)
}

func (s *changeLogService) GetUnprocessedCount(ctx context.Context) ([]dto.UnprocessedGroup, error) {
	return s.repo.Change.CountUnprocessed(ctx)
}

func (s *changeLogService) MarkProcessed(ctx context.Context, ids []uint64) (int64, error) {
	return s.repo.Change.MarkProcessed(ctx, ids)
}

func (s *changeLogService) Cleanup(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		retentionDays = s.retention
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	deleted, err := s.repo.Change.DeleteProcessedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.logger.Info("变更日志清理完成",
			zap.Int64("deleted", deleted),
			zap.Int("retention_days", retentionDays),
		)
	}
	return deleted, nil
}
