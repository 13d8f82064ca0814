package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/UraN9/curriculum-parser/internal/repository"
	"github.com/UraN9/curriculum-parser/pkg/redis"
)

// ErrUnknownView 未知汇总视图
var ErrUnknownView = errors.New("未知的汇总视图")

// SummaryService 汇总查询业务接口
// 读路径走 redis 缓存（未配置时直读库）；缓存由刷新协调器在每轮刷新后失效
type SummaryService interface {
	GetSummaries(ctx context.Context, view string) (json.RawMessage, error)
}

type summaryService struct {
	repo     *repository.Repository
	cache    *redis.Client // 可为 nil
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewSummaryService 创建 SummaryService 实例
func NewSummaryService(repo *repository.Repository, cache *redis.Client, cacheTTL time.Duration, logger *zap.Logger) SummaryService {
	return &summaryService{repo: repo, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

func (s *summaryService) GetSummaries(ctx context.Context, view string) (json.RawMessage, error) {
	summaryView := repository.SummaryView(view)
	if !validView(summaryView) {
		return nil, ErrUnknownView
	}

	if s.cache != nil {
		cached, err := s.cache.GetSummary(ctx, view)
		if err != nil {
			s.logger.Warn("汇总缓存读取失败", zap.String("view", view), zap.Error(err))
		} else if cached != "" {
			return json.RawMessage(cached), nil
		}
	}

	rows, err := s.repo.Summary.List(ctx, summaryView)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(rows)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetSummary(ctx, view, string(payload), s.cacheTTL); err != nil {
			s.logger.Warn("汇总缓存写入失败", zap.String("view", view), zap.Error(err))
		}
	}
	return payload, nil
}

func validView(view repository.SummaryView) bool {
	for _, v := range repository.Views() {
		if v == view {
			return true
		}
	}
	return false
}
