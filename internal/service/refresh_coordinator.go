package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/UraN9/curriculum-parser/internal/repository"
	"github.com/UraN9/curriculum-parser/pkg/redis"
)

// RefreshCoordinator 派生汇总表刷新协调器
//
// 写入方在一个写批次提交后调用 Request 请求一次刷新；刷新进行中到达的
// 请求合并为收尾后的恰好一轮补刷。RefreshAll 为同步整表重算入口，
// 单视图失败降级为告警并继续刷新其余视图。
type RefreshCoordinator struct {
	summaries repository.SummaryRepository
	cache     *redis.Client // 可为 nil（未配置 redis 时）
	logger    *zap.Logger

	mu       sync.Mutex
	inFlight bool
	pending  bool
	runMu    sync.Mutex // 同一时刻至多一轮重算
}

// NewRefreshCoordinator 创建刷新协调器
func NewRefreshCoordinator(summaries repository.SummaryRepository, cache *redis.Client, logger *zap.Logger) *RefreshCoordinator {
	return &RefreshCoordinator{summaries: summaries, cache: cache, logger: logger}
}

// Request 请求一次合并刷新；立即返回，刷新在后台执行
func (c *RefreshCoordinator) Request() {
	c.mu.Lock()
	if c.inFlight {
		c.pending = true
		c.mu.Unlock()
		return
	}
	c.inFlight = true
	c.mu.Unlock()

	go c.drain()
}

// drain 执行刷新轮次，收尾时吸收挂起请求
func (c *RefreshCoordinator) drain() {
	for {
		if err := c.RefreshAll(context.Background()); err != nil {
			c.logger.Warn("汇总刷新轮次未完全成功", zap.Error(err))
		}

		c.mu.Lock()
		if !c.pending {
			c.inFlight = false
			c.mu.Unlock()
			return
		}
		c.pending = false
		c.mu.Unlock()
	}
}

// RefreshAll 同步整表重算全部汇总视图
// 单视图失败记告警并继续；返回值汇总本轮失败视图数
func (c *RefreshCoordinator) RefreshAll(ctx context.Context) error {
	c.runMu.Lock()
	defer c.runMu.Unlock()

	var failed []repository.SummaryView
	for _, view := range repository.Views() {
		if err := c.summaries.Rebuild(ctx, view); err != nil {
			c.logger.Warn("汇总视图重算失败",
				zap.String("view", string(view)),
				zap.Error(err),
			)
			failed = append(failed, view)
		}
	}

	if c.cache != nil {
		if err := c.cache.InvalidateSummaries(ctx); err != nil {
			c.logger.Warn("汇总缓存失效失败", zap.Error(err))
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d/%d 个汇总视图重算失败: %v",
			len(failed), len(repository.Views()), failed)
	}
	return nil
}
