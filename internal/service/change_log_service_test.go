package service

import (
	"context"
	"testing"
	"time"

	"github.com/UraN9/curriculum-parser/internal/dto"
	"github.com/UraN9/curriculum-parser/internal/model"
)

func seedChangeRecords(t *testing.T, env *testEnv) []model.ChangeRecord {
	t.Helper()
	records := []model.ChangeRecord{
		{TableName: "activities", Operation: model.OpCreate, RecordID: 1},
		{TableName: "activities", Operation: model.OpUpdate, RecordID: 1},
		{TableName: "themes", Operation: model.OpCreate, RecordID: 2},
	}
	if err := env.db.Create(&records).Error; err != nil {
		t.Fatalf("写入变更记录失败: %v", err)
	}
	return records
}

func TestGetRecentChangesNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	records := seedChangeRecords(t, env)
	ctx := context.Background()

	got, err := env.svc.ChangeLog.GetRecentChanges(ctx, dto.ChangeQuery{})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("期望 3 条，实际 %d", len(got))
	}
	if got[0].ID != records[2].ID {
		t.Errorf("应按新到旧排序: 首条 ID=%d", got[0].ID)
	}
}

func TestGetRecentChangesFiltered(t *testing.T) {
	env := newTestEnv(t)
	seedChangeRecords(t, env)
	ctx := context.Background()

	got, err := env.svc.ChangeLog.GetRecentChanges(ctx, dto.ChangeQuery{
		TableName: "activities",
		Operation: model.OpUpdate,
	})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(got) != 1 || got[0].Operation != model.OpUpdate {
		t.Errorf("过滤结果错误: %+v", got)
	}
}

func TestGetRecentChangesLimitClamped(t *testing.T) {
	env := newTestEnv(t)
	seedChangeRecords(t, env)
	ctx := context.Background()

	got, err := env.svc.ChangeLog.GetRecentChanges(ctx, dto.ChangeQuery{Limit: 2})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("limit 应生效: %d", len(got))
	}

	// 越界 limit 回落到默认值而不是报错
	if _, err := env.svc.ChangeLog.GetRecentChanges(ctx, dto.ChangeQuery{Limit: 10000}); err != nil {
		t.Errorf("越界 limit 不应报错: %v", err)
	}
}

func TestChangeLogCleanupRespectsRetention(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	old := time.Now().AddDate(0, 0, -100)
	records := []model.ChangeRecord{
		{TableName: "activities", Operation: model.OpCreate, RecordID: 1, ChangedAt: old, Processed: true},
		{TableName: "activities", Operation: model.OpCreate, RecordID: 2, ChangedAt: old},
		{TableName: "activities", Operation: model.OpCreate, RecordID: 3, Processed: true},
	}
	if err := env.db.Create(&records).Error; err != nil {
		t.Fatalf("写入变更记录失败: %v", err)
	}

	deleted, err := env.svc.ChangeLog.Cleanup(ctx, 90)
	if err != nil {
		t.Fatalf("清理失败: %v", err)
	}
	if deleted != 1 {
		t.Errorf("仅保留期外且已处理的记录可删: deleted=%d", deleted)
	}
}

func TestChangeLogCleanupDefaultRetention(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	records := []model.ChangeRecord{
		{TableName: "themes", Operation: model.OpUpdate, RecordID: 1, ChangedAt: time.Now().AddDate(0, 0, -100), Processed: true},
		{TableName: "themes", Operation: model.OpUpdate, RecordID: 2, ChangedAt: time.Now().AddDate(0, 0, -10), Processed: true},
	}
	if err := env.db.Create(&records).Error; err != nil {
		t.Fatalf("写入变更记录失败: %v", err)
	}

	// 未指定保留天数时使用配置默认值（测试环境 90 天）
	deleted, err := env.svc.ChangeLog.Cleanup(ctx, 0)
	if err != nil {
		t.Fatalf("清理失败: %v", err)
	}
	if deleted != 1 {
		t.Errorf("默认保留期应只删除 100 天前的记录: deleted=%d", deleted)
	}
}

func TestMarkProcessedThroughService(t *testing.T) {
	env := newTestEnv(t)
	records := seedChangeRecords(t, env)
	ctx := context.Background()

	flipped, err := env.svc.ChangeLog.MarkProcessed(ctx, []uint64{records[0].ID})
	if err != nil {
		t.Fatalf("标记失败: %v", err)
	}
	if flipped != 1 {
		t.Errorf("期望翻转 1 条，实际 %d", flipped)
	}

	groups, err := env.svc.ChangeLog.GetUnprocessedCount(ctx)
	if err != nil {
		t.Fatalf("统计失败: %v", err)
	}
	var total int64
	for _, g := range groups {
		total += g.Count
	}
	if total != 2 {
		t.Errorf("期望剩余 2 条未处理，实际 %d", total)
	}
}
