package service

import (
	"context"
	"strings"
	"testing"

	"github.com/UraN9/curriculum-parser/internal/dto"
	"github.com/UraN9/curriculum-parser/internal/model"
)

func TestErrorLogPersistsValidationIssue(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	sessionID := "11111111-1111-1111-1111-111111111111"

	env.svc.ErrorLog.LogValidation(ctx, &sessionID, "plan.xlsx", dto.ValidationIssue{
		Severity: dto.IssueSeverityError,
		Category: dto.CategoryNegativeHours,
		Row:      12,
		Field:    "hours",
		Value:    "-4",
		Message:  "学时取值为负",
	})

	entries, err := env.svc.ErrorLog.GetSessionErrors(ctx, sessionID)
	if err != nil {
		t.Fatalf("读取失败: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("期望 1 条，实际 %d", len(entries))
	}
	e := entries[0]
	if e.ErrorType != model.ErrorTypeValidation || e.Severity != model.SeverityError {
		t.Errorf("分类错误: %s/%s", e.ErrorType, e.Severity)
	}
	if e.RowNumber == nil || *e.RowNumber != 12 || e.SourceData != "-4" {
		t.Errorf("上下文缺失: %+v", e)
	}
}

func TestErrorLogResolve(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.svc.ErrorLog.LogDatabase(ctx, nil, "plan.xlsx", "约束违反", nil)
	entries, _ := env.svc.ErrorLog.GetRecentErrors(ctx, 10)
	if len(entries) != 1 {
		t.Fatalf("期望 1 条，实际 %d", len(entries))
	}

	flipped, err := env.svc.ErrorLog.Resolve(ctx, []uint64{entries[0].ID})
	if err != nil {
		t.Fatalf("确认失败: %v", err)
	}
	if flipped != 1 {
		t.Errorf("期望翻转 1 条，实际 %d", flipped)
	}

	// 幂等：二次确认不再翻转
	flipped, _ = env.svc.ErrorLog.Resolve(ctx, []uint64{entries[0].ID})
	if flipped != 0 {
		t.Errorf("重复确认应翻转 0 条，实际 %d", flipped)
	}
}

func TestErrorLogFormatReport(t *testing.T) {
	env := newTestEnv(t)
	row := 7
	sessionID := "22222222-2222-2222-2222-222222222222"
	entries := []model.ETLError{
		{ErrorType: model.ErrorTypeValidation, Severity: model.SeverityError,
			RowNumber: &row, Message: "学时取值非数值", SessionID: &sessionID},
		{ErrorType: model.ErrorTypeDatabase, Severity: model.SeverityError,
			Message: "装载失败，会话已回滚"},
	}

	text := env.svc.ErrorLog.FormatReport(entries)
	if !strings.Contains(text, "2 entries") {
		t.Error("报告应含条目计数")
	}
	if !strings.Contains(text, "row 7") {
		t.Error("报告应含行号定位")
	}
	if !strings.Contains(text, model.ErrorTypeDatabase) {
		t.Error("报告应含错误类型")
	}
}
