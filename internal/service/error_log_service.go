package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/UraN9/curriculum-parser/internal/dto"
	"github.com/UraN9/curriculum-parser/internal/model"
	"github.com/UraN9/curriculum-parser/internal/repository"
)

// ErrorLogService 导入错误日志业务接口
// Log* 方法永不失败：落库失败时降级为 zap 告警，绝不反作用于导入主流程
type ErrorLogService interface {
	LogValidation(ctx context.Context, sessionID *string, fileName string, issue dto.ValidationIssue)
	LogParse(ctx context.Context, sessionID *string, fileName, message string, cause error)
	LogDatabase(ctx context.Context, sessionID *string, fileName, message string, cause error)
	LogConstraint(ctx context.Context, sessionID *string, fileName, message string, cause error)
	GetSessionErrors(ctx context.Context, sessionID string) ([]model.ETLError, error)
	GetRecentErrors(ctx context.Context, limit int) ([]model.ETLError, error)
	Resolve(ctx context.Context, ids []uint64) (int64, error)
	FormatReport(entries []model.ETLError) string
}

type errorLogService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewErrorLogService 创建 ErrorLogService 实例
func NewErrorLogService(repo *repository.Repository, logger *zap.Logger) ErrorLogService {
	return &errorLogService{repo: repo, logger: logger}
}

func (s *errorLogService) LogValidation(ctx context.Context, sessionID *string, fileName string, issue dto.ValidationIssue) {
	row := issue.Row
	entry := &model.ETLError{
		ErrorType:  model.ErrorTypeValidation,
		Severity:   issue.Severity,
		RowNumber:  &row,
		FieldName:  issue.Field,
		Message:    issue.Message,
		SourceData: issue.Value,
		SessionID:  sessionID,
		FileName:   fileName,
	}
	s.append(ctx, entry)
}

func (s *errorLogService) LogParse(ctx context.Context, sessionID *string, fileName, message string, cause error) {
	s.append(ctx, s.entryFor(model.ErrorTypeParse, sessionID, fileName, message, cause))
}

func (s *errorLogService) LogDatabase(ctx context.Context, sessionID *string, fileName, message string, cause error) {
	s.append(ctx, s.entryFor(model.ErrorTypeDatabase, sessionID, fileName, message, cause))
}

func (s *errorLogService) LogConstraint(ctx context.Context, sessionID *string, fileName, message string, cause error) {
	s.append(ctx, s.entryFor(model.ErrorTypeConstraint, sessionID, fileName, message, cause))
}

func (s *errorLogService) entryFor(errorType string, sessionID *string, fileName, message string, cause error) *model.ETLError {
	entry := &model.ETLError{
		ErrorType: errorType,
		Severity:  model.SeverityError,
		Message:   message,
		SessionID: sessionID,
		FileName:  fileName,
	}
	if cause != nil {
		entry.StackTrace = cause.Error()
	}
	return entry
}

func (s *errorLogService) append(ctx context.Context, entry *model.ETLError) {
	if err := s.repo.ETLError.Append(ctx, entry); err != nil {
		s.logger.Warn("错误日志落库失败",
			zap.String("error_type", entry.ErrorType),
			zap.String("message", entry.Message),
			zap.Error(err),
		)
	}
}

func (s *errorLogService) GetSessionErrors(ctx context.Context, sessionID string) ([]model.ETLError, error) {
	return s.repo.ETLError.ListBySession(ctx, sessionID)
}

func (s *errorLogService) GetRecentErrors(ctx context.Context, limit int) ([]model.ETLError, error) {
	if limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}
	return s.repo.ETLError.ListRecent(ctx, limit)
}

func (s *errorLogService) Resolve(ctx context.Context, ids []uint64) (int64, error) {
	return s.repo.ETLError.Resolve(ctx, ids)
}

// FormatReport 将错误日志条目渲染为人类可读文本
func (s *errorLogService) FormatReport(entries []model.ETLError) string {
	var b strings.Builder
	rule := strings.Repeat("=", 70)

	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "ETL ERROR REPORT (%d entries)\n", len(entries))
	b.WriteString(rule + "\n")
	for _, e := range entries {
		location := "-"
		if e.RowNumber != nil {
			location = fmt.Sprintf("row %d", *e.RowNumber)
		}
		fmt.Fprintf(&b, "  [%s/%s] %-8s | %s\n",
			e.ErrorType, e.Severity, location, e.Message)
	}
	b.WriteString(rule)
	return b.String()
}
