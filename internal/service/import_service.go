package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/UraN9/curriculum-parser/config"
	"github.com/UraN9/curriculum-parser/internal/dto"
	"github.com/UraN9/curriculum-parser/internal/model"
	"github.com/UraN9/curriculum-parser/internal/repository"
)

// ── 导入模块业务错误 ──

var (
	ErrPlanUnparsable     = errors.New("课程计划文件无法解析")
	ErrDisciplineNotFound = errors.New("学科不存在")
	ErrImportLoadFailed   = errors.New("课程计划装载失败")
)

// 学期号缺失时的兜底取值
const fallbackSemesterNumber = 1

// ImportService 导入流水线业务接口
// 一次调用对应一个导入会话：解析 → 校验 → 转换 → 装载（单事务）
type ImportService interface {
	ImportPlan(ctx context.Context, reader io.Reader, fileName string, disciplineID int) (*dto.ImportResult, error)
	GetSession(ctx context.Context, id string) (*model.ImportSession, error)
}

type importService struct {
	cfg     *config.ETLConfig
	repo    *repository.Repository
	errLog  ErrorLogService
	refresh *RefreshCoordinator
	logger  *zap.Logger
}

// NewImportService 创建 ImportService 实例
func NewImportService(
	cfg *config.ETLConfig,
	repo *repository.Repository,
	errLog ErrorLogService,
	refresh *RefreshCoordinator,
	logger *zap.Logger,
) ImportService {
	return &importService{cfg: cfg, repo: repo, errLog: errLog, refresh: refresh, logger: logger}
}

func (s *importService) ImportPlan(ctx context.Context, reader io.Reader, fileName string, disciplineID int) (*dto.ImportResult, error) {
	if _, err := s.repo.Discipline.GetByID(ctx, disciplineID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDisciplineNotFound
		}
		return nil, err
	}

	session := &model.ImportSession{
		ID:       uuid.NewString(),
		FileName: fileName,
		Outcome:  model.SessionPending,
	}
	if err := s.repo.ImportSession.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("创建导入会话失败: %w", err)
	}
	result := &dto.ImportResult{SessionID: session.ID, FileName: fileName}

	// 解析
	plan, err := ParsePlanSheet(reader, s.cfg.SheetName)
	if err != nil {
		s.errLog.LogParse(ctx, &session.ID, fileName, err.Error(), err)
		s.fail(ctx, session.ID, result)
		return result, fmt.Errorf("%w: %v", ErrPlanUnparsable, err)
	}

	// 校验：error 级问题阻断装载，warning 一并落错误日志
	result.Validation = Validate(plan.Rows)
	for _, issue := range result.Validation.Issues {
		s.errLog.LogValidation(ctx, &session.ID, fileName, issue)
	}
	if !result.Validation.IsValid {
		s.logger.Info("课程计划校验未通过",
			zap.String("session_id", session.ID),
			zap.Int("errors", result.Validation.ErrorCount),
		)
		s.fail(ctx, session.ID, result)
		return result, nil
	}

	// 转换 + 装载（全量成功或全量失败）
	transformed := Transform(plan.Rows)
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		return s.load(ctx, tx, plan, transformed, disciplineID, result)
	})
	if err != nil {
		// 回滚已完成，错误日志在事务外落库
		message := fmt.Sprintf("装载失败，会话已回滚: %v", err)
		if isConstraintError(err) {
			s.errLog.LogConstraint(ctx, &session.ID, fileName, message, err)
		} else {
			s.errLog.LogDatabase(ctx, &session.ID, fileName, message, err)
		}
		s.fail(ctx, session.ID, result)
		return result, fmt.Errorf("%w: %v", ErrImportLoadFailed, err)
	}

	result.Outcome = model.SessionSucceeded
	if err := s.repo.ImportSession.UpdateOutcome(ctx, session.ID, model.SessionSucceeded); err != nil {
		s.logger.Warn("更新会话结论失败", zap.String("session_id", session.ID), zap.Error(err))
	}
	s.logger.Info("课程计划导入完成",
		zap.String("session_id", session.ID),
		zap.Int("sections", result.Sections),
		zap.Int("themes", result.Themes),
		zap.Int("activities", result.Activities),
	)

	// 提交后显式请求一次合并刷新
	s.refresh.Request()
	return result, nil
}

// load 单事务装载：参照数据 → 学期 → 章节 → 主题 → 活动
func (s *importService) load(
	ctx context.Context,
	tx *repository.Repository,
	plan *ParsedPlan,
	transformed *TransformResult,
	disciplineID int,
	result *dto.ImportResult,
) error {
	if err := tx.Reference.EnsureDefaults(ctx); err != nil {
		return fmt.Errorf("初始化参照数据失败: %w", err)
	}
	typeIDs, err := tx.Reference.ActivityTypesByName(ctx)
	if err != nil {
		return err
	}
	formIDs, err := tx.Reference.ControlFormsByName(ctx)
	if err != nil {
		return err
	}

	semesterNumber := plan.SemesterNumber
	if semesterNumber == 0 {
		semesterNumber = fallbackSemesterNumber
	}
	semester, err := tx.Semester.FindOrCreateByNumber(ctx,
		semesterNumber, s.cfg.DefaultWeeks, s.cfg.DefaultHoursPerWk)
	if err != nil {
		return fmt.Errorf("学期定位失败: %w", err)
	}

	sectionIDs := make(map[string]int, len(transformed.Sections))
	for _, agg := range transformed.Sections {
		section, err := tx.Section.FindOrCreate(ctx, agg.SectionName, disciplineID, semester.ID)
		if err != nil {
			return fmt.Errorf("章节 %q 装载失败: %w", agg.SectionName, err)
		}
		sectionIDs[agg.SectionName] = section.ID
		result.Sections++
	}

	themeIDs := make(map[string]int, len(transformed.Themes))
	for _, agg := range transformed.Themes {
		theme, err := tx.Theme.Upsert(ctx, agg.ThemeName, sectionIDs[agg.SectionName], agg.TotalHours)
		if err != nil {
			return fmt.Errorf("主题 %q 装载失败: %w", agg.ThemeName, err)
		}
		themeIDs[agg.SectionName+"\x00"+agg.ThemeName] = theme.ID
		result.Themes++
	}

	for _, row := range plan.Rows {
		section := strings.TrimSpace(row.SectionName)
		theme := strings.TrimSpace(row.ThemeName)
		themeID, ok := themeIDs[section+"\x00"+theme]
		if !ok {
			return fmt.Errorf("活动 %q 找不到所属主题", row.ActivityName)
		}

		activity := &model.Activity{
			Name:    row.ActivityName,
			ThemeID: themeID,
		}
		if h, err := row.Hours(); err == nil && h > 0 {
			activity.Hours = int(math.Round(h))
		}
		if typeID, ok := typeIDs[row.TypeLabel]; ok {
			activity.TypeID = &typeID
		}
		if form := MatchControlForm(row.ControlForm); form != "" {
			if formID, ok := formIDs[form]; ok {
				activity.ControlFormID = &formID
			}
		}
		if _, err := tx.Activity.Upsert(ctx, activity); err != nil {
			return fmt.Errorf("活动 %q 装载失败: %w", row.ActivityName, err)
		}
		result.Activities++
	}
	return nil
}

func (s *importService) fail(ctx context.Context, sessionID string, result *dto.ImportResult) {
	result.Outcome = model.SessionFailed
	result.Sections, result.Themes, result.Activities = 0, 0, 0
	if err := s.repo.ImportSession.UpdateOutcome(ctx, sessionID, model.SessionFailed); err != nil {
		s.logger.Warn("更新会话结论失败", zap.String("session_id", sessionID), zap.Error(err))
	}
}

func (s *importService) GetSession(ctx context.Context, id string) (*model.ImportSession, error) {
	return s.repo.ImportSession.GetByID(ctx, id)
}

// isConstraintError 粗分类：约束违反归 constraint，其余归 database
func isConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"constraint", "duplicate", "unique", "violates", "foreign key"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
