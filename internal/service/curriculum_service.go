package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/UraN9/curriculum-parser/internal/dto"
	"github.com/UraN9/curriculum-parser/internal/model"
	"github.com/UraN9/curriculum-parser/internal/repository"
)

// ── 课程模块业务错误 ──

var (
	ErrActivityNotFound = errors.New("教学活动不存在")
	ErrThemeNotFound    = errors.New("主题不存在")
)

// CurriculumService 课程数据业务接口
// 活动写操作与导入流水线共用同一 *gorm.DB，写入同样被捕获插件观察；
// 每个写批次结束后请求一次合并刷新
type CurriculumService interface {
	ListDisciplines(ctx context.Context) ([]model.Discipline, error)
	ListSections(ctx context.Context, disciplineID int) ([]model.Section, error)
	ListThemes(ctx context.Context, sectionID int) ([]model.Theme, error)
	ListActivities(ctx context.Context, themeID int) ([]model.Activity, error)
	GetActivity(ctx context.Context, id int) (*model.Activity, error)
	CreateActivity(ctx context.Context, req *dto.CreateActivityRequest) (*model.Activity, error)
	UpdateActivity(ctx context.Context, id int, req *dto.UpdateActivityRequest) (*model.Activity, error)
	DeleteActivity(ctx context.Context, id int) error
}

type curriculumService struct {
	repo    *repository.Repository
	refresh *RefreshCoordinator
	logger  *zap.Logger
}

// NewCurriculumService 创建 CurriculumService 实例
func NewCurriculumService(repo *repository.Repository, refresh *RefreshCoordinator, logger *zap.Logger) CurriculumService {
	return &curriculumService{repo: repo, refresh: refresh, logger: logger}
}

func (s *curriculumService) ListDisciplines(ctx context.Context) ([]model.Discipline, error) {
	return s.repo.Discipline.List(ctx)
}

func (s *curriculumService) ListSections(ctx context.Context, disciplineID int) ([]model.Section, error) {
	return s.repo.Section.List(ctx, disciplineID)
}

func (s *curriculumService) ListThemes(ctx context.Context, sectionID int) ([]model.Theme, error) {
	return s.repo.Theme.List(ctx, sectionID)
}

func (s *curriculumService) ListActivities(ctx context.Context, themeID int) ([]model.Activity, error) {
	return s.repo.Activity.List(ctx, themeID)
}

func (s *curriculumService) GetActivity(ctx context.Context, id int) (*model.Activity, error) {
	activity, err := s.repo.Activity.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, err
	}
	return activity, nil
}

func (s *curriculumService) CreateActivity(ctx context.Context, req *dto.CreateActivityRequest) (*model.Activity, error) {
	if _, err := s.repo.Theme.GetByID(ctx, req.ThemeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrThemeNotFound
		}
		return nil, err
	}

	activity := &model.Activity{
		Name:          req.Name,
		TypeID:        req.TypeID,
		Hours:         req.Hours,
		ThemeID:       req.ThemeID,
		ControlFormID: req.ControlFormID,
	}
	if err := s.repo.Activity.Create(ctx, activity); err != nil {
		return nil, err
	}
	s.refresh.Request()
	return activity, nil
}

func (s *curriculumService) UpdateActivity(ctx context.Context, id int, req *dto.UpdateActivityRequest) (*model.Activity, error) {
	if _, err := s.GetActivity(ctx, id); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.TypeID != nil {
		fields["type_id"] = *req.TypeID
	}
	if req.Hours != nil {
		fields["hours"] = *req.Hours
	}
	if req.ControlFormID != nil {
		fields["control_form_id"] = *req.ControlFormID
	}
	if len(fields) > 0 {
		if err := s.repo.Activity.Updates(ctx, id, fields); err != nil {
			return nil, err
		}
		s.refresh.Request()
	}
	return s.GetActivity(ctx, id)
}

func (s *curriculumService) DeleteActivity(ctx context.Context, id int) error {
	if _, err := s.GetActivity(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Activity.Delete(ctx, id); err != nil {
		return err
	}
	s.refresh.Request()
	return nil
}
