package service

import (
	"context"
	"errors"
	"testing"

	"github.com/UraN9/curriculum-parser/internal/dto"
	"github.com/UraN9/curriculum-parser/internal/model"
)

// seedTheme 建立活动挂载所需的最小课程结构
func seedTheme(t *testing.T, env *testEnv) *model.Theme {
	t.Helper()
	ctx := context.Background()
	discipline := env.seedDiscipline(t)
	semester, err := env.repo.Semester.FindOrCreateByNumber(ctx, 5, 17, 10)
	if err != nil {
		t.Fatalf("创建学期失败: %v", err)
	}
	section, err := env.repo.Section.FindOrCreate(ctx, "РОЗДІЛ 1", discipline.ID, semester.ID)
	if err != nil {
		t.Fatalf("创建章节失败: %v", err)
	}
	theme, err := env.repo.Theme.Upsert(ctx, "Тема 1.1", section.ID, 8)
	if err != nil {
		t.Fatalf("创建主题失败: %v", err)
	}
	return theme
}

func TestActivityCRUDObservedByCapture(t *testing.T) {
	env := newTestEnv(t)
	theme := seedTheme(t, env)
	ctx := context.Background()
	baseline := countChangeRecords(t, env.db)

	lecture := 1
	created, err := env.svc.Curriculum.CreateActivity(ctx, &dto.CreateActivityRequest{
		Name: "Лекція 9", TypeID: &lecture, Hours: 2, ThemeID: theme.ID,
	})
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	hours := 6
	if _, err := env.svc.Curriculum.UpdateActivity(ctx, created.ID, &dto.UpdateActivityRequest{Hours: &hours}); err != nil {
		t.Fatalf("更新失败: %v", err)
	}

	if err := env.svc.Curriculum.DeleteActivity(ctx, created.ID); err != nil {
		t.Fatalf("删除失败: %v", err)
	}
	waitRefreshIdle(t, env.svc.Refresh)

	// CRUD 三次写都应被捕获插件观察到
	records := countChangeRecords(t, env.db)
	if records-baseline != 3 {
		t.Errorf("期望新增 3 条变更记录，实际 %d", records-baseline)
	}

	var ops []string
	var all []model.ChangeRecord
	env.db.Where("table_name = ?", "activities").Order("id").Find(&all)
	for _, r := range all {
		ops = append(ops, r.Operation)
	}
	want := []string{model.OpCreate, model.OpUpdate, model.OpDelete}
	if len(ops) != 3 || ops[0] != want[0] || ops[1] != want[1] || ops[2] != want[2] {
		t.Errorf("操作序列错误: %v", ops)
	}
}

func TestUpdateActivityPartialFields(t *testing.T) {
	env := newTestEnv(t)
	theme := seedTheme(t, env)
	ctx := context.Background()

	created, err := env.svc.Curriculum.CreateActivity(ctx, &dto.CreateActivityRequest{
		Name: "Практична 1", Hours: 2, ThemeID: theme.ID,
	})
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	name := "Практична 1 (оновлена)"
	updated, err := env.svc.Curriculum.UpdateActivity(ctx, created.ID, &dto.UpdateActivityRequest{Name: &name})
	if err != nil {
		t.Fatalf("更新失败: %v", err)
	}
	if updated.Name != name {
		t.Errorf("名称未更新: %q", updated.Name)
	}
	if updated.Hours != 2 {
		t.Errorf("未指定字段不应被改动: hours=%d", updated.Hours)
	}
}

func TestActivityNotFoundTranslated(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.svc.Curriculum.GetActivity(ctx, 404); !errors.Is(err, ErrActivityNotFound) {
		t.Errorf("期望 ErrActivityNotFound，实际 %v", err)
	}
	if err := env.svc.Curriculum.DeleteActivity(ctx, 404); !errors.Is(err, ErrActivityNotFound) {
		t.Errorf("期望 ErrActivityNotFound，实际 %v", err)
	}
}

func TestCreateActivityUnknownTheme(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Curriculum.CreateActivity(ctx, &dto.CreateActivityRequest{
		Name: "Лекція", ThemeID: 404,
	})
	if !errors.Is(err, ErrThemeNotFound) {
		t.Errorf("期望 ErrThemeNotFound，实际 %v", err)
	}
}
