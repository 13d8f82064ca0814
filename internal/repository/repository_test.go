package repository

import (
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/UraN9/curriculum-parser/internal/dto"
	"github.com/UraN9/curriculum-parser/internal/model"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("打开测试库失败: %v", err)
	}
	err = db.AutoMigrate(
		&model.Lecturer{}, &model.Discipline{}, &model.Semester{},
		&model.Section{}, &model.Theme{}, &model.ActivityType{},
		&model.ControlForm{}, &model.Activity{}, &model.Schedule{},
		&model.ImportSession{}, &model.ETLError{}, &model.ChangeRecord{},
		&model.SectionSummary{}, &model.ThemeSummary{},
		&model.ActivityTypeSummary{}, &model.SemesterSummary{},
		&model.ControlFormSummary{},
	)
	if err != nil {
		t.Fatalf("建表失败: %v", err)
	}
	return NewRepository(db)
}

// seedDiscipline 建立学科及其前置讲师
func seedDiscipline(t *testing.T, repo *Repository) *model.Discipline {
	t.Helper()
	lecturer := model.Lecturer{FullName: "Іваненко І.І.", Email: "ivanenko@univ.edu", PasswordHash: "x"}
	if err := repo.db.Create(&lecturer).Error; err != nil {
		t.Fatalf("创建讲师失败: %v", err)
	}
	discipline := model.Discipline{Name: "Бази даних", Course: 3, ECTSCredits: 5, LecturerID: lecturer.ID}
	if err := repo.db.Create(&discipline).Error; err != nil {
		t.Fatalf("创建学科失败: %v", err)
	}
	return &discipline
}

func TestSemesterFindOrCreate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first, err := repo.Semester.FindOrCreateByNumber(ctx, 5, 17, 10)
	if err != nil {
		t.Fatalf("首次创建失败: %v", err)
	}
	second, err := repo.Semester.FindOrCreateByNumber(ctx, 5, 20, 12)
	if err != nil {
		t.Fatalf("二次查找失败: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("重复学期号应返回同一记录: %d != %d", first.ID, second.ID)
	}
	if second.Weeks != 17 {
		t.Errorf("已存在学期的参数不应被覆盖: weeks=%d", second.Weeks)
	}
}

func TestSectionFindOrCreate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	discipline := seedDiscipline(t, repo)
	semester, _ := repo.Semester.FindOrCreateByNumber(ctx, 5, 17, 10)

	first, err := repo.Section.FindOrCreate(ctx, "РОЗДІЛ 1. ПОНЯТТЯ БАЗ ДАНИХ", discipline.ID, semester.ID)
	if err != nil {
		t.Fatalf("首次创建失败: %v", err)
	}
	second, err := repo.Section.FindOrCreate(ctx, "РОЗДІЛ 1. ПОНЯТТЯ БАЗ ДАНИХ", discipline.ID, semester.ID)
	if err != nil {
		t.Fatalf("二次查找失败: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("相同自然键应返回同一章节: %d != %d", first.ID, second.ID)
	}
}

func TestThemeUpsertRefreshesHours(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	discipline := seedDiscipline(t, repo)
	semester, _ := repo.Semester.FindOrCreateByNumber(ctx, 5, 17, 10)
	section, _ := repo.Section.FindOrCreate(ctx, "РОЗДІЛ 1", discipline.ID, semester.ID)

	first, err := repo.Theme.Upsert(ctx, "Тема 1.1", section.ID, 10)
	if err != nil {
		t.Fatalf("首次创建失败: %v", err)
	}
	second, err := repo.Theme.Upsert(ctx, "Тема 1.1", section.ID, 14)
	if err != nil {
		t.Fatalf("重复装载失败: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("相同自然键应返回同一主题: %d != %d", first.ID, second.ID)
	}
	if second.TotalHours != 14 {
		t.Errorf("重复装载应刷新 total_hours: %d", second.TotalHours)
	}
}

func TestActivityUpsert(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	discipline := seedDiscipline(t, repo)
	semester, _ := repo.Semester.FindOrCreateByNumber(ctx, 5, 17, 10)
	section, _ := repo.Section.FindOrCreate(ctx, "РОЗДІЛ 1", discipline.ID, semester.ID)
	theme, _ := repo.Theme.Upsert(ctx, "Тема 1.1", section.ID, 10)
	if err := repo.Reference.EnsureDefaults(ctx); err != nil {
		t.Fatalf("初始化参照数据失败: %v", err)
	}

	lecture := 1
	first, err := repo.Activity.Upsert(ctx, &model.Activity{
		Name: "Основні поняття", TypeID: &lecture, Hours: 2, ThemeID: theme.ID,
	})
	if err != nil {
		t.Fatalf("首次创建失败: %v", err)
	}

	practice := 2
	second, err := repo.Activity.Upsert(ctx, &model.Activity{
		Name: "Основні поняття", TypeID: &practice, Hours: 4, ThemeID: theme.ID,
	})
	if err != nil {
		t.Fatalf("重复装载失败: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("相同自然键应更新而非新建: %d != %d", first.ID, second.ID)
	}
	if second.Hours != 4 || second.TypeID == nil || *second.TypeID != practice {
		t.Errorf("重复装载应刷新类型与学时: hours=%d type=%v", second.Hours, second.TypeID)
	}
}

func TestReferenceEnsureDefaultsIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Reference.EnsureDefaults(ctx); err != nil {
		t.Fatalf("首次初始化失败: %v", err)
	}
	if err := repo.Reference.EnsureDefaults(ctx); err != nil {
		t.Fatalf("重复初始化失败: %v", err)
	}

	types, err := repo.Reference.ActivityTypesByName(ctx)
	if err != nil {
		t.Fatalf("读取活动类型失败: %v", err)
	}
	if len(types) != 4 {
		t.Errorf("期望 4 种活动类型，实际 %d", len(types))
	}
	forms, err := repo.Reference.ControlFormsByName(ctx)
	if err != nil {
		t.Fatalf("读取考核形式失败: %v", err)
	}
	if forms["захист"] != 2 {
		t.Errorf("захист 应为固定 ID 2，实际 %d", forms["захист"])
	}
}

func TestChangeRecordMarkProcessedIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	records := []model.ChangeRecord{
		{TableName: "activities", Operation: model.OpCreate, RecordID: 1},
		{TableName: "activities", Operation: model.OpUpdate, RecordID: 1},
		{TableName: "themes", Operation: model.OpCreate, RecordID: 2},
	}
	if err := repo.db.Create(&records).Error; err != nil {
		t.Fatalf("写入变更记录失败: %v", err)
	}

	ids := []uint64{records[0].ID, records[1].ID}
	flipped, err := repo.Change.MarkProcessed(ctx, ids)
	if err != nil {
		t.Fatalf("首次标记失败: %v", err)
	}
	if flipped != 2 {
		t.Errorf("期望翻转 2 条，实际 %d", flipped)
	}

	flipped, err = repo.Change.MarkProcessed(ctx, ids)
	if err != nil {
		t.Fatalf("重复标记失败: %v", err)
	}
	if flipped != 0 {
		t.Errorf("重复标记应翻转 0 条，实际 %d", flipped)
	}

	groups, err := repo.Change.CountUnprocessed(ctx)
	if err != nil {
		t.Fatalf("统计未处理失败: %v", err)
	}
	if len(groups) != 1 || groups[0].TableName != "themes" || groups[0].Count != 1 {
		t.Errorf("未处理分组统计错误: %+v", groups)
	}
}

func TestChangeRecordCleanup(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	old := time.Now().AddDate(0, 0, -120)
	records := []model.ChangeRecord{
		{TableName: "activities", Operation: model.OpCreate, RecordID: 1, ChangedAt: old, Processed: true},
		{TableName: "activities", Operation: model.OpCreate, RecordID: 2, ChangedAt: old}, // 未处理，不可删
		{TableName: "activities", Operation: model.OpCreate, RecordID: 3, Processed: true},
	}
	if err := repo.db.Create(&records).Error; err != nil {
		t.Fatalf("写入变更记录失败: %v", err)
	}

	cutoff := time.Now().AddDate(0, 0, -90)
	deleted, err := repo.Change.DeleteProcessedBefore(ctx, cutoff)
	if err != nil {
		t.Fatalf("清理失败: %v", err)
	}
	if deleted != 1 {
		t.Errorf("期望删除 1 条，实际 %d", deleted)
	}

	remaining, err := repo.Change.ListRecent(ctx, dto.ChangeQuery{Limit: 10})
	if err != nil {
		t.Fatalf("读取剩余记录失败: %v", err)
	}
	if len(remaining) != 2 {
		t.Errorf("期望剩余 2 条，实际 %d", len(remaining))
	}
}

func TestSummaryRebuild(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	discipline := seedDiscipline(t, repo)
	semester, _ := repo.Semester.FindOrCreateByNumber(ctx, 5, 17, 10)
	section, _ := repo.Section.FindOrCreate(ctx, "РОЗДІЛ 1", discipline.ID, semester.ID)
	theme, _ := repo.Theme.Upsert(ctx, "Тема 1.1", section.ID, 6)
	if err := repo.Reference.EnsureDefaults(ctx); err != nil {
		t.Fatalf("初始化参照数据失败: %v", err)
	}
	lecture := 1
	for _, a := range []model.Activity{
		{Name: "Лекція 1", TypeID: &lecture, Hours: 2, ThemeID: theme.ID},
		{Name: "Лекція 2", TypeID: &lecture, Hours: 4, ThemeID: theme.ID},
	} {
		activity := a
		if _, err := repo.Activity.Upsert(ctx, &activity); err != nil {
			t.Fatalf("创建活动失败: %v", err)
		}
	}

	for _, view := range Views() {
		if err := repo.Summary.Rebuild(ctx, view); err != nil {
			t.Fatalf("重算 %s 失败: %v", view, err)
		}
	}

	rows, err := repo.Summary.List(ctx, ViewThemes)
	if err != nil {
		t.Fatalf("读取主题汇总失败: %v", err)
	}
	themes := rows.([]model.ThemeSummary)
	if len(themes) != 1 {
		t.Fatalf("期望 1 条主题汇总，实际 %d", len(themes))
	}
	if themes[0].ActivityCount != 2 || themes[0].TotalHours != 6 {
		t.Errorf("主题汇总计数错误: %+v", themes[0])
	}
	if themes[0].DeclaredHours != 6 {
		t.Errorf("声明学时应来自主题记录: %d", themes[0].DeclaredHours)
	}

	// 重算具有幂等性：整表重算而非增量修补
	if err := repo.Summary.Rebuild(ctx, ViewThemes); err != nil {
		t.Fatalf("重复重算失败: %v", err)
	}
	rows, _ = repo.Summary.List(ctx, ViewThemes)
	if len(rows.([]model.ThemeSummary)) != 1 {
		t.Error("重复重算不应产生重复行")
	}
}
