package service

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/UraN9/curriculum-parser/config"
	"github.com/UraN9/curriculum-parser/internal/capture"
	"github.com/UraN9/curriculum-parser/internal/model"
	"github.com/UraN9/curriculum-parser/internal/repository"
)

// testEnv 服务层测试环境：内存库 + 捕获插件 + 完整服务聚合
type testEnv struct {
	db   *gorm.DB
	repo *repository.Repository
	svc  *Service
}

func newTestEnv(t *testing.T) *testEnv {
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
	if err := db.Use(capture.New(zap.NewNop())); err != nil {
		t.Fatalf("注册捕获插件失败: %v", err)
	}

	cfg := &config.Config{
		ETL: config.ETLConfig{
			SheetName:          "План",
			DefaultWeeks:       17,
			DefaultHoursPerWk:  10,
			SummaryCacheTTL:    time.Minute,
			ChangeLogRetention: 90,
		},
	}
	repo := repository.NewRepository(db)
	return &testEnv{
		db:   db,
		repo: repo,
		svc:  NewService(cfg, repo, nil, zap.NewNop()),
	}
}

// seedDiscipline 建立导入目标学科
func (e *testEnv) seedDiscipline(t *testing.T) *model.Discipline {
	t.Helper()
	lecturer := model.Lecturer{FullName: "Петренко П.П.", Email: "petrenko@univ.edu", PasswordHash: "x"}
	if err := e.db.Create(&lecturer).Error; err != nil {
		t.Fatalf("创建讲师失败: %v", err)
	}
	discipline := model.Discipline{Name: "Бази даних", Course: 3, ECTSCredits: 5, LecturerID: lecturer.ID}
	if err := e.db.Create(&discipline).Error; err != nil {
		t.Fatalf("创建学科失败: %v", err)
	}
	return &discipline
}

// planCell 构造测试工作簿用的单行数据：首列标签 + 指定列取值
type planCell struct {
	col   int
	value interface{}
}

// buildPlanXLSX 生成含 План 工作表的 xlsx 内容
// rows 的键为 1 起始行号
func buildPlanXLSX(t *testing.T, rows map[int][]planCell) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	const sheet = "План"
	if _, err := f.NewSheet(sheet); err != nil {
		t.Fatalf("创建工作表失败: %v", err)
	}
	for rowNum, cells := range rows {
		for _, c := range cells {
			axis, err := excelize.CoordinatesToCellName(c.col+1, rowNum)
			if err != nil {
				t.Fatalf("坐标转换失败: %v", err)
			}
			if err := f.SetCellValue(sheet, axis, c.value); err != nil {
				t.Fatalf("写入单元格失败: %v", err)
			}
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("序列化工作簿失败: %v", err)
	}
	return buf
}

// defaultPlanRows 一份结构良好的课程计划：1 章节 2 主题 4 活动
func defaultPlanRows() map[int][]planCell {
	return map[int][]planCell{
		1: {{0, "НАВЧАЛЬНИЙ ПЛАН"}, {2, "5 СЕМЕСТР"}},
		5: {{0, "РОЗДІЛ 1. ПОНЯТТЯ БАЗ ДАНИХ ТА СУБД"}},
		6: {{0, "Тема 1.1 Основні поняття баз даних"}, {1, 8}},
		7: {{0, "Лекція 1. Основи баз даних"}, {3, 2}, {6, "опитування"}},
		8: {{0, "Практична робота №1"}, {4, 2}, {6, "захист"}},
		9: {{0, "Самостійна робота №1"}, {5, 4}, {6, "конспект"}},

		10: {{0, "Тема 1.2 Реляційна модель"}, {1, 6}},
		11: {{0, "Лекція 2. Реляційна модель"}, {3, 2}},
		12: {{0, "Лабораторна робота №1"}, {4, 4}},
	}
}

func countChangeRecords(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&model.ChangeRecord{}).Count(&n).Error; err != nil {
		t.Fatalf("统计变更记录失败: %v", err)
	}
	return n
}

// waitRefreshIdle 等待后台合并刷新收尾
func waitRefreshIdle(t *testing.T, c *RefreshCoordinator) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		c.mu.Lock()
		idle := !c.inFlight
		c.mu.Unlock()
		if idle {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("刷新协调器未能在期限内收尾")
}
