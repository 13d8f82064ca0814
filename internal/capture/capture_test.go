package capture

import (
	"encoding/json"
	"testing"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/UraN9/curriculum-parser/internal/model"
)

// probeRow 捕获测试用的被跟踪实体
type probeRow struct {
	ID    int     `gorm:"primaryKey;autoIncrement"`
	Name  string  `gorm:"type:varchar(255)"`
	Hours float64 `gorm:"default:0"`
}

func (probeRow) TableName() string { return "probe_rows" }

// bystander 未纳入跟踪的实体
type bystander struct {
	ID   int    `gorm:"primaryKey;autoIncrement"`
	Note string `gorm:"type:varchar(255)"`
}

func (bystander) TableName() string { return "bystanders" }

func newCaptureDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("打开测试库失败: %v", err)
	}
	if err := db.AutoMigrate(&probeRow{}, &bystander{}, &model.ChangeRecord{}); err != nil {
		t.Fatalf("建表失败: %v", err)
	}
	if err := db.Use(New(zap.NewNop(), "probe_rows")); err != nil {
		t.Fatalf("注册捕获插件失败: %v", err)
	}
	return db
}

func loadRecords(t *testing.T, db *gorm.DB) []model.ChangeRecord {
	t.Helper()
	var records []model.ChangeRecord
	if err := db.Order("id").Find(&records).Error; err != nil {
		t.Fatalf("读取变更记录失败: %v", err)
	}
	return records
}

func snapshot(t *testing.T, data []byte) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("解析快照失败: %v", err)
	}
	return m
}

func TestCaptureCreate(t *testing.T) {
	db := newCaptureDB(t)

	item := probeRow{Name: "Лекція 1", Hours: 2}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	records := loadRecords(t, db)
	if len(records) != 1 {
		t.Fatalf("期望 1 条记录，实际 %d", len(records))
	}
	rec := records[0]
	if rec.Operation != model.OpCreate {
		t.Errorf("期望操作 %s，实际 %s", model.OpCreate, rec.Operation)
	}
	if rec.TableName != "probe_rows" {
		t.Errorf("期望表名 probe_rows，实际 %s", rec.TableName)
	}
	if rec.RecordID != int64(item.ID) {
		t.Errorf("期望主键 %d，实际 %d", item.ID, rec.RecordID)
	}
	if rec.OldData != nil {
		t.Error("create 记录不应带变更前快照")
	}
	newData := snapshot(t, rec.NewData)
	if newData["name"] != "Лекція 1" {
		t.Errorf("新快照 name 错误: %v", newData["name"])
	}
}

func TestCaptureBatchCreate(t *testing.T) {
	db := newCaptureDB(t)

	items := []probeRow{
		{Name: "a", Hours: 1},
		{Name: "b", Hours: 2},
		{Name: "c", Hours: 3},
	}
	if err := db.Create(&items).Error; err != nil {
		t.Fatalf("批量创建失败: %v", err)
	}

	records := loadRecords(t, db)
	if len(records) != 3 {
		t.Fatalf("期望每行一条共 3 条记录，实际 %d", len(records))
	}
	for i, rec := range records {
		if rec.RecordID != int64(items[i].ID) {
			t.Errorf("第 %d 条记录主键错误: 期望 %d 实际 %d", i, items[i].ID, rec.RecordID)
		}
	}
}

func TestCaptureUpdateDiff(t *testing.T) {
	db := newCaptureDB(t)

	item := probeRow{Name: "before", Hours: 2}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	if err := db.Model(&item).Update("name", "after").Error; err != nil {
		t.Fatalf("更新失败: %v", err)
	}

	records := loadRecords(t, db)
	if len(records) != 2 {
		t.Fatalf("期望 create+update 共 2 条记录，实际 %d", len(records))
	}
	rec := records[1]
	if rec.Operation != model.OpUpdate {
		t.Fatalf("期望操作 %s，实际 %s", model.OpUpdate, rec.Operation)
	}
	if !rec.ChangedFields.Contains("name") {
		t.Errorf("变更字段应包含 name: %v", rec.ChangedFields)
	}
	if rec.ChangedFields.Contains("hours") {
		t.Errorf("未变化的 hours 不应出现在变更字段中: %v", rec.ChangedFields)
	}
	oldData := snapshot(t, rec.OldData)
	newData := snapshot(t, rec.NewData)
	if oldData["name"] != "before" || newData["name"] != "after" {
		t.Errorf("快照错误: old=%v new=%v", oldData["name"], newData["name"])
	}
}

func TestCaptureNoopUpdate(t *testing.T) {
	db := newCaptureDB(t)

	item := probeRow{Name: "same", Hours: 4}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	// 取值未变的更新不应产生记录
	if err := db.Model(&item).Update("name", "same").Error; err != nil {
		t.Fatalf("更新失败: %v", err)
	}

	records := loadRecords(t, db)
	if len(records) != 1 {
		t.Fatalf("空变更不应追加记录，实际共 %d 条", len(records))
	}
}

func TestCaptureConditionalUpdate(t *testing.T) {
	db := newCaptureDB(t)

	items := []probeRow{
		{Name: "keep", Hours: 1},
		{Name: "bump", Hours: 1},
		{Name: "bump", Hours: 1},
	}
	if err := db.Create(&items).Error; err != nil {
		t.Fatalf("批量创建失败: %v", err)
	}

	err := db.Model(&probeRow{}).Where("name = ?", "bump").
		Update("hours", 9).Error
	if err != nil {
		t.Fatalf("条件更新失败: %v", err)
	}

	records := loadRecords(t, db)
	// 3 create + 2 update
	if len(records) != 5 {
		t.Fatalf("期望 5 条记录，实际 %d", len(records))
	}
	for _, rec := range records[3:] {
		if rec.Operation != model.OpUpdate {
			t.Errorf("期望操作 %s，实际 %s", model.OpUpdate, rec.Operation)
		}
		if !rec.ChangedFields.Contains("hours") {
			t.Errorf("变更字段应包含 hours: %v", rec.ChangedFields)
		}
	}
}

func TestCaptureDelete(t *testing.T) {
	db := newCaptureDB(t)

	item := probeRow{Name: "doomed", Hours: 6}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("创建失败: %v", err)
	}
	if err := db.Delete(&item).Error; err != nil {
		t.Fatalf("删除失败: %v", err)
	}

	records := loadRecords(t, db)
	if len(records) != 2 {
		t.Fatalf("期望 create+delete 共 2 条记录，实际 %d", len(records))
	}
	rec := records[1]
	if rec.Operation != model.OpDelete {
		t.Fatalf("期望操作 %s，实际 %s", model.OpDelete, rec.Operation)
	}
	if rec.NewData != nil {
		t.Error("delete 记录不应带变更后快照")
	}
	oldData := snapshot(t, rec.OldData)
	if oldData["name"] != "doomed" {
		t.Errorf("删除前快照 name 错误: %v", oldData["name"])
	}
}

func TestCaptureUntrackedTable(t *testing.T) {
	db := newCaptureDB(t)

	if err := db.Create(&bystander{Note: "quiet"}).Error; err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	records := loadRecords(t, db)
	if len(records) != 0 {
		t.Fatalf("未跟踪表不应产生记录，实际 %d 条", len(records))
	}
}

func TestCaptureRollback(t *testing.T) {
	db := newCaptureDB(t)

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&probeRow{Name: "ghost", Hours: 1}).Error; err != nil {
			return err
		}
		return gorm.ErrInvalidTransaction
	})
	if err == nil {
		t.Fatal("事务应回滚")
	}

	records := loadRecords(t, db)
	if len(records) != 0 {
		t.Fatalf("回滚后不应残留变更记录，实际 %d 条", len(records))
	}
}

func TestCaptureRecordTableMapping(t *testing.T) {
	db := newCaptureDB(t)

	if err := db.Create(&probeRow{Name: "Тема 1.1", Hours: 4}).Error; err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	// 变更记录必须落在迁移脚本建的 change_records 表里
	var count int64
	if err := db.Table("change_records").Count(&count).Error; err != nil {
		t.Fatalf("查询 change_records 失败: %v", err)
	}
	if count != 1 {
		t.Fatalf("change_records 表应有 1 条记录，实际 %d", count)
	}

	var tableName string
	if err := db.Table("change_records").Select("table_name").Scan(&tableName).Error; err != nil {
		t.Fatalf("读取 table_name 列失败: %v", err)
	}
	if tableName != "probe_rows" {
		t.Errorf("table_name 列期望 probe_rows，实际 %q", tableName)
	}
}
