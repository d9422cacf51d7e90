package repository

import (
	"context"
	"time"

	"sanogestion/internal/model"
	"sanogestion/pkg/pagination"

	"gorm.io/gorm"
)

// JournalFilter narrows a journal listing. Zero values mean no filter.
type JournalFilter struct {
	Action      string
	PersonnelID uint
}

type JournalRepository interface {
	Record(ctx context.Context, entry *model.Journal) error
	List(ctx context.Context, filter JournalFilter, page pagination.Params) ([]model.Journal, int64, error)
}

type journalRepository struct {
	db *gorm.DB
}

func NewJournalRepository(db *gorm.DB) JournalRepository {
	return &journalRepository{db: db}
}

func (r *journalRepository) Record(ctx context.Context, entry *model.Journal) error {
	if entry.DateAction.IsZero() {
		entry.DateAction = time.Now()
	}
	return GetDB(ctx, r.db).Omit("Personnel").Create(entry).Error
}

func (r *journalRepository) List(ctx context.Context, filter JournalFilter, page pagination.Params) ([]model.Journal, int64, error) {
	var entries []model.Journal
	var total int64

	scope := func(db *gorm.DB) *gorm.DB {
		if filter.Action != "" {
			db = db.Where("action = ?", filter.Action)
		}
		if filter.PersonnelID != 0 {
			db = db.Where("personnel_id = ?", filter.PersonnelID)
		}
		return db
	}

	db := GetDB(ctx, r.db)
	if err := scope(db.Model(&model.Journal{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := scope(db.Model(&model.Journal{})).
		Preload("Personnel").
		Order("date_action DESC, id DESC").
		Offset(page.Offset).
		Limit(page.Limit).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
