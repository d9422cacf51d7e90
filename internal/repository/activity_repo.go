package repository

import (
	"context"
	"time"

	"sanogestion/internal/model"
	"sanogestion/pkg/pagination"

	"gorm.io/gorm"
)

type ActivityRepository interface {
	Record(ctx context.Context, activity *model.UserActivity) error
	List(ctx context.Context, personnelID uint, page pagination.Params) ([]model.UserActivity, int64, error)
}

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Record(ctx context.Context, activity *model.UserActivity) error {
	if activity.DateActivite.IsZero() {
		activity.DateActivite = time.Now()
	}
	return GetDB(ctx, r.db).Omit("Personnel").Create(activity).Error
}

func (r *activityRepository) List(ctx context.Context, personnelID uint, page pagination.Params) ([]model.UserActivity, int64, error) {
	var out []model.UserActivity
	var total int64

	base := func() *gorm.DB {
		q := GetDB(ctx, r.db).Model(&model.UserActivity{})
		if personnelID != 0 {
			q = q.Where("personnel_id = ?", personnelID)
		}
		return q
	}

	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := base().Preload("Personnel").
		Order("date_activite DESC, id DESC").
		Offset(page.Offset).
		Limit(page.Limit).
		Find(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
