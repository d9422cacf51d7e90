package repository

import (
	"context"

	"sanogestion/internal/model"

	"gorm.io/gorm"
)

// DashboardRepository runs the read-only counts behind the dashboard.
type DashboardRepository interface {
	CountPersonnel(ctx context.Context, activeOnly bool) (int64, error)
	CountByDepartement(ctx context.Context) ([]model.DepartementCount, error)
	CountRows(ctx context.Context, m interface{}) (int64, error)
	CountWhere(ctx context.Context, m interface{}, cond string, args ...interface{}) (int64, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) CountPersonnel(ctx context.Context, activeOnly bool) (int64, error) {
	var n int64
	q := GetDB(ctx, r.db).Model(&model.Personnel{})
	if activeOnly {
		q = q.Where("date_depart IS NULL")
	}
	err := q.Count(&n).Error
	return n, err
}

func (r *dashboardRepository) CountByDepartement(ctx context.Context) ([]model.DepartementCount, error) {
	var rows []model.DepartementCount
	err := GetDB(ctx, r.db).Model(&model.Personnel{}).
		Select("departement, COUNT(*) AS total").
		Group("departement").
		Order("departement ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *dashboardRepository) CountRows(ctx context.Context, m interface{}) (int64, error) {
	var n int64
	err := GetDB(ctx, r.db).Model(m).Count(&n).Error
	return n, err
}

func (r *dashboardRepository) CountWhere(ctx context.Context, m interface{}, cond string, args ...interface{}) (int64, error) {
	var n int64
	err := GetDB(ctx, r.db).Model(m).Where(cond, args...).Count(&n).Error
	return n, err
}
