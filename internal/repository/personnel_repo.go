package repository

import (
	"context"
	"strings"

	"sanogestion/internal/model"

	"gorm.io/gorm"
)

// PersonnelRepository covers the identity lookups used by authentication and pickers.
// Plain CRUD goes through EntityRepository[model.Personnel].
type PersonnelRepository interface {
	Create(ctx context.Context, p *model.Personnel) error
	GetByID(ctx context.Context, id uint) (*model.Personnel, error)
	GetByUsername(ctx context.Context, username string) (*model.Personnel, error)
	CountByRole(ctx context.Context, role string) (int64, error)
	ListActive(ctx context.Context) ([]model.Personnel, error)
	SearchActive(ctx context.Context, term string, limit int) ([]model.Personnel, error)
	ActiveIDs(ctx context.Context, ids []uint) ([]uint, error)
}

type personnelRepository struct {
	db *gorm.DB
}

func NewPersonnelRepository(db *gorm.DB) PersonnelRepository {
	return &personnelRepository{db: db}
}

func (r *personnelRepository) Create(ctx context.Context, p *model.Personnel) error {
	return GetDB(ctx, r.db).Create(p).Error
}

func (r *personnelRepository) GetByID(ctx context.Context, id uint) (*model.Personnel, error) {
	var p model.Personnel
	if err := GetDB(ctx, r.db).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *personnelRepository) GetByUsername(ctx context.Context, username string) (*model.Personnel, error) {
	var p model.Personnel
	if err := GetDB(ctx, r.db).First(&p, "username = ?", username).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *personnelRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Personnel{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

func (r *personnelRepository) active(ctx context.Context) *gorm.DB {
	return GetDB(ctx, r.db).Model(&model.Personnel{}).Where("date_depart IS NULL")
}

func (r *personnelRepository) ListActive(ctx context.Context) ([]model.Personnel, error) {
	var out []model.Personnel
	err := r.active(ctx).Order("nom ASC, prenom ASC, id ASC").Find(&out).Error
	return out, err
}

func (r *personnelRepository) SearchActive(ctx context.Context, term string, limit int) ([]model.Personnel, error) {
	var out []model.Personnel
	q := r.active(ctx)
	if term = strings.TrimSpace(term); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("(LOWER(nom) LIKE ? OR LOWER(prenom) LIKE ? OR LOWER(username) LIKE ? OR LOWER(email) LIKE ?)",
			like, like, like, like)
	}
	err := q.Order("nom ASC, prenom ASC, id ASC").Limit(limit).Find(&out).Error
	return out, err
}

func (r *personnelRepository) ActiveIDs(ctx context.Context, ids []uint) ([]uint, error) {
	var out []uint
	if len(ids) == 0 {
		return out, nil
	}
	err := r.active(ctx).Where("id IN ?", ids).Pluck("id", &out).Error
	return out, err
}
