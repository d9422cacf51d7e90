package repository

import (
	"context"

	"sanogestion/internal/model"

	"gorm.io/gorm"
)

// RapportRepository adds file bookkeeping queries to the generic CRUD.
type RapportRepository interface {
	EntityRepository[model.Rapport]
	FilesByPersonnel(ctx context.Context, personnelID uint) ([]string, error)
}

type rapportRepository struct {
	EntityRepository[model.Rapport]
	db *gorm.DB
}

func NewRapportRepository(db *gorm.DB) RapportRepository {
	return &rapportRepository{
		EntityRepository: NewEntityRepository[model.Rapport](db, RapportSchema),
		db:               db,
	}
}

func (r *rapportRepository) FilesByPersonnel(ctx context.Context, personnelID uint) ([]string, error) {
	var paths []string
	err := GetDB(ctx, r.db).Model(&model.Rapport{}).
		Where("personnel_id = ?", personnelID).
		Pluck("chemin_fichier", &paths).Error
	return paths, err
}
