package repository

import (
	"context"

	"sanogestion/internal/model"

	"gorm.io/gorm"
)

// ParticipantRepository manages the participant rows of meeting minutes.
type ParticipantRepository interface {
	DeleteByProcesVerbalID(ctx context.Context, pvID uint) error
	Create(ctx context.Context, participants []model.PVParticipant) error
	ListByProcesVerbalID(ctx context.Context, pvID uint) ([]model.PVParticipant, error)
}

type participantRepository struct {
	db *gorm.DB
}

func NewParticipantRepository(db *gorm.DB) ParticipantRepository {
	return &participantRepository{db: db}
}

func (r *participantRepository) DeleteByProcesVerbalID(ctx context.Context, pvID uint) error {
	return GetDB(ctx, r.db).Where("proces_verbal_id = ?", pvID).Delete(&model.PVParticipant{}).Error
}

func (r *participantRepository) Create(ctx context.Context, participants []model.PVParticipant) error {
	if len(participants) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).Omit("Personnel").Create(&participants).Error
}

func (r *participantRepository) ListByProcesVerbalID(ctx context.Context, pvID uint) ([]model.PVParticipant, error) {
	var out []model.PVParticipant
	err := GetDB(ctx, r.db).Preload("Personnel").Where("proces_verbal_id = ?", pvID).Order("id ASC").Find(&out).Error
	return out, err
}
