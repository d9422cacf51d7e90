package service

import (
	"context"

	"sanogestion/internal/repository"
	"sanogestion/pkg/pagination"
)

type ActivityResponse struct {
	ID           uint   `json:"id"`
	PersonnelID  uint   `json:"personnel_id"`
	Username     string `json:"username"`
	Type         string `json:"type"`
	DateActivite string `json:"date_activite"`
	IP           string `json:"ip"`
	UserAgent    string `json:"user_agent"`
}

type ActivityService interface {
	List(ctx context.Context, personnelID uint, page pagination.Params) ([]ActivityResponse, pagination.Meta, error)
}

type activityService struct {
	repo repository.ActivityRepository
}

func NewActivityService(repo repository.ActivityRepository) ActivityService {
	return &activityService{repo: repo}
}

func (s *activityService) List(ctx context.Context, personnelID uint, page pagination.Params) ([]ActivityResponse, pagination.Meta, error) {
	rows, total, err := s.repo.List(ctx, personnelID, page)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	res := make([]ActivityResponse, 0, len(rows))
	for _, a := range rows {
		r := ActivityResponse{
			ID:           a.ID,
			PersonnelID:  a.PersonnelID,
			Type:         a.Type,
			DateActivite: a.DateActivite.Format("2006-01-02 15:04:05"),
			IP:           a.IP,
			UserAgent:    a.UserAgent,
		}
		if a.Personnel != nil {
			r.Username = a.Personnel.Username
		}
		res = append(res, r)
	}
	return res, pagination.NewMeta(page, total), nil
}
