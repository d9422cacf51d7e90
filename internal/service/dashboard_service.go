package service

import (
	"context"
	"fmt"

	"sanogestion/internal/model"
	"sanogestion/internal/repository"
)

// PersonnelSearchLimit caps the personnel picker results.
const PersonnelSearchLimit = 10

type DashboardService interface {
	Data(ctx context.Context) (*model.DashboardData, error)
	PersonnelSearch(ctx context.Context, term string) ([]model.PersonnelOption, error)
	ActivePersonnel(ctx context.Context) ([]model.PersonnelOption, error)
}

type dashboardService struct {
	repo      repository.DashboardRepository
	personnel repository.PersonnelRepository
}

func NewDashboardService(repo repository.DashboardRepository, personnel repository.PersonnelRepository) DashboardService {
	return &dashboardService{repo: repo, personnel: personnel}
}

func (s *dashboardService) Data(ctx context.Context) (*model.DashboardData, error) {
	data := &model.DashboardData{Ventes: map[string]int64{}}
	var err error

	if data.TotalPersonnel, err = s.repo.CountPersonnel(ctx, false); err != nil {
		return nil, fmt.Errorf("count personnel: %w", err)
	}
	if data.ActivePersonnel, err = s.repo.CountPersonnel(ctx, true); err != nil {
		return nil, fmt.Errorf("count active personnel: %w", err)
	}
	if data.ParDepartement, err = s.repo.CountByDepartement(ctx); err != nil {
		return nil, fmt.Errorf("count by departement: %w", err)
	}
	if data.ParDepartement == nil {
		data.ParDepartement = []model.DepartementCount{}
	}

	ledgers := []struct {
		key string
		m   interface{}
	}{
		{"trading", &model.Trading{}},
		{"academy", &model.Academy{}},
		{"digital", &model.Digital{}},
		{"materiel", &model.Materiel{}},
		{"finance", &model.Finance{}},
		{"facture", &model.Facture{}},
	}
	for _, l := range ledgers {
		n, err := s.repo.CountRows(ctx, l.m)
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", l.key, err)
		}
		data.Ventes[l.key] = n
	}

	if data.RapportsEnAttente, err = s.repo.CountWhere(ctx, &model.Rapport{}, "statut = ?", model.RapportSoumis); err != nil {
		return nil, fmt.Errorf("count pending reports: %w", err)
	}
	if data.ProjetsEnCours, err = s.repo.CountWhere(ctx, &model.Projet{}, "statut = ?", model.StatutEnCours); err != nil {
		return nil, fmt.Errorf("count running projects: %w", err)
	}
	return data, nil
}

func (s *dashboardService) PersonnelSearch(ctx context.Context, term string) ([]model.PersonnelOption, error) {
	rows, err := s.personnel.SearchActive(ctx, term, PersonnelSearchLimit)
	if err != nil {
		return nil, err
	}
	return toOptions(rows), nil
}

func (s *dashboardService) ActivePersonnel(ctx context.Context) ([]model.PersonnelOption, error) {
	rows, err := s.personnel.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return toOptions(rows), nil
}

func toOptions(rows []model.Personnel) []model.PersonnelOption {
	out := make([]model.PersonnelOption, 0, len(rows))
	for _, p := range rows {
		out = append(out, model.PersonnelOption{
			ID:          p.ID,
			Label:       p.FullName(),
			Username:    p.Username,
			Departement: p.Departement,
		})
	}
	return out
}
