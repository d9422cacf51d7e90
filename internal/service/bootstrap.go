package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"sanogestion/internal/config"
	"sanogestion/internal/model"
	"sanogestion/internal/repository"
	"sanogestion/pkg/password"
)

// EnsureAdministrator creates the first Administrator when none exists.
// It reports whether an account was created.
func EnsureAdministrator(ctx context.Context, repo repository.PersonnelRepository, admin config.AdminConfig) (bool, error) {
	count, err := repo.CountByRole(ctx, model.RoleAdministrator)
	if err != nil {
		return false, fmt.Errorf("count administrators: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	hash, err := password.Hash(admin.Password)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}
	arrivee := time.Now().Truncate(24 * time.Hour)
	p := &model.Personnel{
		Nom:         "Administrateur",
		Prenom:      "Sano",
		Username:    admin.Username,
		Email:       admin.Email,
		Password:    hash,
		Departement: model.DepartementDirection,
		Convention:  model.ConventionCDI,
		Role:        model.RoleAdministrator,
		DateArrivee: &arrivee,
	}
	if err := repo.Create(ctx, p); err != nil {
		return false, fmt.Errorf("create administrator: %w", err)
	}
	log.Printf("WARNING: default administrator %q created, change its password", admin.Username)
	return true, nil
}
