package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sanogestion/internal/access"
	"sanogestion/internal/model"
	"sanogestion/internal/repository"
	"sanogestion/internal/storage"
	"sanogestion/pkg/password"
)

// PersonnelForm is the create/edit payload of a Personnel. Password is only
// replaced when non-empty and is mandatory on create.
type PersonnelForm struct {
	Nom          string `form:"nom" json:"nom" binding:"required,max=100"`
	Prenom       string `form:"prenom" json:"prenom" binding:"required,max=100"`
	Username     string `form:"username" json:"username" binding:"required,max=25"`
	Email        string `form:"email" json:"email" binding:"required,email,max=50"`
	Phone        string `form:"phone" json:"phone" binding:"max=20"`
	Departement  string `form:"departement" json:"departement" binding:"omitempty,oneof=Direction Trading Academy Digital"`
	DateArrivee  Field  `form:"date_arrivee" json:"date_arrivee"`
	DateDepart   Field  `form:"date_depart" json:"date_depart"`
	Ecole        string `form:"ecole" json:"ecole" binding:"max=100"`
	Convention   string `form:"convention" json:"convention" binding:"omitempty,oneof=Stage CDD CDI"`
	Password     string `form:"password" json:"password" binding:"max=72"`
	Role         string `form:"role" json:"role" binding:"omitempty,oneof=Administrator Trading Academy Digital Comptabilite"`
	Observations string `form:"observations" json:"observations"`
}

func (f *PersonnelForm) Apply(p *model.Personnel) error {
	if err := validateForm(f); err != nil {
		return err
	}
	arrivee, err := optionalDate("date_arrivee", f.DateArrivee.String())
	if err != nil {
		return err
	}
	depart, err := optionalDate("date_depart", f.DateDepart.String())
	if err != nil {
		return err
	}

	switch {
	case f.Password != "":
		digest, err := password.Hash(f.Password)
		if errors.Is(err, password.ErrTooLong) {
			return NewValidationError("password", "must be at most 72 bytes")
		}
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		p.Password = digest
	case p.ID == 0:
		return NewValidationError("password", "is required")
	}

	p.Nom = strings.TrimSpace(f.Nom)
	p.Prenom = strings.TrimSpace(f.Prenom)
	p.Username = strings.TrimSpace(f.Username)
	p.Email = strings.ToLower(strings.TrimSpace(f.Email))
	p.Phone = strings.TrimSpace(f.Phone)
	p.Departement = orDefault(f.Departement, model.DepartementTrading)
	p.DateArrivee = arrivee
	p.DateDepart = depart
	p.Ecole = strings.TrimSpace(f.Ecole)
	p.Convention = orDefault(f.Convention, model.ConventionStage)
	p.Role = orDefault(f.Role, model.RoleAcademy)
	p.Observations = f.Observations
	return nil
}

// PersonnelFormFrom fills a form with the current values, password excluded.
func PersonnelFormFrom(p *model.Personnel) PersonnelForm {
	return PersonnelForm{
		Nom:          p.Nom,
		Prenom:       p.Prenom,
		Username:     p.Username,
		Email:        p.Email,
		Phone:        p.Phone,
		Departement:  p.Departement,
		DateArrivee:  Field(formatDate(p.DateArrivee)),
		DateDepart:   Field(formatDate(p.DateDepart)),
		Ecole:        p.Ecole,
		Convention:   p.Convention,
		Role:         p.Role,
		Observations: p.Observations,
	}
}

// SessionRevoker ends every session of a personnel.
type SessionRevoker interface {
	DestroyForPersonnel(personnelID uint) int
}

// NewPersonnelService wires the Personnel rules: unique username and email,
// no self-deletion, removal of the owner's report files after a delete commits,
// and revocation of the sessions of departed or deleted personnel.
func NewPersonnelService(
	repo repository.EntityRepository[model.Personnel],
	rapports repository.RapportRepository,
	files *storage.FileStore,
	sessions SessionRevoker,
	journal JournalService,
	txManager repository.TransactionManager,
) EntityService[model.Personnel] {
	revoke := func(ctx context.Context, id uint) {
		if sessions != nil {
			repository.AfterCommit(ctx, func() { sessions.DestroyForPersonnel(id) })
		}
	}
	return NewEntityService[model.Personnel](repo, journal, txManager, EntityConfig[model.Personnel]{
		Entity: model.EntityPersonnel,
		Describe: func(p *model.Personnel) string {
			return fmt.Sprintf("personnel %s (%s)", p.FullName(), p.Username)
		},
		Validate: func(ctx context.Context, p *model.Personnel) error {
			taken, err := repo.Exists(ctx, "username", p.Username, p.ID)
			if err != nil {
				return err
			}
			if taken {
				return NewValidationError("username", "username already exists")
			}
			taken, err = repo.Exists(ctx, "email", p.Email, p.ID)
			if err != nil {
				return err
			}
			if taken {
				return NewValidationError("email", "email already exists")
			}
			return nil
		},
		AfterSave: func(ctx context.Context, p *model.Personnel) error {
			if !p.IsActive() {
				revoke(ctx, p.ID)
			}
			return nil
		},
		BeforeDelete: func(ctx context.Context, actor *access.Actor, p *model.Personnel) error {
			if actor.ID == p.ID {
				return NewValidationError("id", "you cannot delete your own account")
			}
			paths, err := rapports.FilesByPersonnel(ctx, p.ID)
			if err != nil {
				return err
			}
			revoke(ctx, p.ID)
			if files != nil && len(paths) > 0 {
				repository.AfterCommit(ctx, func() {
					for _, path := range paths {
						if err := files.Remove(path); err != nil {
							logStorage("remove report of deleted personnel", err)
						}
					}
				})
			}
			return nil
		},
	})
}
