package service

import (
	"fmt"
	"strings"

	"sanogestion/internal/model"
	"sanogestion/internal/repository"
)

// InitiativeForm is the payload shared by projects and events.
type InitiativeForm struct {
	Nom         string `form:"nom" json:"nom" binding:"required,max=100"`
	Description string `form:"description" json:"description"`
	DateDebut   Field  `form:"date_debut" json:"date_debut" binding:"required"`
	DateFin     Field  `form:"date_fin" json:"date_fin"`
	Budget      Field  `form:"budget" json:"budget"`
	Statut      string `form:"statut" json:"statut" binding:"omitempty,oneof='en attente' 'en cours' terminé annulé"`
	Departement string `form:"departement" json:"departement" binding:"required,oneof=Trading Academy Digital"`
}

func (f *InitiativeForm) applyInitiative(i *model.Initiative) error {
	if err := validateForm(f); err != nil {
		return err
	}
	out := *i
	var err error
	if out.DateDebut, err = requiredDate("date_debut", f.DateDebut.String()); err != nil {
		return err
	}
	if out.DateFin, err = optionalDate("date_fin", f.DateFin.String()); err != nil {
		return err
	}
	if out.DateFin != nil && out.DateFin.Before(out.DateDebut) {
		return NewValidationError("date_fin", "must not be before date_debut")
	}
	if out.Budget, err = optionalDecimal("budget", f.Budget.String()); err != nil {
		return err
	}
	out.Statut = orDefault(f.Statut, model.StatutEnAttente)
	out.Departement = strings.TrimSpace(f.Departement)
	out.Nom = strings.TrimSpace(f.Nom)
	out.Description = f.Description
	*i = out
	return nil
}

func initiativeFormFrom(i *model.Initiative) InitiativeForm {
	return InitiativeForm{
		Nom:         i.Nom,
		Description: i.Description,
		DateDebut:   Field(formatDate(&i.DateDebut)),
		DateFin:     Field(formatDate(i.DateFin)),
		Budget:      Field(decimalString(i.Budget)),
		Statut:      i.Statut,
		Departement: i.Departement,
	}
}

type ProjetForm struct{ InitiativeForm }

func (f *ProjetForm) Apply(e *model.Projet) error { return f.applyInitiative(&e.Initiative) }

type EvenementielForm struct{ InitiativeForm }

func (f *EvenementielForm) Apply(e *model.Evenementiel) error {
	return f.applyInitiative(&e.Initiative)
}

func ProjetFormFrom(e *model.Projet) ProjetForm { return ProjetForm{initiativeFormFrom(&e.Initiative)} }

func EvenementielFormFrom(e *model.Evenementiel) EvenementielForm {
	return EvenementielForm{initiativeFormFrom(&e.Initiative)}
}

func NewProjetService(repo repository.EntityRepository[model.Projet], journal JournalService, txManager repository.TransactionManager) EntityService[model.Projet] {
	return NewEntityService[model.Projet](repo, journal, txManager, EntityConfig[model.Projet]{
		Entity: model.EntityProjet,
		Describe: func(e *model.Projet) string {
			return fmt.Sprintf("projet #%d %s (%s)", e.ID, e.Nom, e.Departement)
		},
	})
}

func NewEvenementielService(repo repository.EntityRepository[model.Evenementiel], journal JournalService, txManager repository.TransactionManager) EntityService[model.Evenementiel] {
	return NewEntityService[model.Evenementiel](repo, journal, txManager, EntityConfig[model.Evenementiel]{
		Entity: model.EntityEvenementiel,
		Describe: func(e *model.Evenementiel) string {
			return fmt.Sprintf("événement #%d %s (%s)", e.ID, e.Nom, e.Departement)
		},
	})
}
