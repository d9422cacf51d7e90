package handler

import (
	"context"

	"sanogestion/internal/model"
	"sanogestion/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// EntityServices groups the CRUD services exposed through EntityHandler.
type EntityServices struct {
	Personnel    service.EntityService[model.Personnel]
	Trading      service.EntityService[model.Trading]
	Academy      service.EntityService[model.Academy]
	Digital      service.EntityService[model.Digital]
	Materiel     service.EntityService[model.Materiel]
	Finance      service.EntityService[model.Finance]
	Projet       service.EntityService[model.Projet]
	Evenementiel service.EntityService[model.Evenementiel]
	Facture      service.EntityService[model.Facture]
	ProcesVerbal service.EntityService[model.ProcesVerbal]
	Dashboard    service.DashboardService
}

var (
	admin      = []string{model.RoleAdministrator}
	sellers    = []string{model.RoleTrading, model.RoleAcademy, model.RoleDigital}
	accounting = []string{model.RoleComptabilite}

	venteChoices      = map[string][]string{"type_paiement": model.TypesPaiement}
	initiativeChoices = map[string][]string{
		"statut":      model.StatutsInitiative,
		"departement": model.DepartementsInitiative,
	}
)

func roleOnly(role string) Access {
	return Access{List: []string{role}, Write: []string{role}, Delete: admin}
}

// activeOnly lists personnel without a departure date when ?actifs=1.
func activeOnly(c *gin.Context) func(*gorm.DB) *gorm.DB {
	if c.Query("actifs") != "1" {
		return nil
	}
	return func(db *gorm.DB) *gorm.DB { return db.Where("date_depart IS NULL") }
}

// RegisterEntities mounts the CRUD routes of every business entity.
func RegisterEntities(router *gin.RouterGroup, s EntityServices) {
	NewEntityHandler[model.Personnel, service.PersonnelForm](s.Personnel, EntityRoutes[model.Personnel, service.PersonnelForm]{
		Path:     "/personnel",
		Access:   Access{List: admin, Get: sellers, Write: admin, Delete: admin},
		FormFrom: service.PersonnelFormFrom,
		Choices: map[string][]string{
			"departement": model.Departements,
			"convention":  model.Conventions,
			"role":        model.Roles,
		},
		Scope: activeOnly,
	}).RegisterRoutes(router)

	NewEntityHandler[model.Trading, service.TradingForm](s.Trading, EntityRoutes[model.Trading, service.TradingForm]{
		Path: "/trading", Access: roleOnly(model.RoleTrading), FormFrom: service.TradingFormFrom, Choices: venteChoices,
	}).RegisterRoutes(router)
	NewEntityHandler[model.Academy, service.AcademyForm](s.Academy, EntityRoutes[model.Academy, service.AcademyForm]{
		Path: "/academy", Access: roleOnly(model.RoleAcademy), FormFrom: service.AcademyFormFrom, Choices: venteChoices,
	}).RegisterRoutes(router)
	NewEntityHandler[model.Digital, service.DigitalForm](s.Digital, EntityRoutes[model.Digital, service.DigitalForm]{
		Path: "/digital", Access: roleOnly(model.RoleDigital), FormFrom: service.DigitalFormFrom, Choices: venteChoices,
	}).RegisterRoutes(router)

	NewEntityHandler[model.Materiel, service.MaterielForm](s.Materiel, EntityRoutes[model.Materiel, service.MaterielForm]{
		Path: "/materiel", Access: roleOnly(model.RoleComptabilite), FormFrom: service.MaterielFormFrom,
	}).RegisterRoutes(router)
	NewEntityHandler[model.Finance, service.FinanceForm](s.Finance, EntityRoutes[model.Finance, service.FinanceForm]{
		Path: "/finance", Access: roleOnly(model.RoleComptabilite), FormFrom: service.FinanceFormFrom,
	}).RegisterRoutes(router)

	initiatives := Access{List: sellers, Write: admin, Delete: admin}
	NewEntityHandler[model.Projet, service.ProjetForm](s.Projet, EntityRoutes[model.Projet, service.ProjetForm]{
		Path: "/projet", Access: initiatives, FormFrom: service.ProjetFormFrom, Choices: initiativeChoices,
	}).RegisterRoutes(router)
	NewEntityHandler[model.Evenementiel, service.EvenementielForm](s.Evenementiel, EntityRoutes[model.Evenementiel, service.EvenementielForm]{
		Path: "/evenementiel", Access: initiatives, FormFrom: service.EvenementielFormFrom, Choices: initiativeChoices,
	}).RegisterRoutes(router)

	NewEntityHandler[model.Facture, service.FactureForm](s.Facture, EntityRoutes[model.Facture, service.FactureForm]{
		Path:     "/facture",
		Access:   Access{List: accounting, Write: accounting, Delete: admin},
		FormFrom: service.FactureFormFrom,
		Choices:  map[string][]string{"statut": model.StatutsFacture},
	}).RegisterRoutes(router)

	// any authenticated actor; edit and delete are narrowed to the creator by the service
	NewEntityHandler[model.ProcesVerbal, service.ProcesVerbalForm](s.ProcesVerbal, EntityRoutes[model.ProcesVerbal, service.ProcesVerbalForm]{
		Path:     "/proces-verbal",
		FormFrom: service.ProcesVerbalFormFrom,
		Choices:  map[string][]string{"statut": model.StatutsPV},
		Pickers: func(ctx context.Context) (map[string]interface{}, error) {
			options, err := s.Dashboard.ActivePersonnel(ctx)
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{"personnel": options}, nil
		},
	}).RegisterRoutes(router)
}
