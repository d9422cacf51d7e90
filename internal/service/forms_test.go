package service

import (
	"errors"
	"strings"
	"testing"

	"sanogestion/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPersonnelForm() PersonnelForm {
	return PersonnelForm{Nom: "Ndiaye", Prenom: "Awa", Username: "awa", Email: "awa@sano.test", Password: "secret"}
}

func fieldOf(t *testing.T, err error) *ValidationError {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected a validation error, got %v", err)
	return verr
}

func TestPersonnelFormRules(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*PersonnelForm)
		field   string
		message string
	}{
		{"missing nom", func(f *PersonnelForm) { f.Nom = "" }, "nom", "is required"},
		{"bad email", func(f *PersonnelForm) { f.Email = "awa-at-sano" }, "email", "invalid email format"},
		{"long username", func(f *PersonnelForm) { f.Username = strings.Repeat("u", 26) }, "username", "must be at most 25 characters"},
		{"unknown role", func(f *PersonnelForm) { f.Role = "Boss" }, "role", "must be one of: Administrator Trading Academy Digital Comptabilite"},
		{"unknown convention", func(f *PersonnelForm) { f.Convention = "Freelance" }, "convention", "must be one of: Stage CDD CDI"},
		{"long password", func(f *PersonnelForm) { f.Password = strings.Repeat("p", 80) }, "password", "must be at most 72 characters"},
		{"password over bcrypt bytes", func(f *PersonnelForm) { f.Password = strings.Repeat("é", 40) }, "password", "must be at most 72 bytes"},
		{"bad date", func(f *PersonnelForm) { f.DateArrivee = "31/02/2026" }, "date_arrivee", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validPersonnelForm()
			tt.mutate(&form)
			var p model.Personnel
			verr := fieldOf(t, form.Apply(&p))
			assert.Equal(t, tt.field, verr.Field)
			if tt.message != "" {
				assert.Equal(t, tt.message, verr.Message)
			}
			assert.Empty(t, p.Username, "nothing applied on failure")
		})
	}
}

func TestPersonnelFormDefaults(t *testing.T) {
	form := validPersonnelForm()
	form.Email = "  Awa@Sano.TEST "
	var p model.Personnel
	require.NoError(t, form.Apply(&p))
	assert.Equal(t, "awa@sano.test", p.Email)
	assert.Equal(t, model.RoleAcademy, p.Role)
	assert.Equal(t, model.ConventionStage, p.Convention)
	assert.Equal(t, model.DepartementTrading, p.Departement)
	assert.NotEqual(t, "secret", p.Password)
}

func TestEnumRulesAcrossForms(t *testing.T) {
	facture := FactureForm{NumeroFacture: "F-1", DateFacture: today(), Statut: "soldee"}
	assert.Equal(t, "statut", fieldOf(t, facture.Apply(&model.Facture{})).Field)

	vente := TradingForm{VenteForm{NomClient: "Sarr", TypePaiement: "Bitcoin"}}
	assert.Equal(t, "type_paiement", fieldOf(t, vente.Apply(&model.Trading{})).Field)
	vente.TypePaiement = model.PaiementVirement
	require.NoError(t, vente.Apply(&model.Trading{}))

	projet := ProjetForm{InitiativeForm{Nom: "Site", DateDebut: today(), Departement: "Direction"}}
	assert.Equal(t, "departement", fieldOf(t, projet.Apply(&model.Projet{})).Field)
	projet.Departement = model.DepartementDigital
	projet.Statut = "en cours"
	require.NoError(t, projet.Apply(&model.Projet{}))
}

func TestProcesVerbalFormChecksEachParticipant(t *testing.T) {
	form := ProcesVerbalForm{
		Titre:        "Réunion",
		DateReunion:  today(),
		Participants: []ParticipantForm{{PersonnelID: 3}, {PersonnelID: 0}},
	}
	verr := fieldOf(t, form.Apply(&model.ProcesVerbal{}))
	assert.Equal(t, "personnel_id", verr.Field)
}

func TestBindingErrorPassesOtherErrorsThrough(t *testing.T) {
	plain := errors.New("unexpected EOF")
	assert.Same(t, plain, BindingError(plain))
	assert.Nil(t, BindingError(nil))
}
