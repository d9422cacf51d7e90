package service

import (
	"errors"
	"testing"

	"sanogestion/internal/access"
	"sanogestion/internal/model"
	"sanogestion/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityServiceJournalsEveryMutation(t *testing.T) {
	f := newFixture(t)
	_, actor := f.seed(t, "moussa", model.RoleTrading)

	form := TradingForm{VenteForm{NomClient: "Sarr", Items: "Transit", MontantHT: "1000,50"}}
	var tr model.Trading
	require.NoError(t, form.Apply(&tr))
	require.NoError(t, f.trading.Create(f.ctx, actor, &tr))
	require.NotZero(t, tr.ID)
	require.NotNil(t, tr.PersonnelID)
	assert.Equal(t, actor.ID, *tr.PersonnelID)
	assert.Equal(t, model.PaiementEspeces, tr.TypePaiement)
	assert.Equal(t, "1000.5", tr.MontantHT.Decimal.String())

	edit := TradingForm{VenteForm{NomClient: "Sarr", Items: "Transit maritime"}}
	updated, err := f.trading.Update(f.ctx, actor, tr.ID, edit.Apply)
	require.NoError(t, err)
	assert.Equal(t, "Transit maritime", updated.Items)
	assert.False(t, updated.MontantHT.Valid)

	require.NoError(t, f.trading.Delete(f.ctx, actor, tr.ID))

	assert.Equal(t, []string{"CREATION_TRADING", "MODIFICATION_TRADING", "SUPPRESSION_TRADING"}, f.journalActions(t))
	assert.Equal(t, []string{"CREATION_TRADING", "MODIFICATION_TRADING", "SUPPRESSION_TRADING"}, f.published.actions())
	assert.Zero(t, f.count(t, &model.Trading{}))
}

func TestEntityServiceValidationRollsBackEverything(t *testing.T) {
	f := newFixture(t)
	_, admin := f.seed(t, "admin", model.RoleAdministrator)

	form := PersonnelForm{Nom: "Ndiaye", Prenom: "Awa", Username: "admin", Email: "awa@sano.test", Password: "secret"}
	var p model.Personnel
	require.NoError(t, form.Apply(&p))

	err := f.personnel.Create(f.ctx, admin, &p)
	require.Error(t, err)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "username", verr.Field)

	assert.EqualValues(t, 1, f.count(t, &model.Personnel{}))
	assert.Empty(t, f.journalActions(t))
	assert.Empty(t, f.published.actions())
}

func TestEntityServiceUniqueEmailOnUpdate(t *testing.T) {
	f := newFixture(t)
	_, admin := f.seed(t, "admin", model.RoleAdministrator)
	other, _ := f.seed(t, "fatou", model.RoleAcademy)
	target, _ := f.seed(t, "ibou", model.RoleAcademy)

	form := PersonnelFormFrom(target)
	form.Email = other.Email
	_, err := f.personnel.Update(f.ctx, admin, target.ID, form.Apply)
	require.True(t, IsValidation(err))

	// keeping one's own email is not a conflict
	form = PersonnelFormFrom(target)
	form.Nom = "Fall"
	updated, err := f.personnel.Update(f.ctx, admin, target.ID, form.Apply)
	require.NoError(t, err)
	assert.Equal(t, "Fall", updated.Nom)
	assert.Equal(t, "digest", updated.Password, "password kept when the form leaves it empty")
}

func TestEntityServiceNotFound(t *testing.T) {
	f := newFixture(t)
	_, actor := f.seed(t, "moussa", model.RoleTrading)

	_, err := f.trading.Get(f.ctx, 4242)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.trading.Delete(f.ctx, actor, 4242), ErrNotFound)
	_, err = f.trading.Update(f.ctx, actor, 4242, func(*model.Trading) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.trading.Create(f.ctx, nil, &model.Trading{}), ErrUnauthenticated)
}

func TestPersonnelDeleteCascadesAndKeepsAdminJournal(t *testing.T) {
	f := newFixture(t)
	_, admin := f.seed(t, "admin", model.RoleAdministrator)
	seller, sellerActor := f.seed(t, "moussa", model.RoleTrading)

	require.NoError(t, f.trading.Create(f.ctx, sellerActor, &model.Trading{Vente: model.Vente{NomClient: "Ba"}}))
	pv := &model.ProcesVerbal{Titre: "Point hebdo", Statut: model.PVBrouillon,
		Participants: []model.PVParticipant{{PersonnelID: seller.ID, Present: true}}}
	require.NoError(t, f.pv.Create(f.ctx, sellerActor, pv))
	require.NoError(t, f.db.Create(&model.UserActivity{PersonnelID: seller.ID, Type: model.ActivityLogin}).Error)

	require.NoError(t, f.personnel.Delete(f.ctx, admin, seller.ID))

	assert.Zero(t, f.count(t, &model.Trading{}))
	assert.Zero(t, f.count(t, &model.ProcesVerbal{}))
	assert.Zero(t, f.count(t, &model.PVParticipant{}))
	assert.Zero(t, f.count(t, &model.UserActivity{}))
	assert.Equal(t, []string{"SUPPRESSION_PERSONNEL"}, f.journalActions(t))
}

func TestPersonnelDepartureRevokesSessions(t *testing.T) {
	f := newFixture(t)
	_, admin := f.seed(t, "admin", model.RoleAdministrator)
	target, _ := f.seed(t, "ibou", model.RoleAdministrator)
	other, _ := f.seed(t, "fatou", model.RoleTrading)
	f.sessions.Create(target.ID)
	f.sessions.Create(target.ID)
	f.sessions.Create(other.ID)
	var revoked []uint
	f.sessions.OnRevoke(func(id uint) { revoked = append(revoked, id) })

	form := PersonnelFormFrom(target)
	form.Nom = "Fall"
	_, err := f.personnel.Update(f.ctx, admin, target.ID, form.Apply)
	require.NoError(t, err)
	assert.Equal(t, 3, f.sessions.Len(), "active personnel keep their sessions")

	form.DateDepart = today()
	_, err = f.personnel.Update(f.ctx, admin, target.ID, form.Apply)
	require.NoError(t, err)
	assert.Equal(t, 1, f.sessions.Len())
	assert.Equal(t, []uint{target.ID}, revoked)

	require.NoError(t, f.personnel.Delete(f.ctx, admin, other.ID))
	assert.Zero(t, f.sessions.Len())
	assert.Equal(t, []uint{target.ID, other.ID}, revoked)
}

func TestPersonnelCannotDeleteSelf(t *testing.T) {
	f := newFixture(t)
	admin, actor := f.seed(t, "admin", model.RoleAdministrator)

	err := f.personnel.Delete(f.ctx, actor, admin.ID)
	assert.True(t, IsValidation(err))
	assert.EqualValues(t, 1, f.count(t, &model.Personnel{}))
}

func TestFactureNumeroIsUniqueAndTotalsDerived(t *testing.T) {
	f := newFixture(t)
	_, compta := f.seed(t, "awa", model.RoleComptabilite)

	form := FactureForm{NumeroFacture: "F-2026-001", DateFacture: today(), MontantHT: "100", TVA: "18"}
	var fa model.Facture
	require.NoError(t, form.Apply(&fa))
	require.NoError(t, f.facture.Create(f.ctx, compta, &fa))
	assert.Equal(t, "118", fa.MontantTTC.Decimal.String())
	assert.Equal(t, model.FactureBrouillon, fa.Statut)

	var dup model.Facture
	require.NoError(t, form.Apply(&dup))
	assert.True(t, IsValidation(f.facture.Create(f.ctx, compta, &dup)))
	assert.EqualValues(t, 1, f.count(t, &model.Facture{}))
}

func TestProcesVerbalParticipantsReplacedOnEdit(t *testing.T) {
	f := newFixture(t)
	creator, actor := f.seed(t, "creator", model.RoleDigital)
	a, _ := f.seed(t, "alpha", model.RoleTrading)
	b, _ := f.seed(t, "beta", model.RoleAcademy)

	form := ProcesVerbalForm{
		Titre:       "Réunion",
		DateReunion: today(),
		Participants: []ParticipantForm{
			{PersonnelID: a.ID, Present: false},
			{PersonnelID: creator.ID, Present: true},
			{PersonnelID: a.ID, Present: true, RoleReunion: "secrétaire"},
		},
	}
	var pv model.ProcesVerbal
	require.NoError(t, form.Apply(&pv))
	require.NoError(t, f.pv.Create(f.ctx, actor, &pv))

	got, err := f.pv.Get(f.ctx, pv.ID)
	require.NoError(t, err)
	require.Len(t, got.Participants, 2)
	byID := map[uint]model.PVParticipant{}
	for _, p := range got.Participants {
		byID[p.PersonnelID] = p
	}
	assert.True(t, byID[a.ID].Present, "last occurrence wins")
	assert.Equal(t, "secrétaire", byID[a.ID].RoleReunion)

	edit := ProcesVerbalFormFrom(got)
	edit.Participants = []ParticipantForm{{PersonnelID: b.ID, Present: true}}
	_, err = f.pv.Update(f.ctx, actor, pv.ID, edit.Apply)
	require.NoError(t, err)

	got, err = f.pv.Get(f.ctx, pv.ID)
	require.NoError(t, err)
	require.Len(t, got.Participants, 1)
	assert.Equal(t, b.ID, got.Participants[0].PersonnelID)
	assert.EqualValues(t, 1, f.count(t, &model.PVParticipant{}))
}

func TestProcesVerbalRejectsInactiveParticipantAndForeignEditor(t *testing.T) {
	f := newFixture(t)
	_, actor := f.seed(t, "creator", model.RoleDigital)
	gone, _ := f.seed(t, "gone", model.RoleTrading)
	_, stranger := f.seed(t, "stranger", model.RoleTrading)
	require.NoError(t, f.db.Model(gone).Update("date_depart", "2026-01-01").Error)

	bad := &model.ProcesVerbal{Titre: "x", Statut: model.PVBrouillon,
		Participants: []model.PVParticipant{{PersonnelID: gone.ID}}}
	assert.True(t, IsValidation(f.pv.Create(f.ctx, actor, bad)))
	assert.Zero(t, f.count(t, &model.ProcesVerbal{}))

	pv := &model.ProcesVerbal{Titre: "ok", Statut: model.PVBrouillon}
	require.NoError(t, f.pv.Create(f.ctx, actor, pv))
	assert.ErrorIs(t, f.pv.Delete(f.ctx, stranger, pv.ID), ErrAccessDenied)
	assert.True(t, f.pv.CanModify(&access.Actor{ID: 999, Role: model.RoleAdministrator}, pv))
}

func TestJournalListFilters(t *testing.T) {
	f := newFixture(t)
	_, a := f.seed(t, "alpha", model.RoleTrading)
	_, b := f.seed(t, "beta", model.RoleTrading)
	require.NoError(t, f.trading.Create(f.ctx, a, &model.Trading{}))
	require.NoError(t, f.trading.Create(f.ctx, b, &model.Trading{}))

	entries, meta, err := f.journal.List(f.ctx, repository.JournalFilter{PersonnelID: b.ID}, pageOne())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "beta", entries[0].Username)
	assert.EqualValues(t, 1, meta.Total)
}
