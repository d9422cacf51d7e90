package repository

import (
	"context"
	"errors"
	"testing"

	"sanogestion/internal/model"
	"sanogestion/internal/testutil"
	"sanogestion/pkg/pagination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedPersonnel(t *testing.T, db *gorm.DB, username string) *model.Personnel {
	t.Helper()
	p := &model.Personnel{
		Nom: "Doe", Prenom: username, Username: username, Email: username + "@example.com",
		Departement: model.DepartementTrading, Convention: model.ConventionCDI,
		Role: model.RoleTrading, Password: "digest",
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestEntityRepositorySearchAndFilters(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewEntityRepository[model.Trading](db, VenteSchema)
	ctx := context.Background()

	for _, v := range []model.Trading{
		{Vente: model.Vente{NomClient: "Alpha", Items: "Formation", TypePaiement: model.PaiementEspeces}},
		{Vente: model.Vente{NomClient: "beta", Items: "Conseil", TypePaiement: model.PaiementCheque}},
		{Vente: model.Vente{NomClient: "Gamma", Items: "formation avancée", TypePaiement: model.PaiementCheque}},
	} {
		v := v
		require.NoError(t, repo.Create(ctx, &v))
	}

	rows, total, err := repo.List(ctx, ListQuery{Search: "FORMATION", Page: pagination.New(1)})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, rows, 2)

	rows, total, err = repo.List(ctx, ListQuery{
		Search:  "formation",
		Filters: map[string]string{"type_paiement": model.PaiementCheque},
		Page:    pagination.New(1),
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, "Gamma", rows[0].NomClient)

	// unknown filter columns are ignored
	_, total, err = repo.List(ctx, ListQuery{Filters: map[string]string{"nom_client; DROP": "x"}, Page: pagination.New(1)})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
}

func TestEntityRepositoryPageBeyondEndIsEmpty(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewEntityRepository[model.Materiel](db, MaterielSchema)
	ctx := context.Background()
	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Create(ctx, &model.Materiel{NomProduit: name}))
	}

	for _, page := range []int{9999, 1 << 62} {
		rows, total, err := repo.List(ctx, ListQuery{Page: pagination.New(page)})
		require.NoError(t, err, page)
		assert.Empty(t, rows, page)
		assert.EqualValues(t, 3, total, page)
	}
}

func TestEntityRepositoryPageSizeIsTen(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewEntityRepository[model.Finance](db, FinanceSchema)
	ctx := context.Background()
	for i := 0; i < 12; i++ {
		require.NoError(t, repo.Create(ctx, &model.Finance{Libelle: "ligne"}))
	}

	first, _, err := repo.List(ctx, ListQuery{Page: pagination.New(1)})
	require.NoError(t, err)
	assert.Len(t, first, 10)
	second, _, err := repo.List(ctx, ListQuery{Page: pagination.New(2)})
	require.NoError(t, err)
	assert.Len(t, second, 2)
}

func TestEntityRepositoryDeleteMissing(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewEntityRepository[model.Finance](db, FinanceSchema)

	err := repo.Delete(context.Background(), 42)
	assert.True(t, IsNotFound(err))

	_, err = repo.FindByID(context.Background(), 42)
	assert.True(t, IsNotFound(err))
}

func TestEntityRepositoryExists(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewEntityRepository[model.Personnel](db, PersonnelSchema)
	a := seedPersonnel(t, db, "alice")
	ctx := context.Background()

	found, err := repo.Exists(ctx, "username", "alice", 0)
	require.NoError(t, err)
	assert.True(t, found)

	found, err = repo.Exists(ctx, "username", "alice", a.ID)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPersonnelDeleteCascades(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewEntityRepository[model.Personnel](db, PersonnelSchema)
	ctx := context.Background()

	owner := seedPersonnel(t, db, "owner")
	other := seedPersonnel(t, db, "other")

	require.NoError(t, db.Create(&model.Trading{Vente: model.Vente{PersonnelID: &owner.ID}}).Error)
	require.NoError(t, db.Create(&model.Academy{Vente: model.Vente{PersonnelID: &owner.ID}}).Error)
	require.NoError(t, db.Create(&model.Journal{Action: "X", Description: "d", PersonnelID: &owner.ID}).Error)
	require.NoError(t, db.Create(&model.Journal{Action: "X", Description: "kept", PersonnelID: &other.ID}).Error)
	pv := &model.ProcesVerbal{Titre: "Réunion", Statut: model.PVBrouillon, CreateurID: &owner.ID}
	require.NoError(t, db.Omit("Participants").Create(pv).Error)
	require.NoError(t, db.Create(&model.PVParticipant{ProcesVerbalID: pv.ID, PersonnelID: other.ID}).Error)
	require.NoError(t, db.Create(&model.UserActivity{PersonnelID: owner.ID, Type: model.ActivityLogin}).Error)

	require.NoError(t, repo.Delete(ctx, owner.ID))

	count := func(m interface{}) int64 {
		var n int64
		require.NoError(t, db.Model(m).Count(&n).Error)
		return n
	}
	assert.Zero(t, count(&model.Trading{}))
	assert.Zero(t, count(&model.Academy{}))
	assert.Zero(t, count(&model.ProcesVerbal{}))
	assert.Zero(t, count(&model.PVParticipant{}))
	assert.Zero(t, count(&model.UserActivity{}))
	assert.EqualValues(t, 1, count(&model.Journal{}))
	assert.EqualValues(t, 1, count(&model.Personnel{}))
}

func TestRunInTxRollsBackAndSkipsHooks(t *testing.T) {
	db := testutil.NewDB(t)
	tm := NewTransactionManager(db)
	journal := NewJournalRepository(db)
	ran := false

	boom := errors.New("boom")
	err := tm.RunInTx(context.Background(), func(txCtx context.Context) error {
		require.NoError(t, journal.Record(txCtx, &model.Journal{Action: "A", Description: "d"}))
		AfterCommit(txCtx, func() { ran = true })
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, ran)

	var n int64
	require.NoError(t, db.Model(&model.Journal{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestRunInTxCommitRunsHooksAndJoinsOuterTx(t *testing.T) {
	db := testutil.NewDB(t)
	tm := NewTransactionManager(db)
	journal := NewJournalRepository(db)
	var order []string

	err := tm.RunInTx(context.Background(), func(txCtx context.Context) error {
		AfterCommit(txCtx, func() { order = append(order, "outer") })
		return tm.RunInTx(txCtx, func(inner context.Context) error {
			AfterCommit(inner, func() { order = append(order, "inner") })
			return journal.Record(inner, &model.Journal{Action: "A", Description: "d"})
		})
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestJournalListNewestFirst(t *testing.T) {
	db := testutil.NewDB(t)
	journal := NewJournalRepository(db)
	ctx := context.Background()
	for _, code := range []string{"FIRST", "SECOND", "THIRD"} {
		require.NoError(t, journal.Record(ctx, &model.Journal{Action: code, Description: code}))
	}

	entries, total, err := journal.List(ctx, JournalFilter{}, pagination.New(1))
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, entries, 3)
	assert.Equal(t, "THIRD", entries[0].Action)
	assert.Equal(t, "FIRST", entries[2].Action)

	entries, _, err = journal.List(ctx, JournalFilter{Action: "SECOND"}, pagination.New(1))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
