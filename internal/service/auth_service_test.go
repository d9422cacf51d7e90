package service

import (
	"testing"
	"time"

	"sanogestion/internal/config"
	"sanogestion/internal/model"
	"sanogestion/internal/repository"
	"sanogestion/internal/session"
	"sanogestion/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuth(t *testing.T, f *fixture) (AuthService, *session.Store) {
	t.Helper()
	store := session.NewStore(15 * time.Minute)
	return NewAuthService(f.personnelDB, repository.NewActivityRepository(f.db), store), store
}

func seedWithPassword(t *testing.T, f *fixture, username, plain string) *model.Personnel {
	t.Helper()
	p, _ := f.seed(t, username, model.RoleTrading)
	digest, err := password.Hash(plain)
	require.NoError(t, err)
	require.NoError(t, f.db.Model(p).Update("password", digest).Error)
	return p
}

func TestLoginRecordsActivityAndOpensSession(t *testing.T) {
	f := newFixture(t)
	auth, store := newAuth(t, f)
	p := seedWithPassword(t, f, "moussa", "pass1234")

	res, err := auth.Login(f.ctx, LoginRequest{Username: " moussa ", Password: "pass1234", Next: "/trading"},
		ClientInfo{IP: "10.0.0.7", UserAgent: "curl/8"})
	require.NoError(t, err)
	assert.Equal(t, p.ID, res.Actor.ID)
	assert.Equal(t, "/trading", res.Redirect)
	assert.NotEmpty(t, res.Actor.SessionID)
	assert.Equal(t, 1, store.Len())

	var acts []model.UserActivity
	require.NoError(t, f.db.Find(&acts).Error)
	require.Len(t, acts, 1)
	assert.Equal(t, model.ActivityLogin, acts[0].Type)
	assert.Equal(t, "10.0.0.7", acts[0].IP)

	require.NoError(t, auth.Logout(f.ctx, res.Actor, ClientInfo{IP: "10.0.0.7"}))
	assert.Zero(t, store.Len())
	assert.EqualValues(t, 2, f.count(t, &model.UserActivity{}))
}

func TestLoginFailures(t *testing.T) {
	f := newFixture(t)
	auth, store := newAuth(t, f)
	p := seedWithPassword(t, f, "moussa", "pass1234")

	_, err := auth.Login(f.ctx, LoginRequest{Username: "moussa", Password: "wrong"}, ClientInfo{})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = auth.Login(f.ctx, LoginRequest{Username: "nobody", Password: "pass1234"}, ClientInfo{})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = auth.Login(f.ctx, LoginRequest{}, ClientInfo{})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, f.db.Model(p).Update("date_depart", time.Now()).Error)
	_, err = auth.Login(f.ctx, LoginRequest{Username: "moussa", Password: "pass1234"}, ClientInfo{})
	assert.ErrorIs(t, err, ErrAccessDenied)

	assert.Zero(t, store.Len())
	assert.Zero(t, f.count(t, &model.UserActivity{}))
}

func TestResolveDropsDeactivatedAccount(t *testing.T) {
	f := newFixture(t)
	auth, store := newAuth(t, f)
	p, _ := f.seed(t, "moussa", model.RoleTrading)

	sess := store.Create(p.ID)
	actor, err := auth.Resolve(f.ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, model.RoleTrading, actor.Role)
	assert.Equal(t, sess.ExpiresAt(store.IdleTimeout()), actor.ExpiresAt)

	// role changes apply on the next request
	require.NoError(t, f.db.Model(p).Update("role", model.RoleDigital).Error)
	actor, err = auth.Resolve(f.ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, model.RoleDigital, actor.Role)

	require.NoError(t, f.db.Model(p).Update("date_depart", time.Now()).Error)
	_, err = auth.Resolve(f.ctx, sess)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, ok := store.Touch(sess.ID)
	assert.False(t, ok)

	_, err = auth.Resolve(f.ctx, session.Session{ID: "x", PersonnelID: 9999})
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestSafeRedirect(t *testing.T) {
	for in, want := range map[string]string{
		"":                 "/",
		"/rapport?page=2":  "/rapport?page=2",
		"//evil.example":   "/",
		"https://evil.com": "/",
		"/\\evil":          "/",
	} {
		assert.Equal(t, want, SafeRedirect(in), in)
	}
}

func TestEnsureAdministratorIsIdempotent(t *testing.T) {
	f := newFixture(t)
	admin := config.AdminConfig{Username: "admin", Email: "admin@sano-logistic.com", Password: "adminSLC123$"}

	created, err := EnsureAdministrator(f.ctx, f.personnelDB, admin)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = EnsureAdministrator(f.ctx, f.personnelDB, admin)
	require.NoError(t, err)
	assert.False(t, created)

	p, err := f.personnelDB.GetByUsername(f.ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdministrator, p.Role)
	assert.Equal(t, model.DepartementDirection, p.Departement)
	assert.True(t, p.IsActive())
	assert.True(t, password.Verify("adminSLC123$", p.Password))
	assert.Empty(t, f.journalActions(t))
}

func TestDashboardData(t *testing.T) {
	f := newFixture(t)
	_, actor := f.seed(t, "moussa", model.RoleTrading)
	gone, _ := f.seed(t, "gone", model.RoleTrading)
	require.NoError(t, f.db.Model(gone).Update("date_depart", time.Now()).Error)
	require.NoError(t, f.trading.Create(f.ctx, actor, &model.Trading{}))
	_, err := f.rapports.Create(f.ctx, actor, weekForm(), upload("a.pdf", "a"))
	require.NoError(t, err)

	dash := NewDashboardService(repository.NewDashboardRepository(f.db), f.personnelDB)
	data, err := dash.Data(f.ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, data.TotalPersonnel)
	assert.EqualValues(t, 1, data.ActivePersonnel)
	assert.EqualValues(t, 1, data.Ventes["trading"])
	assert.EqualValues(t, 0, data.Ventes["academy"])
	assert.EqualValues(t, 1, data.RapportsEnAttente)
	require.Len(t, data.ParDepartement, 1)
	assert.EqualValues(t, 2, data.ParDepartement[0].Total)

	opts, err := dash.PersonnelSearch(f.ctx, "MOUSS")
	require.NoError(t, err)
	require.Len(t, opts, 1)
	assert.Equal(t, "moussa", opts[0].Username)

	opts, err = dash.PersonnelSearch(f.ctx, "gone")
	require.NoError(t, err)
	assert.Empty(t, opts)
}
