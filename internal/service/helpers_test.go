package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"sanogestion/internal/access"
	"sanogestion/internal/model"
	"sanogestion/internal/repository"
	"sanogestion/internal/session"
	"sanogestion/internal/storage"
	"sanogestion/internal/testutil"
	"sanogestion/pkg/pagination"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu      sync.Mutex
	entries []JournalEntryResponse
}

func (p *recordingPublisher) PublishJournal(e JournalEntryResponse) {
	p.mu.Lock()
	p.entries = append(p.entries, e)
	p.mu.Unlock()
}

func (p *recordingPublisher) actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.entries))
	for _, e := range p.entries {
		out = append(out, e.Action)
	}
	return out
}

// fixture wires every service on a private in-memory database.
type fixture struct {
	db        *gorm.DB
	ctx       context.Context
	txManager repository.TransactionManager
	files     *storage.FileStore
	published *recordingPublisher
	sessions  *session.Store

	journalRepo repository.JournalRepository
	personnelDB repository.PersonnelRepository
	rapportRepo repository.RapportRepository

	journal   JournalService
	personnel EntityService[model.Personnel]
	trading   EntityService[model.Trading]
	facture   EntityService[model.Facture]
	pv        EntityService[model.ProcesVerbal]
	rapports  RapportService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	files, err := storage.NewFileStore(t.TempDir(), 1<<20)
	require.NoError(t, err)

	f := &fixture{
		db:          db,
		ctx:         context.Background(),
		txManager:   repository.NewTransactionManager(db),
		files:       files,
		published:   &recordingPublisher{},
		sessions:    session.NewStore(15 * time.Minute),
		journalRepo: repository.NewJournalRepository(db),
		personnelDB: repository.NewPersonnelRepository(db),
		rapportRepo: repository.NewRapportRepository(db),
	}
	f.journal = NewJournalService(f.journalRepo, f.published)
	f.personnel = NewPersonnelService(
		repository.NewEntityRepository[model.Personnel](db, repository.PersonnelSchema),
		f.rapportRepo, files, f.sessions, f.journal, f.txManager)
	f.trading = NewTradingService(
		repository.NewEntityRepository[model.Trading](db, repository.VenteSchema), f.journal, f.txManager)
	f.facture = NewFactureService(
		repository.NewEntityRepository[model.Facture](db, repository.FactureSchema), f.journal, f.txManager)
	f.pv = NewProcesVerbalService(
		repository.NewEntityRepository[model.ProcesVerbal](db, repository.ProcesVerbalSchema),
		repository.NewParticipantRepository(db), f.personnelDB, f.journal, f.txManager)
	f.rapports = NewRapportService(f.rapportRepo, files, f.journal, f.txManager)
	return f
}

// seed inserts a personnel directly, bypassing the journal.
func (f *fixture) seed(t *testing.T, username, role string) (*model.Personnel, *access.Actor) {
	t.Helper()
	p := &model.Personnel{
		Nom: "Diallo", Prenom: username, Username: username, Email: username + "@sano.test",
		Departement: model.DepartementTrading, Convention: model.ConventionCDI,
		Role: role, Password: "digest",
	}
	require.NoError(t, f.db.Create(p).Error)
	return p, &access.Actor{ID: p.ID, Username: p.Username, Role: p.Role}
}

func (f *fixture) journalActions(t *testing.T) []string {
	t.Helper()
	entries, _, err := f.journalRepo.List(f.ctx, repository.JournalFilter{}, pagination.Params{Page: 1, Limit: 100})
	require.NoError(t, err)
	// oldest first, easier to read in assertions
	out := make([]string, len(entries))
	for i, e := range entries {
		out[len(entries)-1-i] = e.Action
	}
	return out
}

func (f *fixture) count(t *testing.T, m interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(m).Count(&n).Error)
	return n
}

func today() Field               { return Field(time.Now().Format(DateLayout)) }
func pageOne() pagination.Params { return pagination.New(1) }
