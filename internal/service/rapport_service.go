package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"sanogestion/internal/access"
	"sanogestion/internal/model"
	"sanogestion/internal/repository"
	"sanogestion/internal/storage"
	"sanogestion/pkg/pagination"

	"gorm.io/gorm"
)

// Bulk actions accepted on reports.
const (
	BulkDelete   = "delete"
	BulkValidate = "validate"
	BulkReject   = "reject"
)

type RapportForm struct {
	Titre        string `form:"titre" json:"titre" binding:"max=200"`
	SemaineDebut Field  `form:"semaine_debut" json:"semaine_debut" binding:"required"`
	SemaineFin   Field  `form:"semaine_fin" json:"semaine_fin" binding:"required"`
	Statut       string `form:"statut" json:"statut" binding:"omitempty,oneof=brouillon soumis valide rejete"`
	Observations string `form:"observations" json:"observations"`
}

// Upload is a file received from a client. Size is the declared size.
type Upload struct {
	Name   string
	Size   int64
	Reader io.Reader
}

type BulkActionRequest struct {
	Action       string `json:"action" binding:"required,oneof=delete validate reject"`
	Rapports     []uint `json:"rapports" binding:"required,min=1"`
	Observations string `json:"observations"`
}

type BulkActionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type RapportService interface {
	List(ctx context.Context, actor *access.Actor, q repository.ListQuery) ([]model.Rapport, pagination.Meta, error)
	Get(ctx context.Context, actor *access.Actor, id uint) (*model.Rapport, error)
	Create(ctx context.Context, actor *access.Actor, form RapportForm, upload *Upload) (*model.Rapport, error)
	Update(ctx context.Context, actor *access.Actor, id uint, form RapportForm, upload *Upload) (*model.Rapport, error)
	Delete(ctx context.Context, actor *access.Actor, id uint) error
	Open(ctx context.Context, actor *access.Actor, id uint) (*model.Rapport, *os.File, error)
	BulkAction(ctx context.Context, actor *access.Actor, req BulkActionRequest) (BulkActionResult, error)
}

type rapportService struct {
	repo      repository.RapportRepository
	files     *storage.FileStore
	journal   JournalService
	txManager repository.TransactionManager
	codes     model.ActionCodes
}

func NewRapportService(repo repository.RapportRepository, files *storage.FileStore, journal JournalService, txManager repository.TransactionManager) RapportService {
	return &rapportService{
		repo:      repo,
		files:     files,
		journal:   journal,
		txManager: txManager,
		codes:     model.CodesFor(model.EntityRapport),
	}
}

func describeRapport(r *model.Rapport) string {
	return fmt.Sprintf("rapport #%d %s (%s au %s)", r.ID, r.NomFichier,
		r.SemaineDebut.Format(DateLayout), r.SemaineFin.Format(DateLayout))
}

// applyForm copies the metadata fields. Only administrators may set a
// reviewed status.
func applyRapportForm(actor *access.Actor, form RapportForm, r *model.Rapport) error {
	if err := validateForm(&form); err != nil {
		return err
	}
	debut, err := requiredDate("semaine_debut", form.SemaineDebut.String())
	if err != nil {
		return err
	}
	fin, err := requiredDate("semaine_fin", form.SemaineFin.String())
	if err != nil {
		return err
	}
	if fin.Before(debut) {
		return NewValidationError("semaine_fin", "must not be before semaine_debut")
	}

	def := r.Statut
	if def == "" {
		def = model.RapportSoumis
	}
	statut := orDefault(form.Statut, def)
	// only administrators review
	if !actor.IsAdmin() && statut != def && !model.Contains([]string{model.RapportBrouillon, model.RapportSoumis}, statut) {
		return NewValidationError("statut", "must be one of: brouillon, soumis")
	}

	r.Titre = strings.TrimSpace(form.Titre)
	r.SemaineDebut = debut
	r.SemaineFin = fin
	r.Statut = statut
	if actor.IsAdmin() || form.Observations != "" {
		r.Observations = form.Observations
	}
	return nil
}

func (s *rapportService) saveFile(actor *access.Actor, upload *Upload) (*storage.Stored, error) {
	stored, err := s.files.Save(actor.ID, upload.Name, upload.Size, upload.Reader)
	if err != nil {
		return nil, s.uploadError(err)
	}
	return stored, nil
}

// uploadError turns a rejected upload into a ValidationError. Anything else
// is a storage failure.
func (s *rapportService) uploadError(err error) error {
	switch {
	case errors.Is(err, storage.ErrExtension):
		return NewValidationError("fichier", "only pdf, doc and docx files are accepted")
	case errors.Is(err, storage.ErrTooLarge):
		return NewValidationError("fichier", fmt.Sprintf("file exceeds %d MiB", s.files.MaxBytes()>>20))
	case errors.Is(err, storage.ErrEmpty):
		return NewValidationError("fichier", "file is empty")
	default:
		return &StorageError{Op: "save", Err: err}
	}
}

func (s *rapportService) List(ctx context.Context, actor *access.Actor, q repository.ListQuery) ([]model.Rapport, pagination.Meta, error) {
	if actor == nil {
		return nil, pagination.Meta{}, ErrUnauthenticated
	}
	if q.Page.Limit == 0 {
		q.Page = pagination.New(q.Page.Page)
	}
	if !actor.IsAdmin() {
		if q.Filters == nil {
			q.Filters = map[string]string{}
		}
		q.Filters["personnel_id"] = fmt.Sprint(actor.ID)
	}
	items, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	if items == nil {
		items = []model.Rapport{}
	}
	return items, pagination.NewMeta(q.Page, total), nil
}

func (s *rapportService) load(ctx context.Context, actor *access.Actor, id uint) (*model.Rapport, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "rapport", id)
	}
	if !access.CanManage(actor, r.OwnerID()) {
		return nil, accessDenied("report belongs to another personnel")
	}
	return r, nil
}

func (s *rapportService) Get(ctx context.Context, actor *access.Actor, id uint) (*model.Rapport, error) {
	return s.load(ctx, actor, id)
}

func (s *rapportService) Create(ctx context.Context, actor *access.Actor, form RapportForm, upload *Upload) (*model.Rapport, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	if upload == nil {
		return nil, NewValidationError("fichier", "a file is required")
	}
	r := &model.Rapport{}
	if err := applyRapportForm(actor, form, r); err != nil {
		return nil, err
	}
	stored, err := s.saveFile(actor, upload)
	if err != nil {
		return nil, err
	}
	r.SetOwner(actor.ID)
	r.NomFichier = stored.OriginalName
	r.CheminFichier = stored.Path
	r.Extension = stored.Extension
	r.Taille = stored.Size
	if r.Titre == "" {
		r.Titre = stored.OriginalName
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Create(txCtx, r); err != nil {
			return fmt.Errorf("create rapport: %w", err)
		}
		return s.journal.Record(txCtx, actor, s.codes.Create, model.EntityRapport, r.ID, "Création "+describeRapport(r))
	})
	if err != nil {
		if rmErr := s.files.Remove(stored.Path); rmErr != nil {
			logStorage("remove orphan upload", rmErr)
		}
		return nil, err
	}
	return r, nil
}

func (s *rapportService) Update(ctx context.Context, actor *access.Actor, id uint, form RapportForm, upload *Upload) (*model.Rapport, error) {
	current, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && current.Statut == model.RapportValide {
		return nil, NewValidationError("statut", "a validated report can no longer be modified")
	}

	r := *current
	if err := applyRapportForm(actor, form, &r); err != nil {
		return nil, err
	}

	var stored *storage.Stored
	if upload != nil {
		if stored, err = s.saveFile(actor, upload); err != nil {
			return nil, err
		}
		r.NomFichier = stored.OriginalName
		r.CheminFichier = stored.Path
		r.Extension = stored.Extension
		r.Taille = stored.Size
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Update(txCtx, &r); err != nil {
			return fmt.Errorf("update rapport: %w", err)
		}
		return s.journal.Record(txCtx, actor, s.codes.Update, model.EntityRapport, r.ID, "Modification "+describeRapport(&r))
	})
	if err != nil {
		if stored != nil {
			if rmErr := s.files.Remove(stored.Path); rmErr != nil {
				logStorage("remove replaced upload after rollback", rmErr)
			}
		}
		return nil, err
	}

	if stored != nil && current.CheminFichier != stored.Path {
		if rmErr := s.files.Remove(current.CheminFichier); rmErr != nil {
			logStorage("remove previous report file", rmErr)
		}
	}
	return &r, nil
}

func (s *rapportService) Delete(ctx context.Context, actor *access.Actor, id uint) error {
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		r, err := s.load(txCtx, actor, id)
		if err != nil {
			return err
		}
		return s.deleteOne(txCtx, actor, r)
	})
}

func (s *rapportService) deleteOne(txCtx context.Context, actor *access.Actor, r *model.Rapport) error {
	if err := s.repo.Delete(txCtx, r.ID); err != nil {
		return notFound(err, "rapport", r.ID)
	}
	if err := s.journal.Record(txCtx, actor, s.codes.Delete, model.EntityRapport, r.ID, "Suppression "+describeRapport(r)); err != nil {
		return err
	}
	path := r.CheminFichier
	repository.AfterCommit(txCtx, func() {
		if err := s.files.Remove(path); err != nil {
			logStorage("remove deleted report file", err)
		}
	})
	return nil
}

func (s *rapportService) Open(ctx context.Context, actor *access.Actor, id uint) (*model.Rapport, *os.File, error) {
	r, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, nil, err
	}
	f, err := s.files.Open(r.CheminFichier)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("report file: %w", ErrNotFound)
		}
		return nil, nil, &StorageError{Op: "open", Err: err}
	}
	return r, f, nil
}

func (s *rapportService) BulkAction(ctx context.Context, actor *access.Actor, req BulkActionRequest) (BulkActionResult, error) {
	if actor == nil {
		return BulkActionResult{}, ErrUnauthenticated
	}
	if !actor.IsAdmin() {
		return BulkActionResult{}, accessDenied("bulk actions are reserved to administrators")
	}
	if err := validateForm(&req); err != nil {
		return BulkActionResult{}, err
	}

	ids := uniqueIDs(req.Rapports)
	if len(ids) == 0 {
		return BulkActionResult{}, NewValidationError("rapports", "select at least one report")
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		rapports, err := s.repo.FindByIDs(txCtx, ids)
		if err != nil {
			return err
		}
		if len(rapports) != len(ids) {
			return fmt.Errorf("some reports do not exist: %w", ErrNotFound)
		}
		for i := range rapports {
			r := &rapports[i]
			switch req.Action {
			case BulkDelete:
				err = s.deleteOne(txCtx, actor, r)
			case BulkValidate:
				err = s.review(txCtx, actor, r, model.RapportValide, model.ActionValidationRapport, "Validation ", req.Observations)
			case BulkReject:
				err = s.review(txCtx, actor, r, model.RapportRejete, model.ActionRejetRapport, "Rejet ", req.Observations)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = fmt.Errorf("%v: %w", err, ErrNotFound)
		}
		return BulkActionResult{}, err
	}

	verb := map[string]string{BulkDelete: "supprimé(s)", BulkValidate: "validé(s)", BulkReject: "rejeté(s)"}[req.Action]
	return BulkActionResult{Success: true, Message: fmt.Sprintf("%d rapport(s) %s", len(ids), verb)}, nil
}

func (s *rapportService) review(txCtx context.Context, actor *access.Actor, r *model.Rapport, statut, action, verb, observations string) error {
	r.Statut = statut
	if observations != "" {
		r.Observations = observations
	}
	r.Personnel = nil
	if err := s.repo.Update(txCtx, r); err != nil {
		return fmt.Errorf("update rapport: %w", err)
	}
	return s.journal.Record(txCtx, actor, action, model.EntityRapport, r.ID, verb+describeRapport(r))
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
