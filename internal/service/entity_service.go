package service

import (
	"context"
	"fmt"
	"strings"

	"sanogestion/internal/access"
	"sanogestion/internal/model"
	"sanogestion/internal/repository"
	"sanogestion/pkg/pagination"
)

// EntityConfig carries the per-entity rules plugged into the generic service.
// Every hook is optional. Hooks receiving a ctx run inside the mutation's
// transaction.
type EntityConfig[T any] struct {
	// Entity is the journal key, e.g. model.EntityTrading.
	Entity   string
	Describe func(e *T) string
	// Validate runs before the write. The entity id is zero on create.
	Validate func(ctx context.Context, e *T) error
	// CanModify restricts update and delete beyond the route's role guard.
	CanModify    func(actor *access.Actor, e *T) bool
	AfterSave    func(ctx context.Context, e *T) error
	BeforeDelete func(ctx context.Context, actor *access.Actor, e *T) error
}

// EntityService is the transactional CRUD service shared by every entity.
// Each successful mutation appends exactly one journal entry in the same
// transaction.
type EntityService[T any] interface {
	Entity() string
	List(ctx context.Context, q repository.ListQuery) ([]T, pagination.Meta, error)
	Get(ctx context.Context, id uint) (*T, error)
	Create(ctx context.Context, actor *access.Actor, e *T) error
	Update(ctx context.Context, actor *access.Actor, id uint, apply func(e *T) error) (*T, error)
	Delete(ctx context.Context, actor *access.Actor, id uint) error
	// CanModify reports whether actor may edit or delete e.
	CanModify(actor *access.Actor, e *T) bool
}

type entityService[T any, PT interface {
	*T
	model.Identified
}] struct {
	repo      repository.EntityRepository[T]
	journal   JournalService
	txManager repository.TransactionManager
	cfg       EntityConfig[T]
	codes     model.ActionCodes
}

func NewEntityService[T any, PT interface {
	*T
	model.Identified
}](repo repository.EntityRepository[T], journal JournalService, txManager repository.TransactionManager, cfg EntityConfig[T]) EntityService[T] {
	return &entityService[T, PT]{
		repo:      repo,
		journal:   journal,
		txManager: txManager,
		cfg:       cfg,
		codes:     model.CodesFor(cfg.Entity),
	}
}

func (s *entityService[T, PT]) Entity() string { return s.cfg.Entity }

func (s *entityService[T, PT]) label() string {
	return strings.ToLower(strings.ReplaceAll(s.cfg.Entity, "_", " "))
}

func (s *entityService[T, PT]) describe(verb string, e *T) string {
	if s.cfg.Describe != nil {
		if d := strings.TrimSpace(s.cfg.Describe(e)); d != "" {
			return verb + " " + d
		}
	}
	return fmt.Sprintf("%s %s #%d", verb, s.label(), PT(e).GetID())
}

func (s *entityService[T, PT]) List(ctx context.Context, q repository.ListQuery) ([]T, pagination.Meta, error) {
	if q.Page.Limit == 0 {
		q.Page = pagination.New(q.Page.Page)
	}
	items, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	if items == nil {
		items = []T{}
	}
	return items, pagination.NewMeta(q.Page, total), nil
}

func (s *entityService[T, PT]) Get(ctx context.Context, id uint) (*T, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, s.label(), id)
	}
	return e, nil
}

func (s *entityService[T, PT]) CanModify(actor *access.Actor, e *T) bool {
	if actor == nil {
		return false
	}
	if s.cfg.CanModify == nil {
		return true
	}
	return s.cfg.CanModify(actor, e)
}

func (s *entityService[T, PT]) Create(ctx context.Context, actor *access.Actor, e *T) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	if owned, ok := any(e).(model.Owned); ok {
		owned.SetOwner(actor.ID)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if s.cfg.Validate != nil {
			if err := s.cfg.Validate(txCtx, e); err != nil {
				return err
			}
		}
		if err := s.repo.Create(txCtx, e); err != nil {
			return fmt.Errorf("create %s: %w", s.label(), err)
		}
		if s.cfg.AfterSave != nil {
			if err := s.cfg.AfterSave(txCtx, e); err != nil {
				return err
			}
		}
		return s.journal.Record(txCtx, actor, s.codes.Create, s.cfg.Entity, PT(e).GetID(), s.describe("Création", e))
	})
}

func (s *entityService[T, PT]) Update(ctx context.Context, actor *access.Actor, id uint, apply func(e *T) error) (*T, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}

	var updated *T
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		e, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return notFound(err, s.label(), id)
		}
		if !s.CanModify(actor, e) {
			return accessDenied("only the owner or an administrator may modify this " + s.label())
		}
		if err := apply(e); err != nil {
			return err
		}
		if s.cfg.Validate != nil {
			if err := s.cfg.Validate(txCtx, e); err != nil {
				return err
			}
		}
		if err := s.repo.Update(txCtx, e); err != nil {
			return fmt.Errorf("update %s: %w", s.label(), err)
		}
		if s.cfg.AfterSave != nil {
			if err := s.cfg.AfterSave(txCtx, e); err != nil {
				return err
			}
		}
		if err := s.journal.Record(txCtx, actor, s.codes.Update, s.cfg.Entity, id, s.describe("Modification", e)); err != nil {
			return err
		}
		updated = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *entityService[T, PT]) Delete(ctx context.Context, actor *access.Actor, id uint) error {
	if actor == nil {
		return ErrUnauthenticated
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		e, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return notFound(err, s.label(), id)
		}
		if !s.CanModify(actor, e) {
			return accessDenied("only the owner or an administrator may delete this " + s.label())
		}
		if s.cfg.BeforeDelete != nil {
			if err := s.cfg.BeforeDelete(txCtx, actor, e); err != nil {
				return err
			}
		}
		description := s.describe("Suppression", e)
		if err := s.repo.Delete(txCtx, id); err != nil {
			return notFound(err, s.label(), id)
		}
		return s.journal.Record(txCtx, actor, s.codes.Delete, s.cfg.Entity, id, description)
	})
}
