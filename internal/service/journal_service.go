package service

import (
	"context"
	"strings"

	"sanogestion/internal/access"
	"sanogestion/internal/model"
	"sanogestion/internal/repository"
	"sanogestion/pkg/pagination"
)

type JournalEntryResponse struct {
	ID          uint   `json:"id"`
	DateAction  string `json:"date_action"`
	Action      string `json:"action"`
	Entite      string `json:"entite"`
	EntiteID    uint   `json:"entite_id"`
	Description string `json:"description"`
	PersonnelID *uint  `json:"personnel_id"`
	Username    string `json:"username"`
}

// JournalPublisher receives committed journal entries.
type JournalPublisher interface {
	PublishJournal(entry JournalEntryResponse)
}

type JournalService interface {
	// Record appends an entry using the transaction carried by ctx, if any.
	Record(ctx context.Context, actor *access.Actor, action, entity string, entityID uint, description string) error
	List(ctx context.Context, filter repository.JournalFilter, page pagination.Params) ([]JournalEntryResponse, pagination.Meta, error)
}

type journalService struct {
	repo      repository.JournalRepository
	publisher JournalPublisher
}

// NewJournalService creates a JournalService. publisher may be nil.
func NewJournalService(repo repository.JournalRepository, publisher JournalPublisher) JournalService {
	return &journalService{repo: repo, publisher: publisher}
}

func (s *journalService) Record(ctx context.Context, actor *access.Actor, action, entity string, entityID uint, description string) error {
	if strings.TrimSpace(action) == "" {
		return NewValidationError("action", "is required")
	}
	if strings.TrimSpace(description) == "" {
		return NewValidationError("description", "is required")
	}

	entry := &model.Journal{
		Action:      action,
		Entite:      entity,
		EntiteID:    entityID,
		Description: description,
	}
	username := "System"
	if actor != nil {
		id := actor.ID
		entry.PersonnelID = &id
		username = actor.Username
	}

	if err := s.repo.Record(ctx, entry); err != nil {
		return err
	}

	if s.publisher != nil {
		res := toJournalResponse(*entry)
		res.Username = username
		repository.AfterCommit(ctx, func() { s.publisher.PublishJournal(res) })
	}
	return nil
}

// List returns journal entries newest first with the actor pre-loaded.
func (s *journalService) List(ctx context.Context, filter repository.JournalFilter, page pagination.Params) ([]JournalEntryResponse, pagination.Meta, error) {
	entries, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	res := make([]JournalEntryResponse, 0, len(entries))
	for _, e := range entries {
		r := toJournalResponse(e)
		if e.Personnel != nil {
			r.Username = e.Personnel.Username
		}
		res = append(res, r)
	}
	return res, pagination.NewMeta(page, total), nil
}

func toJournalResponse(e model.Journal) JournalEntryResponse {
	return JournalEntryResponse{
		ID:          e.ID,
		DateAction:  e.DateAction.Format("2006-01-02 15:04:05"),
		Action:      e.Action,
		Entite:      e.Entite,
		EntiteID:    e.EntiteID,
		Description: e.Description,
		PersonnelID: e.PersonnelID,
		Username:    "System",
	}
}
