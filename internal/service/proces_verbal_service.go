package service

import (
	"context"
	"fmt"
	"strings"

	"sanogestion/internal/access"
	"sanogestion/internal/model"
	"sanogestion/internal/repository"
)

type ParticipantForm struct {
	PersonnelID uint   `json:"personnel_id" binding:"required"`
	Present     bool   `json:"present"`
	RoleReunion string `json:"role_reunion" binding:"max=100"`
}

// ProcesVerbalForm accepts participants either as a JSON list or, for HTML
// forms, as parallel participant_ids / present_ids fields.
type ProcesVerbalForm struct {
	Titre          string            `form:"titre" json:"titre" binding:"required,max=200"`
	DateReunion    Field             `form:"date_reunion" json:"date_reunion" binding:"required"`
	HeureDebut     string            `form:"heure_debut" json:"heure_debut"`
	HeureFin       string            `form:"heure_fin" json:"heure_fin"`
	Lieu           string            `form:"lieu" json:"lieu" binding:"max=200"`
	OrdreDuJour    string            `form:"ordre_du_jour" json:"ordre_du_jour"`
	Decisions      string            `form:"decisions" json:"decisions"`
	ActionsSuivi   string            `form:"actions_suivi" json:"actions_suivi"`
	Statut         string            `form:"statut" json:"statut" binding:"omitempty,oneof=brouillon valide archive"`
	Participants   []ParticipantForm `form:"-" json:"participants" binding:"dive"`
	ParticipantIDs []uint            `form:"participant_ids" json:"-"`
	PresentIDs     []uint            `form:"present_ids" json:"-"`
}

func (f *ProcesVerbalForm) participants() []ParticipantForm {
	if len(f.Participants) > 0 || len(f.ParticipantIDs) == 0 {
		return f.Participants
	}
	present := make(map[uint]bool, len(f.PresentIDs))
	for _, id := range f.PresentIDs {
		present[id] = true
	}
	out := make([]ParticipantForm, 0, len(f.ParticipantIDs))
	for _, id := range f.ParticipantIDs {
		out = append(out, ParticipantForm{PersonnelID: id, Present: present[id]})
	}
	return out
}

func (f *ProcesVerbalForm) Apply(pv *model.ProcesVerbal) error {
	if err := validateForm(f); err != nil {
		return err
	}
	out := *pv
	var err error
	if out.DateReunion, err = requiredDate("date_reunion", f.DateReunion.String()); err != nil {
		return err
	}
	if out.HeureDebut, err = optionalClock("heure_debut", f.HeureDebut); err != nil {
		return err
	}
	if out.HeureFin, err = optionalClock("heure_fin", f.HeureFin); err != nil {
		return err
	}
	if out.HeureDebut != "" && out.HeureFin != "" && out.HeureFin < out.HeureDebut {
		return NewValidationError("heure_fin", "must not be before heure_debut")
	}
	out.Statut = orDefault(f.Statut, model.PVBrouillon)

	// duplicates collapse to the last occurrence, keeping first-seen order
	index := map[uint]int{}
	var participants []model.PVParticipant
	for _, p := range f.participants() {
		if p.PersonnelID == 0 {
			return NewValidationError("participants", "personnel_id is required")
		}
		row := model.PVParticipant{PersonnelID: p.PersonnelID, Present: p.Present, RoleReunion: strings.TrimSpace(p.RoleReunion)}
		if i, ok := index[p.PersonnelID]; ok {
			participants[i] = row
			continue
		}
		index[p.PersonnelID] = len(participants)
		participants = append(participants, row)
	}

	out.Titre = strings.TrimSpace(f.Titre)
	out.Lieu = strings.TrimSpace(f.Lieu)
	out.OrdreDuJour = f.OrdreDuJour
	out.Decisions = f.Decisions
	out.ActionsSuivi = f.ActionsSuivi
	out.Participants = participants
	*pv = out
	return nil
}

func ProcesVerbalFormFrom(pv *model.ProcesVerbal) ProcesVerbalForm {
	f := ProcesVerbalForm{
		Titre:        pv.Titre,
		DateReunion:  Field(formatDate(&pv.DateReunion)),
		HeureDebut:   pv.HeureDebut,
		HeureFin:     pv.HeureFin,
		Lieu:         pv.Lieu,
		OrdreDuJour:  pv.OrdreDuJour,
		Decisions:    pv.Decisions,
		ActionsSuivi: pv.ActionsSuivi,
		Statut:       pv.Statut,
	}
	for _, p := range pv.Participants {
		f.Participants = append(f.Participants, ParticipantForm{PersonnelID: p.PersonnelID, Present: p.Present, RoleReunion: p.RoleReunion})
	}
	return f
}

// NewProcesVerbalService wires meeting minutes. Only the creator or an
// administrator may edit or delete. Every save replaces the whole participant
// set; concurrent edits are last-writer-wins.
func NewProcesVerbalService(
	repo repository.EntityRepository[model.ProcesVerbal],
	participants repository.ParticipantRepository,
	personnel repository.PersonnelRepository,
	journal JournalService,
	txManager repository.TransactionManager,
) EntityService[model.ProcesVerbal] {
	return NewEntityService[model.ProcesVerbal](repo, journal, txManager, EntityConfig[model.ProcesVerbal]{
		Entity: model.EntityProcesVerbal,
		Describe: func(pv *model.ProcesVerbal) string {
			return fmt.Sprintf("procès-verbal #%d %s du %s", pv.ID, pv.Titre, pv.DateReunion.Format(DateLayout))
		},
		CanModify: func(actor *access.Actor, pv *model.ProcesVerbal) bool {
			return access.CanManage(actor, pv.CreateurID)
		},
		Validate: func(ctx context.Context, pv *model.ProcesVerbal) error {
			if len(pv.Participants) == 0 {
				return nil
			}
			ids := make([]uint, 0, len(pv.Participants))
			for _, p := range pv.Participants {
				ids = append(ids, p.PersonnelID)
			}
			active, err := personnel.ActiveIDs(ctx, ids)
			if err != nil {
				return err
			}
			if len(active) != len(ids) {
				return NewValidationError("participants", "participants must be active personnel")
			}
			return nil
		},
		AfterSave: func(ctx context.Context, pv *model.ProcesVerbal) error {
			if err := participants.DeleteByProcesVerbalID(ctx, pv.ID); err != nil {
				return fmt.Errorf("clear participants: %w", err)
			}
			rows := make([]model.PVParticipant, 0, len(pv.Participants))
			for _, p := range pv.Participants {
				p.ID = 0
				p.ProcesVerbalID = pv.ID
				p.Personnel = nil
				rows = append(rows, p)
			}
			if err := participants.Create(ctx, rows); err != nil {
				return fmt.Errorf("save participants: %w", err)
			}
			pv.Participants = rows
			return nil
		},
	})
}
