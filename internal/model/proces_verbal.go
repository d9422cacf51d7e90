package model

import "time"

const (
	PVBrouillon = "brouillon"
	PVValide    = "valide"
	PVArchive   = "archive"
)

var StatutsPV = []string{PVBrouillon, PVValide, PVArchive}

// ProcesVerbal holds meeting minutes. Participants are replaced wholesale on edit.
type ProcesVerbal struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Titre        string          `gorm:"type:varchar(200);not null" json:"titre"`
	DateReunion  time.Time       `gorm:"type:date;not null;index" json:"date_reunion"`
	HeureDebut   string          `gorm:"type:varchar(5)" json:"heure_debut"`
	HeureFin     string          `gorm:"type:varchar(5)" json:"heure_fin"`
	Lieu         string          `gorm:"type:varchar(200)" json:"lieu"`
	OrdreDuJour  string          `gorm:"type:text" json:"ordre_du_jour"`
	Decisions    string          `gorm:"type:text" json:"decisions"`
	ActionsSuivi string          `gorm:"type:text" json:"actions_suivi"`
	Statut       string          `gorm:"type:varchar(20);not null;index" json:"statut"`
	CreateurID   *uint           `gorm:"index" json:"createur_id"`
	Createur     *Personnel      `gorm:"foreignKey:CreateurID;constraint:OnDelete:CASCADE" json:"createur,omitempty"`
	Participants []PVParticipant `gorm:"foreignKey:ProcesVerbalID;constraint:OnDelete:CASCADE" json:"participants"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ProcesVerbal) TableName() string { return "proces_verbal" }

func (pv *ProcesVerbal) GetID() uint { return pv.ID }

func (pv *ProcesVerbal) OwnerID() *uint { return pv.CreateurID }

func (pv *ProcesVerbal) SetOwner(id uint) { pv.CreateurID = &id }

// PVParticipant links a Personnel to a meeting.
type PVParticipant struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	ProcesVerbalID uint       `gorm:"not null;index" json:"proces_verbal_id"`
	PersonnelID    uint       `gorm:"not null;index" json:"personnel_id"`
	Personnel      *Personnel `gorm:"foreignKey:PersonnelID;constraint:OnDelete:CASCADE" json:"personnel,omitempty"`
	Present        bool       `gorm:"not null" json:"present"`
	RoleReunion    string     `gorm:"type:varchar(100)" json:"role_reunion"`
}

func (PVParticipant) TableName() string { return "pv_participant" }
