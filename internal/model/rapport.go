package model

import "time"

const (
	RapportBrouillon = "brouillon"
	RapportSoumis    = "soumis"
	RapportValide    = "valide"
	RapportRejete    = "rejete"
)

var StatutsRapport = []string{RapportBrouillon, RapportSoumis, RapportValide, RapportRejete}

// Rapport is a weekly report backed by an uploaded file.
type Rapport struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Titre         string     `gorm:"type:varchar(200)" json:"titre"`
	SemaineDebut  time.Time  `gorm:"type:date;not null" json:"semaine_debut"`
	SemaineFin    time.Time  `gorm:"type:date;not null" json:"semaine_fin"`
	NomFichier    string     `gorm:"type:varchar(255);not null" json:"nom_fichier"`
	CheminFichier string     `gorm:"type:varchar(500);not null" json:"-"`
	Extension     string     `gorm:"type:varchar(10);not null" json:"extension"`
	Taille        int64      `gorm:"not null" json:"taille"`
	Statut        string     `gorm:"type:varchar(20);not null;index" json:"statut"`
	Observations  string     `gorm:"type:text" json:"observations"`
	PersonnelID   uint       `gorm:"not null;index" json:"personnel_id"`
	Personnel     *Personnel `gorm:"foreignKey:PersonnelID;constraint:OnDelete:CASCADE" json:"personnel,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Rapport) TableName() string { return "rapport" }

func (r *Rapport) GetID() uint { return r.ID }

func (r *Rapport) OwnerID() *uint { return &r.PersonnelID }

func (r *Rapport) SetOwner(id uint) { r.PersonnelID = id }
