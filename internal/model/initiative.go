package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lifecycle of projects and events.
const (
	StatutEnAttente = "en attente"
	StatutEnCours   = "en cours"
	StatutTermine   = "terminé"
	StatutAnnule    = "annulé"
)

var (
	StatutsInitiative      = []string{StatutEnAttente, StatutEnCours, StatutTermine, StatutAnnule}
	DepartementsInitiative = []string{DepartementTrading, DepartementAcademy, DepartementDigital}
)

// Initiative is a department-scoped piece of work with a date range.
type Initiative struct {
	ID          uint                `gorm:"primaryKey" json:"id"`
	Nom         string              `gorm:"type:varchar(100);not null" json:"nom"`
	Description string              `gorm:"type:text" json:"description"`
	DateDebut   time.Time           `gorm:"type:date;not null" json:"date_debut"`
	DateFin     *time.Time          `gorm:"type:date" json:"date_fin"`
	Budget      decimal.NullDecimal `gorm:"type:decimal(15,2)" json:"budget"`
	Statut      string              `gorm:"type:varchar(20);not null;index" json:"statut"`
	Departement string              `gorm:"type:varchar(20);not null;index" json:"departement"`
	CreatedAt   time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

func (i *Initiative) GetID() uint { return i.ID }

type Projet struct {
	Initiative
}

func (Projet) TableName() string { return "projet" }

type Evenementiel struct {
	Initiative
}

func (Evenementiel) TableName() string { return "evenementiel" }
