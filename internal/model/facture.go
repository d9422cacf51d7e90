package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	FactureBrouillon = "brouillon"
	FactureEmise     = "emise"
	FacturePayee     = "payee"
	FactureAnnulee   = "annulee"
)

var StatutsFacture = []string{FactureBrouillon, FactureEmise, FacturePayee, FactureAnnulee}

// Facture is a customer invoice. NumeroFacture is unique.
type Facture struct {
	ID            uint                `gorm:"primaryKey" json:"id"`
	NumeroFacture string              `gorm:"type:varchar(50);uniqueIndex;not null" json:"numero_facture"`
	DateFacture   time.Time           `gorm:"type:date;not null" json:"date_facture"`
	DateEcheance  *time.Time          `gorm:"type:date" json:"date_echeance"`
	NomClient     string              `gorm:"type:varchar(100)" json:"nom_client"`
	EmailClient   string              `gorm:"type:varchar(100)" json:"email_client"`
	PhoneClient   string              `gorm:"type:varchar(20)" json:"phone_client"`
	AdresseClient string              `gorm:"type:varchar(255)" json:"adresse_client"`
	Designation   string              `gorm:"type:text" json:"designation"`
	MontantHT     decimal.NullDecimal `gorm:"type:decimal(15,2)" json:"montant_ht"`
	TVA           decimal.NullDecimal `gorm:"type:decimal(15,2)" json:"tva"`
	MontantTTC    decimal.NullDecimal `gorm:"type:decimal(15,2)" json:"montant_ttc"`
	Statut        string              `gorm:"type:varchar(20);not null;index" json:"statut"`
	Observations  string              `gorm:"type:text" json:"observations"`
	PersonnelID   *uint               `gorm:"index" json:"personnel_id"`
	Personnel     *Personnel          `gorm:"foreignKey:PersonnelID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt     time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Facture) TableName() string { return "facture" }

func (f *Facture) GetID() uint { return f.ID }

func (f *Facture) OwnerID() *uint { return f.PersonnelID }

func (f *Facture) SetOwner(id uint) { f.PersonnelID = &id }
