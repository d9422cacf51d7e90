package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Materiel is an equipment or stock movement.
type Materiel struct {
	ID            uint                `gorm:"primaryKey" json:"id"`
	NomProduit    string              `gorm:"type:varchar(100);not null" json:"nom_produit"`
	Fournisseur   string              `gorm:"type:varchar(100)" json:"fournisseur"`
	DateSortie    *time.Time          `gorm:"type:date" json:"date_sortie"`
	DateReception *time.Time          `gorm:"type:date" json:"date_reception"`
	Quantite      *int                `json:"quantite"`
	PrixUnit      decimal.NullDecimal `gorm:"type:decimal(15,2)" json:"prix_unit"`
	MontantHT     decimal.NullDecimal `gorm:"type:decimal(15,2)" json:"montant_ht"`
	TVA           decimal.NullDecimal `gorm:"type:decimal(15,2)" json:"tva"`
	MontantTTC    decimal.NullDecimal `gorm:"type:decimal(15,2)" json:"montant_ttc"`
	Observations  string              `gorm:"type:text" json:"observations"`
	CreatedAt     time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Materiel) TableName() string { return "materiel" }

func (m *Materiel) GetID() uint { return m.ID }
