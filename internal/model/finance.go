package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Finance is a single accounting ledger line.
type Finance struct {
	ID           uint                `gorm:"primaryKey" json:"id"`
	Date         *time.Time          `gorm:"type:date" json:"date"`
	Libelle      string              `gorm:"type:varchar(255)" json:"libelle"`
	NumeroCompte string              `gorm:"type:varchar(50);index" json:"numero_compte"`
	Credit       decimal.NullDecimal `gorm:"type:decimal(15,2)" json:"credit"`
	Debit        decimal.NullDecimal `gorm:"type:decimal(15,2)" json:"debit"`
	MontantHT    decimal.NullDecimal `gorm:"type:decimal(15,2)" json:"montant_ht"`
	TVA          decimal.NullDecimal `gorm:"type:decimal(15,2)" json:"tva"`
	MontantTTC   decimal.NullDecimal `gorm:"type:decimal(15,2)" json:"montant_ttc"`
	Observations string              `gorm:"type:text" json:"observations"`
	CreatedAt    time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Finance) TableName() string { return "finance" }

func (f *Finance) GetID() uint { return f.ID }
