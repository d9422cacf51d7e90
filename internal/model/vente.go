package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment methods accepted on departmental sales.
const (
	PaiementVirement = "Virement bancaire"
	PaiementCheque   = "Cheque"
	PaiementEspeces  = "Especes"
	PaiementMobile   = "Paiement mobile"
)

var TypesPaiement = []string{PaiementVirement, PaiementCheque, PaiementEspeces, PaiementMobile}

// Vente is the shape shared by the Trading, Academy and Digital ledgers.
type Vente struct {
	ID               uint                `gorm:"primaryKey" json:"id"`
	DateConst        *time.Time          `gorm:"type:date" json:"date_const"`
	TypeLibelle      string              `gorm:"type:varchar(100)" json:"type_libelle"`
	NomClient        string              `gorm:"type:varchar(100)" json:"nom_client"`
	PrenomClient     string              `gorm:"type:varchar(100)" json:"prenom_client"`
	PhoneClient      string              `gorm:"type:varchar(20)" json:"phone_client"`
	EmailClient      string              `gorm:"type:varchar(100)" json:"email_client"`
	Items            string              `gorm:"type:varchar(255)" json:"items"`
	Quantite         *int                `json:"quantite"`
	PrixUnit         decimal.NullDecimal `gorm:"type:decimal(15,2)" json:"prix_unit"`
	MontantHT        decimal.NullDecimal `gorm:"type:decimal(15,2)" json:"montant_ht"`
	TVA              decimal.NullDecimal `gorm:"type:decimal(15,2)" json:"tva"`
	MontantTTC       decimal.NullDecimal `gorm:"type:decimal(15,2)" json:"montant_ttc"`
	ModalitePaiement string              `gorm:"type:varchar(100)" json:"modalite_paiement"`
	TypePaiement     string              `gorm:"type:varchar(30);index" json:"type_paiement"`
	Observations     string              `gorm:"type:text" json:"observations"`
	PersonnelID      *uint               `gorm:"index" json:"personnel_id"`
	CreatedAt        time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

func (v *Vente) GetID() uint { return v.ID }

func (v *Vente) OwnerID() *uint { return v.PersonnelID }

func (v *Vente) SetOwner(id uint) { v.PersonnelID = &id }

type Trading struct {
	Vente
	Personnel *Personnel `gorm:"foreignKey:PersonnelID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Trading) TableName() string { return "trading" }

type Academy struct {
	Vente
	Personnel *Personnel `gorm:"foreignKey:PersonnelID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Academy) TableName() string { return "academy" }

type Digital struct {
	Vente
	Personnel *Personnel `gorm:"foreignKey:PersonnelID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Digital) TableName() string { return "digital" }
