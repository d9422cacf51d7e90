package model

import "time"

// Entity keys used to build journal action codes.
const (
	EntityPersonnel    = "PERSONNEL"
	EntityTrading      = "TRADING"
	EntityAcademy      = "ACADEMY"
	EntityDigital      = "DIGITAL"
	EntityMateriel     = "MATERIEL"
	EntityFinance      = "FINANCE"
	EntityProjet       = "PROJET"
	EntityEvenementiel = "EVENEMENTIEL"
	EntityFacture      = "FACTURE"
	EntityRapport      = "RAPPORT"
	EntityProcesVerbal = "PROCES_VERBAL"
)

const (
	ActionCreationPrefix     = "CREATION_"
	ActionModificationPrefix = "MODIFICATION_"
	ActionSuppressionPrefix  = "SUPPRESSION_"

	ActionValidationRapport = "VALIDATION_RAPPORT"
	ActionRejetRapport      = "REJET_RAPPORT"
)

// ActionCodes groups the journal codes emitted for one entity.
type ActionCodes struct {
	Create string
	Update string
	Delete string
}

func CodesFor(entity string) ActionCodes {
	return ActionCodes{
		Create: ActionCreationPrefix + entity,
		Update: ActionModificationPrefix + entity,
		Delete: ActionSuppressionPrefix + entity,
	}
}

// Journal is the append-only audit trail. Rows are written in the same
// transaction as the mutation they describe.
type Journal struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	DateAction  time.Time  `gorm:"not null;index" json:"date_action"`
	Action      string     `gorm:"type:varchar(50);not null;index" json:"action"`
	Entite      string     `gorm:"type:varchar(50)" json:"entite"`
	EntiteID    uint       `gorm:"index" json:"entite_id"`
	Description string     `gorm:"type:text;not null" json:"description"`
	PersonnelID *uint      `gorm:"index" json:"personnel_id"`
	Personnel   *Personnel `gorm:"foreignKey:PersonnelID;constraint:OnDelete:CASCADE" json:"personnel,omitempty"`
}

func (Journal) TableName() string { return "journal" }
