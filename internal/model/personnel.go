package model

import (
	"strings"
	"time"
)

// Roles. Administrator is a superset role and passes every role check.
const (
	RoleAdministrator = "Administrator"
	RoleTrading       = "Trading"
	RoleAcademy       = "Academy"
	RoleDigital       = "Digital"
	RoleComptabilite  = "Comptabilite"
)

const (
	DepartementDirection = "Direction"
	DepartementTrading   = "Trading"
	DepartementAcademy   = "Academy"
	DepartementDigital   = "Digital"
)

const (
	ConventionStage = "Stage"
	ConventionCDD   = "CDD"
	ConventionCDI   = "CDI"
)

var (
	Roles        = []string{RoleAdministrator, RoleTrading, RoleAcademy, RoleDigital, RoleComptabilite}
	Departements = []string{DepartementDirection, DepartementTrading, DepartementAcademy, DepartementDigital}
	Conventions  = []string{ConventionStage, ConventionCDD, ConventionCDI}
)

// Personnel is an employee account. A non-null DateDepart marks the account inactive.
type Personnel struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Nom          string     `gorm:"type:varchar(100);not null" json:"nom"`
	Prenom       string     `gorm:"type:varchar(100);not null" json:"prenom"`
	Username     string     `gorm:"type:varchar(25);uniqueIndex;not null" json:"username"`
	Email        string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"email"`
	Phone        string     `gorm:"type:varchar(20)" json:"phone"`
	Departement  string     `gorm:"type:varchar(20);not null;index" json:"departement"`
	DateArrivee  *time.Time `gorm:"type:date" json:"date_arrivee"`
	DateDepart   *time.Time `gorm:"type:date" json:"date_depart"`
	Ecole        string     `gorm:"type:varchar(100)" json:"ecole"`
	Convention   string     `gorm:"type:varchar(10);not null" json:"convention"`
	Password     string     `gorm:"type:varchar(255);not null" json:"-"` // bcrypt digest, never serialized
	Role         string     `gorm:"type:varchar(20);not null;index" json:"role"`
	Observations string     `gorm:"type:text" json:"observations"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Personnel) TableName() string { return "personnel" }

func (p *Personnel) GetID() uint { return p.ID }

// IsActive reports whether the account has no departure date.
func (p *Personnel) IsActive() bool { return p.DateDepart == nil }

func (p *Personnel) FullName() string {
	return strings.TrimSpace(p.Prenom + " " + p.Nom)
}

// Contains reports whether value is one of the allowed choices.
func Contains(choices []string, value string) bool {
	for _, c := range choices {
		if c == value {
			return true
		}
	}
	return false
}
