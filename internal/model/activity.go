package model

import "time"

const (
	ActivityLogin  = "connexion"
	ActivityLogout = "deconnexion"
)

// UserActivity is a login or logout event. Rows are never updated.
type UserActivity struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	PersonnelID  uint       `gorm:"not null;index" json:"personnel_id"`
	Personnel    *Personnel `gorm:"foreignKey:PersonnelID;constraint:OnDelete:CASCADE" json:"personnel,omitempty"`
	Type         string     `gorm:"type:varchar(20);not null;index" json:"type"`
	DateActivite time.Time  `gorm:"not null;index" json:"date_activite"`
	IP           string     `gorm:"type:varchar(45)" json:"ip"`
	UserAgent    string     `gorm:"type:varchar(255)" json:"user_agent"`
}

func (UserActivity) TableName() string { return "user_activity" }
