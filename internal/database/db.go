package database

import (
	"log"

	"sanogestion/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models lists every table owned by the application, parents first.
func Models() []interface{} {
	return []interface{}{
		&model.Personnel{},
		&model.Trading{},
		&model.Academy{},
		&model.Digital{},
		&model.Materiel{},
		&model.Finance{},
		&model.Projet{},
		&model.Evenementiel{},
		&model.Facture{},
		&model.Rapport{},
		&model.ProcesVerbal{},
		&model.PVParticipant{},
		&model.UserActivity{},
		&model.Journal{},
	}
}

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string, debug bool) (*gorm.DB, error) {
	level := logger.Warn
	if debug {
		level = logger.Info
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
