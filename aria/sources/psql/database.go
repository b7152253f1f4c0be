package psql

import (
	"aria/aria/config"
	"aria/aria/sources/psql/models"
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Database struct {
	DB *gorm.DB
}

func NewDatabase(ctx context.Context, cfg config.Config) (*Database, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
	)

	// TranslateError maps unique-violation errors to gorm.ErrDuplicatedKey,
	// which the appointment DAO relies on for slot conflicts.
	db, err := gorm.Open(postgres.Open(connStr), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	err = db.WithContext(ctx).
		AutoMigrate(
			&models.User{},
			&models.Appointment{},
			&models.Preference{},
			&models.CallSummary{},
		)
	if err != nil {
		return nil, fmt.Errorf("failed to auto-migrate: %w", err)
	}

	// One confirmed appointment per slot, enforced by the database so
	// concurrent sessions cannot both win a check-then-insert race.
	err = db.WithContext(ctx).Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_appointments_slot_confirmed
		 ON appointments (date, time) WHERE status = 'confirmed'`,
	).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create slot index: %w", err)
	}

	return &Database{DB: db}, nil
}

func (db *Database) Close() {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return
	}
	sqlDB.Close()
}
