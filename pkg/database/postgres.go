package database

import (
	"log"

	"hotel-pms/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewPostgresDB(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.RatePlan{},
		&models.SpecialOffer{},
		&models.OfflineReservation{},
		&models.ChannelReservation{},
		&models.SyncConflict{},
		&models.SyncLogEntry{},
	); err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}

	// One conflict record per (local, channel) pair — detection stays idempotent
	// even across concurrent passes.
	db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_conflict_pair
		ON sync_conflicts (local_id, channel_id)
	`)

	return db
}
