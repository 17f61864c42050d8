package database

import (
	"github.com/lijinmangal/janananma/internal/config"
	"github.com/lijinmangal/janananma/internal/logger"
	"github.com/lijinmangal/janananma/internal/models"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	db, err := Open(postgres.Open(cfg.DatabaseDSN))
	if err != nil {
		logger.Fatal("database connection failed", "error", err)
	}

	if err := Migrate(db); err != nil {
		logger.Fatal("auto migrate failed", "error", err)
	}

	DB = db
	logger.Info("database connected, migrations applied")
}

// Open connects with the settings every environment shares. Driver errors such
// as unique violations come back as gorm.ErrDuplicatedKey.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Wholesaler{},
		&models.Purchase{},
		&models.DailyFinance{},
		&models.BankTransaction{},
		&models.CreditTransaction{},
		&models.MonthlySummary{},
		&models.AuditLog{},
	)
	return errors.Wrap(err, "auto migrate")
}
