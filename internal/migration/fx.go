package migration

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/brewhub/brewhub/internal/config"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		// Embedded migrations target postgres. Other dialects (the sqlite
		// dev path) manage schema out of band.
		if cfg.DBType != "postgres" {
			return nil
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}

		return RunMigrations(sqlDB)
	}),
)
