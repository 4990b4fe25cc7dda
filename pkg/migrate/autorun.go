package migrate

import (
	"context"
	"fmt"

	"github.com/bookhavenapp/bookhaven-backend/pkg/config"
	"github.com/bookhavenapp/bookhaven-backend/pkg/db"
	"github.com/bookhavenapp/bookhaven-backend/pkg/logger"
)

// MaybeRunDev executes migrations automatically when the app runs in dev mode
// and auto-migration is enabled.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.DB.AutoMigrate {
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dir": DefaultDir})
	logg.Info(ctx, "running goose migrations (dev auto-run)")

	if err := Run(ctx, sqlDB, Dialect(cfg.DB.UseSQLite()), DefaultDir, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "goose migrations completed")
	return nil
}
