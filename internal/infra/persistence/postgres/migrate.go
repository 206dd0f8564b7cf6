package postgres

import (
	"context"
	"database/sql"
	"embed"
	"log/slog"

	"iner/config"
	"iner/internal/domain/lifecycle"
	"iner/internal/errors"

	"github.com/pressly/goose/v3"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrations embed.FS

// MigrationParams defines the parameters required to run schema migrations
type MigrationParams struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	DB     *gorm.DB
	Logger *slog.Logger
}

// RegisterMigrations applies the embedded migrations on start when migration.autoMigrate is set.
// It runs after the connection hook registered by New, so the pool is already verified.
func RegisterMigrations(params MigrationParams) {
	if params.Config.Migration == nil || !params.Config.Migration.AutoMigrate {
		return
	}

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			sqlDB, err := params.DB.DB()
			if err != nil {
				return errors.Wrap(err, "failed to get PostgreSQL sql.DB")
			}

			return Migrate(ctx, sqlDB, params.Logger)
		},
	})
}

// Migrate brings the schema up to the latest embedded version.
func Migrate(ctx context.Context, sqlDB *sql.DB, logger *slog.Logger) error {
	goose.SetBaseFS(migrations)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Wrap(err, "goose set dialect")
	}

	if err := goose.UpContext(ctx, sqlDB, "migrations"); err != nil {
		return errors.Wrap(err, "goose up")
	}

	version, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err != nil {
		return errors.Wrap(err, "goose version")
	}

	logger.InfoContext(ctx, "Database migrations applied", slog.Int64("version", version))

	return nil
}
