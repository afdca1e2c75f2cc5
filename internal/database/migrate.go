package database

import (
	"context"
	"database/sql"

	"github.com/mehmetcc/nursery/migrations"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

// Migrate brings the content schema up to the newest embedded version.
func Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Wrap(err, "failed to set goose dialect")
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return errors.Wrap(err, "failed to apply migrations")
	}

	version, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return errors.Wrap(err, "failed to read schema version")
	}
	migrationLog.Infow("content schema ready", "version", version)
	return nil
}

var migrationLog = zap.NewNop().Sugar()

// SetMigrationLogger routes goose output through logger. Goose's Fatalf is
// downgraded to an error so a failed migration is returned, not fatal.
func SetMigrationLogger(logger *zap.Logger) {
	migrationLog = logger.Named("migrations").Sugar()
	goose.SetLogger(zapGooseLogger{s: migrationLog})
}

type zapGooseLogger struct{ s *zap.SugaredLogger }

func (l zapGooseLogger) Printf(format string, v ...interface{}) {
	l.s.Infof(format, v...)
}

func (l zapGooseLogger) Fatalf(format string, v ...interface{}) {
	l.s.Errorf(format, v...)
}
