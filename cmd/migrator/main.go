package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"example.com/storefront/migrations"
)

type migrationLogger struct {
	logger *zap.SugaredLogger
}

func (l migrationLogger) Printf(format string, v ...any) {
	l.logger.Infof(strings.TrimRight(format, "\n"), v...)
}

func (l migrationLogger) Verbose() bool { return true }

func main() {
	dsn := pflag.StringP("dsn", "d", os.Getenv("STOREFRONT_POSTGRES_DSN"), "postgres connection string")
	direction := pflag.String("direction", "up", "up or down")
	steps := pflag.Int("steps", 0, "apply only this many migrations (0 = all)")
	pflag.Parse()

	logger := zap.Must(zap.NewProduction()).Sugar()
	defer func() { _ = logger.Sync() }()

	if err := run(*dsn, *direction, *steps, logger); err != nil {
		logger.Errorw("migration failed", "err", err)
		os.Exit(2)
	}
}

func run(dsn, direction string, steps int, logger *zap.SugaredLogger) error {
	if dsn == "" {
		return errors.New("--dsn: required")
	}

	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, pgx5URL(dsn))
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}
	defer m.Close()
	m.Log = migrationLogger{logger: logger}

	switch {
	case steps != 0 && direction == "down":
		err = m.Steps(-steps)
	case steps != 0:
		err = m.Steps(steps)
	case direction == "down":
		err = m.Down()
	case direction == "up":
		err = m.Up()
	default:
		return fmt.Errorf("--direction: unknown value %q", direction)
	}
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to apply")
		return nil
	}
	if err != nil {
		return err
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return err
	}
	logger.Infow("migrations applied", "version", version, "dirty", dirty)
	return nil
}

// pgx5URL rewrites a postgres:// DSN to the scheme the pgx/v5 driver registers.
func pgx5URL(dsn string) string {
	for _, scheme := range []string{"postgres://", "postgresql://"} {
		if rest, ok := strings.CutPrefix(dsn, scheme); ok {
			return "pgx5://" + rest
		}
	}
	return dsn
}
