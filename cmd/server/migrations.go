package main

import (
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"
)

const migrationsDir = "internal/platform/postgres/migrations"

// runMigrations executes a goose migration command against the
// application database.
func (app *application) runMigrations(command string) error {
	goose.SetLogger(&slogGooseLogger{logger: app.logger})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	app.logger.Info("running migrations", "command", command, "dir", migrationsDir)

	var err error
	switch command {
	case "up":
		err = goose.Up(app.db, migrationsDir)
	case "down":
		err = goose.Down(app.db, migrationsDir)
	case "status":
		err = goose.Status(app.db, migrationsDir)
	default:
		return fmt.Errorf("unknown migration command %q", command)
	}
	if err != nil {
		return fmt.Errorf("goose %s failed: %w", command, err)
	}

	return nil
}

// slogGooseLogger adapts goose's logger interface to slog.
type slogGooseLogger struct {
	logger *slog.Logger
}

func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, v...))
}
