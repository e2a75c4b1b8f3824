// Package main implements the entry point for the WikiLearn API server,
// which schedules spaced-repetition reviews and tracks learner progression.
package main

import (
	"flag"
	"log"
)

func main() {
	migrateCmd := flag.String(
		"migrate",
		"",
		"run a migration command (up, down, status) instead of the server",
	)
	flag.Parse()

	app, err := newApplication()
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}
	defer app.cleanup()

	if *migrateCmd != "" {
		if err := app.runMigrations(*migrateCmd); err != nil {
			app.logger.Error("migration failed", "command", *migrateCmd, "error", err)
			log.Fatalf("migration failed: %v", err)
		}
		return
	}

	if err := app.runMigrations("up"); err != nil {
		app.logger.Error("startup migration failed", "error", err)
		log.Fatalf("startup migration failed: %v", err)
	}

	if err := app.serve(); err != nil {
		app.logger.Error("server exited with error", "error", err)
		log.Fatalf("server exited with error: %v", err)
	}
}
