package main

import (
	"context"
	"flag"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/storage/postgres"
)

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	var (
		dsn   = flag.String("dsn", os.Getenv("DATABASE_URL"), "PostgreSQL DSN (default from DATABASE_URL)")
		steps = flag.Int("steps", 0, "number of migrations to apply (0 = all for up, 1 for down)")
	)
	flag.Parse()

	command := flag.Arg(0)
	if command == "" {
		command = "up"
	}
	if *dsn == "" {
		log.Fatal("database DSN is required: pass -dsn or set DATABASE_URL")
	}

	ctx := context.Background()
	store, err := postgres.Open(ctx, *dsn)
	if err != nil {
		log.WithError(err).Fatal("cannot connect to database")
	}
	defer func() { _ = store.Close() }()

	switch command {
	case "up":
		if err := store.MigrateUp(ctx, *steps); err != nil {
			log.WithError(err).Fatal("migrate up failed")
		}
		log.Info("migrations applied")
	case "down":
		if err := store.MigrateDown(ctx, *steps); err != nil {
			log.WithError(err).Fatal("migrate down failed")
		}
		log.Info("migrations rolled back")
	case "status":
		version, count, err := store.MigrationStatus(ctx)
		if err != nil {
			log.WithError(err).Fatal("migration status failed")
		}
		log.WithFields(log.Fields{
			"current_version": version,
			"applied_count":   count,
		}).Info("migration status")
	default:
		log.Fatalf("unknown command %q: expected up, down or status", command)
	}
}
