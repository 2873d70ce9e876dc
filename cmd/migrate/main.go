// Package main provides a database migration runner for the postgres
// trainer store.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/cory-johannsen/creatures/internal/config"
	"github.com/cory-johannsen/creatures/internal/observability"
	"github.com/cory-johannsen/creatures/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file")
	direction := flag.String("direction", "up", "migration direction: up or down")
	steps := flag.Int("steps", 0, "number of steps (0 = all)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	m, err := postgres.NewMigrator(cfg.Database, logger)
	if err != nil {
		log.Fatalf("creating migrator: %v", err)
	}
	defer m.Close()

	switch *direction {
	case "up":
		err = m.Up(*steps)
	case "down":
		err = m.Down(*steps)
	default:
		log.Fatalf("invalid direction %q: must be 'up' or 'down'", *direction)
	}
	if err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	version, dirty, _ := m.Version()
	fmt.Fprintf(os.Stdout, "migrated %s to version=%d dirty=%v [%s]\n", *direction, version, dirty, time.Since(start))
}
