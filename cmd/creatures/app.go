package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/cory-johannsen/creatures/internal/config"
	"github.com/cory-johannsen/creatures/internal/game/battle"
	"github.com/cory-johannsen/creatures/internal/game/dice"
	"github.com/cory-johannsen/creatures/internal/game/region"
	"github.com/cory-johannsen/creatures/internal/game/session"
	"github.com/cory-johannsen/creatures/internal/game/species"
	"github.com/cory-johannsen/creatures/internal/observability"
	"github.com/cory-johannsen/creatures/internal/savegame"
	"github.com/cory-johannsen/creatures/internal/storage/postgres"
	"github.com/cory-johannsen/creatures/internal/storage/redis"
	"github.com/cory-johannsen/creatures/internal/storage/sqlite"
)

// Content file names looked up inside game.content_dir.
const (
	speciesFile = "species.yaml"
	regionsFile = "regions.yaml"
)

// app is everything a subcommand needs, built once from configuration.
type app struct {
	cfg     config.Config
	slot    string
	logger  *zap.Logger
	catalog *species.Catalog
	regions *region.Table
	source  dice.Source
	store   savegame.Store
	closers []func()
}

// openApp loads .env, configuration and content, then connects the
// configured store. A non-empty slot overrides storage.slot.
//
// Postcondition: on success the caller must call Close.
func openApp(ctx context.Context, configPath, slot string) (*app, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	a := &app{cfg: cfg, slot: cfg.Storage.Slot, logger: logger}
	if slot != "" {
		a.slot = slot
	}
	a.closers = append(a.closers, func() { _ = logger.Sync() })

	a.catalog, a.regions, err = loadContent(cfg.Game.ContentDir)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.source = newSource(cfg.Game.Seed, logger)

	store, closeStore, err := openStore(ctx, cfg, a.catalog, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.store = store
	a.closers = append(a.closers, closeStore)

	logger.Debug("app ready",
		zap.String("backend", cfg.Storage.Backend),
		zap.String("slot", a.slot),
		zap.Int("species", a.catalog.Len()),
		zap.Int("regions", a.regions.Len()),
	)
	return a, nil
}

// Close releases the store and flushes the logger, newest first.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *app) sessionConfig() session.Config {
	cfg := session.DefaultConfig()
	cfg.Slot = a.slot
	cfg.RewardMoney = a.cfg.Game.RewardMoney
	cfg.EncounterRate = a.cfg.Game.EncounterRate
	cfg.Rules = battle.Rules{
		PotionHeal: a.cfg.Game.PotionHeal,
		FleeChance: a.cfg.Game.FleeChance,
	}
	return cfg
}

// openSession loads the configured slot.
func (a *app) openSession(ctx context.Context) (*session.Session, error) {
	deps := session.Deps{
		Catalog: a.catalog,
		Regions: a.regions,
		Source:  a.source,
		Store:   a.store,
		Logger:  a.logger,
	}
	return session.Open(ctx, deps, a.sessionConfig())
}

// loadContent reads species.yaml and regions.yaml from dir. An empty dir,
// or a file missing from it, selects the built-in content.
func loadContent(dir string) (*species.Catalog, *region.Table, error) {
	cat, regions := species.Default(), region.Default()
	if dir == "" {
		return cat, regions, nil
	}

	path := filepath.Join(dir, speciesFile)
	if _, err := os.Stat(path); err == nil {
		if cat, err = species.LoadCatalog(path); err != nil {
			return nil, nil, fmt.Errorf("loading species: %w", err)
		}
	}
	path = filepath.Join(dir, regionsFile)
	if _, err := os.Stat(path); err == nil {
		if regions, err = region.LoadTable(path); err != nil {
			return nil, nil, fmt.Errorf("loading regions: %w", err)
		}
	}
	return cat, regions, nil
}

// newSource returns a seeded source when seed is non-zero and a crypto
// source otherwise. Every draw is logged at debug level.
func newSource(seed uint64, logger *zap.Logger) dice.Source {
	src := dice.NewCryptoSource()
	if seed != 0 {
		src = dice.NewSeededSource(seed)
	}
	return dice.NewLoggedSource(src, logger)
}

// openStore connects the backend named by cfg.Storage.Backend.
//
// Postcondition: on success the returned close function releases the backend.
func openStore(ctx context.Context, cfg config.Config, cat *species.Catalog, logger *zap.Logger) (savegame.Store, func(), error) {
	switch cfg.Storage.Backend {
	case config.BackendFile:
		return savegame.NewFileStore(cfg.Storage.Dir, cat, logger), func() {}, nil

	case config.BackendSQLite:
		db, err := sqlite.Open(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return sqlite.NewTrainerStore(db, cat, logger), func() { _ = db.Close() }, nil

	case config.BackendPostgres:
		pool, err := postgres.Open(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewTrainerRepository(pool.DB(), cat, logger), pool.Close, nil

	case config.BackendRedis:
		client, err := redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		store := redis.NewTrainerStore(client, cfg.Redis.KeyPrefix, cat, logger)
		return store, func() { _ = client.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unsupported storage backend %q", cfg.Storage.Backend)
}
