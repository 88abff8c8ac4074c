package app

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"spamcheck/internal/checker"
	"spamcheck/internal/codec"
	"spamcheck/internal/config"
	"spamcheck/internal/directory"
	"spamcheck/internal/history"
	"spamcheck/internal/ledger"
	"spamcheck/internal/storage"
	"spamcheck/internal/storage/filestore"
	"spamcheck/internal/storage/memory"
	"spamcheck/internal/storage/sqlite"
)

type runtime struct {
	svc *checker.Service
	db  *sql.DB
}

func openRuntime(cfg config.Config, logger *zap.Logger) (*runtime, error) {
	rt := &runtime{}

	var store storage.Store
	switch cfg.StoreBackend {
	case config.BackendSQLite:
		db, err := sqlite.InitDB(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("init database %s: %w", cfg.DBPath, err)
		}
		rt.db = db
		kv := sqlite.New(db)
		keys, err := kv.Keys()
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("read database %s: %w", cfg.DBPath, err)
		}
		logger.Debug("database initialized", zap.String("path", cfg.DBPath), zap.Strings("keys", keys))
		store = kv
	case config.BackendFile:
		fs, err := filestore.New(cfg.StoreDir)
		if err != nil {
			return nil, fmt.Errorf("open store dir %s: %w", cfg.StoreDir, err)
		}
		store = fs
	case config.BackendMemory:
		store = memory.New()
	default:
		return nil, fmt.Errorf("unknown store_backend '%s'", cfg.StoreBackend)
	}

	c, err := codec.ByName(cfg.Codec)
	if err != nil {
		rt.Close()
		return nil, err
	}

	dir := directory.Builtin()
	if cfg.DirectoryPath != "" {
		seed, err := directory.LoadSeed(cfg.DirectoryPath)
		if err != nil {
			rt.Close()
			return nil, err
		}
		dir = dir.With(seed)
		logger.Debug("directory seed loaded", zap.String("path", cfg.DirectoryPath), zap.Int("numbers", dir.Len()))
	}

	rt.svc = checker.New(
		dir,
		ledger.Open(store, c, logger),
		history.Open(store, c, cfg.HistoryLimit, logger),
		checker.Options{
			SpamReportThreshold: cfg.SpamReportThreshold,
			Location:            cfg.Location,
		},
		logger,
	)
	return rt, nil
}

func (rt *runtime) Close() error {
	if rt.db == nil {
		return nil
	}
	err := rt.db.Close()
	rt.db = nil
	return err
}
