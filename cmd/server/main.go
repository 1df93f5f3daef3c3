package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"blackledger.io/internal/catalog"
	"blackledger.io/internal/config"
	"blackledger.io/internal/engine"
	"blackledger.io/internal/persistence/archive"
	"blackledger.io/internal/store"
	"blackledger.io/internal/transport/ws"
)

func main() {
	var (
		addr       = flag.String("addr", "", "http listen address (overrides config)")
		configPath = flag.String("config", "./configs/engine.yaml", "path to engine.yaml")
		configDir  = flag.String("configs", "", "config directory (overrides config)")
		dataDir    = flag.String("data", "", "runtime data directory (overrides config)")
		storage    = flag.String("storage", "", "storage backend: file or sqlite (overrides config)")
		schemaDir  = flag.String("schemas", "./schemas", "json schema directory")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	cfg, err := config.Load(*configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Fatalf("load config: %v", err)
		}
		logger.Printf("config not found (%s); using defaults", *configPath)
		cfg = config.Defaults()
	}
	if strings.TrimSpace(*addr) != "" {
		cfg.ListenAddr = *addr
	}
	if strings.TrimSpace(*configDir) != "" {
		cfg.ConfigDir = *configDir
	}
	if strings.TrimSpace(*dataDir) != "" {
		cfg.DataDir = *dataDir
	}
	if strings.TrimSpace(*storage) != "" {
		cfg.Storage = *storage
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("config: %v", err)
	}

	cat, err := catalog.Load(cfg.ConfigDir)
	if err != nil {
		logger.Fatalf("load catalog: %v", err)
	}
	logger.Printf("catalog: %d items (digest %.12s)", len(cat.Items()), cat.ItemsDigest)

	st, err := openStore(cfg)
	if err != nil {
		logger.Fatalf("open store (%s): %v", cfg.Storage, err)
	}
	defer st.Close()

	eng, err := engine.New(st, cat, logger)
	if err != nil {
		logger.Fatalf("init engine: %v", err)
	}
	logger.Printf("engine: balance %d, %+v", eng.Ledger.Balance(), eng.Inventory.Snapshot())

	gateway, err := ws.NewServer(eng, filepath.Join(*schemaDir, "command.schema.json"), logger)
	if err != nil {
		logger.Fatalf("init gateway: %v", err)
	}

	backupDir := filepath.Join(cfg.DataDir, "backups")

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/ws", gateway.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/v1/backup", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		path, err := writeBackup(eng, backupDir, cfg.BackupKeep, logger)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(path))
	})
	mux.HandleFunc("/debug/pprof/", pprof.Index)

	srv := &http.Server{Addr: cfg.ListenAddr, Handler: mux}

	go func() {
		logger.Printf("listening on %s (storage=%s, data=%s)", cfg.ListenAddr, cfg.Storage, cfg.DataDir)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("http: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.Printf("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)

	if _, err := writeBackup(eng, backupDir, cfg.BackupKeep, logger); err != nil {
		logger.Printf("final backup: %v", err)
	}
}

func openStore(cfg config.Config) (store.Store, error) {
	switch cfg.Storage {
	case config.StorageSQLite:
		return store.OpenSQLite(filepath.Join(cfg.DataDir, "engine.sqlite"))
	default:
		return store.OpenFileStore(filepath.Join(cfg.DataDir, "records"))
	}
}

func writeBackup(eng *engine.Engine, dir string, keep int, logger *log.Logger) (string, error) {
	balance, stock, locks := eng.State()
	path, err := archive.WriteBundle(dir, archive.BundleV1{
		Balance:   balance,
		Stock:     stock,
		NameLocks: locks,
	})
	if err != nil {
		return "", err
	}
	if err := archive.Prune(dir, keep); err != nil {
		logger.Printf("prune backups: %v", err)
	}
	logger.Printf("backup written: %s", path)
	return path, nil
}
