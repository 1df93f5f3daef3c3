// Command admin inspects and backs up the engine's durable records without
// going through the running server.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"blackledger.io/internal/persistence/archive"
	"blackledger.io/internal/store"
)

func main() {
	var (
		dataDir = flag.String("data", "./data", "runtime data directory")
		backend = flag.String("storage", "file", "storage backend: file or sqlite")
		keep    = flag.Int("keep", 5, "backups to keep after pruning")
	)
	flag.Parse()

	logger := log.New(os.Stderr, "[admin] ", log.LstdFlags)

	st, err := openStore(*backend, *dataDir)
	if err != nil {
		logger.Fatalf("open store: %v", err)
	}
	defer st.Close()

	switch flag.Arg(0) {
	case "dump":
		if err := dump(st); err != nil {
			logger.Fatalf("dump: %v", err)
		}
	case "backup":
		path, err := backup(st, filepath.Join(*dataDir, "backups"), *keep)
		if err != nil {
			logger.Fatalf("backup: %v", err)
		}
		fmt.Println(path)
	default:
		fmt.Fprintln(os.Stderr, "usage: admin [-data DIR] [-storage file|sqlite] dump|backup")
		os.Exit(2)
	}
}

func openStore(backend, dataDir string) (store.Store, error) {
	switch backend {
	case "sqlite":
		return store.OpenSQLite(filepath.Join(dataDir, "engine.sqlite"))
	case "file":
		return store.OpenFileStore(filepath.Join(dataDir, "records"))
	}
	return nil, fmt.Errorf("unknown storage backend %q", backend)
}

func dump(st store.Store) error {
	balance, err := store.LoadBalance(st)
	if err != nil {
		return err
	}
	stock, err := store.LoadStock(st)
	if err != nil {
		return err
	}
	locks, err := store.LoadNameLocks(st)
	if err != nil {
		return err
	}

	out := map[string]any{
		store.KeyBalance:   balance,
		store.KeyStock:     stock,
		store.KeyNameLocks: locks,
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func backup(st store.Store, dir string, keep int) (string, error) {
	balance, err := store.LoadBalance(st)
	if err != nil {
		return "", err
	}
	stock, err := store.LoadStock(st)
	if err != nil {
		return "", err
	}
	locks, err := store.LoadNameLocks(st)
	if err != nil {
		return "", err
	}

	path, err := archive.WriteBundle(dir, archive.BundleV1{
		Balance:   balance,
		Stock:     stock,
		NameLocks: locks,
	})
	if err != nil {
		return "", err
	}
	if err := archive.Prune(dir, keep); err != nil {
		return "", err
	}
	return path, nil
}
