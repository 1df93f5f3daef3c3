// Package archive exports the current durable records as one compressed
// bundle. Bundles are copies of the latest state, not a transaction log;
// pruning keeps only the most recent few.
package archive

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"

	"blackledger.io/internal/store"
)

type Header struct {
	Version   int    `json:"version"`
	CreatedAt string `json:"created_at"`
}

type BundleV1 struct {
	Header Header `json:"header"`

	Balance   store.BalanceRecord  `json:"balance"`
	Stock     store.StockRecord    `json:"stock"`
	NameLocks store.NameLockRecord `json:"name_locks"`
}

// WriteBundle writes a bundle under dir and returns its path. The file is a
// plain-JSON header line followed by the zstd-compressed body's JSON; the
// header line lets tooling identify a bundle without decompressing it.
func WriteBundle(dir string, bundle BundleV1) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if bundle.Header.Version == 0 {
		bundle.Header.Version = 1
	}
	if bundle.Header.CreatedAt == "" {
		bundle.Header.CreatedAt = time.Now().UTC().Format(time.RFC3339Nano)
	}

	path := filepath.Join(dir, fmt.Sprintf("backup_%d.json.zst", time.Now().UTC().UnixNano()))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", err
	}
	defer f.Close()

	hb, _ := json.Marshal(bundle.Header)
	if _, err := f.Write(append(hb, '\n')); err != nil {
		return "", err
	}

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return "", err
	}

	bw := bufio.NewWriter(enc)
	if err := json.NewEncoder(bw).Encode(&bundle); err != nil {
		enc.Close()
		return "", fmt.Errorf("encode bundle: %w", err)
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return path, nil
}

func ReadBundle(path string) (BundleV1, error) {
	var bundle BundleV1
	f, err := os.Open(path)
	if err != nil {
		return bundle, err
	}
	defer f.Close()

	br := bufio.NewReader(f)
	if _, err := br.ReadBytes('\n'); err != nil {
		return bundle, fmt.Errorf("read header: %w", err)
	}

	dec, err := zstd.NewReader(br)
	if err != nil {
		return bundle, err
	}
	defer dec.Close()

	if err := json.NewDecoder(dec).Decode(&bundle); err != nil {
		return bundle, fmt.Errorf("decode bundle: %w", err)
	}
	return bundle, nil
}

// Prune removes all but the newest keep bundles in dir.
func Prune(dir string, keep int) error {
	if keep <= 0 {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json.zst") {
			continue
		}
		names = append(names, e.Name())
	}
	// Names embed a nanosecond timestamp, so lexical order is creation order.
	sort.Strings(names)
	if len(names) <= keep {
		return nil
	}
	for _, name := range names[:len(names)-keep] {
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}
