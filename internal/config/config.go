package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
)

type Config struct {
	ListenAddr string `yaml:"listen_addr"`
	ConfigDir  string `yaml:"config_dir"`
	DataDir    string `yaml:"data_dir"`

	// "file" (atomic JSON records, default) or "sqlite".
	Storage string `yaml:"storage"`

	BackupKeep int `yaml:"backup_keep"`
}

func Load(path string) (Config, error) {
	c := Defaults()
	if strings.TrimSpace(path) == "" {
		return c, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("engine.yaml: %w", err)
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("engine.yaml: %w", err)
	}
	return c, nil
}

func Defaults() Config {
	c := Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = ":8080"
	}
	if c.ConfigDir == "" {
		c.ConfigDir = "./configs"
	}
	if c.DataDir == "" {
		c.DataDir = "./data"
	}
	if c.Storage == "" {
		c.Storage = StorageFile
	}
	if c.BackupKeep <= 0 {
		c.BackupKeep = 5
	}
}

func (c Config) Validate() error {
	switch c.Storage {
	case StorageFile, StorageSQLite:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage)
	}
	return nil
}
