package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Port         string
	Env          string
	StoreBackend string // mem | leveldb | postgres
	DataDir      string
	DBSource     string
	OwnerAccount string
	Fee          int64
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:         getenv("SERVER_PORT", "8080"),
		Env:          getenv("ENVIRONMENT", "development"),
		StoreBackend: getenv("STORE_BACKEND", "leveldb"),
		DataDir:      getenv("DATA_DIR", "./data"),
		DBSource:     os.Getenv("DB_SOURCE"),
		OwnerAccount: os.Getenv("OWNER_ACCOUNT"),
	}

	if cfg.OwnerAccount == "" {
		return nil, fmt.Errorf("OWNER_ACCOUNT environment variable is required")
	}

	switch cfg.StoreBackend {
	case "mem", "leveldb":
	case "postgres":
		if cfg.DBSource == "" {
			return nil, fmt.Errorf("DB_SOURCE environment variable is required for the postgres backend")
		}
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	fee := getenv("REGISTRATION_FEE", "100")
	parsed, err := strconv.ParseInt(fee, 10, 64)
	if err != nil || parsed < 0 {
		return nil, fmt.Errorf("invalid REGISTRATION_FEE %q", fee)
	}
	cfg.Fee = parsed

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
