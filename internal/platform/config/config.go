package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultEnvFile      = ".env"
	defaultPort         = "8080"
	defaultReadTimeout  = 15 * time.Second
	defaultWriteTimeout = 30 * time.Second
	defaultIdleTimeout  = 120 * time.Second
	defaultStoreDriver  = "memory"
	defaultBoltPath     = "storefront.db"
	defaultSessionTTL   = 24 * time.Hour
	defaultTokenIssuer  = "storefront-api"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	Firestore FirestoreConfig
	Bolt      BoltConfig
	Auth      AuthConfig
	Catalog   CatalogConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	// Driver is one of "firestore", "bolt", or "memory".
	Driver string
}

// FirestoreConfig stores database parameters.
type FirestoreConfig struct {
	ProjectID    string
	EmulatorHost string
}

// BoltConfig configures the embedded BoltDB backend.
type BoltConfig struct {
	Path string
}

// AuthConfig controls session token verification.
type AuthConfig struct {
	SessionSecret string
	Issuer        string
	SessionTTL    time.Duration
}

// CatalogConfig points at optional seed data for the memory/bolt backends.
type CatalogConfig struct {
	SeedFile string
}

// Load reads configuration from the environment, merging values from an optional .env file.
func Load() (Config, error) {
	env, err := environment()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Server: ServerConfig{
			Port:         stringValue(env, "PORT", defaultPort),
			ReadTimeout:  durationValue(env, "SERVER_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout: durationValue(env, "SERVER_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:  durationValue(env, "SERVER_IDLE_TIMEOUT", defaultIdleTimeout),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(stringValue(env, "STORE_DRIVER", defaultStoreDriver)),
		},
		Firestore: FirestoreConfig{
			ProjectID:    stringValue(env, "FIRESTORE_PROJECT_ID", ""),
			EmulatorHost: stringValue(env, "FIRESTORE_EMULATOR_HOST", ""),
		},
		Bolt: BoltConfig{
			Path: stringValue(env, "BOLT_PATH", defaultBoltPath),
		},
		Auth: AuthConfig{
			SessionSecret: stringValue(env, "SESSION_SECRET", ""),
			Issuer:        stringValue(env, "TOKEN_ISSUER", defaultTokenIssuer),
			SessionTTL:    durationValue(env, "SESSION_TTL", defaultSessionTTL),
		},
		Catalog: CatalogConfig{
			SeedFile: stringValue(env, "CATALOG_SEED_FILE", ""),
		},
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Store.Driver {
	case "firestore":
		if strings.TrimSpace(c.Firestore.ProjectID) == "" && strings.TrimSpace(os.Getenv("GOOGLE_CLOUD_PROJECT")) == "" {
			return errors.New("config: FIRESTORE_PROJECT_ID is required for the firestore driver")
		}
	case "bolt":
		if strings.TrimSpace(c.Bolt.Path) == "" {
			return errors.New("config: BOLT_PATH is required for the bolt driver")
		}
	case "memory":
	default:
		return fmt.Errorf("config: unknown store driver %q", c.Store.Driver)
	}
	if strings.TrimSpace(c.Auth.SessionSecret) == "" {
		return errors.New("config: SESSION_SECRET is required")
	}
	return nil
}

// environment merges process env vars over an optional .env file.
func environment() (map[string]string, error) {
	values := map[string]string{}

	file := strings.TrimSpace(os.Getenv("ENV_FILE"))
	if file == "" {
		file = defaultEnvFile
	}
	if fileValues, err := readEnvFile(file); err == nil {
		for k, v := range fileValues {
			values[k] = v
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	for _, entry := range os.Environ() {
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values, nil
}

func readEnvFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	values := map[string]string{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		value = strings.Trim(value, `"'`)
		if key != "" {
			values[key] = value
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return values, nil
}

func stringValue(env map[string]string, key, fallback string) string {
	if value, ok := env[key]; ok {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func durationValue(env map[string]string, key string, fallback time.Duration) time.Duration {
	value, ok := env[key]
	if !ok {
		return fallback
	}
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	if parsed, err := time.ParseDuration(trimmed); err == nil && parsed > 0 {
		return parsed
	}
	if seconds, err := strconv.Atoi(trimmed); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return fallback
}
