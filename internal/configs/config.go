package configs

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/PolarWolf314/coffer/internal/codec"
	kerrors "github.com/PolarWolf314/coffer/internal/errors"
	"github.com/PolarWolf314/coffer/internal/integrity"
	"github.com/PolarWolf314/coffer/internal/storage"
	"github.com/PolarWolf314/coffer/internal/vault"
	"github.com/google/uuid"
)

// DefaultPassphraseEnv names the variable read for the secretbox passphrase.
const DefaultPassphraseEnv = "COFFER_PASSPHRASE"

type Config struct {
	Instance Instance `toml:"instance"`
	Store    Store    `toml:"store"`
	Codec    Codec    `toml:"codec"`
	Backup   Backup   `toml:"backup"`
}

type Instance struct {
	UUID string `toml:"uuid"`
}

type Store struct {
	Backend        string `toml:"backend"`
	Path           string `toml:"path"`
	RedisAddr      string `toml:"redis_addr"`
	RedisNamespace string `toml:"redis_namespace"`
	Prefix         string `toml:"prefix"`
}

type Codec struct {
	Cipher        string `toml:"cipher"`
	Digest        string `toml:"digest"`
	PassphraseEnv string `toml:"passphrase_env"`
	Salt          string `toml:"salt"`
}

type Backup struct {
	Dir string `toml:"dir"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Store: Store{
			Backend:        storage.BackendFile,
			RedisAddr:      "localhost:6379",
			RedisNamespace: "coffer",
			Prefix:         vault.DefaultPrefix,
		},
		Codec: Codec{
			Cipher:        codec.CipherShift,
			Digest:        integrity.DigestLegacy,
			PassphraseEnv: DefaultPassphraseEnv,
		},
		Backup: Backup{Dir: "."},
	}
}

// New returns a default configuration with a fresh instance UUID and salt.
func New() (*Config, error) {
	cfg := Default()
	cfg.Instance.UUID = GenerateInstanceUUID()

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	cfg.Codec.Salt = hex.EncodeToString(salt)
	return cfg, nil
}

// GenerateInstanceUUID generates a new UUID for this installation.
func GenerateInstanceUUID() string {
	return uuid.New().String()
}

// Load reads the configuration at path. Fields missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrConfigNotFound, path)
	}

	cfg := Default()
	if _, err := LoadTOML(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault is Load, falling back to Default when the file is missing.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, kerrors.ErrConfigNotFound) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes cfg to path.
func Save(path string, cfg *Config) error {
	if err := SaveTOML(path, cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// Validate checks the names and values the commands depend on.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case storage.BackendMemory, storage.BackendFile, storage.BackendSQLite:
	case storage.BackendRedis:
		if c.Store.RedisAddr == "" {
			return fmt.Errorf("%w: store.redis_addr is required for the redis backend", kerrors.ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: %w: %q", kerrors.ErrInvalidConfig, kerrors.ErrUnknownBackend, c.Store.Backend)
	}

	if c.Store.Prefix == "" {
		return fmt.Errorf("%w: store.prefix must not be empty", kerrors.ErrInvalidConfig)
	}

	if _, err := integrity.New(c.Codec.Digest); err != nil {
		return fmt.Errorf("%w: %w", kerrors.ErrInvalidConfig, err)
	}

	salt, err := c.SaltBytes()
	if err != nil {
		return err
	}

	switch c.Codec.Cipher {
	case "", codec.CipherShift:
	case codec.CipherSecretbox:
		if len(salt) < 8 {
			return fmt.Errorf("%w: codec.salt needs at least 8 bytes for secretbox", kerrors.ErrInvalidConfig)
		}
		if c.Codec.PassphraseEnv == "" {
			return fmt.Errorf("%w: codec.passphrase_env must not be empty", kerrors.ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: %w: %q", kerrors.ErrInvalidConfig, kerrors.ErrUnknownCodec, c.Codec.Cipher)
	}
	return nil
}

// SaltBytes decodes the hex salt.
func (c *Config) SaltBytes() ([]byte, error) {
	salt, err := hex.DecodeString(c.Codec.Salt)
	if err != nil {
		return nil, fmt.Errorf("%w: codec.salt is not hex: %v", kerrors.ErrInvalidConfig, err)
	}
	return salt, nil
}

// StorePath returns store.path, or the backend's default under s.
func (c *Config) StorePath(s *Settings) string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	return s.DefaultStorePath(c.Store.Backend)
}

// StorageOptions converts the store section for storage.Open.
func (c *Config) StorageOptions(s *Settings) storage.Options {
	return storage.Options{
		Path:           c.StorePath(s),
		RedisAddr:      c.Store.RedisAddr,
		RedisNamespace: c.Store.RedisNamespace,
	}
}
