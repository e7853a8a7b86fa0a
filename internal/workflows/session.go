package workflows

import (
	"context"
	"fmt"
	"os"

	"github.com/PolarWolf314/coffer/internal/codec"
	"github.com/PolarWolf314/coffer/internal/configs"
	kerrors "github.com/PolarWolf314/coffer/internal/errors"
	"github.com/PolarWolf314/coffer/internal/integrity"
	logger "github.com/PolarWolf314/coffer/internal/logging"
	"github.com/PolarWolf314/coffer/internal/storage"
	"github.com/PolarWolf314/coffer/internal/vault"
)

// SessionOptions selects the configuration a workflow runs against.
type SessionOptions struct {
	// ConfigPath overrides COFFER_CONFIG and the default location.
	ConfigPath string

	// Backend overrides store.backend from the config file.
	Backend string

	// Logger receives diagnostics from the vault.
	Logger logger.Logger

	// Passphrase is asked for the secretbox passphrase when the configured
	// environment variable is empty.
	Passphrase func() ([]byte, error)
}

// session is an opened vault plus what it was built from.
type session struct {
	cfg     *configs.Config
	backend storage.Backend
	vault   *vault.Vault
}

func (s *session) Close() error {
	return s.backend.Close()
}

// LoadConfig reads the configuration for opts, applies overrides and
// validates it. A missing file yields the defaults.
func LoadConfig(opts SessionOptions) (*configs.Config, error) {
	path := configs.CofferSettings.ConfigPath(opts.ConfigPath)
	cfg, err := configs.LoadOrDefault(path)
	if err != nil {
		return nil, err
	}
	if opts.Backend != "" && opts.Backend != cfg.Store.Backend {
		cfg.Store.Backend = opts.Backend
		cfg.Store.Path = ""
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// BuildCodec returns the codec and digester named by cfg.
func BuildCodec(cfg *configs.Config, passphrase func() ([]byte, error)) (codec.Codec, integrity.Digester, error) {
	digest, err := integrity.New(cfg.Codec.Digest)
	if err != nil {
		return nil, nil, err
	}

	opts := codec.Options{}
	if cfg.Codec.Cipher == codec.CipherSecretbox {
		pass, err := resolvePassphrase(cfg, passphrase)
		if err != nil {
			return nil, nil, err
		}
		salt, err := cfg.SaltBytes()
		if err != nil {
			return nil, nil, err
		}
		opts.Passphrase = pass
		opts.Salt = salt
	}

	c, err := codec.New(cfg.Codec.Cipher, opts)
	if err != nil {
		return nil, nil, err
	}
	return c, digest, nil
}

func resolvePassphrase(cfg *configs.Config, ask func() ([]byte, error)) ([]byte, error) {
	if env := os.Getenv(cfg.Codec.PassphraseEnv); env != "" {
		return []byte(env), nil
	}
	if ask == nil {
		return nil, fmt.Errorf("%w: set %s to the vault passphrase", kerrors.ErrInvalidConfig, cfg.Codec.PassphraseEnv)
	}
	pass, err := ask()
	if err != nil {
		return nil, fmt.Errorf("reading passphrase: %w", err)
	}
	if len(pass) == 0 {
		return nil, fmt.Errorf("%w: empty passphrase", kerrors.ErrInvalidConfig)
	}
	return pass, nil
}

// vaultOption derives a vault option from the loaded config.
type vaultOption func(cfg *configs.Config) vault.Option

// openSession loads the config, opens the backend and builds a vault.
func openSession(ctx context.Context, opts SessionOptions, extra ...vaultOption) (*session, error) {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return nil, err
	}

	c, digest, err := BuildCodec(cfg, opts.Passphrase)
	if err != nil {
		return nil, err
	}

	backend, err := storage.Open(ctx, cfg.Store.Backend, cfg.StorageOptions(configs.CofferSettings))
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.Store.Backend, err)
	}

	vaultOpts := []vault.Option{
		vault.WithCodec(c),
		vault.WithDigester(digest),
		vault.WithLogger(opts.Logger),
		vault.WithPrefix(cfg.Store.Prefix),
	}
	for _, opt := range extra {
		vaultOpts = append(vaultOpts, opt(cfg))
	}

	return &session{
		cfg:     cfg,
		backend: backend,
		vault:   vault.New(backend, vaultOpts...),
	}, nil
}
