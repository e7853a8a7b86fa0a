package workflows

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/coffer/internal/audit"
	"github.com/PolarWolf314/coffer/internal/configs"
	kerrors "github.com/PolarWolf314/coffer/internal/errors"
	"github.com/PolarWolf314/coffer/internal/utils"
)

// ConfigInitOptions configures the config init workflow.
type ConfigInitOptions struct {
	// ConfigPath overrides COFFER_CONFIG and the default location.
	ConfigPath string

	// Backend sets store.backend in the new file.
	Backend string

	// Force replaces an existing file.
	Force bool
}

// ConfigResult holds a configuration and where it lives.
type ConfigResult struct {
	Path   string
	Config *configs.Config

	// Exists is false when Config holds defaults because no file exists.
	Exists bool
}

// ConfigInit writes a new configuration with a fresh instance UUID and
// salt.
//
// Returns ErrConfigExists if the file exists and Force is not set.
func ConfigInit(ctx context.Context, opts ConfigInitOptions) (*ConfigResult, error) {
	path := configs.CofferSettings.ConfigPath(opts.ConfigPath)
	if utils.FileExists(path) && !opts.Force {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrConfigExists, path)
	}

	cfg, err := configs.New()
	if err != nil {
		return nil, err
	}
	if opts.Backend != "" {
		cfg.Store.Backend = opts.Backend
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := configs.Save(path, cfg); err != nil {
		return nil, err
	}

	entry := audit.LogWithInstance("config-init", cfg)
	entry.OutputPath = path
	audit.Log(entry)

	return &ConfigResult{Path: path, Config: cfg, Exists: true}, nil
}

// ConfigShow returns the effective configuration.
func ConfigShow(ctx context.Context, opts SessionOptions) (*ConfigResult, error) {
	path := configs.CofferSettings.ConfigPath(opts.ConfigPath)
	cfg, err := LoadConfig(opts)
	if err != nil {
		return nil, err
	}
	return &ConfigResult{Path: path, Config: cfg, Exists: utils.FileExists(path)}, nil
}
