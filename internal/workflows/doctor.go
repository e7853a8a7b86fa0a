package workflows

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PolarWolf314/coffer/internal/audit"
	"github.com/PolarWolf314/coffer/internal/codec"
	"github.com/PolarWolf314/coffer/internal/configs"
	"github.com/PolarWolf314/coffer/internal/storage"
	"github.com/PolarWolf314/coffer/internal/utils"
	"github.com/PolarWolf314/coffer/internal/vault"
)

// CheckStatus represents the result status of a health check.
type CheckStatus int

const (
	// CheckPass means the check passed.
	CheckPass CheckStatus = iota
	// CheckWarning means the check found a non-critical issue.
	CheckWarning
	// CheckError means the check found a critical issue.
	CheckError
)

// String returns a string representation of CheckStatus.
func (s CheckStatus) String() string {
	switch s {
	case CheckPass:
		return "pass"
	case CheckWarning:
		return "warning"
	case CheckError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler for CheckStatus.
func (s CheckStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// CheckResult holds the result of a single health check.
type CheckResult struct {
	Name       string      `json:"name"`
	Status     CheckStatus `json:"status"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
}

// DoctorResult holds the complete result of the doctor workflow.
type DoctorResult struct {
	Checks      []CheckResult `json:"checks"`
	Summary     DoctorSummary `json:"summary"`
	Suggestions []string      `json:"suggestions,omitempty"`
}

// DoctorSummary holds counts of checks by status.
type DoctorSummary struct {
	Passed   int `json:"passed"`
	Warnings int `json:"warnings"`
	Errors   int `json:"errors"`
}

// DoctorOptions configures the doctor workflow.
type DoctorOptions struct {
	Session SessionOptions
}

// doctorState carries what earlier checks learned to later ones.
type doctorState struct {
	opts    SessionOptions
	path    string
	cfg     *configs.Config
	backend storage.Backend
}

// Doctor runs health checks on the configuration, the store and the
// stored packages. Later checks are skipped when what they need failed.
func Doctor(ctx context.Context, opts DoctorOptions) (*DoctorResult, error) {
	state := &doctorState{
		opts: opts.Session,
		path: configs.CofferSettings.ConfigPath(opts.Session.ConfigPath),
	}
	defer func() {
		if state.backend != nil {
			state.backend.Close()
		}
	}()

	checks := []func(context.Context, *doctorState) CheckResult{
		checkConfigFile,
		checkConfigValid,
		checkPassphrase,
		checkStoreReachable,
		checkStorePermissions,
		checkStoredPackages,
		checkBackupDir,
		checkAuditLog,
	}

	var results []CheckResult
	for _, check := range checks {
		results = append(results, check(ctx, state))
	}

	var suggestions []string
	seen := make(map[string]bool)
	for _, result := range results {
		if result.Suggestion != "" && result.Status != CheckPass && !seen[result.Suggestion] {
			suggestions = append(suggestions, result.Suggestion)
			seen[result.Suggestion] = true
		}
	}

	return &DoctorResult{
		Checks:      results,
		Summary:     calculateDoctorSummary(results),
		Suggestions: suggestions,
	}, nil
}

func checkConfigFile(_ context.Context, st *doctorState) CheckResult {
	const name = "Configuration file"

	if !utils.FileExists(st.path) {
		return CheckResult{
			Name:       name,
			Status:     CheckWarning,
			Message:    fmt.Sprintf("%s not found, using defaults", st.path),
			Suggestion: "Run 'coffer config init' to create a configuration",
		}
	}

	cfg := configs.Default()
	unknown, err := configs.LoadTOML(st.path, cfg)
	if err != nil {
		return CheckResult{
			Name:       name,
			Status:     CheckError,
			Message:    fmt.Sprintf("Failed to parse config: %v", err),
			Suggestion: "Check the config file for syntax errors",
		}
	}
	if len(unknown) > 0 {
		return CheckResult{
			Name:       name,
			Status:     CheckWarning,
			Message:    fmt.Sprintf("Unknown keys ignored: %s", strings.Join(unknown, ", ")),
			Suggestion: "Remove or rename the unknown keys in the config file",
		}
	}
	if cfg.Instance.UUID == "" {
		return CheckResult{
			Name:       name,
			Status:     CheckWarning,
			Message:    "Instance UUID is missing from config",
			Suggestion: "Run 'coffer config init --force' to generate an instance UUID",
		}
	}

	return CheckResult{Name: name, Status: CheckPass, Message: "Configuration file readable"}
}

func checkConfigValid(_ context.Context, st *doctorState) CheckResult {
	const name = "Configuration values"

	cfg, err := LoadConfig(st.opts)
	if err != nil {
		return CheckResult{
			Name:       name,
			Status:     CheckError,
			Message:    err.Error(),
			Suggestion: "Fix the reported value with 'coffer config show' as a reference",
		}
	}
	st.cfg = cfg
	return CheckResult{
		Name:    name,
		Status:  CheckPass,
		Message: fmt.Sprintf("%s backend, %s cipher, %s digest", cfg.Store.Backend, cfg.Codec.Cipher, cfg.Codec.Digest),
	}
}

func checkPassphrase(_ context.Context, st *doctorState) CheckResult {
	const name = "Passphrase"

	if st.cfg == nil {
		return skipped(name)
	}
	if st.cfg.Codec.Cipher != codec.CipherSecretbox {
		return CheckResult{Name: name, Status: CheckPass, Message: "Not required for the shift cipher"}
	}
	if os.Getenv(st.cfg.Codec.PassphraseEnv) == "" {
		return CheckResult{
			Name:       name,
			Status:     CheckWarning,
			Message:    fmt.Sprintf("%s is not set, commands will prompt", st.cfg.Codec.PassphraseEnv),
			Suggestion: fmt.Sprintf("Export %s for non-interactive use", st.cfg.Codec.PassphraseEnv),
		}
	}
	return CheckResult{Name: name, Status: CheckPass, Message: fmt.Sprintf("Read from %s", st.cfg.Codec.PassphraseEnv)}
}

func checkStoreReachable(ctx context.Context, st *doctorState) CheckResult {
	const name = "Store reachable"

	if st.cfg == nil {
		return skipped(name)
	}
	backend, err := storage.Open(ctx, st.cfg.Store.Backend, st.cfg.StorageOptions(configs.CofferSettings))
	if err != nil {
		return CheckResult{
			Name:       name,
			Status:     CheckError,
			Message:    fmt.Sprintf("Cannot open %s store: %v", st.cfg.Store.Backend, err),
			Suggestion: "Check store.path or store.redis_addr in the config",
		}
	}
	n, err := backend.Len(ctx)
	if err != nil {
		backend.Close()
		return CheckResult{
			Name:    name,
			Status:  CheckError,
			Message: fmt.Sprintf("Cannot read %s store: %v", st.cfg.Store.Backend, err),
		}
	}
	st.backend = backend
	return CheckResult{Name: name, Status: CheckPass, Message: fmt.Sprintf("%d keys in %s store", n, st.cfg.Store.Backend)}
}

func checkStorePermissions(_ context.Context, st *doctorState) CheckResult {
	const name = "Store permissions"

	if st.cfg == nil || st.backend == nil {
		return skipped(name)
	}
	if st.cfg.Store.Backend != storage.BackendFile && st.cfg.Store.Backend != storage.BackendSQLite {
		return CheckResult{Name: name, Status: CheckPass, Message: "Not a local file store"}
	}

	path := st.cfg.StorePath(configs.CofferSettings)
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return CheckResult{Name: name, Status: CheckPass, Message: "Store file not created yet"}
	}
	if err != nil {
		return CheckResult{Name: name, Status: CheckError, Message: fmt.Sprintf("Cannot stat %s: %v", path, err)}
	}
	if perm := info.Mode().Perm(); perm&0077 != 0 {
		return CheckResult{
			Name:       name,
			Status:     CheckWarning,
			Message:    fmt.Sprintf("%s has permissions %04o", path, perm),
			Suggestion: fmt.Sprintf("Run 'chmod 600 %s'", path),
		}
	}
	return CheckResult{Name: name, Status: CheckPass, Message: "Store file is private"}
}

func checkStoredPackages(ctx context.Context, st *doctorState) CheckResult {
	const name = "Stored packages"

	if st.cfg == nil || st.backend == nil {
		return skipped(name)
	}
	c, digest, err := BuildCodec(st.cfg, st.opts.Passphrase)
	if err != nil {
		return CheckResult{Name: name, Status: CheckWarning, Message: fmt.Sprintf("Cannot build codec: %v", err)}
	}

	v := vault.New(st.backend,
		vault.WithCodec(c),
		vault.WithDigester(digest),
		vault.WithLogger(st.opts.Logger),
	)
	report, err := v.Verify(ctx, st.cfg.Store.Prefix)
	if err != nil {
		return CheckResult{Name: name, Status: CheckError, Message: fmt.Sprintf("Verification failed: %v", err)}
	}
	if len(report.Failed) > 0 {
		return CheckResult{
			Name:       name,
			Status:     CheckError,
			Message:    fmt.Sprintf("%d of %d keys fail verification", len(report.Failed), report.Checked()),
			Suggestion: "Run 'coffer verify' for details and restore with 'coffer import'",
		}
	}
	return CheckResult{Name: name, Status: CheckPass, Message: fmt.Sprintf("%d keys verified", report.Checked())}
}

func checkBackupDir(_ context.Context, st *doctorState) CheckResult {
	const name = "Backup directory"

	if st.cfg == nil {
		return skipped(name)
	}
	if err := checkWritable(st.cfg.Backup.Dir); err != nil {
		return CheckResult{
			Name:       name,
			Status:     CheckWarning,
			Message:    fmt.Sprintf("%s is not writable: %v", st.cfg.Backup.Dir, err),
			Suggestion: "Set backup.dir to a writable directory or pass --output to export",
		}
	}
	return CheckResult{Name: name, Status: CheckPass, Message: fmt.Sprintf("%s is writable", st.cfg.Backup.Dir)}
}

func checkAuditLog(_ context.Context, _ *doctorState) CheckResult {
	const name = "Audit log"

	path := audit.LogPath()
	if path == "" {
		return CheckResult{Name: name, Status: CheckWarning, Message: "No data directory, audit entries are dropped"}
	}
	if err := checkWritable(filepath.Dir(path)); err != nil {
		return CheckResult{
			Name:    name,
			Status:  CheckWarning,
			Message: fmt.Sprintf("%s is not writable, audit entries are dropped", filepath.Dir(path)),
		}
	}
	return CheckResult{Name: name, Status: CheckPass, Message: path}
}

func skipped(name string) CheckResult {
	return CheckResult{Name: name, Status: CheckWarning, Message: "Skipped, an earlier check failed"}
}

// checkWritable creates dir if needed and writes a temporary file in it.
func checkWritable(dir string) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".coffer-write-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}

// calculateDoctorSummary calculates the counts of checks by status.
func calculateDoctorSummary(results []CheckResult) DoctorSummary {
	var summary DoctorSummary
	for _, result := range results {
		switch result.Status {
		case CheckPass:
			summary.Passed++
		case CheckWarning:
			summary.Warnings++
		case CheckError:
			summary.Errors++
		}
	}
	return summary
}
