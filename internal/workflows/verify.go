package workflows

import (
	"context"

	"github.com/PolarWolf314/coffer/internal/audit"
	"github.com/PolarWolf314/coffer/internal/vault"
)

// VerifyOptions configures the verify workflow.
type VerifyOptions struct {
	Session SessionOptions

	// Prefix selects the keys to check. Empty means the configured prefix.
	Prefix string

	// All checks every key regardless of prefix.
	All bool
}

// Verify decodes every key under the prefix and checks its digest.
func Verify(ctx context.Context, opts VerifyOptions) (*vault.VerifyReport, error) {
	s, err := openSession(ctx, opts.Session)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	prefix := opts.Prefix
	if opts.All {
		prefix = ""
	} else if prefix == "" {
		prefix = s.vault.Prefix()
	}

	report, err := s.vault.Verify(ctx, prefix)
	if err != nil {
		return nil, err
	}

	entry := audit.LogWithInstance("verify", s.cfg)
	entry.KeysCount = report.Checked()
	entry.FailedCount = len(report.Failed)
	audit.Log(entry)

	return report, nil
}
