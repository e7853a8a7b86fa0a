package vault

import "context"

// KeyFailure records why one key failed verification.
type KeyFailure struct {
	Key string
	Err error
}

// VerifyReport summarizes a Verify pass.
type VerifyReport struct {
	Valid  []string
	Failed []KeyFailure
}

// Checked returns the number of keys examined.
func (r *VerifyReport) Checked() int {
	return len(r.Valid) + len(r.Failed)
}

// Verify retrieves every key under prefix and reports which ones fail to
// decode or fail the integrity check.
func (v *Vault) Verify(ctx context.Context, prefix string) (*VerifyReport, error) {
	keys, err := v.Keys(ctx, prefix)
	if err != nil {
		return nil, err
	}

	report := &VerifyReport{}
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if _, err := v.Retrieve(ctx, key); err != nil {
			report.Failed = append(report.Failed, KeyFailure{Key: key, Err: err})
			continue
		}
		report.Valid = append(report.Valid, key)
	}
	return report, nil
}
