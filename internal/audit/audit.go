package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/PolarWolf314/coffer/internal/configs"
)

// Entry represents a single audit log entry.
type Entry struct {
	Timestamp    string `json:"ts"`   // RFC3339 with microseconds.
	InstanceUUID string `json:"uuid"` // Installation performing the action.
	Operation    string `json:"op"`   // Operation name.

	// Optional fields depending on operation.
	Key         string `json:"key,omitempty"`          // For put/get.
	Backend     string `json:"backend,omitempty"`      // Storage backend used.
	KeysCount   int    `json:"keys_count,omitempty"`   // For export/import/verify.
	FailedCount int    `json:"failed_count,omitempty"` // For verify.
	Mode        string `json:"mode,omitempty"`         // For import (merge/overwrite).
	OutputPath  string `json:"output_path,omitempty"`  // For export.
	InputPath   string `json:"input_path,omitempty"`   // For import.
}

// Log appends an entry to the audit log.
// Operations should not fail just because audit logging failed, so errors
// are dropped.
func Log(entry Entry) {
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format("2006-01-02T15:04:05.000000Z")
	}

	logPath := LogPath()
	if logPath == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
		return
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	_, _ = f.Write(append(data, '\n'))
}

// LogWithInstance starts an entry carrying the instance UUID from cfg.
func LogWithInstance(op string, cfg *configs.Config) Entry {
	entry := Entry{Operation: op}
	if cfg != nil {
		entry.InstanceUUID = cfg.Instance.UUID
		entry.Backend = cfg.Store.Backend
	}
	return entry
}

// LogPath returns the path to the audit log file, or an empty string when
// no data directory is known.
func LogPath() string {
	if configs.CofferSettings == nil || configs.CofferSettings.DataDir == "" {
		return ""
	}
	return configs.CofferSettings.AuditLogPath()
}

// ReadEntries reads all entries from the audit log.
// Returns an empty slice if the log doesn't exist.
func ReadEntries() ([]Entry, error) {
	logPath := LogPath()
	if logPath == "" {
		return nil, nil
	}

	data, err := os.ReadFile(logPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	var entries []Entry
	for _, line := range bytesLines(data) {
		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func bytesLines(data []byte) [][]byte {
	var lines [][]byte
	start := 0
	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			if line := data[start:i]; len(line) > 0 {
				lines = append(lines, line)
			}
			start = i + 1
		}
	}
	return lines
}
