package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PolarWolf314/coffer/internal/configs"
)

// useTempSettings points the audit log at a temporary data directory.
func useTempSettings(t *testing.T) string {
	t.Helper()
	tempDir, err := os.MkdirTemp("", "coffer-audit-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	original := configs.CofferSettings
	configs.CofferSettings = &configs.Settings{
		ConfigDir: filepath.Join(tempDir, "config"),
		DataDir:   filepath.Join(tempDir, "data"),
	}
	t.Cleanup(func() {
		configs.CofferSettings = original
		os.RemoveAll(tempDir)
	})
	return configs.CofferSettings.AuditLogPath()
}

func TestLog_CreatesFileAndDirectory(t *testing.T) {
	logPath := useTempSettings(t)

	Log(Entry{InstanceUUID: "test-uuid", Operation: "put", Key: "searchzone_a"})

	info, err := os.Stat(logPath)
	if err != nil {
		t.Fatalf("Audit log file was not created: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected permissions 0600, got %o", info.Mode().Perm())
	}
}

func TestLog_AppendsEntries(t *testing.T) {
	useTempSettings(t)

	Log(Entry{Operation: "put", Key: "a"})
	Log(Entry{Operation: "export", KeysCount: 2})
	Log(Entry{Operation: "import", Mode: "merge"})

	entries, err := ReadEntries()
	if err != nil {
		t.Fatalf("ReadEntries failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}
	if entries[0].Key != "a" || entries[1].KeysCount != 2 || entries[2].Mode != "merge" {
		t.Errorf("Unexpected entries: %+v", entries)
	}
}

func TestLog_TimestampFormat(t *testing.T) {
	useTempSettings(t)

	Log(Entry{Operation: "verify"})

	entries, err := ReadEntries()
	if err != nil || len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d (err=%v)", len(entries), err)
	}
	ts, err := time.Parse("2006-01-02T15:04:05.000000Z", entries[0].Timestamp)
	if err != nil {
		t.Fatalf("Timestamp %q not in expected format: %v", entries[0].Timestamp, err)
	}
	if time.Since(ts) > time.Minute {
		t.Errorf("Timestamp too old: %v", ts)
	}
}

func TestLog_OmitsEmptyFields(t *testing.T) {
	logPath := useTempSettings(t)

	Log(Entry{InstanceUUID: "u", Operation: "keys"})

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(data))), &raw); err != nil {
		t.Fatalf("Entry is not valid JSON: %v", err)
	}
	for _, field := range []string{"key", "keys_count", "mode", "output_path", "input_path"} {
		if _, ok := raw[field]; ok {
			t.Errorf("Expected %s to be omitted", field)
		}
	}
	for _, field := range []string{"ts", "uuid", "op"} {
		if _, ok := raw[field]; !ok {
			t.Errorf("Expected %s to be present", field)
		}
	}
}

func TestLog_NoDataDir(t *testing.T) {
	original := configs.CofferSettings
	configs.CofferSettings = &configs.Settings{}
	defer func() { configs.CofferSettings = original }()

	Log(Entry{Operation: "put"})

	if LogPath() != "" {
		t.Errorf("Expected empty log path, got %q", LogPath())
	}
	entries, err := ReadEntries()
	if err != nil || entries != nil {
		t.Errorf("Expected no entries, got %v (err=%v)", entries, err)
	}
}

func TestLogWithInstance(t *testing.T) {
	cfg := configs.Default()
	cfg.Instance.UUID = "instance-1"

	entry := LogWithInstance("export", cfg)
	if entry.Operation != "export" || entry.InstanceUUID != "instance-1" || entry.Backend != cfg.Store.Backend {
		t.Errorf("Unexpected entry: %+v", entry)
	}

	if entry := LogWithInstance("get", nil); entry.InstanceUUID != "" {
		t.Errorf("Expected empty UUID without config, got %+v", entry)
	}
}

func TestParseEntries(t *testing.T) {
	data := []byte(`{"ts":"2024-01-01T00:00:00.000000Z","op":"put","key":"a"}
not json
{"ts":"2024-01-02T00:00:00.000000Z","op":"get","key":"b"}

`)
	entries, err := ParseEntries(data)
	if err != nil {
		t.Fatalf("ParseEntries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Key != "a" || entries[1].Operation != "get" {
		t.Errorf("Unexpected entries: %+v", entries)
	}

	if entries, _ := ParseEntries(nil); entries != nil {
		t.Errorf("Expected nil for empty data, got %v", entries)
	}
}
