package vault

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"

	"github.com/PolarWolf314/coffer/internal/codec"
	kerrors "github.com/PolarWolf314/coffer/internal/errors"
	"github.com/PolarWolf314/coffer/internal/storage"
	"github.com/PolarWolf314/coffer/internal/transfer"
)

// memorySaver captures the last backup handed to it.
type memorySaver struct {
	name  string
	data  []byte
	calls int
	err   error
}

func (s *memorySaver) Save(_ context.Context, name string, data []byte) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	s.name = name
	s.data = append([]byte(nil), data...)
	return "mem://" + name, nil
}

// closedReader completes without sending a result.
type closedReader struct{}

func (closedReader) Read(context.Context, string) <-chan transfer.Result {
	ch := make(chan transfer.Result)
	close(ch)
	return ch
}

func seed(t *testing.T, v *Vault) {
	t.Helper()
	ctx := context.Background()
	for key, record := range map[string]any{
		"searchzone_links":    []any{"https://example.com", "https://go.dev"},
		"searchzone_settings": map[string]any{"theme": "dark", "count": 3},
		"unrelated":           "keep out",
	} {
		if err := v.Store(ctx, key, record); err != nil {
			t.Fatalf("Failed to seed %s: %v", key, err)
		}
	}
}

func TestExportImport_RoundTrip(t *testing.T) {
	ctx := context.Background()
	saver := &memorySaver{}
	src, srcBackend, _ := newTestVault(t, WithSaver(saver))
	seed(t, src)

	result, err := src.ExportAll(ctx, DefaultPrefix)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if result.FileName != "searchzone_backup_2024-03-09.enc" || saver.name != result.FileName {
		t.Errorf("Unexpected file name: %s / %s", result.FileName, saver.name)
	}
	if result.Path != "mem://searchzone_backup_2024-03-09.enc" || result.Size != len(saver.data) {
		t.Errorf("Unexpected result: %+v", result)
	}
	if len(result.Keys) != 2 {
		t.Errorf("Expected 2 exported keys, got: %v", result.Keys)
	}

	var env codec.Envelope
	if err := json.Unmarshal(saver.data, &env); err != nil || env.Version != codec.LegacyVersion {
		t.Errorf("Expected backup to be an envelope, got %+v err=%v", env, err)
	}

	dst, dstBackend, _ := newTestVault(t)
	imported, err := dst.ImportAll(ctx, saver.data, ImportOptions{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if imported.Total != 2 || len(imported.Written) != 2 {
		t.Errorf("Unexpected import result: %+v", imported)
	}

	for _, key := range []string{"searchzone_links", "searchzone_settings"} {
		want, _, _ := srcBackend.Get(ctx, key)
		got, ok, _ := dstBackend.Get(ctx, key)
		if !ok || got != want {
			t.Errorf("Expected %s restored verbatim", key)
		}

		a, _ := src.Retrieve(ctx, key)
		b, err := dst.Retrieve(ctx, key)
		if err != nil || !reflect.DeepEqual(a, b) {
			t.Errorf("Expected %s to retrieve identically, got err=%v", key, err)
		}
	}
	if _, ok, _ := dstBackend.Get(ctx, "unrelated"); ok {
		t.Errorf("Expected keys outside the prefix to stay out of the backup")
	}
}

func TestExportAll_EmptyPrefixMatch(t *testing.T) {
	ctx := context.Background()
	saver := &memorySaver{}
	v, _, _ := newTestVault(t, WithSaver(saver))

	result, err := v.ExportAll(ctx, "nothing_")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(result.Keys) != 0 || result.FileName != "nothing_backup_2024-03-09.enc" {
		t.Errorf("Unexpected result: %+v", result)
	}

	imported, err := v.ImportAll(ctx, saver.data, ImportOptions{})
	if err != nil || imported.Total != 0 {
		t.Errorf("Expected empty backup to import cleanly, got %+v err=%v", imported, err)
	}
}

func TestExportAll_EmptyPrefixExportsEveryKey(t *testing.T) {
	ctx := context.Background()
	saver := &memorySaver{}
	v, _, _ := newTestVault(t, WithSaver(saver))
	seed(t, v)

	result, err := v.ExportAll(ctx, "")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	got := append([]string(nil), result.Keys...)
	sort.Strings(got)
	want := []string{"searchzone_links", "searchzone_settings", "unrelated"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got: %v", want, got)
	}
	if result.FileName != "backup_2024-03-09.enc" {
		t.Errorf("Unexpected file name: %s", result.FileName)
	}

	dst, backend, _ := newTestVault(t)
	if _, err := dst.ImportAll(ctx, saver.data, ImportOptions{}); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if _, ok, _ := backend.Get(ctx, "unrelated"); !ok {
		t.Errorf("Expected key outside the default prefix to be restored")
	}
}

func TestExportAll_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("no saver", func(t *testing.T) {
		v, _, _ := newTestVault(t)
		if _, err := v.ExportAll(ctx, DefaultPrefix); !errors.Is(err, kerrors.ErrExportFailed) {
			t.Errorf("Expected ErrExportFailed, got: %v", err)
		}
	})

	t.Run("saver error", func(t *testing.T) {
		saver := &memorySaver{err: errors.New("disk full")}
		v, _, logs := newTestVault(t, WithSaver(saver))
		seed(t, v)
		if _, err := v.ExportAll(ctx, DefaultPrefix); !errors.Is(err, kerrors.ErrExportFailed) {
			t.Errorf("Expected ErrExportFailed, got: %v", err)
		}
		if logs.Len() == 0 {
			t.Errorf("Expected export failure to be logged")
		}
	})

	t.Run("unencodable value", func(t *testing.T) {
		saver := &memorySaver{}
		v, backend, _ := newTestVault(t, WithSaver(saver))
		_ = backend.Set(ctx, "searchzone_raw", "price: 10€")
		if _, err := v.ExportAll(ctx, DefaultPrefix); !errors.Is(err, kerrors.ErrShiftOverflow) || !errors.Is(err, kerrors.ErrExportFailed) {
			t.Errorf("Expected ErrExportFailed wrapping ErrShiftOverflow, got: %v", err)
		}
		if saver.calls != 0 {
			t.Errorf("Expected saver not to be called, got %d calls", saver.calls)
		}
	})
}

func TestImportAll_InvalidBackups(t *testing.T) {
	ctx := context.Background()
	v, backend, _ := newTestVault(t)
	legacy := codec.NewLegacy()

	envelopeOf := func(record any) []byte {
		env, err := legacy.Encode(record)
		if err != nil {
			t.Fatalf("Failed to encode: %v", err)
		}
		data, _ := json.Marshal(env)
		return data
	}

	tests := map[string][]byte{
		"not json":         []byte("PK\x03\x04"),
		"bad data":         []byte(`{"data":"%%%"}`),
		"array payload":    envelopeOf([]any{"a"}),
		"non-string value": envelopeOf(map[string]any{"searchzone_a": "ok", "searchzone_b": 1}),
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := v.ImportAll(ctx, data, ImportOptions{}); !errors.Is(err, kerrors.ErrImportFormat) {
				t.Errorf("Expected ErrImportFormat, got: %v", err)
			}
		})
	}

	if n, _ := backend.Len(ctx); n != 0 {
		t.Errorf("Expected nothing written by invalid imports, got %d entries", n)
	}
}

func TestImportAll_AcceptsBareStringEnvelope(t *testing.T) {
	ctx := context.Background()
	v, backend, _ := newTestVault(t)

	env, err := codec.NewLegacy().Encode(map[string]any{"searchzone_a": "value"})
	if err != nil {
		t.Fatalf("Failed to encode: %v", err)
	}
	data, _ := json.Marshal(env.Data)

	if _, err := v.ImportAll(ctx, data, ImportOptions{}); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if got, _, _ := backend.Get(ctx, "searchzone_a"); got != "value" {
		t.Errorf("Expected value, got: %q", got)
	}
}

func TestImportAll_MergeAndDryRun(t *testing.T) {
	ctx := context.Background()
	saver := &memorySaver{}
	src, _, _ := newTestVault(t, WithSaver(saver))
	_ = src.Store(ctx, "searchzone_a", "new-a")
	_ = src.Store(ctx, "searchzone_b", "new-b")
	if _, err := src.ExportAll(ctx, DefaultPrefix); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	dst, backend, _ := newTestVault(t)
	_ = backend.Set(ctx, "searchzone_a", "existing")

	dry, err := dst.ImportAll(ctx, saver.data, ImportOptions{Mode: ImportModeMerge, DryRun: true})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !reflect.DeepEqual(dry.Written, []string{"searchzone_b"}) || !reflect.DeepEqual(dry.Skipped, []string{"searchzone_a"}) {
		t.Errorf("Unexpected dry run result: %+v", dry)
	}
	if _, ok, _ := backend.Get(ctx, "searchzone_b"); ok {
		t.Errorf("Expected dry run not to write")
	}

	merged, err := dst.ImportAll(ctx, saver.data, ImportOptions{Mode: ImportModeMerge})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(merged.Written) != 1 || merged.Mode.String() != "merge" {
		t.Errorf("Unexpected merge result: %+v", merged)
	}
	if got, _, _ := backend.Get(ctx, "searchzone_a"); got != "existing" {
		t.Errorf("Expected merge to keep existing value, got: %q", got)
	}

	if _, err := dst.ImportAll(ctx, saver.data, ImportOptions{}); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if got, _, _ := backend.Get(ctx, "searchzone_a"); got == "existing" {
		t.Errorf("Expected overwrite to replace existing value")
	}
}

func TestImportFile_SingleOutcome(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	src, _, _ := newTestVault(t, WithSaver(transfer.DirSaver{Dir: dir}))
	seed(t, src)

	exported, err := src.ExportAll(ctx, DefaultPrefix)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if _, err := os.Stat(exported.Path); err != nil {
		t.Fatalf("Expected backup file on disk: %v", err)
	}

	dst, backend, _ := newTestVault(t)
	done := dst.ImportFile(ctx, transfer.FileReader{}, exported.Path, ImportOptions{})

	outcome, ok := <-done
	if !ok {
		t.Fatalf("Expected an outcome")
	}
	if outcome.Err != nil || outcome.Result.Total != 2 {
		t.Errorf("Unexpected outcome: %+v", outcome)
	}
	if _, ok := <-done; ok {
		t.Errorf("Expected channel to close after one outcome")
	}
	if n, _ := backend.Len(ctx); n != 2 {
		t.Errorf("Expected 2 restored keys, got %d", n)
	}
}

func TestImportFile_ReadFailures(t *testing.T) {
	ctx := context.Background()
	v, _, _ := newTestVault(t)

	outcome := <-v.ImportFile(ctx, transfer.FileReader{}, filepath.Join(t.TempDir(), "missing.enc"), ImportOptions{})
	if !errors.Is(outcome.Err, kerrors.ErrFileNotFound) {
		t.Errorf("Expected ErrFileNotFound, got: %v", outcome.Err)
	}

	outcome = <-v.ImportFile(ctx, closedReader{}, "x.enc", ImportOptions{})
	if outcome.Err == nil {
		t.Errorf("Expected error when reader yields nothing")
	}

	bad := filepath.Join(t.TempDir(), "bad.enc")
	_ = os.WriteFile(bad, []byte("not a backup"), 0600)
	outcome = <-v.ImportFile(ctx, transfer.FileReader{}, bad, ImportOptions{})
	if !errors.Is(outcome.Err, kerrors.ErrImportFormat) {
		t.Errorf("Expected ErrImportFormat, got: %v", outcome.Err)
	}
}

func TestExportImport_AcrossBackends(t *testing.T) {
	ctx := context.Background()
	saver := &memorySaver{}
	src, _, _ := newTestVault(t, WithSaver(saver))
	seed(t, src)
	if _, err := src.ExportAll(ctx, DefaultPrefix); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	fileBackend, err := storage.OpenFile(filepath.Join(t.TempDir(), "store.json"))
	if err != nil {
		t.Fatalf("Failed to open file store: %v", err)
	}
	dst := New(fileBackend)
	if _, err := dst.ImportAll(ctx, saver.data, ImportOptions{}); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	got, err := dst.Retrieve(ctx, "searchzone_settings")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	want := map[string]any{"theme": "dark", "count": json.Number("3")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %#v, got: %#v", want, got)
	}
}
