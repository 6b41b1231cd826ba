package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"identigraph/internal/marc"
)

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteLines writes lines to path, each terminated by a newline.
func WriteLines(t testing.TB, path string, lines ...string) {
	t.Helper()
	WriteFile(t, path, strings.Join(lines, "\n")+"\n")
}

// WriteRecords encodes records into a binary record stream at path.
func WriteRecords(t testing.TB, path string, records ...*marc.Record) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	w := marc.NewWriter(f)
	for _, rec := range records {
		if err := w.Write(rec); err != nil {
			t.Fatalf("write record to %s: %v", path, err)
		}
	}
}

// ReadFile returns the contents of path.
func ReadFile(t testing.TB, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
