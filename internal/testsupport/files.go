package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"simtagger/internal/manifest"
)

// WriteManifest creates an addon directory under root with a manifest.json
// holding the given payload, and returns the addon directory path.
func WriteManifest(t testing.TB, root, folder, payload string) string {
	t.Helper()

	dir := filepath.Join(root, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	path := filepath.Join(dir, manifest.FileName)
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return dir
}

// WriteFeedSource writes one feed JSON dump file under root.
func WriteFeedSource(t testing.TB, root, name, payload string) string {
	t.Helper()

	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", root, err)
	}
	path := filepath.Join(root, name)
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
