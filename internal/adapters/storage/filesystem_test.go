package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestProvider(t *testing.T) *FilesystemProvider {
	t.Helper()
	root := t.TempDir()

	dir := filepath.Join(root, "pip", "en", "latest")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>pip docs</html>"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	return NewFilesystemProvider(root)
}

func TestFilesystemProviderOpen(t *testing.T) {
	provider := newTestProvider(t)

	file, err := provider.Open(context.Background(), "pip/en/latest/index.html")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer file.Reader.Close()

	body, err := io.ReadAll(file.Reader)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(body) != "<html>pip docs</html>" {
		t.Fatalf("unexpected body %q", body)
	}
	if !strings.HasPrefix(file.ContentType, "text/html") {
		t.Fatalf("expected html content type, got %q", file.ContentType)
	}
	if file.Size != int64(len(body)) {
		t.Fatalf("expected size %d, got %d", len(body), file.Size)
	}
}

func TestFilesystemProviderMissingFile(t *testing.T) {
	provider := newTestProvider(t)

	if _, err := provider.Open(context.Background(), "pip/en/latest/missing.html"); err == nil {
		t.Fatal("expected error for missing artifact")
	}

	ok, err := provider.Exists(context.Background(), "pip/en/latest/missing.html")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if ok {
		t.Fatal("expected missing artifact")
	}
}

func TestFilesystemProviderExists(t *testing.T) {
	provider := newTestProvider(t)

	ok, err := provider.Exists(context.Background(), "pip/en/latest/index.html")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !ok {
		t.Fatal("expected artifact present")
	}
}

func TestFilesystemProviderRejectsTraversal(t *testing.T) {
	provider := newTestProvider(t)

	if _, err := provider.Open(context.Background(), "../../etc/passwd"); err == nil {
		t.Fatal("expected traversal rejection")
	}
	if _, err := provider.resolve("/"); !errors.Is(err, ErrOutsideRoot) {
		t.Fatalf("expected ErrOutsideRoot, got %v", err)
	}
}

func TestNoOpProviderAlwaysMisses(t *testing.T) {
	provider := NewNoOpProvider()

	if _, err := provider.Open(context.Background(), "pip/en/latest/index.html"); err == nil {
		t.Fatal("expected error from no-op provider")
	}
	ok, err := provider.Exists(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if ok {
		t.Fatal("expected miss from no-op provider")
	}
}
