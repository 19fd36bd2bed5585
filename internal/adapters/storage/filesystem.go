package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-dochost/pkg/interfaces"
)

// ErrOutsideRoot is returned when a storage path escapes the configured root.
var ErrOutsideRoot = errors.New("storage: path escapes root")

// FilesystemProvider serves documentation artifacts from a local directory
// tree laid out as <project>/<language>/<version>/<file>. Production
// deployments front an object store; this provider covers single-node
// installs and tests.
type FilesystemProvider struct {
	root string
}

// NewFilesystemProvider constructs a provider rooted at the supplied directory.
func NewFilesystemProvider(root string) *FilesystemProvider {
	return &FilesystemProvider{root: filepath.Clean(root)}
}

// Open returns the artifact at storagePath along with serving metadata.
func (p *FilesystemProvider) Open(_ context.Context, storagePath string) (*interfaces.DocFile, error) {
	full, err := p.resolve(storagePath)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("storage: %s: %w", storagePath, fs.ErrNotExist)
		}
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.IsDir() {
		file.Close()
		return nil, fmt.Errorf("storage: %s: %w", storagePath, fs.ErrNotExist)
	}

	return &interfaces.DocFile{
		Reader:      file,
		ContentType: contentTypeFor(storagePath),
		Size:        info.Size(),
	}, nil
}

// Exists reports whether an artifact is present without opening it.
func (p *FilesystemProvider) Exists(_ context.Context, storagePath string) (bool, error) {
	full, err := p.resolve(storagePath)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

func (p *FilesystemProvider) resolve(storagePath string) (string, error) {
	cleaned := path.Clean("/" + storagePath)
	if cleaned == "/" {
		return "", ErrOutsideRoot
	}
	full := filepath.Join(p.root, filepath.FromSlash(cleaned))
	if !strings.HasPrefix(full, p.root+string(filepath.Separator)) {
		return "", ErrOutsideRoot
	}
	return full, nil
}

func contentTypeFor(storagePath string) string {
	if ct := mime.TypeByExtension(path.Ext(storagePath)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// NoOpProvider reports every artifact as missing.
type NoOpProvider struct{}

// NewNoOpProvider returns a provider that always misses. Containers fall back
// to it so serving degrades to 404s rather than nil panics when storage is
// not configured.
func NewNoOpProvider() interfaces.StorageProvider {
	return &NoOpProvider{}
}

func (*NoOpProvider) Open(_ context.Context, storagePath string) (*interfaces.DocFile, error) {
	return nil, fmt.Errorf("storage: %s: %w", storagePath, fs.ErrNotExist)
}

func (*NoOpProvider) Exists(context.Context, string) (bool, error) {
	return false, nil
}
