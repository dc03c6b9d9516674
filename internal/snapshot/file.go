package snapshot

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

type FileBackend struct {
	path string
}

func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

func (b *FileBackend) Path() string { return b.path }

func (b *FileBackend) Load(_ context.Context) ([]Product, error) {
	raw, err := os.ReadFile(b.path)
	if errors.Is(err, os.ErrNotExist) {
		return []Product{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read snapshot %s", b.path)
	}
	var out []Product
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, errors.Wrapf(err, "decode snapshot %s", b.path)
	}
	if out == nil {
		out = []Product{}
	}
	return out, nil
}

// Save writes to a temp file in the same directory and renames it over the target.
func (b *FileBackend) Save(_ context.Context, products []Product) error {
	if products == nil {
		products = []Product{}
	}
	raw, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode snapshot")
	}

	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "create snapshot dir %s", dir)
	}
	tmp, err := os.CreateTemp(dir, ".products-*.json")
	if err != nil {
		return errors.Wrap(err, "create temp snapshot")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return errors.Wrap(err, "write temp snapshot")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close temp snapshot")
	}
	return errors.Wrapf(os.Rename(tmp.Name(), b.path), "replace snapshot %s", b.path)
}
