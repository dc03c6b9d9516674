package snapshot

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBackend_DefaultsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")

	res, err := NewBackend(context.Background(), FactoryConfig{FilePath: path})
	require.NoError(t, err)
	defer res.Close()

	fb, ok := res.Backend.(*FileBackend)
	require.True(t, ok)
	assert.Equal(t, path, fb.Path())
}

func TestNewBackend_ConfigErrors(t *testing.T) {
	cases := map[string]FactoryConfig{
		"file without path":  {Backend: "file"},
		"redis without addr": {Backend: "redis"},
		"unknown backend":    {Backend: "s3", FilePath: "x.json"},
	}
	for name, cfg := range cases {
		_, err := NewBackend(context.Background(), cfg)
		assert.Error(t, err, name)
	}
}
