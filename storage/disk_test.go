package storage

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func Test_Put_Writes_Under_Fresh_Name(t *testing.T) {
	req := require.New(t)
	root := filepath.Join(t.TempDir(), "uploads")
	store, err := NewDiskObjectStore(logs.GetLoggerFromLevel(slog.LevelError), root, "http://localhost:8081/files/")
	req.NoError(err)

	first, err := store.Put(context.Background(), ".PDF", "application/pdf", strings.NewReader("one"))
	req.NoError(err)
	second, err := store.Put(context.Background(), ".pdf", "application/pdf", strings.NewReader("two"))
	req.NoError(err)

	// Names are fresh, keep the lowered extension and stay inside root
	req.NotEqual(first, second)
	req.True(strings.HasPrefix(first, "http://localhost:8081/files/"))
	req.True(strings.HasSuffix(first, ".pdf"))

	data, err := os.ReadFile(filepath.Join(root, strings.TrimPrefix(first, "http://localhost:8081/files/")))
	req.NoError(err)
	req.Equal("one", string(data))

	entries, err := os.ReadDir(root)
	req.NoError(err)
	req.Len(entries, 2)
}

func Test_Put_Canceled_Context(t *testing.T) {
	req := require.New(t)
	store, err := NewDiskObjectStore(logs.GetLoggerFromLevel(slog.LevelError), t.TempDir(), "http://files")
	req.NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = store.Put(ctx, ".txt", "text/plain", strings.NewReader("x"))
	req.ErrorIs(err, context.Canceled)
}

func Test_Put_Drops_Unsafe_Extensions(t *testing.T) {
	req := require.New(t)
	root := t.TempDir()
	store, err := NewDiskObjectStore(logs.GetLoggerFromLevel(slog.LevelError), root, "http://files")
	req.NoError(err)

	for _, extension := range []string{"", "txt", "./../x", ".ht ml", ".averyverylongone"} {
		url, err := store.Put(context.Background(), extension, "text/plain", strings.NewReader("x"))
		req.NoError(err)
		name := strings.TrimPrefix(url, "http://files/")
		req.Empty(filepath.Ext(name), extension)
		req.FileExists(filepath.Join(root, name))
	}
}
