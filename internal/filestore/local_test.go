package filestore

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"photodrop/internal/config"
)

type seekableBuffer struct {
	*bytes.Reader
}

func (seekableBuffer) Close() error { return nil }

func newLocalStore(t *testing.T) (Store, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := New(config.FileStoreConfig{
		Type: "local",
		Data: map[string]interface{}{"dir": dir},
	})
	require.NoError(t, err)
	return store, dir
}

func TestLocalSaveAndOpen(t *testing.T) {
	store, dir := newLocalStore(t)
	content := []byte("fake image bytes")

	err := store.Save(context.Background(), "123-abc-cat.jpg", seekableBuffer{bytes.NewReader(content)}, int64(len(content)))
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "123-abc-cat.jpg"))
	require.NoError(t, err, "bytes must be on disk after Save returns")

	reader, err := store.Open(context.Background(), "123-abc-cat.jpg")
	require.NoError(t, err)
	defer reader.Close()
	got, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.Equal(t, content, got)
}

func TestLocalRejectsPathKeys(t *testing.T) {
	store, _ := newLocalStore(t)
	payload := seekableBuffer{bytes.NewReader([]byte("x"))}

	require.Error(t, store.Save(context.Background(), "../escape.jpg", payload, 1))
	_, err := store.Open(context.Background(), "a/b.jpg")
	require.Error(t, err)
}

func TestLocalOpenMissingKey(t *testing.T) {
	store, _ := newLocalStore(t)
	_, err := store.Open(context.Background(), "nope.jpg")
	require.Error(t, err)
}

func TestNewUnknownType(t *testing.T) {
	_, err := New(config.FileStoreConfig{Type: "tape"})
	require.Error(t, err)
}

func TestNewRequiresDir(t *testing.T) {
	_, err := New(config.FileStoreConfig{Type: "local", Data: map[string]interface{}{}})
	require.Error(t, err)
}
