package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalPut(t *testing.T) {
	root := t.TempDir()
	store := NewLocal(root, "/uploads/", 1024)

	url, err := store.Put(context.Background(), "menu_images", "Pasta.JPG", strings.NewReader("img"))
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/menu_images/"))
	assert.True(t, strings.HasSuffix(url, ".jpg"))

	data, err := os.ReadFile(filepath.Join(root, "menu_images", filepath.Base(url)))
	assert.NoError(t, err)
	assert.Equal(t, "img", string(data))
}

func TestLocalPutRejects(t *testing.T) {
	root := t.TempDir()
	store := NewLocal(root, "/uploads", 4)

	_, err := store.Put(context.Background(), "menu_images", "script.sh", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = store.Put(context.Background(), "menu_images", "big.png", strings.NewReader("too large"))
	assert.ErrorIs(t, err, ErrTooLarge)

	entries, _ := os.ReadDir(filepath.Join(root, "menu_images"))
	assert.Len(t, entries, 0)
}
