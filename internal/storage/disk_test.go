// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/storage"
)

func object(name, body string) storage.Object {
	return storage.Object{
		Name: name,
		Open: func() (io.ReadCloser, error) { return io.NopCloser(strings.NewReader(body)), nil },
	}
}

/*
TestDisk_SaveAndRemove stores an image under the public prefix and deletes it again.
*/
func TestDisk_SaveAndRemove(t *testing.T) {
	root := t.TempDir()
	disk, err := storage.NewDisk(root, "/uploads/")
	require.NoError(t, err)

	url, err := disk.Save(context.Background(), object("Page-01.JPEG", "img"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/pages/"))
	assert.True(t, strings.HasSuffix(url, ".jpg"))

	path := filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(url, "/uploads/")))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "img", string(content))

	require.NoError(t, disk.Remove(context.Background(), url))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestDisk_RejectsNonImages(t *testing.T) {
	disk, err := storage.NewDisk(t.TempDir(), "/uploads")
	require.NoError(t, err)

	_, err = disk.Save(context.Background(), object("notes.txt", "text"))
	assert.ErrorIs(t, err, storage.ErrUnsupportedType)
}

func TestDisk_RemoveIgnoresForeignURLs(t *testing.T) {
	disk, err := storage.NewDisk(t.TempDir(), "/uploads")
	require.NoError(t, err)

	assert.NoError(t, disk.Remove(context.Background(), "https://cdn.example.com/pages/a.jpg"))
	assert.NoError(t, disk.Remove(context.Background(), "/uploads/../etc/passwd"))
	assert.NoError(t, disk.Remove(context.Background(), "/uploads/pages/missing.jpg"))
}
