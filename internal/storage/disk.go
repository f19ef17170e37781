// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Alexspector123/Netflix-Mangadex-sub000/pkg/uuid"
)

// Disk stores objects under a root directory and exposes them under a URL prefix.
type Disk struct {
	root      string
	publicURL string
}

// NewDisk creates the root directory if needed.
func NewDisk(root, publicURL string) (*Disk, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create upload dir: %w", err)
	}
	return &Disk{root: root, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

// Root returns the directory served under the public URL.
func (disk *Disk) Root() string { return disk.root }

/*
Save copies the object into "pages/<uuid><ext>" and returns its public URL.

Returns:
  - string: Public URL of the stored object
  - error: ErrUnsupportedType, read or write failures
*/
func (disk *Disk) Save(ctx context.Context, object Object) (string, error) {
	ext, err := ImageExtension(object.Name)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := "pages/" + uuid.New() + ext
	target := filepath.Join(disk.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("storage: create dir: %w", err)
	}

	source, err := object.Open()
	if err != nil {
		return "", fmt.Errorf("storage: open %s: %w", object.Name, err)
	}
	defer source.Close()

	file, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("storage: create %s: %w", key, err)
	}

	if _, err := io.Copy(file, source); err != nil {
		file.Close()
		_ = os.Remove(target)
		return "", fmt.Errorf("storage: write %s: %w", key, err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(target)
		return "", fmt.Errorf("storage: close %s: %w", key, err)
	}

	return disk.publicURL + "/" + key, nil
}

// Remove deletes the file behind url when it belongs to this store.
func (disk *Disk) Remove(_ context.Context, url string) error {
	key, ok := strings.CutPrefix(url, disk.publicURL+"/")
	if !ok || strings.Contains(key, "..") {
		return nil
	}

	err := os.Remove(filepath.Join(disk.root, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: remove %s: %w", key, err)
	}
	return nil
}
