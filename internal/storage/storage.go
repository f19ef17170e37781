// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package storage persists uploaded page images and returns their public URLs.

The service only depends on [Uploader]; the disk implementation serves files
from a local directory mounted by the HTTP server.
*/
package storage

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
)

// ErrUnsupportedType is returned for files that are not page images.
var ErrUnsupportedType = errors.New("storage: unsupported image type")

// Object is one uploaded file waiting to be stored.
type Object struct {
	Name        string
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// Uploader stores page images.
type Uploader interface {
	// Save writes the object and returns its public URL.
	Save(ctx context.Context, object Object) (string, error)
	// Remove deletes a previously saved object by URL. Unknown URLs are ignored.
	Remove(ctx context.Context, url string) error
}

var imageExtensions = map[string]string{
	".jpg":  ".jpg",
	".jpeg": ".jpg",
	".png":  ".png",
	".webp": ".webp",
	".gif":  ".gif",
}

// ImageExtension returns the canonical extension for an image file name.
func ImageExtension(name string) (string, error) {
	ext, ok := imageExtensions[strings.ToLower(filepath.Ext(name))]
	if !ok {
		return "", ErrUnsupportedType
	}
	return ext, nil
}
