// Package storage stores uploaded recipe images on the local filesystem.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "golang.org/x/image/webp"

	"recipe_backend/internal/feature/recipe/usecase"
)

// RecipeImageDir is the directory under the media root holding recipe images.
const RecipeImageDir = "uploads/recipe"

// extensions maps image.DecodeConfig format names to file extensions.
var extensions = map[string]string{
	"jpeg": ".jpg",
	"png":  ".png",
	"gif":  ".gif",
	"webp": ".webp",
}

// ImageStorage はアップロード画像をメディアルート配下に保存します。
// ファイル名はUUIDで、拡張子は検出した形式から決まります。
type ImageStorage struct {
	root     string
	maxBytes int64
}

var _ usecase.ImageStore = (*ImageStorage)(nil)

// NewImageStorage creates the recipe image directory under root if needed.
// maxBytes bounds how much of an upload is read; zero means no bound.
func NewImageStorage(root string, maxBytes int64) (*ImageStorage, error) {
	if root == "" {
		return nil, fmt.Errorf("media root cannot be empty")
	}
	if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(RecipeImageDir)), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}
	return &ImageStorage{root: root, maxBytes: maxBytes}, nil
}

// Save validates r as a JPEG, PNG, GIF or WebP image and writes it to disk.
// It returns the slash-separated path relative to the media root.
func (s *ImageStorage) Save(ctx context.Context, r io.Reader) (string, error) {
	if s.maxBytes > 0 {
		r = io.LimitReader(r, s.maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return "", usecase.ErrInvalidImage
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", usecase.ErrInvalidImage
	}
	ext, ok := extensions[format]
	if !ok {
		return "", usecase.ErrInvalidImage
	}
	// The header alone does not prove the pixel data is intact.
	if _, _, err := image.Decode(bytes.NewReader(data)); err != nil {
		return "", usecase.ErrInvalidImage
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	rel := path.Join(RecipeImageDir, uuid.NewString()+ext)
	if err := os.WriteFile(s.abs(rel), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}
	return rel, nil
}

// Remove deletes a stored image. A missing file is not an error.
func (s *ImageStorage) Remove(ctx context.Context, rel string) error {
	if !strings.HasPrefix(path.Clean(rel), RecipeImageDir+"/") {
		return fmt.Errorf("refusing to remove %q outside %s", rel, RecipeImageDir)
	}
	if err := os.Remove(s.abs(rel)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove image file: %w", err)
	}
	return nil
}

func (s *ImageStorage) abs(rel string) string {
	return filepath.Join(s.root, filepath.FromSlash(path.Clean(rel)))
}
