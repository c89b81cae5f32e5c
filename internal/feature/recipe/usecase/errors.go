// Package usecase はrecipeフィーチャーのビジネスロジックを提供します。
package usecase

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrRecipeNotFound is returned by repositories when no recipe matches the id and owner.
	ErrRecipeNotFound = errors.New("recipe not found")

	// ErrInvalidImage is returned by image stores when the upload does not decode as a supported image.
	ErrInvalidImage = errors.New("invalid image")
)

// UnknownIDsError reports related ids that do not exist.
type UnknownIDsError struct {
	Field string
	IDs   []uint
}

func (e *UnknownIDsError) Error() string {
	parts := make([]string, 0, len(e.IDs))
	for _, id := range e.IDs {
		parts = append(parts, strconv.FormatUint(uint64(id), 10))
	}
	return fmt.Sprintf("unknown %s: %s", e.Field, strings.Join(parts, ","))
}
