// SPDX-License-Identifier: MIT

package archive

import (
	"context"
	"errors"
	"os"
	"strings"
)

// ErrNotFound is returned when a blob does not exist.
// It maps to os.ErrNotExist so errors.Is works with filesystem errors too.
var ErrNotFound = os.ErrNotExist

// ErrInvalidName indicates an empty name or one escaping the store root.
var ErrInvalidName = errors.New("archive: invalid blob name")

// Store is a flat namespace of immutable blobs.
type Store interface {
	// Put writes data under name, replacing any previous blob.
	Put(ctx context.Context, name string, data []byte) error

	// Get returns a copy of the blob stored under name.
	Get(ctx context.Context, name string) ([]byte, error)

	// Delete removes name. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the sorted names starting with prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// hasPrefix reports whether name belongs to prefix; "" matches everything.
func hasPrefix(name, prefix string) bool {
	return prefix == "" || strings.HasPrefix(name, prefix)
}
