// SPDX-License-Identifier: MIT

package nrmoifits

import "errors"

var (
	// ErrNilCollection indicates Write was called without a collection.
	ErrNilCollection = errors.New("nrmoifits: nil collection")

	// ErrNilStore indicates Write was called without a store.
	ErrNilStore = errors.New("nrmoifits: nil store")

	// ErrReadback indicates the written file did not decode to the
	// expected tables and row counts.
	ErrReadback = errors.New("nrmoifits: readback mismatch")
)
