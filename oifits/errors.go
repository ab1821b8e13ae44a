// SPDX-License-Identifier: MIT

package oifits

import "errors"

var (
	// ErrBadCard indicates a header card that cannot be formatted or parsed.
	ErrBadCard = errors.New("oifits: bad header card")

	// ErrBadHeader indicates a header missing a mandatory keyword or END.
	ErrBadHeader = errors.New("oifits: bad header")

	// ErrBadColumn indicates a column with inconsistent format, repeat or data.
	ErrBadColumn = errors.New("oifits: bad column")

	// ErrUnsupported indicates a FITS construct outside the supported subset.
	ErrUnsupported = errors.New("oifits: unsupported FITS feature")

	// ErrTruncated indicates input that ends inside a header or data unit.
	ErrTruncated = errors.New("oifits: truncated file")

	// ErrNilDocument indicates Encode was called without a collection.
	ErrNilDocument = errors.New("oifits: document has no collection")
)
