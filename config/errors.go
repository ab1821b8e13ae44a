// SPDX-License-Identifier: MIT

package config

import "errors"

var (
	// ErrUnknownKey indicates a configuration key that is not recognized.
	ErrUnknownKey = errors.New("config: unknown key")

	// ErrBadValue indicates a value that cannot be parsed for its key.
	ErrBadValue = errors.New("config: malformed value")

	// ErrInvalid indicates a configuration that fails validation.
	ErrInvalid = errors.New("config: invalid configuration")
)
