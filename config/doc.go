// SPDX-License-Identifier: MIT

// Package config holds the run configuration of an OIFITS conversion: data
// directory, target coordinates, observation date, instrument and array
// names, parallactic angle, mask rotation, closure-phase flag ceiling and an
// optional covariance matrix.
//
// Every field has a documented default (see the Default* constants). A
// Config is built from defaults plus functional options, or parsed from a
// key/value mapping (FromMap) or a dotenv file (FromEnvFile). Unknown keys
// are rejected instead of silently falling back, so a typo surfaces as an
// error rather than as a default.
package config
