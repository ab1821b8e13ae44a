// SPDX-License-Identifier: MIT

// Package oifits writes and reads OIFITS (v1) files.
//
// The package has two layers:
//
//   - A minimal FITS layer: 80-character header cards grouped in
//     2880-byte blocks, binary tables (XTENSION='BINTABLE') with column
//     formats A, L, I, J, E and D, and 2-D float image extensions. Data are
//     big-endian. WriteHDUs and Decode operate on this layer.
//   - The OIFITS mapping: Document turns an observable.Collection into the
//     primary HDU followed by OI_WAVELENGTH, OI_ARRAY, OI_TARGET, OI_VIS,
//     OI_VIS2, OI_T3 and an optional COVARIANCE image.
//
// Phases are carried in radians in memory and written in degrees.
// OI_VIS is always emitted with zero rows; visibility records are assembled
// upstream but not stored.
//
// Marshal optionally gzip-compresses the output; Decode detects gzip input
// by its magic bytes.
package oifits
