// SPDX-License-Identifier: MIT

// Package minio implements archive.Store on MinIO and other
// S3-compatible servers through minio-go.
package minio
