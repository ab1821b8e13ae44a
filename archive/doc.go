// SPDX-License-Identifier: MIT

// Package archive stores finished OIFITS files as named blobs.
//
// Store is the abstraction the converter writes through. Names are
// slash-separated keys; every implementation replaces an existing blob
// atomically on Put and reports missing blobs with ErrNotFound.
//
// Implementations:
//   - LocalStore: a directory on disk (temp file + rename).
//   - MemoryStore: an in-process map, safe for concurrent use.
//   - archive/s3 and archive/minio: object storage.
package archive
