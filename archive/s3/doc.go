// SPDX-License-Identifier: MIT

// Package s3 implements archive.Store on Amazon S3 with aws-sdk-go-v2.
//
// The store talks to a narrow Client interface satisfied by *s3.Client,
// so tests can substitute a mock.
package s3
