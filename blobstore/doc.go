// Package blobstore provides storage abstraction for published binning
// model artifacts.
//
// Store is the interface for writing and reading immutable snapshot
// blobs. Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - MemoryStore: in-memory, for tests and development
//   - LocalStore: local filesystem with atomic writes
//   - s3.Store: Amazon S3
//   - minio.Store: MinIO and other S3-compatible object stores
//
// Model artifacts are kilobyte-scale and consumed whole, so Blob exposes
// a streaming reader rather than random access.
package blobstore
