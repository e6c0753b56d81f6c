// Package minio implements blobstore.Store for MinIO and other
// S3-compatible object stores via the native MinIO client.
package minio
