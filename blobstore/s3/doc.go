// Package s3 implements blobstore.Store backed by Amazon S3.
//
// Uploads go through the s3 transfer manager; snapshots are small, but the
// manager handles retries and content integrity uniformly.
package s3
