// Package snapshot persists binning models as self-describing binary
// artifacts.
//
// A snapshot is a small envelope around a codec-encoded Model payload:
//
//	[magic][version][codec name][compression][payload block][crc32]
//
// The codec and compression are recorded in the header, so readers never
// guess how a payload was written. The CRC32 trailer covers header and
// payload; corruption and truncation fail loudly on load.
//
// Publish and Fetch move snapshots through a blobstore.Store, which is how
// one partition shares its split points with siblings.
package snapshot
