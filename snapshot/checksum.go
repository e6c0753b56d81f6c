package snapshot

import (
	"fmt"
	"hash"
	"hash/crc32"
	"io"
)

// Snapshots carry a CRC32 (IEEE) trailer. It detects accidental
// corruption in transit or at rest; it is not tamper protection.

// ChecksumMismatchError is returned when the stored trailer does not
// match the checksum recomputed over the snapshot body.
type ChecksumMismatchError struct {
	Expected uint32
	Actual   uint32
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch: expected 0x%08x, got 0x%08x", e.Expected, e.Actual)
}

// ChecksumWriter tees every write into a running CRC32.
type ChecksumWriter struct {
	w   io.Writer
	crc hash.Hash32
}

// NewChecksumWriter creates a new checksumming writer.
func NewChecksumWriter(w io.Writer) *ChecksumWriter {
	return &ChecksumWriter{w: w, crc: crc32.NewIEEE()}
}

// Write implements io.Writer.
func (cw *ChecksumWriter) Write(p []byte) (int, error) {
	cw.crc.Write(p) // never fails per hash.Hash contract
	return cw.w.Write(p)
}

// Sum returns the checksum of everything written so far.
func (cw *ChecksumWriter) Sum() uint32 {
	return cw.crc.Sum32()
}

// ChecksumReader tees every read into a running CRC32.
type ChecksumReader struct {
	r   io.Reader
	crc hash.Hash32
}

// NewChecksumReader creates a new checksumming reader.
func NewChecksumReader(r io.Reader) *ChecksumReader {
	return &ChecksumReader{r: r, crc: crc32.NewIEEE()}
}

// Read implements io.Reader.
func (cr *ChecksumReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	if n > 0 {
		cr.crc.Write(p[:n])
	}
	return n, err
}

// Sum returns the checksum of everything read so far.
func (cr *ChecksumReader) Sum() uint32 {
	return cr.crc.Sum32()
}

// Verify compares the running checksum against a stored trailer value.
func (cr *ChecksumReader) Verify(expected uint32) error {
	if actual := cr.Sum(); actual != expected {
		return &ChecksumMismatchError{Expected: expected, Actual: actual}
	}
	return nil
}
