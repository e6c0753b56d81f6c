package snapshot

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/qbin"
	"github.com/hupe1980/qbin/codec"
)

const (
	// Magic identifies qbin snapshot files (ASCII: "QBN1").
	Magic = 0x51424E31
	// Version is the current snapshot format version.
	Version = 1

	// maxPayloadSize bounds the payload block a reader will allocate.
	// Models are split points and counts; anything near this limit is
	// corruption, not data.
	maxPayloadSize = 1 << 30
)

var (
	// ErrInvalidMagic is returned when the file does not start with Magic.
	ErrInvalidMagic = errors.New("invalid magic number")
	// ErrInvalidVersion is returned for unsupported format versions.
	ErrInvalidVersion = errors.New("unsupported snapshot version")
	// ErrUnknownCodec is returned when the header names a codec this
	// build does not provide.
	ErrUnknownCodec = errors.New("unknown snapshot codec")
)

// Options configure snapshot writing.
type Options struct {
	// Codec encodes the model payload. Defaults to codec.Default.
	Codec codec.Codec
	// Compression compresses the encoded payload. Defaults to zstd.
	Compression Compression
}

// Write serializes the model to w as a self-describing snapshot.
func Write(w io.Writer, m *qbin.Model, optFns ...func(*Options)) error {
	opts := Options{
		Codec:       codec.Default,
		Compression: CompressionZstd,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Codec == nil {
		opts.Codec = codec.Default
	}

	if err := m.Validate(); err != nil {
		return fmt.Errorf("refusing to write invalid model: %w", err)
	}

	payload, err := opts.Codec.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	block, err := compressBlock(payload, opts.Compression)
	if err != nil {
		return fmt.Errorf("compress payload: %w", err)
	}

	cw := NewChecksumWriter(w)

	var head [4]byte
	binary.LittleEndian.PutUint32(head[:], Magic)
	if _, err := cw.Write(head[:]); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(head[:], Version)
	if _, err := cw.Write(head[:]); err != nil {
		return err
	}

	name := opts.Codec.Name()
	if len(name) > 255 {
		return fmt.Errorf("codec name too long: %q", name)
	}
	if _, err := cw.Write([]byte{byte(len(name))}); err != nil {
		return err
	}
	if _, err := cw.Write([]byte(name)); err != nil {
		return err
	}
	if _, err := cw.Write([]byte{byte(opts.Compression)}); err != nil {
		return err
	}

	binary.LittleEndian.PutUint32(head[:], uint32(len(block)))
	if _, err := cw.Write(head[:]); err != nil {
		return err
	}
	if _, err := cw.Write(block); err != nil {
		return err
	}

	// CRC trailer covers everything written so far.
	binary.LittleEndian.PutUint32(head[:], cw.Sum())
	_, err = w.Write(head[:])
	return err
}

// Read deserializes a snapshot written by Write and validates the model.
func Read(r io.Reader) (*qbin.Model, error) {
	cr := NewChecksumReader(r)

	var head [4]byte
	if _, err := io.ReadFull(cr, head[:]); err != nil {
		return nil, fmt.Errorf("read magic: %w", err)
	}
	if binary.LittleEndian.Uint32(head[:]) != Magic {
		return nil, ErrInvalidMagic
	}
	if _, err := io.ReadFull(cr, head[:]); err != nil {
		return nil, fmt.Errorf("read version: %w", err)
	}
	if v := binary.LittleEndian.Uint32(head[:]); v != Version {
		return nil, fmt.Errorf("%w: %d", ErrInvalidVersion, v)
	}

	if _, err := io.ReadFull(cr, head[:1]); err != nil {
		return nil, fmt.Errorf("read codec name length: %w", err)
	}
	nameBytes := make([]byte, head[0])
	if _, err := io.ReadFull(cr, nameBytes); err != nil {
		return nil, fmt.Errorf("read codec name: %w", err)
	}
	c, ok := codec.ByName(string(nameBytes))
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, nameBytes)
	}

	if _, err := io.ReadFull(cr, head[:1]); err != nil {
		return nil, fmt.Errorf("read compression: %w", err)
	}
	compression := Compression(head[0])

	if _, err := io.ReadFull(cr, head[:]); err != nil {
		return nil, fmt.Errorf("read payload length: %w", err)
	}
	blockLen := binary.LittleEndian.Uint32(head[:])
	if blockLen > maxPayloadSize {
		return nil, fmt.Errorf("payload length %d exceeds limit", blockLen)
	}
	block := make([]byte, blockLen)
	if _, err := io.ReadFull(cr, block); err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}

	expected := cr.Sum()
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return nil, fmt.Errorf("read checksum: %w", err)
	}
	if stored := binary.LittleEndian.Uint32(head[:]); stored != expected {
		return nil, &ChecksumMismatchError{Expected: stored, Actual: expected}
	}

	payload, err := decompressBlock(block, compression)
	if err != nil {
		return nil, fmt.Errorf("decompress payload: %w", err)
	}

	var m qbin.Model
	if err := c.Unmarshal(payload, &m); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("snapshot carries invalid model: %w", err)
	}
	return &m, nil
}
