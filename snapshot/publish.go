package snapshot

import (
	"bytes"
	"context"
	"fmt"

	"github.com/hupe1980/qbin"
	"github.com/hupe1980/qbin/blobstore"
)

// Publish writes the model as a snapshot blob under the given name.
// Publishing the same name again replaces the artifact (last write wins).
func Publish(ctx context.Context, store blobstore.Store, name string, m *qbin.Model, optFns ...func(*Options)) error {
	var buf bytes.Buffer
	if err := Write(&buf, m, optFns...); err != nil {
		return err
	}
	if err := store.Put(ctx, name, buf.Bytes()); err != nil {
		return fmt.Errorf("publish %s: %w", name, err)
	}
	return nil
}

// Fetch loads a published model snapshot by name.
func Fetch(ctx context.Context, store blobstore.Store, name string) (*qbin.Model, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}
	defer blob.Close()

	r, err := blob.Reader(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}
	defer r.Close()

	m, err := Read(r)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}
	return m, nil
}
