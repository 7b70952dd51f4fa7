package upload

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/h2non/filetype"
	"github.com/pkg/errors"
)

// ObjectStore is the backend's object storage.
type ObjectStore interface {
	Put(ctx context.Context, bucket, path, contentType string, data []byte) (string, error)
	PublicURL(bucket, path string) string
}

// Uploader puts product images into a bucket and hands back their public URL.
type Uploader struct {
	store  ObjectStore
	bucket string
	now    func() time.Time
}

func NewUploader(store ObjectStore, bucket string) *Uploader {
	return &Uploader{store: store, bucket: bucket, now: time.Now}
}

// Upload runs one upload through a fresh Widget and returns it in its final
// state: previewing with the public URL on success, error otherwise.
func (u *Uploader) Upload(ctx context.Context, f File, data []byte) (*Widget, error) {
	w := NewWidget("")
	if int64(len(data)) > f.Size {
		f.Size = int64(len(data))
	}
	if err := w.Select(f); err != nil {
		return w, err
	}

	// The declared type comes from the browser; trust the bytes instead.
	kind, err := filetype.Match(data)
	if err != nil || !filetype.IsImage(data) {
		_ = w.Fail(ErrNotAnImage)
		return w, ErrNotAnImage
	}

	ext := kind.Extension
	if ext == "" {
		ext = strings.TrimPrefix(filepath.Ext(f.Name), ".")
	}
	path := fmt.Sprintf("products/%s-%d.%s", uuid.New().String(), u.now().Unix(), ext)

	if _, err := u.store.Put(ctx, u.bucket, path, kind.MIME.Value, data); err != nil {
		_ = w.Fail(err)
		return w, errors.Wrap(err, "upload image")
	}

	_ = w.Complete(u.store.PublicURL(u.bucket, path))
	return w, nil
}
