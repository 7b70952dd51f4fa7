package upload

import (
	"errors"
	"strings"
)

// MaxImageSize is the largest accepted product image, 5 MiB.
const MaxImageSize int64 = 5 << 20

// MaxRequestBody leaves room for a full-size image plus multipart framing.
const MaxRequestBody = int(MaxImageSize) + 1<<20

var (
	ErrNotAnImage       = errors.New("Please upload an image file")
	ErrImageTooLarge    = errors.New("Image must be less than 5MB")
	ErrUploadInProgress = errors.New("an upload is already in progress")
	ErrNotUploading     = errors.New("no upload in progress")
)

// State of the image field on the product form.
type State int

const (
	StateEmpty State = iota
	StateUploading
	StatePreviewing
	StateError
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateUploading:
		return "uploading"
	case StatePreviewing:
		return "previewing"
	case StateError:
		return "error"
	}
	return "unknown"
}

// File describes a chosen file before its bytes are read.
type File struct {
	Name        string
	ContentType string
	Size        int64
}

// Widget tracks the product image field: a chosen file goes through
// uploading to previewing, or a URL is typed in and previews directly.
// URL is the value the product form submits as image_url.
type Widget struct {
	state State
	url   string
	err   error
}

// NewWidget starts in previewing when the product already has an image.
func NewWidget(existingURL string) *Widget {
	w := &Widget{}
	if strings.TrimSpace(existingURL) != "" {
		w.state = StatePreviewing
		w.url = existingURL
	}
	return w
}

func (w *Widget) State() State    { return w.state }
func (w *Widget) URL() string     { return w.url }
func (w *Widget) Err() error      { return w.err }
func (w *Widget) Uploading() bool { return w.state == StateUploading }

// Select validates a chosen file and moves to uploading, or to error when the
// file is not an image or is larger than MaxImageSize.
func (w *Widget) Select(f File) error {
	if w.state == StateUploading {
		return ErrUploadInProgress
	}
	var err error
	switch {
	case !strings.HasPrefix(strings.ToLower(f.ContentType), "image/"):
		err = ErrNotAnImage
	case f.Size > MaxImageSize:
		err = ErrImageTooLarge
	}
	if err != nil {
		w.state, w.err = StateError, err
		return err
	}
	w.state, w.err = StateUploading, nil
	return nil
}

// Complete records the public URL of a finished upload.
func (w *Widget) Complete(url string) error {
	if w.state != StateUploading {
		return ErrNotUploading
	}
	w.state, w.url, w.err = StatePreviewing, url, nil
	return nil
}

// Fail records a storage failure for the upload in progress.
func (w *Widget) Fail(err error) error {
	if w.state != StateUploading {
		return ErrNotUploading
	}
	w.state, w.err = StateError, err
	return nil
}

// EnterURL takes a typed URL and previews it without uploading. A blank URL empties the field.
func (w *Widget) EnterURL(url string) error {
	if w.state == StateUploading {
		return ErrUploadInProgress
	}
	url = strings.TrimSpace(url)
	w.err = nil
	if url == "" {
		w.state, w.url = StateEmpty, ""
		return nil
	}
	w.state, w.url = StatePreviewing, url
	return nil
}

// Clear empties the field.
func (w *Widget) Clear() error {
	if w.state == StateUploading {
		return ErrUploadInProgress
	}
	w.state, w.url, w.err = StateEmpty, "", nil
	return nil
}
