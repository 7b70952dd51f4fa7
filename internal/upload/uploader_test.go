package upload

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) Put(ctx context.Context, bucket, path, contentType string, data []byte) (string, error) {
	args := m.Called(ctx, bucket, path, contentType, data)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStore) PublicURL(bucket, path string) string {
	args := m.Called(bucket, path)
	return args.String(0)
}

var pngBytes = append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, make([]byte, 32)...)

func newTestUploader(store ObjectStore) *Uploader {
	u := NewUploader(store, "product-images")
	u.now = func() time.Time { return time.Unix(1700000000, 0) }
	return u
}

func TestUploader_Success(t *testing.T) {
	store := new(MockObjectStore)
	pathMatcher := mock.MatchedBy(func(p string) bool {
		return len(p) > len("products/") && p[:9] == "products/" && p[len(p)-15:] == "-1700000000.png"
	})
	store.On("Put", mock.Anything, "product-images", pathMatcher, "image/png", pngBytes).Return("product-images/products/x.png", nil)
	store.On("PublicURL", "product-images", pathMatcher).Return("https://cdn/products/x.png")

	w, err := newTestUploader(store).Upload(context.Background(), File{Name: "x.png", ContentType: "image/png"}, pngBytes)
	require.NoError(t, err)
	assert.Equal(t, StatePreviewing, w.State())
	assert.Equal(t, "https://cdn/products/x.png", w.URL())
	store.AssertExpectations(t)
}

func TestUploader_RejectsDisguisedFile(t *testing.T) {
	store := new(MockObjectStore)

	w, err := newTestUploader(store).Upload(context.Background(),
		File{Name: "x.png", ContentType: "image/png"}, []byte("%PDF-1.4 not an image"))
	assert.Equal(t, ErrNotAnImage, err)
	assert.Equal(t, StateError, w.State())
	store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUploader_RejectsOversizeBody(t *testing.T) {
	store := new(MockObjectStore)
	big := append(append([]byte{}, pngBytes...), make([]byte, MaxImageSize)...)

	_, err := newTestUploader(store).Upload(context.Background(), File{ContentType: "image/png", Size: 10}, big)
	assert.Equal(t, ErrImageTooLarge, err)
	store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUploader_StorageError(t *testing.T) {
	store := new(MockObjectStore)
	store.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("The resource already exists"))

	w, err := newTestUploader(store).Upload(context.Background(), File{ContentType: "image/png"}, pngBytes)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "The resource already exists")
	assert.Equal(t, StateError, w.State())
	store.AssertNotCalled(t, "PublicURL", mock.Anything, mock.Anything)
}
