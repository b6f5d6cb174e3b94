package memory

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sekolahkita/school-content/pkg/schoolcontent"
)

// Backend is an in-memory implementation of the schoolcontent.BlobStore
// interface, intended for tests and standalone demos.
type Backend struct {
	mu        sync.RWMutex
	urlPrefix string
	objects   map[string][]byte
	updatedAt map[string]time.Time
}

// New creates a new in-memory storage backend. The urlPrefix is prepended to
// object keys when building public media URLs and may be empty.
func New(urlPrefix string) schoolcontent.BlobStore {
	return &Backend{
		urlPrefix: strings.TrimSuffix(urlPrefix, "/"),
		objects:   make(map[string][]byte),
		updatedAt: make(map[string]time.Time),
	}
}

// Upload stores content in memory
func (b *Backend) Upload(ctx context.Context, objectKey string, reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.objects[objectKey] = data
	b.updatedAt[objectKey] = time.Now().UTC()
	return nil
}

// Download retrieves content from memory
func (b *Backend) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.objects[objectKey]
	if !exists {
		return nil, errors.New("object not found")
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

// Delete deletes content from memory
func (b *Backend) Delete(ctx context.Context, objectKey string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.objects[objectKey]; !exists {
		return errors.New("object not found")
	}

	delete(b.objects, objectKey)
	delete(b.updatedAt, objectKey)
	return nil
}

// GetDownloadURL returns the public URL for an object
func (b *Backend) GetDownloadURL(ctx context.Context, objectKey string) (string, error) {
	if b.urlPrefix == "" {
		return "", errors.New("direct download required for memory backend")
	}
	return fmt.Sprintf("%s/%s", b.urlPrefix, objectKey), nil
}

// GetObjectMeta retrieves metadata for an object in memory
func (b *Backend) GetObjectMeta(ctx context.Context, objectKey string) (*schoolcontent.ObjectMeta, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.objects[objectKey]
	if !exists {
		return nil, errors.New("object not found")
	}

	contentType := "application/octet-stream"
	if len(data) > 0 {
		contentType = http.DetectContentType(data)
	}

	return &schoolcontent.ObjectMeta{
		Key:         objectKey,
		Size:        int64(len(data)),
		ContentType: contentType,
		UpdatedAt:   b.updatedAt[objectKey],
	}, nil
}
