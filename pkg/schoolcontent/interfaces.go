package schoolcontent

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// ListPostsParams is the repository-level filter/window for one collection.
// Sorting is fixed policy (pinned first, then most recent publish date) and
// not caller-configurable.
type ListPostsParams struct {
	// Type filters the shared publications collection by its type column.
	Type string

	// Level filters achievements by event_level.
	Level string

	Offset int
	Limit  int
}

// Repository defines the interface for post and media persistence.
type Repository interface {
	// Post operations. The backing collection is derived from the post's
	// kind; detail lookups return ErrPostNotFound on zero rows.
	CreatePost(ctx context.Context, post *Post) error
	GetPostByID(ctx context.Context, collection string, id uuid.UUID) (*Post, error)
	GetPostBySlug(ctx context.Context, collection string, slug string) (*Post, error)
	UpdatePost(ctx context.Context, post *Post) error
	DeletePost(ctx context.Context, collection string, id uuid.UUID) error

	// ListPosts returns one page of rows plus the total matching count
	// irrespective of the window.
	ListPosts(ctx context.Context, collection string, params ListPostsParams) ([]*Post, int, error)

	// ListAllPosts returns every row of a collection ordered by creation
	// time descending (admin combined view building block).
	ListAllPosts(ctx context.Context, collection string) ([]*Post, error)

	// Media operations. ListMediaByEntities issues one batched query for all
	// ids and returns rows ordered by display_order ascending.
	ListMediaByEntities(ctx context.Context, entityType string, ids []uuid.UUID) ([]*MediaItem, error)
	CreateMediaItems(ctx context.Context, items []*MediaItem) error
	DeleteMediaByEntity(ctx context.Context, entityType string, entityID uuid.UUID) error
	DeleteMediaByEntityID(ctx context.Context, entityID uuid.UUID) error

	// Push subscription operations.
	SavePushSubscription(ctx context.Context, sub *PushSubscription) error
	ListPushSubscriptions(ctx context.Context) ([]*PushSubscription, error)
	DeletePushSubscription(ctx context.Context, endpoint string) error
}

// BlobStore defines the interface for media hosting backends.
type BlobStore interface {
	// Upload stores content under the given key.
	Upload(ctx context.Context, objectKey string, reader io.Reader) error

	// Download retrieves content for the given key.
	Download(ctx context.Context, objectKey string) (io.ReadCloser, error)

	// Delete removes content for the given key.
	Delete(ctx context.Context, objectKey string) error

	// GetDownloadURL returns a public URL for the stored object.
	GetDownloadURL(ctx context.Context, objectKey string) (string, error)

	// GetObjectMeta retrieves metadata for a stored object.
	GetObjectMeta(ctx context.Context, objectKey string) (*ObjectMeta, error)
}

// ObjectMeta contains metadata about an object in storage
type ObjectMeta struct {
	Key         string
	Size        int64
	ContentType string
	UpdatedAt   time.Time
	ETag        string
}
