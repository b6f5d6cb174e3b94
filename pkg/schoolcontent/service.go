package schoolcontent

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the main interface for the school-content library.
type Service interface {
	// Post operations
	ListPosts(ctx context.Context, req ListPostsRequest) (*PostList, error)
	ListAllContent(ctx context.Context) ([]*Post, error)
	GetPost(ctx context.Context, kind Kind, idOrSlug string) (*Post, error)
	CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error)
	UpdatePost(ctx context.Context, req UpdatePostRequest) (*Post, error)
	DeletePost(ctx context.Context, kind Kind, id uuid.UUID) error

	// Media aggregation
	GetMediaForEntities(ctx context.Context, entityType string, ids []uuid.UUID) (map[uuid.UUID][]*MediaItem, error)
	GetMediaForKinds(ctx context.Context, idsByType map[string][]uuid.UUID) (map[string]map[uuid.UUID][]*MediaItem, error)
	ReplaceMedia(ctx context.Context, entityType string, entityID uuid.UUID, items []*MediaItem) error

	// Push subscriptions
	SubscribePush(ctx context.Context, sub *PushSubscription) error
	ListPushSubscriptions(ctx context.Context) ([]*PushSubscription, error)
	UnsubscribePush(ctx context.Context, endpoint string) error
}
