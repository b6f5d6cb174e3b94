package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sekolahkita/school-content/pkg/schoolcontent"
)

// Repository implements schoolcontent.Repository using in-memory storage
type Repository struct {
	mu            sync.RWMutex
	posts         map[string]map[uuid.UUID]*schoolcontent.Post // collection -> id -> post
	media         []*schoolcontent.MediaItem
	subscriptions map[string]*schoolcontent.PushSubscription // endpoint -> subscription
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		posts: map[string]map[uuid.UUID]*schoolcontent.Post{
			schoolcontent.CollectionNews:         {},
			schoolcontent.CollectionPublications: {},
			schoolcontent.CollectionAchievements: {},
			schoolcontent.CollectionGalleries:    {},
			schoolcontent.CollectionDownloads:    {},
		},
		subscriptions: make(map[string]*schoolcontent.PushSubscription),
	}
}

// Post operations

func (r *Repository) CreatePost(ctx context.Context, post *schoolcontent.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	collection := schoolcontent.CollectionFor(post.Kind)

	// Copy to avoid external modifications.
	postCopy := *post
	postCopy.Media = nil
	r.posts[collection][post.ID] = &postCopy

	return nil
}

func (r *Repository) GetPostByID(ctx context.Context, collection string, id uuid.UUID) (*schoolcontent.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	post, exists := r.posts[collection][id]
	if !exists {
		return nil, schoolcontent.ErrPostNotFound
	}

	postCopy := *post
	return &postCopy, nil
}

func (r *Repository) GetPostBySlug(ctx context.Context, collection string, slug string) (*schoolcontent.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, post := range r.posts[collection] {
		if post.Slug == slug {
			postCopy := *post
			return &postCopy, nil
		}
	}

	return nil, schoolcontent.ErrPostNotFound
}

func (r *Repository) UpdatePost(ctx context.Context, post *schoolcontent.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	collection := schoolcontent.CollectionFor(post.Kind)
	if _, exists := r.posts[collection][post.ID]; !exists {
		return schoolcontent.ErrPostNotFound
	}

	postCopy := *post
	postCopy.Media = nil
	r.posts[collection][post.ID] = &postCopy

	return nil
}

func (r *Repository) DeletePost(ctx context.Context, collection string, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.posts[collection][id]; !exists {
		return schoolcontent.ErrPostNotFound
	}
	delete(r.posts[collection], id)

	return nil
}

func (r *Repository) ListPosts(ctx context.Context, collection string, params schoolcontent.ListPostsParams) ([]*schoolcontent.Post, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Filters apply to the collections that carry the column, matching the
	// database-backed repository.
	filterType := collection == schoolcontent.CollectionPublications && params.Type != ""
	filterLevel := collection == schoolcontent.CollectionAchievements && params.Level != ""

	var matched []*schoolcontent.Post
	for _, post := range r.posts[collection] {
		if filterType && !strings.EqualFold(post.Type, params.Type) {
			continue
		}
		if filterLevel && !strings.EqualFold(post.EventLevel, params.Level) {
			continue
		}
		postCopy := *post
		matched = append(matched, &postCopy)
	}

	// Fixed list policy: pinned first, then most recent publish date.
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].IsPinned != matched[j].IsPinned {
			return matched[i].IsPinned
		}
		return sortDate(matched[i]).After(sortDate(matched[j]))
	})

	total := len(matched)

	if params.Offset >= total {
		return nil, total, nil
	}
	end := total
	if params.Limit > 0 && params.Offset+params.Limit < end {
		end = params.Offset + params.Limit
	}

	return matched[params.Offset:end], total, nil
}

func (r *Repository) ListAllPosts(ctx context.Context, collection string) ([]*schoolcontent.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*schoolcontent.Post
	for _, post := range r.posts[collection] {
		postCopy := *post
		result = append(result, &postCopy)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

// Media operations

func (r *Repository) ListMediaByEntities(ctx context.Context, entityType string, ids []uuid.UUID) ([]*schoolcontent.MediaItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	var result []*schoolcontent.MediaItem
	for _, item := range r.media {
		if item.EntityType == entityType && wanted[item.EntityID] {
			itemCopy := *item
			result = append(result, &itemCopy)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].DisplayOrder < result[j].DisplayOrder
	})

	return result, nil
}

func (r *Repository) CreateMediaItems(ctx context.Context, items []*schoolcontent.MediaItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		itemCopy := *item
		r.media = append(r.media, &itemCopy)
	}

	return nil
}

func (r *Repository) DeleteMediaByEntity(ctx context.Context, entityType string, entityID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.media[:0]
	for _, item := range r.media {
		if item.EntityType == entityType && item.EntityID == entityID {
			continue
		}
		kept = append(kept, item)
	}
	r.media = kept

	return nil
}

func (r *Repository) DeleteMediaByEntityID(ctx context.Context, entityID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.media[:0]
	for _, item := range r.media {
		if item.EntityID == entityID {
			continue
		}
		kept = append(kept, item)
	}
	r.media = kept

	return nil
}

// Push subscription operations

func (r *Repository) SavePushSubscription(ctx context.Context, sub *schoolcontent.PushSubscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	subCopy := *sub
	r.subscriptions[sub.Endpoint] = &subCopy

	return nil
}

func (r *Repository) ListPushSubscriptions(ctx context.Context) ([]*schoolcontent.PushSubscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*schoolcontent.PushSubscription, 0, len(r.subscriptions))
	for _, sub := range r.subscriptions {
		subCopy := *sub
		result = append(result, &subCopy)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}

func (r *Repository) DeletePushSubscription(ctx context.Context, endpoint string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.subscriptions[endpoint]; !exists {
		return schoolcontent.ErrSubscriptionNotFound
	}
	delete(r.subscriptions, endpoint)

	return nil
}

// sortDate picks the per-kind recency column used by the fixed list order.
func sortDate(post *schoolcontent.Post) time.Time {
	switch post.Kind {
	case schoolcontent.KindAchievement:
		if post.AchievedAt != nil {
			return *post.AchievedAt
		}
	case schoolcontent.KindGallery:
		if post.EventDate != nil {
			return *post.EventDate
		}
	case schoolcontent.KindDownload:
		return post.CreatedAt
	}
	return post.PublishedAt
}
