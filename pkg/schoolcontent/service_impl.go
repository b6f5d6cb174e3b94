package schoolcontent

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50

	defaultAuthorName = "Admin"
)

type service struct {
	repository Repository
}

// Option configures the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// New creates a new service with the given options
func New(opts ...Option) (Service, error) {
	s := &service{}
	for _, opt := range opts {
		opt(s)
	}

	if s.repository == nil {
		return nil, errors.New("repository is required")
	}

	return s, nil
}

// Post operations

func (s *service) ListPosts(ctx context.Context, req ListPostsRequest) (*PostList, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	collection := CollectionFor(req.Kind)

	params := ListPostsParams{
		Level:  req.Level,
		Offset: (page - 1) * pageSize,
		Limit:  pageSize,
	}
	if collection == CollectionPublications {
		params.Type = req.Type
		if params.Type == "" && req.Kind != KindPublication && req.Kind != KindAll {
			// A specific family kind routed to the shared collection
			// narrows the listing to its own sub-type.
			params.Type = string(req.Kind)
		}
	}

	posts, total, err := s.repository.ListPosts(ctx, collection, params)
	if err != nil {
		return nil, &PostError{Kind: req.Kind, Op: "list", Err: err}
	}

	if err := s.attachMedia(ctx, EntityTypeForCollection(collection), posts); err != nil {
		return nil, err
	}

	return &PostList{
		Items:    posts,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// ListAllContent assembles the admin combined feed: every base collection
// except downloads, fetched concurrently, media attached per kind, merged by
// creation time descending. The merge happens client-side because the rows
// live in heterogeneous collections.
func (s *service) ListAllContent(ctx context.Context) ([]*Post, error) {
	collections := []string{
		CollectionNews,
		CollectionPublications,
		CollectionAchievements,
		CollectionGalleries,
	}

	results := make([][]*Post, len(collections))
	g, gctx := errgroup.WithContext(ctx)
	for i, collection := range collections {
		g.Go(func() error {
			posts, err := s.repository.ListAllPosts(gctx, collection)
			if err != nil {
				return err
			}
			results[i] = posts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, &PostError{Kind: KindAll, Op: "list", Err: err}
	}

	idsByType := make(map[string][]uuid.UUID, len(collections))
	for i, collection := range collections {
		entityType := EntityTypeForCollection(collection)
		for _, post := range results[i] {
			idsByType[entityType] = append(idsByType[entityType], post.ID)
		}
	}

	grouped, err := s.GetMediaForKinds(ctx, idsByType)
	if err != nil {
		return nil, err
	}

	var all []*Post
	for i, collection := range collections {
		entityType := EntityTypeForCollection(collection)
		for _, post := range results[i] {
			post.Media = grouped[entityType][post.ID]
			all = append(all, post)
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	return all, nil
}

func (s *service) GetPost(ctx context.Context, kind Kind, idOrSlug string) (*Post, error) {
	collection := CollectionFor(kind)

	var post *Post
	var err error
	if IsUUID(idOrSlug) {
		id, parseErr := uuid.Parse(idOrSlug)
		if parseErr != nil {
			return nil, ErrPostNotFound
		}
		post, err = s.repository.GetPostByID(ctx, collection, id)
	} else {
		post, err = s.repository.GetPostBySlug(ctx, collection, idOrSlug)
	}
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, &PostError{Kind: kind, Op: "get", Err: err}
	}

	media, err := s.GetMediaForEntities(ctx, EntityTypeForCollection(collection), []uuid.UUID{post.ID})
	if err != nil {
		return nil, err
	}
	post.Media = media[post.ID]

	return post, nil
}

func (s *service) CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error) {
	if err := validatePostFields(req.Kind, req.Title, req.Slug); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	post := buildPost(req, now)
	post.ID = uuid.New()
	post.CreatedAt = now
	post.UpdatedAt = now

	if err := s.repository.CreatePost(ctx, post); err != nil {
		return nil, &PostError{Kind: post.Kind, ID: post.ID, Op: "create", Err: err}
	}

	if req.Media != nil {
		entityType := EntityTypeFor(req.Kind)
		if err := s.ReplaceMedia(ctx, entityType, post.ID, req.Media); err != nil {
			return nil, err
		}
	}

	return post, nil
}

func (s *service) UpdatePost(ctx context.Context, req UpdatePostRequest) (*Post, error) {
	if req.ID == uuid.Nil {
		return nil, &ValidationError{Field: "id", Reason: "required"}
	}
	if err := validatePostFields(req.Kind, req.Title, req.Slug); err != nil {
		return nil, err
	}

	collection := CollectionFor(req.Kind)
	existing, err := s.repository.GetPostByID(ctx, collection, req.ID)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, &PostError{Kind: req.Kind, ID: req.ID, Op: "update", Err: err}
	}

	now := time.Now().UTC()
	post := buildPost(req.CreatePostRequest, now)
	post.ID = existing.ID
	post.CreatedAt = existing.CreatedAt
	post.ViewCount = existing.ViewCount
	post.DownloadCount = existing.DownloadCount
	post.UpdatedAt = now

	if err := s.repository.UpdatePost(ctx, post); err != nil {
		return nil, &PostError{Kind: post.Kind, ID: post.ID, Op: "update", Err: err}
	}

	if req.Media != nil {
		entityType := EntityTypeFor(req.Kind)
		if err := s.ReplaceMedia(ctx, entityType, post.ID, req.Media); err != nil {
			return nil, err
		}
	}

	return post, nil
}

func (s *service) DeletePost(ctx context.Context, kind Kind, id uuid.UUID) error {
	collection := CollectionFor(kind)

	// Cascade the media rows first; the relationship is by convention, not
	// enforced by a schema constraint.
	if err := s.repository.DeleteMediaByEntityID(ctx, id); err != nil {
		return &MediaError{EntityType: EntityTypeFor(kind), EntityID: id, Op: "delete", Err: err}
	}

	if err := s.repository.DeletePost(ctx, collection, id); err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return ErrPostNotFound
		}
		return &PostError{Kind: kind, ID: id, Op: "delete", Err: err}
	}

	return nil
}

// Media aggregation

func (s *service) GetMediaForEntities(ctx context.Context, entityType string, ids []uuid.UUID) (map[uuid.UUID][]*MediaItem, error) {
	grouped := make(map[uuid.UUID][]*MediaItem)
	if len(ids) == 0 {
		return grouped, nil
	}

	items, err := s.repository.ListMediaByEntities(ctx, entityType, ids)
	if err != nil {
		return nil, &MediaError{EntityType: entityType, Op: "list", Err: err}
	}

	// Rows arrive ordered by display order; appending preserves it per group.
	for _, item := range items {
		grouped[item.EntityID] = append(grouped[item.EntityID], item)
	}

	return grouped, nil
}

func (s *service) GetMediaForKinds(ctx context.Context, idsByType map[string][]uuid.UUID) (map[string]map[uuid.UUID][]*MediaItem, error) {
	result := make(map[string]map[uuid.UUID][]*MediaItem, len(idsByType))
	for entityType, ids := range idsByType {
		grouped, err := s.GetMediaForEntities(ctx, entityType, ids)
		if err != nil {
			return nil, err
		}
		result[entityType] = grouped
	}
	return result, nil
}

// ReplaceMedia deletes every media row for the entity and inserts the
// normalized replacement list. The two steps are not wrapped in a
// cross-operation transaction: a failure in between can leave the entity
// temporarily without media.
func (s *service) ReplaceMedia(ctx context.Context, entityType string, entityID uuid.UUID, items []*MediaItem) error {
	normalized := NormalizeMedia(entityType, entityID, items)

	if err := s.repository.DeleteMediaByEntity(ctx, entityType, entityID); err != nil {
		return &MediaError{EntityType: entityType, EntityID: entityID, Op: "replace", Err: err}
	}

	if len(normalized) == 0 {
		return nil
	}

	if err := s.repository.CreateMediaItems(ctx, normalized); err != nil {
		return &MediaError{EntityType: entityType, EntityID: entityID, Op: "replace", Err: err}
	}

	return nil
}

// Push subscriptions

func (s *service) SubscribePush(ctx context.Context, sub *PushSubscription) error {
	if sub.Endpoint == "" {
		return &ValidationError{Field: "endpoint", Reason: "required"}
	}
	if sub.P256dh == "" || sub.Auth == "" {
		return &ValidationError{Field: "keys", Reason: "p256dh and auth are required"}
	}
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now().UTC()
	}
	return s.repository.SavePushSubscription(ctx, sub)
}

func (s *service) ListPushSubscriptions(ctx context.Context) ([]*PushSubscription, error) {
	return s.repository.ListPushSubscriptions(ctx)
}

func (s *service) UnsubscribePush(ctx context.Context, endpoint string) error {
	return s.repository.DeletePushSubscription(ctx, endpoint)
}

// Helpers

func validatePostFields(kind Kind, title, slug string) error {
	if title == "" {
		return &ValidationError{Field: "title", Reason: "required"}
	}
	if slug == "" {
		return &ValidationError{Field: "slug", Reason: "required"}
	}
	if kind == "" {
		return &ValidationError{Field: "type", Reason: "required"}
	}
	return nil
}

// buildPost translates a request into a storable row, applying the kind
// specific defaults: author name "Admin", publish timestamp now, achievement
// date today, gallery event date falling back to the publish timestamp.
func buildPost(req CreatePostRequest, now time.Time) *Post {
	post := &Post{
		Title:       req.Title,
		Slug:        req.Slug,
		IsPublished: true,
		IsPinned:    false,
	}
	if req.IsPublished != nil {
		post.IsPublished = *req.IsPublished
	}
	if req.IsPinned != nil {
		post.IsPinned = *req.IsPinned
	}

	publishedAt := now
	if req.PublishedAt != nil {
		publishedAt = *req.PublishedAt
	}
	today := now.Truncate(24 * time.Hour)

	collection := CollectionFor(req.Kind)
	switch collection {
	case CollectionNews:
		post.Kind = KindNews
		post.Excerpt = req.Excerpt
		post.Content = req.Content
		post.AuthorName = orDefault(req.AuthorName, defaultAuthorName)
		post.PublishedAt = publishedAt
	case CollectionAchievements:
		post.Kind = KindAchievement
		post.Excerpt = req.Excerpt
		post.Content = req.Content
		post.EventName = req.EventName
		post.EventLevel = req.EventLevel
		post.Rank = req.Rank
		achievedAt := today
		if req.AchievedAt != nil {
			achievedAt = *req.AchievedAt
		}
		post.AchievedAt = &achievedAt
		post.PublishedAt = publishedAt
	case CollectionGalleries:
		post.Kind = KindGallery
		post.Excerpt = req.Excerpt
		eventDate := publishedAt
		if req.EventDate != nil {
			eventDate = *req.EventDate
		}
		post.EventDate = &eventDate
		post.PublishedAt = publishedAt
	case CollectionDownloads:
		post.Kind = KindDownload
		post.Excerpt = req.Excerpt
		post.FileURL = req.FileURL
		post.FileType = req.FileType
		post.FileSizeKB = req.FileSizeKB
		post.PublishedAt = publishedAt
	default:
		post.Kind = KindPublication
		post.Type = PublicationType(req.Kind)
		post.Excerpt = req.Excerpt
		post.Content = req.Content
		post.AuthorName = orDefault(req.AuthorName, defaultAuthorName)
		post.PublishedAt = publishedAt
	}

	return post
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func (s *service) attachMedia(ctx context.Context, entityType string, posts []*Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(posts))
	for i, post := range posts {
		ids[i] = post.ID
	}
	grouped, err := s.GetMediaForEntities(ctx, entityType, ids)
	if err != nil {
		return err
	}
	for _, post := range posts {
		post.Media = grouped[post.ID]
	}
	return nil
}
