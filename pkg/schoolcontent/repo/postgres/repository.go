package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sekolahkita/school-content/pkg/schoolcontent"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements schoolcontent.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) schoolcontent.Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) schoolcontent.Repository {
	return &Repository{db: pool}
}

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			if strings.Contains(pgErr.ConstraintName, "slug") {
				return fmt.Errorf("slug already exists")
			}
			return fmt.Errorf("duplicate entry")
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
		return schoolcontent.ErrPostNotFound
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// Column lists are per collection: the external camelCase shape maps to
// snake_case columns here and nowhere else. News and publications keep body
// copy in excerpt/content; achievements, galleries and downloads store their
// summary in a description column.
func selectColumns(collection string) string {
	switch collection {
	case schoolcontent.CollectionNews:
		return `id, title, slug, excerpt, content, author_name, published_at,
		        is_published, is_pinned, view_count, created_at, updated_at`
	case schoolcontent.CollectionAchievements:
		return `id, title, slug, description, content, event_name, event_level, rank,
		        achieved_at, published_at, is_published, is_pinned, created_at, updated_at`
	case schoolcontent.CollectionGalleries:
		return `id, title, slug, description, event_date, published_at,
		        is_published, is_pinned, created_at, updated_at`
	case schoolcontent.CollectionDownloads:
		return `id, title, slug, description, file_url, file_type, file_size_kb,
		        download_count, published_at, is_published, is_pinned, created_at, updated_at`
	default:
		return `id, title, slug, type, excerpt, content, author_name, published_at,
		        is_published, is_pinned, created_at, updated_at`
	}
}

func scanPost(collection string, row rowScanner) (*schoolcontent.Post, error) {
	var post schoolcontent.Post
	var err error

	switch collection {
	case schoolcontent.CollectionNews:
		post.Kind = schoolcontent.KindNews
		err = row.Scan(
			&post.ID, &post.Title, &post.Slug, &post.Excerpt, &post.Content,
			&post.AuthorName, &post.PublishedAt, &post.IsPublished, &post.IsPinned,
			&post.ViewCount, &post.CreatedAt, &post.UpdatedAt)
	case schoolcontent.CollectionAchievements:
		post.Kind = schoolcontent.KindAchievement
		err = row.Scan(
			&post.ID, &post.Title, &post.Slug, &post.Excerpt, &post.Content,
			&post.EventName, &post.EventLevel, &post.Rank, &post.AchievedAt,
			&post.PublishedAt, &post.IsPublished, &post.IsPinned,
			&post.CreatedAt, &post.UpdatedAt)
	case schoolcontent.CollectionGalleries:
		post.Kind = schoolcontent.KindGallery
		err = row.Scan(
			&post.ID, &post.Title, &post.Slug, &post.Excerpt, &post.EventDate,
			&post.PublishedAt, &post.IsPublished, &post.IsPinned,
			&post.CreatedAt, &post.UpdatedAt)
	case schoolcontent.CollectionDownloads:
		post.Kind = schoolcontent.KindDownload
		err = row.Scan(
			&post.ID, &post.Title, &post.Slug, &post.Excerpt, &post.FileURL,
			&post.FileType, &post.FileSizeKB, &post.DownloadCount,
			&post.PublishedAt, &post.IsPublished, &post.IsPinned,
			&post.CreatedAt, &post.UpdatedAt)
	default:
		post.Kind = schoolcontent.KindPublication
		err = row.Scan(
			&post.ID, &post.Title, &post.Slug, &post.Type, &post.Excerpt, &post.Content,
			&post.AuthorName, &post.PublishedAt, &post.IsPublished, &post.IsPinned,
			&post.CreatedAt, &post.UpdatedAt)
	}

	if err != nil {
		return nil, err
	}
	return &post, nil
}

// recencyColumn is the per-collection publish-date column used by the fixed
// pinned-then-recency list order.
func recencyColumn(collection string) string {
	switch collection {
	case schoolcontent.CollectionAchievements:
		return "achieved_at"
	case schoolcontent.CollectionGalleries:
		return "event_date"
	case schoolcontent.CollectionDownloads:
		return "created_at"
	default:
		return "published_at"
	}
}

// Post operations

func (r *Repository) CreatePost(ctx context.Context, post *schoolcontent.Post) error {
	collection := schoolcontent.CollectionFor(post.Kind)

	var query string
	var args []interface{}

	switch collection {
	case schoolcontent.CollectionNews:
		query = `
			INSERT INTO news_posts (
				id, title, slug, excerpt, content, author_name, published_at,
				is_published, is_pinned, view_count, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
		args = []interface{}{
			post.ID, post.Title, post.Slug, post.Excerpt, post.Content,
			post.AuthorName, post.PublishedAt, post.IsPublished, post.IsPinned,
			post.ViewCount, post.CreatedAt, post.UpdatedAt}
	case schoolcontent.CollectionAchievements:
		query = `
			INSERT INTO achievements (
				id, title, slug, description, content, event_name, event_level, rank,
				achieved_at, published_at, is_published, is_pinned, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
		args = []interface{}{
			post.ID, post.Title, post.Slug, post.Excerpt, post.Content,
			post.EventName, post.EventLevel, post.Rank, post.AchievedAt,
			post.PublishedAt, post.IsPublished, post.IsPinned,
			post.CreatedAt, post.UpdatedAt}
	case schoolcontent.CollectionGalleries:
		query = `
			INSERT INTO galleries (
				id, title, slug, description, event_date, published_at,
				is_published, is_pinned, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
		args = []interface{}{
			post.ID, post.Title, post.Slug, post.Excerpt, post.EventDate,
			post.PublishedAt, post.IsPublished, post.IsPinned,
			post.CreatedAt, post.UpdatedAt}
	case schoolcontent.CollectionDownloads:
		query = `
			INSERT INTO downloads (
				id, title, slug, description, file_url, file_type, file_size_kb,
				download_count, published_at, is_published, is_pinned, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
		args = []interface{}{
			post.ID, post.Title, post.Slug, post.Excerpt, post.FileURL,
			post.FileType, post.FileSizeKB, post.DownloadCount,
			post.PublishedAt, post.IsPublished, post.IsPinned,
			post.CreatedAt, post.UpdatedAt}
	default:
		query = `
			INSERT INTO publications (
				id, title, slug, type, excerpt, content, author_name, published_at,
				is_published, is_pinned, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
		args = []interface{}{
			post.ID, post.Title, post.Slug, post.Type, post.Excerpt, post.Content,
			post.AuthorName, post.PublishedAt, post.IsPublished, post.IsPinned,
			post.CreatedAt, post.UpdatedAt}
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return r.handlePostgresError("create post", err)
	}
	return nil
}

func (r *Repository) GetPostByID(ctx context.Context, collection string, id uuid.UUID) (*schoolcontent.Post, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, selectColumns(collection), collection)

	post, err := scanPost(collection, r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, schoolcontent.ErrPostNotFound
		}
		return nil, r.handlePostgresError("get post", err)
	}
	return post, nil
}

func (r *Repository) GetPostBySlug(ctx context.Context, collection string, slug string) (*schoolcontent.Post, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE slug = $1`, selectColumns(collection), collection)

	post, err := scanPost(collection, r.db.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, schoolcontent.ErrPostNotFound
		}
		return nil, r.handlePostgresError("get post by slug", err)
	}
	return post, nil
}

func (r *Repository) UpdatePost(ctx context.Context, post *schoolcontent.Post) error {
	collection := schoolcontent.CollectionFor(post.Kind)

	var query string
	var args []interface{}

	switch collection {
	case schoolcontent.CollectionNews:
		query = `
			UPDATE news_posts SET
				title = $2, slug = $3, excerpt = $4, content = $5, author_name = $6,
				published_at = $7, is_published = $8, is_pinned = $9, updated_at = $10
			WHERE id = $1`
		args = []interface{}{
			post.ID, post.Title, post.Slug, post.Excerpt, post.Content,
			post.AuthorName, post.PublishedAt, post.IsPublished, post.IsPinned,
			post.UpdatedAt}
	case schoolcontent.CollectionAchievements:
		query = `
			UPDATE achievements SET
				title = $2, slug = $3, description = $4, content = $5, event_name = $6,
				event_level = $7, rank = $8, achieved_at = $9, published_at = $10,
				is_published = $11, is_pinned = $12, updated_at = $13
			WHERE id = $1`
		args = []interface{}{
			post.ID, post.Title, post.Slug, post.Excerpt, post.Content,
			post.EventName, post.EventLevel, post.Rank, post.AchievedAt,
			post.PublishedAt, post.IsPublished, post.IsPinned, post.UpdatedAt}
	case schoolcontent.CollectionGalleries:
		query = `
			UPDATE galleries SET
				title = $2, slug = $3, description = $4, event_date = $5, published_at = $6,
				is_published = $7, is_pinned = $8, updated_at = $9
			WHERE id = $1`
		args = []interface{}{
			post.ID, post.Title, post.Slug, post.Excerpt, post.EventDate,
			post.PublishedAt, post.IsPublished, post.IsPinned, post.UpdatedAt}
	case schoolcontent.CollectionDownloads:
		query = `
			UPDATE downloads SET
				title = $2, slug = $3, description = $4, file_url = $5, file_type = $6,
				file_size_kb = $7, published_at = $8, is_published = $9, is_pinned = $10,
				updated_at = $11
			WHERE id = $1`
		args = []interface{}{
			post.ID, post.Title, post.Slug, post.Excerpt, post.FileURL,
			post.FileType, post.FileSizeKB, post.PublishedAt, post.IsPublished,
			post.IsPinned, post.UpdatedAt}
	default:
		query = `
			UPDATE publications SET
				title = $2, slug = $3, type = $4, excerpt = $5, content = $6,
				author_name = $7, published_at = $8, is_published = $9, is_pinned = $10,
				updated_at = $11
			WHERE id = $1`
		args = []interface{}{
			post.ID, post.Title, post.Slug, post.Type, post.Excerpt, post.Content,
			post.AuthorName, post.PublishedAt, post.IsPublished, post.IsPinned,
			post.UpdatedAt}
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return r.handlePostgresError("update post", err)
	}
	if tag.RowsAffected() == 0 {
		return schoolcontent.ErrPostNotFound
	}
	return nil
}

func (r *Repository) DeletePost(ctx context.Context, collection string, id uuid.UUID) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, collection)

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return r.handlePostgresError("delete post", err)
	}
	if tag.RowsAffected() == 0 {
		return schoolcontent.ErrPostNotFound
	}
	return nil
}

func (r *Repository) ListPosts(ctx context.Context, collection string, params schoolcontent.ListPostsParams) ([]*schoolcontent.Post, int, error) {
	where := ""
	var args []interface{}

	if collection == schoolcontent.CollectionPublications && params.Type != "" {
		args = append(args, params.Type)
		where = fmt.Sprintf(" WHERE type = $%d", len(args))
	}
	if collection == schoolcontent.CollectionAchievements && params.Level != "" {
		args = append(args, params.Level)
		where = fmt.Sprintf(" WHERE event_level = $%d", len(args))
	}

	// Total matching count irrespective of the pagination window.
	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s%s`, collection, where)
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, r.handlePostgresError("count posts", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM %s%s ORDER BY is_pinned DESC, %s DESC`,
		selectColumns(collection), collection, where, recencyColumn(collection))
	if params.Limit > 0 {
		args = append(args, params.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if params.Offset > 0 {
		args = append(args, params.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, r.handlePostgresError("list posts", err)
	}
	defer rows.Close()

	var posts []*schoolcontent.Post
	for rows.Next() {
		post, err := scanPost(collection, rows)
		if err != nil {
			return nil, 0, r.handlePostgresError("scan post", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, r.handlePostgresError("iterate post rows", err)
	}

	return posts, total, nil
}

func (r *Repository) ListAllPosts(ctx context.Context, collection string) ([]*schoolcontent.Post, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY created_at DESC`,
		selectColumns(collection), collection)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, r.handlePostgresError("list all posts", err)
	}
	defer rows.Close()

	var posts []*schoolcontent.Post
	for rows.Next() {
		post, err := scanPost(collection, rows)
		if err != nil {
			return nil, r.handlePostgresError("scan post", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("iterate post rows", err)
	}

	return posts, nil
}

// Media operations

func (r *Repository) ListMediaByEntities(ctx context.Context, entityType string, ids []uuid.UUID) ([]*schoolcontent.MediaItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, entity_type, entity_id, media_type, media_url, embed_html,
		       thumbnail_url, caption, display_order, is_main, created_at
		FROM media_items
		WHERE entity_type = $1 AND entity_id = ANY($2)
		ORDER BY entity_id, display_order ASC`

	rows, err := r.db.Query(ctx, query, entityType, ids)
	if err != nil {
		return nil, r.handlePostgresError("list media", err)
	}
	defer rows.Close()

	var items []*schoolcontent.MediaItem
	for rows.Next() {
		var item schoolcontent.MediaItem
		if err := rows.Scan(
			&item.ID, &item.EntityType, &item.EntityID, &item.MediaType,
			&item.MediaURL, &item.EmbedHTML, &item.ThumbnailURL, &item.Caption,
			&item.DisplayOrder, &item.IsMain, &item.CreatedAt); err != nil {
			return nil, r.handlePostgresError("scan media item", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("iterate media rows", err)
	}

	return items, nil
}

func (r *Repository) CreateMediaItems(ctx context.Context, items []*schoolcontent.MediaItem) error {
	query := `
		INSERT INTO media_items (
			id, entity_type, entity_id, media_type, media_url, embed_html,
			thumbnail_url, caption, display_order, is_main, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	for _, item := range items {
		if _, err := r.db.Exec(ctx, query,
			item.ID, item.EntityType, item.EntityID, item.MediaType,
			item.MediaURL, item.EmbedHTML, item.ThumbnailURL, item.Caption,
			item.DisplayOrder, item.IsMain, item.CreatedAt); err != nil {
			return r.handlePostgresError("create media item", err)
		}
	}
	return nil
}

func (r *Repository) DeleteMediaByEntity(ctx context.Context, entityType string, entityID uuid.UUID) error {
	query := `DELETE FROM media_items WHERE entity_type = $1 AND entity_id = $2`
	if _, err := r.db.Exec(ctx, query, entityType, entityID); err != nil {
		return r.handlePostgresError("delete media", err)
	}
	return nil
}

func (r *Repository) DeleteMediaByEntityID(ctx context.Context, entityID uuid.UUID) error {
	query := `DELETE FROM media_items WHERE entity_id = $1`
	if _, err := r.db.Exec(ctx, query, entityID); err != nil {
		return r.handlePostgresError("delete media", err)
	}
	return nil
}

// Push subscription operations

func (r *Repository) SavePushSubscription(ctx context.Context, sub *schoolcontent.PushSubscription) error {
	query := `
		INSERT INTO push_subscriptions (id, endpoint, p256dh, auth, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (endpoint) DO UPDATE SET
			p256dh = EXCLUDED.p256dh,
			auth = EXCLUDED.auth,
			user_agent = EXCLUDED.user_agent`

	if _, err := r.db.Exec(ctx, query,
		sub.ID, sub.Endpoint, sub.P256dh, sub.Auth, sub.UserAgent, sub.CreatedAt); err != nil {
		return r.handlePostgresError("save push subscription", err)
	}
	return nil
}

func (r *Repository) ListPushSubscriptions(ctx context.Context) ([]*schoolcontent.PushSubscription, error) {
	query := `
		SELECT id, endpoint, p256dh, auth, user_agent, created_at
		FROM push_subscriptions ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, r.handlePostgresError("list push subscriptions", err)
	}
	defer rows.Close()

	var subs []*schoolcontent.PushSubscription
	for rows.Next() {
		var sub schoolcontent.PushSubscription
		if err := rows.Scan(&sub.ID, &sub.Endpoint, &sub.P256dh, &sub.Auth,
			&sub.UserAgent, &sub.CreatedAt); err != nil {
			return nil, r.handlePostgresError("scan push subscription", err)
		}
		subs = append(subs, &sub)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("iterate push subscription rows", err)
	}

	return subs, nil
}

func (r *Repository) DeletePushSubscription(ctx context.Context, endpoint string) error {
	query := `DELETE FROM push_subscriptions WHERE endpoint = $1`

	tag, err := r.db.Exec(ctx, query, endpoint)
	if err != nil {
		return r.handlePostgresError("delete push subscription", err)
	}
	if tag.RowsAffected() == 0 {
		return schoolcontent.ErrSubscriptionNotFound
	}
	return nil
}
