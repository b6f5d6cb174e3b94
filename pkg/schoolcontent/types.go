package schoolcontent

import (
	"time"

	"github.com/google/uuid"
)

// Kind is the domain type for content kinds.
type Kind string

// Content kind constants (typed).
const (
	KindNews         Kind = "news"
	KindPublication  Kind = "publication"
	KindAnnouncement Kind = "announcement"
	KindArticle      Kind = "article"
	KindBulletin     Kind = "bulletin"
	KindAchievement  Kind = "achievement"
	KindGallery      Kind = "gallery"
	KindDownload     Kind = "download"

	// KindAll is a query-level pseudo-kind used by the admin combined view.
	KindAll Kind = "all"
)

// MediaType is the domain type for attached media assets.
type MediaType string

// Media type constants (typed).
const (
	MediaTypeImage        MediaType = "image"
	MediaTypeVideo        MediaType = "video"
	MediaTypeYoutubeEmbed MediaType = "youtube_embed"
)

// Post represents one persisted content record of some kind.
//
// All kinds share one record shape with a Kind discriminant; kind-specific
// fields stay at their zero value for other kinds. The publications family
// (announcement, article, bulletin, generic publication) is stored in one
// shared collection distinguished by the Type field.
type Post struct {
	ID    uuid.UUID `json:"id"`
	Kind  Kind      `json:"kind"`
	Type  string    `json:"type,omitempty"`
	Title string    `json:"title"`
	Slug  string    `json:"slug"`

	Excerpt    string `json:"excerpt,omitempty"`
	Content    string `json:"content,omitempty"`
	AuthorName string `json:"authorName,omitempty"`

	// Achievement fields.
	EventName  string     `json:"eventName,omitempty"`
	EventLevel string     `json:"eventLevel,omitempty"`
	Rank       string     `json:"rank,omitempty"`
	AchievedAt *time.Time `json:"achievedAt,omitempty"`

	// Gallery fields.
	EventDate *time.Time `json:"eventDate,omitempty"`

	// Download fields.
	FileURL       string `json:"fileUrl,omitempty"`
	FileType      string `json:"fileType,omitempty"`
	FileSizeKB    int64  `json:"fileSizeKb,omitempty"`
	DownloadCount int    `json:"downloadCount,omitempty"`

	ViewCount   int       `json:"viewCount,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
	IsPublished bool      `json:"isPublished"`
	IsPinned    bool      `json:"isPinned"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Media is populated by the service layer, never persisted on the row.
	Media []*MediaItem `json:"media,omitempty"`
}

// MediaItem represents one attached asset belonging to an entity.
//
// Ownership is a weak (EntityType, EntityID) reference resolved by a batched
// lookup; the owning row holds no direct collection of media items.
type MediaItem struct {
	ID           uuid.UUID `json:"id"`
	EntityType   string    `json:"entityType"`
	EntityID     uuid.UUID `json:"entityId"`
	MediaType    MediaType `json:"mediaType"`
	MediaURL     string    `json:"mediaUrl,omitempty"`
	EmbedHTML    string    `json:"embedHtml,omitempty"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	Caption      string    `json:"caption,omitempty"`
	DisplayOrder int       `json:"displayOrder"`
	IsMain       bool      `json:"isMain"`
	CreatedAt    time.Time `json:"createdAt"`
}

// PostList is the paginated list envelope returned by list operations.
// Total is the full matching count irrespective of the pagination window.
type PostList struct {
	Items    []*Post `json:"items"`
	Total    int     `json:"total"`
	Page     int     `json:"page"`
	PageSize int     `json:"pageSize"`
}

// PushSubscription represents one registered web-push endpoint.
type PushSubscription struct {
	ID        uuid.UUID `json:"id"`
	Endpoint  string    `json:"endpoint"`
	P256dh    string    `json:"p256dh"`
	Auth      string    `json:"auth"`
	UserAgent string    `json:"userAgent,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// AdminSession holds the identity decoded from an admin session token.
type AdminSession struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}
