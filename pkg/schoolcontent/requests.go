package schoolcontent

import (
	"time"

	"github.com/google/uuid"
)

// ListPostsRequest is the request for listing posts of one kind.
type ListPostsRequest struct {
	Kind Kind

	// Type filters the shared publications collection by sub-type.
	Type string

	// Level filters achievements by event level.
	Level string

	// Page is 1-based; values below 1 default to 1.
	Page int

	// PageSize is clamped to [1, 50]; zero defaults to 10.
	PageSize int
}

// CreatePostRequest is the request for creating a post.
//
// Media semantics: nil means no media key was supplied and existing media is
// left untouched; an empty non-nil slice replaces the media set with nothing.
type CreatePostRequest struct {
	Kind        Kind
	Title       string
	Slug        string
	Excerpt     string
	Content     string
	AuthorName  string
	PublishedAt *time.Time
	EventName   string
	EventLevel  string
	Rank        string
	AchievedAt  *time.Time
	EventDate   *time.Time
	FileURL     string
	FileType    string
	FileSizeKB  int64
	IsPublished *bool
	IsPinned    *bool
	Media       []*MediaItem
}

// UpdatePostRequest is the request for updating a post. The entity row is a
// full replace of mutable fields; media follows CreatePostRequest semantics.
type UpdatePostRequest struct {
	ID uuid.UUID
	CreatePostRequest
}
