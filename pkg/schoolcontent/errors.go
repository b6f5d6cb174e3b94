package schoolcontent

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error types
var (
	// ErrPostNotFound indicates a lookup by id, slug or filter matched zero rows.
	ErrPostNotFound = errors.New("post not found")

	// ErrMediaNotFound indicates a media item was not found
	ErrMediaNotFound = errors.New("media item not found")

	// ErrSubscriptionNotFound indicates a push subscription was not found
	ErrSubscriptionNotFound = errors.New("push subscription not found")

	// ErrUploadFailed indicates the media hosting backend rejected an upload
	ErrUploadFailed = errors.New("upload failed")
)

// ValidationError reports a required field that is absent or unusable.
// It is surfaced before any store access is attempted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// PostError represents an error related to post operations
type PostError struct {
	Kind Kind
	ID   uuid.UUID
	Op   string
	Err  error
}

func (e *PostError) Error() string {
	return fmt.Sprintf("post operation %s failed for %s %s: %v", e.Op, e.Kind, e.ID, e.Err)
}

func (e *PostError) Unwrap() error {
	return e.Err
}

// MediaError represents an error related to media replacement operations
type MediaError struct {
	EntityType string
	EntityID   uuid.UUID
	Op         string
	Err        error
}

func (e *MediaError) Error() string {
	return fmt.Sprintf("media operation %s failed for %s %s: %v", e.Op, e.EntityType, e.EntityID, e.Err)
}

func (e *MediaError) Unwrap() error {
	return e.Err
}
