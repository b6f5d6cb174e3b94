package schoolcontent

import (
	"time"

	"github.com/google/uuid"
)

// NormalizeMedia prepares a caller-supplied media list for persistence
// against one owning entity.
//
// Entries lacking both a usable URL and embed markup are silently dropped.
// DisplayOrder is taken from the entry when positive and otherwise assigned
// from the 1-based position in the filtered list. The first surviving entry
// is marked main regardless of any caller-supplied flag.
func NormalizeMedia(entityType string, entityID uuid.UUID, items []*MediaItem) []*MediaItem {
	now := time.Now().UTC()

	var normalized []*MediaItem
	for _, item := range items {
		if item == nil || (item.MediaURL == "" && item.EmbedHTML == "") {
			continue
		}

		m := *item
		m.EntityType = entityType
		m.EntityID = entityID
		if m.ID == uuid.Nil {
			m.ID = uuid.New()
		}
		if m.MediaType == "" {
			m.MediaType = MediaTypeImage
		}
		if m.DisplayOrder <= 0 {
			m.DisplayOrder = len(normalized) + 1
		}
		m.IsMain = len(normalized) == 0
		if m.CreatedAt.IsZero() {
			m.CreatedAt = now
		}
		normalized = append(normalized, &m)
	}

	return normalized
}
