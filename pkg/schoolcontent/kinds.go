package schoolcontent

import "regexp"

// Collection names in the relational store.
const (
	CollectionNews         = "news_posts"
	CollectionPublications = "publications"
	CollectionAchievements = "achievements"
	CollectionGalleries    = "galleries"
	CollectionDownloads    = "downloads"
)

// CollectionFor resolves a content kind to its backing collection.
//
// The publications family (publication, announcement, article, bulletin)
// shares one collection distinguished by the type column; unrecognized kinds
// fall back to it as well, so the function is total over arbitrary input.
func CollectionFor(kind Kind) string {
	switch kind {
	case KindNews:
		return CollectionNews
	case KindAchievement:
		return CollectionAchievements
	case KindGallery:
		return CollectionGalleries
	case KindDownload:
		return CollectionDownloads
	default:
		return CollectionPublications
	}
}

// EntityTypeForCollection maps a collection back to the entity tag used by
// media_items rows.
func EntityTypeForCollection(collection string) string {
	switch collection {
	case CollectionNews:
		return string(KindNews)
	case CollectionAchievements:
		return string(KindAchievement)
	case CollectionGalleries:
		return string(KindGallery)
	case CollectionDownloads:
		return string(KindDownload)
	default:
		return string(KindPublication)
	}
}

// EntityTypeFor resolves a kind straight to its media entity tag.
func EntityTypeFor(kind Kind) string {
	return EntityTypeForCollection(CollectionFor(kind))
}

// PublicationType returns the sub-type stored in the shared publications
// collection for a publications-family kind. The generic "publication" kind
// is stored as "announcement".
func PublicationType(kind Kind) string {
	if kind == KindPublication {
		return string(KindAnnouncement)
	}
	return string(kind)
}

var uuidPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// IsUUID reports whether s matches the canonical 36-character hyphenated
// identifier form. Detail lookups treat such strings as surrogate ids and
// everything else as slugs; a slug that textually collides with the pattern
// is indistinguishable and resolves as an id.
func IsUUID(s string) bool {
	return uuidPattern.MatchString(s)
}
