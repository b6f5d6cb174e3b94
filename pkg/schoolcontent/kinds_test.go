package schoolcontent_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sekolahkita/school-content/pkg/schoolcontent"
)

func TestCollectionFor(t *testing.T) {
	tests := []struct {
		kind schoolcontent.Kind
		want string
	}{
		{schoolcontent.KindNews, "news_posts"},
		{schoolcontent.KindPublication, "publications"},
		{schoolcontent.KindAnnouncement, "publications"},
		{schoolcontent.KindArticle, "publications"},
		{schoolcontent.KindBulletin, "publications"},
		{schoolcontent.KindAchievement, "achievements"},
		{schoolcontent.KindGallery, "galleries"},
		{schoolcontent.KindDownload, "downloads"},
		{schoolcontent.Kind("something-else"), "publications"},
		{schoolcontent.Kind(""), "publications"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, schoolcontent.CollectionFor(tt.kind))
		})
	}
}

func TestPublicationType(t *testing.T) {
	assert.Equal(t, "announcement", schoolcontent.PublicationType(schoolcontent.KindPublication))
	assert.Equal(t, "announcement", schoolcontent.PublicationType(schoolcontent.KindAnnouncement))
	assert.Equal(t, "article", schoolcontent.PublicationType(schoolcontent.KindArticle))
	assert.Equal(t, "bulletin", schoolcontent.PublicationType(schoolcontent.KindBulletin))
}

func TestEntityTypeFor(t *testing.T) {
	assert.Equal(t, "news", schoolcontent.EntityTypeFor(schoolcontent.KindNews))
	assert.Equal(t, "publication", schoolcontent.EntityTypeFor(schoolcontent.KindAnnouncement))
	assert.Equal(t, "publication", schoolcontent.EntityTypeFor(schoolcontent.KindBulletin))
	assert.Equal(t, "achievement", schoolcontent.EntityTypeFor(schoolcontent.KindAchievement))
	assert.Equal(t, "gallery", schoolcontent.EntityTypeFor(schoolcontent.KindGallery))
	assert.Equal(t, "download", schoolcontent.EntityTypeFor(schoolcontent.KindDownload))
}

func TestIsUUID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"canonical lowercase", "0a1b2c3d-4e5f-6071-8293-a4b5c6d7e8f9", true},
		{"uppercase accepted", "0A1B2C3D-4E5F-6071-8293-A4B5C6D7E8F9", true},
		{"slug", "school-reopens-2025", false},
		{"unhyphenated hex", "0a1b2c3d4e5f60718293a4b5c6d7e8f9", false},
		{"too short", "0a1b2c3d-4e5f-6071-8293-a4b5c6d7e8", false},
		{"trailing garbage", "0a1b2c3d-4e5f-6071-8293-a4b5c6d7e8f9x", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, schoolcontent.IsUUID(tt.input))
		})
	}
}
