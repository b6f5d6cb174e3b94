package schoolcontent_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sekolahkita/school-content/pkg/schoolcontent"
	"github.com/sekolahkita/school-content/pkg/schoolcontent/repo/memory"
)

func setupTestService(t *testing.T) schoolcontent.Service {
	svc, err := schoolcontent.New(schoolcontent.WithRepository(memory.New()))
	require.NoError(t, err)
	require.NotNil(t, svc)
	return svc
}

func boolPtr(b bool) *bool { return &b }

func TestServiceCreation(t *testing.T) {
	t.Run("no repository should fail", func(t *testing.T) {
		svc, err := schoolcontent.New()
		assert.Error(t, err)
		assert.Nil(t, svc)
	})

	t.Run("with repository should succeed", func(t *testing.T) {
		svc, err := schoolcontent.New(schoolcontent.WithRepository(memory.New()))
		assert.NoError(t, err)
		assert.NotNil(t, svc)
	})
}

func TestCreatePost(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	t.Run("news with defaults", func(t *testing.T) {
		post, err := svc.CreatePost(ctx, schoolcontent.CreatePostRequest{
			Kind:  schoolcontent.KindNews,
			Title: "School Reopens",
			Slug:  "school-reopens",
		})
		require.NoError(t, err)
		assert.Equal(t, schoolcontent.KindNews, post.Kind)
		assert.Equal(t, "Admin", post.AuthorName)
		assert.True(t, post.IsPublished)
		assert.False(t, post.IsPinned)
		assert.False(t, post.PublishedAt.IsZero())
		assert.NotEqual(t, uuid.Nil, post.ID)
	})

	t.Run("missing title fails validation", func(t *testing.T) {
		_, err := svc.CreatePost(ctx, schoolcontent.CreatePostRequest{
			Kind: schoolcontent.KindNews,
			Slug: "no-title",
		})
		require.Error(t, err)
		assert.True(t, schoolcontent.IsValidation(err))
	})

	t.Run("missing kind fails validation", func(t *testing.T) {
		_, err := svc.CreatePost(ctx, schoolcontent.CreatePostRequest{
			Title: "Untyped",
			Slug:  "untyped",
		})
		require.Error(t, err)
		assert.True(t, schoolcontent.IsValidation(err))
	})

	t.Run("publication kind stored as announcement type", func(t *testing.T) {
		post, err := svc.CreatePost(ctx, schoolcontent.CreatePostRequest{
			Kind:  schoolcontent.KindPublication,
			Title: "Term Dates",
			Slug:  "term-dates",
		})
		require.NoError(t, err)
		assert.Equal(t, "announcement", post.Type)
	})

	t.Run("bulletin keeps its own sub-type", func(t *testing.T) {
		post, err := svc.CreatePost(ctx, schoolcontent.CreatePostRequest{
			Kind:  schoolcontent.KindBulletin,
			Title: "Weekly Bulletin",
			Slug:  "weekly-bulletin",
		})
		require.NoError(t, err)
		assert.Equal(t, "bulletin", post.Type)
	})

	t.Run("achievement defaults achieved date", func(t *testing.T) {
		post, err := svc.CreatePost(ctx, schoolcontent.CreatePostRequest{
			Kind:  schoolcontent.KindAchievement,
			Title: "Math Olympiad",
			Slug:  "math-olympiad",
		})
		require.NoError(t, err)
		require.NotNil(t, post.AchievedAt)
		assert.WithinDuration(t, time.Now().UTC(), *post.AchievedAt, 24*time.Hour)
	})

	t.Run("gallery event date falls back to publish date", func(t *testing.T) {
		publishedAt := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
		post, err := svc.CreatePost(ctx, schoolcontent.CreatePostRequest{
			Kind:        schoolcontent.KindGallery,
			Title:       "Sports Day",
			Slug:        "sports-day",
			PublishedAt: &publishedAt,
		})
		require.NoError(t, err)
		require.NotNil(t, post.EventDate)
		assert.Equal(t, publishedAt, *post.EventDate)
	})
}

func TestGetPost(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	created, err := svc.CreatePost(ctx, schoolcontent.CreatePostRequest{
		Kind:  schoolcontent.KindNews,
		Title: "Library Hours",
		Slug:  "library-hours",
	})
	require.NoError(t, err)

	t.Run("by id", func(t *testing.T) {
		post, err := svc.GetPost(ctx, schoolcontent.KindNews, created.ID.String())
		require.NoError(t, err)
		assert.Equal(t, created.ID, post.ID)
	})

	t.Run("by slug", func(t *testing.T) {
		post, err := svc.GetPost(ctx, schoolcontent.KindNews, "library-hours")
		require.NoError(t, err)
		assert.Equal(t, created.ID, post.ID)
	})

	t.Run("unknown slug returns not found", func(t *testing.T) {
		_, err := svc.GetPost(ctx, schoolcontent.KindNews, "no-such-slug")
		assert.ErrorIs(t, err, schoolcontent.ErrPostNotFound)
	})

	t.Run("uuid-shaped lookup never falls back to slug", func(t *testing.T) {
		_, err := svc.GetPost(ctx, schoolcontent.KindNews, uuid.New().String())
		assert.ErrorIs(t, err, schoolcontent.ErrPostNotFound)
	})
}

func TestUpdatePost(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	created, err := svc.CreatePost(ctx, schoolcontent.CreatePostRequest{
		Kind:    schoolcontent.KindNews,
		Title:   "Original",
		Slug:    "original",
		Content: "first body",
	})
	require.NoError(t, err)

	t.Run("replaces mutable fields and preserves creation time", func(t *testing.T) {
		updated, err := svc.UpdatePost(ctx, schoolcontent.UpdatePostRequest{
			ID: created.ID,
			CreatePostRequest: schoolcontent.CreatePostRequest{
				Kind:    schoolcontent.KindNews,
				Title:   "Revised",
				Slug:    "original",
				Content: "second body",
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "Revised", updated.Title)
		assert.Equal(t, "second body", updated.Content)
		assert.Equal(t, created.CreatedAt, updated.CreatedAt)
		assert.True(t, updated.UpdatedAt.After(created.UpdatedAt) || updated.UpdatedAt.Equal(created.UpdatedAt))
	})

	t.Run("nonexistent id returns not found without mutation", func(t *testing.T) {
		_, err := svc.UpdatePost(ctx, schoolcontent.UpdatePostRequest{
			ID: uuid.New(),
			CreatePostRequest: schoolcontent.CreatePostRequest{
				Kind:  schoolcontent.KindNews,
				Title: "Ghost",
				Slug:  "ghost",
			},
		})
		assert.ErrorIs(t, err, schoolcontent.ErrPostNotFound)

		_, err = svc.GetPost(ctx, schoolcontent.KindNews, "ghost")
		assert.ErrorIs(t, err, schoolcontent.ErrPostNotFound)
	})

	t.Run("missing id fails validation", func(t *testing.T) {
		_, err := svc.UpdatePost(ctx, schoolcontent.UpdatePostRequest{
			CreatePostRequest: schoolcontent.CreatePostRequest{
				Kind:  schoolcontent.KindNews,
				Title: "No ID",
				Slug:  "no-id",
			},
		})
		require.Error(t, err)
		assert.True(t, schoolcontent.IsValidation(err))
	})
}

func TestListPostsPagination(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	for i := 0; i < 23; i++ {
		_, err := svc.CreatePost(ctx, schoolcontent.CreatePostRequest{
			Kind:  schoolcontent.KindNews,
			Title: fmt.Sprintf("Post %d", i),
			Slug:  fmt.Sprintf("post-%d", i),
		})
		require.NoError(t, err)
	}

	tests := []struct {
		name      string
		page      int
		pageSize  int
		wantItems int
		wantPage  int
		wantSize  int
	}{
		{"first page defaults", 0, 0, 10, 1, 10},
		{"third page has remainder", 3, 10, 3, 3, 10},
		{"past the end is empty", 4, 10, 0, 4, 10},
		{"page size clamped to fifty", 1, 500, 23, 1, 50},
		{"negative page treated as first", -2, 5, 5, 1, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := svc.ListPosts(ctx, schoolcontent.ListPostsRequest{
				Kind:     schoolcontent.KindNews,
				Page:     tt.page,
				PageSize: tt.pageSize,
			})
			require.NoError(t, err)
			assert.Len(t, list.Items, tt.wantItems)
			assert.Equal(t, 23, list.Total)
			assert.Equal(t, tt.wantPage, list.Page)
			assert.Equal(t, tt.wantSize, list.PageSize)
		})
	}
}

func TestListPostsOrdering(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	older := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.CreatePost(ctx, schoolcontent.CreatePostRequest{
		Kind: schoolcontent.KindNews, Title: "Old", Slug: "old", PublishedAt: &older,
	})
	require.NoError(t, err)
	_, err = svc.CreatePost(ctx, schoolcontent.CreatePostRequest{
		Kind: schoolcontent.KindNews, Title: "New", Slug: "new", PublishedAt: &newer,
	})
	require.NoError(t, err)
	_, err = svc.CreatePost(ctx, schoolcontent.CreatePostRequest{
		Kind: schoolcontent.KindNews, Title: "Pinned Old", Slug: "pinned-old",
		PublishedAt: &older, IsPinned: boolPtr(true),
	})
	require.NoError(t, err)

	list, err := svc.ListPosts(ctx, schoolcontent.ListPostsRequest{Kind: schoolcontent.KindNews})
	require.NoError(t, err)
	require.Len(t, list.Items, 3)

	assert.Equal(t, "Pinned Old", list.Items[0].Title)
	assert.Equal(t, "New", list.Items[1].Title)
	assert.Equal(t, "Old", list.Items[2].Title)
}

func TestListPostsPublicationsFamily(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	for _, kind := range []schoolcontent.Kind{
		schoolcontent.KindAnnouncement,
		schoolcontent.KindArticle,
		schoolcontent.KindBulletin,
	} {
		_, err := svc.CreatePost(ctx, schoolcontent.CreatePostRequest{
			Kind:  kind,
			Title: string(kind),
			Slug:  "slug-" + string(kind),
		})
		require.NoError(t, err)
	}

	t.Run("generic publication listing sees the whole family", func(t *testing.T) {
		list, err := svc.ListPosts(ctx, schoolcontent.ListPostsRequest{Kind: schoolcontent.KindPublication})
		require.NoError(t, err)
		assert.Equal(t, 3, list.Total)
	})

	t.Run("family kind narrows to its own sub-type", func(t *testing.T) {
		list, err := svc.ListPosts(ctx, schoolcontent.ListPostsRequest{Kind: schoolcontent.KindBulletin})
		require.NoError(t, err)
		require.Equal(t, 1, list.Total)
		assert.Equal(t, "bulletin", list.Items[0].Type)
	})

	t.Run("type filter overrides", func(t *testing.T) {
		list, err := svc.ListPosts(ctx, schoolcontent.ListPostsRequest{
			Kind: schoolcontent.KindPublication,
			Type: "article",
		})
		require.NoError(t, err)
		require.Equal(t, 1, list.Total)
		assert.Equal(t, "article", list.Items[0].Type)
	})
}

func TestMediaReplacement(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, schoolcontent.CreatePostRequest{
		Kind:  schoolcontent.KindGallery,
		Title: "Art Week",
		Slug:  "art-week",
		Media: []*schoolcontent.MediaItem{
			{MediaURL: "https://cdn.example.com/a.jpg"},
			{MediaURL: "https://cdn.example.com/b.jpg"},
			{Caption: "no url, dropped"},
			{EmbedHTML: "<iframe></iframe>", MediaType: schoolcontent.MediaTypeYoutubeEmbed},
		},
	})
	require.NoError(t, err)

	t.Run("normalized on create", func(t *testing.T) {
		got, err := svc.GetPost(ctx, schoolcontent.KindGallery, post.ID.String())
		require.NoError(t, err)
		require.Len(t, got.Media, 3)

		assert.True(t, got.Media[0].IsMain)
		assert.False(t, got.Media[1].IsMain)
		assert.False(t, got.Media[2].IsMain)
		for i, item := range got.Media {
			assert.Equal(t, i+1, item.DisplayOrder)
			assert.Equal(t, "gallery", item.EntityType)
			assert.Equal(t, post.ID, item.EntityID)
		}
	})

	t.Run("nil media leaves existing set untouched", func(t *testing.T) {
		_, err := svc.UpdatePost(ctx, schoolcontent.UpdatePostRequest{
			ID: post.ID,
			CreatePostRequest: schoolcontent.CreatePostRequest{
				Kind:  schoolcontent.KindGallery,
				Title: "Art Week Updated",
				Slug:  "art-week",
			},
		})
		require.NoError(t, err)

		got, err := svc.GetPost(ctx, schoolcontent.KindGallery, post.ID.String())
		require.NoError(t, err)
		assert.Len(t, got.Media, 3)
	})

	t.Run("empty media list clears the set", func(t *testing.T) {
		_, err := svc.UpdatePost(ctx, schoolcontent.UpdatePostRequest{
			ID: post.ID,
			CreatePostRequest: schoolcontent.CreatePostRequest{
				Kind:  schoolcontent.KindGallery,
				Title: "Art Week Updated",
				Slug:  "art-week",
				Media: []*schoolcontent.MediaItem{},
			},
		})
		require.NoError(t, err)

		got, err := svc.GetPost(ctx, schoolcontent.KindGallery, post.ID.String())
		require.NoError(t, err)
		assert.Empty(t, got.Media)
	})

	t.Run("replace is idempotent", func(t *testing.T) {
		items := []*schoolcontent.MediaItem{
			{MediaURL: "https://cdn.example.com/x.jpg"},
			{MediaURL: "https://cdn.example.com/y.jpg"},
		}
		require.NoError(t, svc.ReplaceMedia(ctx, "gallery", post.ID, items))
		require.NoError(t, svc.ReplaceMedia(ctx, "gallery", post.ID, items))

		got, err := svc.GetPost(ctx, schoolcontent.KindGallery, post.ID.String())
		require.NoError(t, err)
		assert.Len(t, got.Media, 2)
	})
}

func TestDeletePostCascadesMedia(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, schoolcontent.CreatePostRequest{
		Kind:  schoolcontent.KindNews,
		Title: "To Delete",
		Slug:  "to-delete",
		Media: []*schoolcontent.MediaItem{{MediaURL: "https://cdn.example.com/z.jpg"}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeletePost(ctx, schoolcontent.KindNews, post.ID))

	_, err = svc.GetPost(ctx, schoolcontent.KindNews, post.ID.String())
	assert.ErrorIs(t, err, schoolcontent.ErrPostNotFound)

	media, err := svc.GetMediaForEntities(ctx, "news", []uuid.UUID{post.ID})
	require.NoError(t, err)
	assert.Empty(t, media[post.ID])

	t.Run("deleting again reports not found", func(t *testing.T) {
		err := svc.DeletePost(ctx, schoolcontent.KindNews, post.ID)
		assert.ErrorIs(t, err, schoolcontent.ErrPostNotFound)
	})
}

func TestListAllContent(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	kinds := []schoolcontent.Kind{
		schoolcontent.KindNews,
		schoolcontent.KindAnnouncement,
		schoolcontent.KindAchievement,
		schoolcontent.KindGallery,
	}
	for i, kind := range kinds {
		_, err := svc.CreatePost(ctx, schoolcontent.CreatePostRequest{
			Kind:  kind,
			Title: fmt.Sprintf("Combined %d", i),
			Slug:  fmt.Sprintf("combined-%d", i),
			Media: []*schoolcontent.MediaItem{{MediaURL: fmt.Sprintf("https://cdn.example.com/%d.jpg", i)}},
		})
		require.NoError(t, err)
	}

	// Downloads never appear in the combined feed.
	_, err := svc.CreatePost(ctx, schoolcontent.CreatePostRequest{
		Kind:  schoolcontent.KindDownload,
		Title: "Form",
		Slug:  "form",
	})
	require.NoError(t, err)

	all, err := svc.ListAllContent(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)

	for i := 1; i < len(all); i++ {
		assert.False(t, all[i-1].CreatedAt.Before(all[i].CreatedAt))
	}
	for _, post := range all {
		assert.NotEqual(t, schoolcontent.KindDownload, post.Kind)
		assert.Len(t, post.Media, 1)
	}
}

func TestPushSubscriptions(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	sub := &schoolcontent.PushSubscription{
		Endpoint: "https://push.example.com/ep1",
		P256dh:   "key",
		Auth:     "auth",
	}

	t.Run("subscribe assigns id and timestamp", func(t *testing.T) {
		require.NoError(t, svc.SubscribePush(ctx, sub))
		assert.NotEqual(t, uuid.Nil, sub.ID)
		assert.False(t, sub.CreatedAt.IsZero())
	})

	t.Run("subscribe upserts on endpoint", func(t *testing.T) {
		again := &schoolcontent.PushSubscription{
			Endpoint: "https://push.example.com/ep1",
			P256dh:   "rotated",
			Auth:     "auth2",
		}
		require.NoError(t, svc.SubscribePush(ctx, again))

		subs, err := svc.ListPushSubscriptions(ctx)
		require.NoError(t, err)
		require.Len(t, subs, 1)
		assert.Equal(t, "rotated", subs[0].P256dh)
	})

	t.Run("missing keys fail validation", func(t *testing.T) {
		err := svc.SubscribePush(ctx, &schoolcontent.PushSubscription{Endpoint: "https://push.example.com/ep2"})
		require.Error(t, err)
		assert.True(t, schoolcontent.IsValidation(err))
	})

	t.Run("unsubscribe", func(t *testing.T) {
		require.NoError(t, svc.UnsubscribePush(ctx, "https://push.example.com/ep1"))
		err := svc.UnsubscribePush(ctx, "https://push.example.com/ep1")
		assert.ErrorIs(t, err, schoolcontent.ErrSubscriptionNotFound)
	})
}
