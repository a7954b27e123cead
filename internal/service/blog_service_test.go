package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nileshk07/bloghub/internal/domain"
	"github.com/nileshk07/bloghub/internal/service"
	"github.com/nileshk07/bloghub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func imageUpload(name string) *service.FileUpload {
	return &service.FileUpload{
		Filename:    name,
		ContentType: "image/jpeg",
		Body:        strings.NewReader("fake-jpg-bytes"),
	}
}

// waitIndexed polls the vector store until it holds want entries.
func waitIndexed(t *testing.T, env *testEnv, want int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return env.Vectors.Len() == want
	}, 2*time.Second, 10*time.Millisecond, "expected %d indexed vectors", want)
}

func TestBlogService_Create(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, env.DB)

	blog, err := env.Services.Blog.Create(ctx, owner.ID, "Sourdough Basics", "How to feed a starter.", []*service.FileUpload{
		imageUpload("one.jpg"),
		imageUpload("two.jpg"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Sourdough Basics", blog.Title)
	assert.Equal(t, owner.ID, blog.OwnerID)
	require.Len(t, blog.Images, 2)
	for _, url := range blog.Images {
		assert.Contains(t, url, "https://media.test/blogs/")
	}
	require.NotNil(t, blog.Owner)
	assert.Equal(t, owner.Username, blog.Owner.Username)

	waitIndexed(t, env, 1)
}

func TestBlogService_Create_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, env.DB)

	tests := []struct {
		name        string
		title       string
		description string
	}{
		{name: "missing title", title: "  ", description: "body"},
		{name: "missing description", title: "title", description: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.Services.Blog.Create(ctx, owner.ID, tt.title, tt.description, nil)
			assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		})
	}
}

func TestBlogService_Create_UploadFailureLeavesNoRow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, env.DB)
	env.Media.FailUploads(true)

	_, err := env.Services.Blog.Create(ctx, owner.ID, "Title", "Body.", []*service.FileUpload{imageUpload("one.jpg")})
	require.ErrorIs(t, err, domain.ErrInternal)

	var count int64
	require.NoError(t, env.DB.Model(&domain.Blog{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Zero(t, env.Vectors.Len())
}

func TestBlogService_ToggleLike(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, env.DB)
	liker, _ := testutil.NewUserBuilder().Build(t, env.DB)
	blog := testutil.NewBlogBuilder(owner.ID).Build(t, env.DB)

	liked, err := env.Services.Blog.ToggleLike(ctx, liker.ID, blog.ID)
	require.NoError(t, err)
	assert.Len(t, liked.Likes, 1)

	unliked, err := env.Services.Blog.ToggleLike(ctx, liker.ID, blog.ID)
	require.NoError(t, err)
	assert.Empty(t, unliked.Likes)

	_, err = env.Services.Blog.ToggleLike(ctx, liker.ID, uuid.New())
	assert.ErrorIs(t, err, domain.ErrBlogNotFound)
}

func TestBlogService_Comment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, env.DB)
	commenter, _ := testutil.NewUserBuilder().Build(t, env.DB)
	blog := testutil.NewBlogBuilder(owner.ID).Build(t, env.DB)

	updated, err := env.Services.Blog.Comment(ctx, commenter.ID, blog.ID, "Great read!")
	require.NoError(t, err)
	require.Len(t, updated.Comments, 1)
	assert.Equal(t, "Great read!", updated.Comments[0].Text)
	assert.Equal(t, commenter.ID, updated.Comments[0].UserID)

	_, err = env.Services.Blog.Comment(ctx, commenter.ID, blog.ID, "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = env.Services.Blog.Comment(ctx, commenter.ID, uuid.New(), "text")
	assert.ErrorIs(t, err, domain.ErrBlogNotFound)
}

func TestBlogService_Update(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, env.DB)
	stranger, _ := testutil.NewUserBuilder().Build(t, env.DB)
	blog := testutil.NewBlogBuilder(owner.ID).WithTitle("Old Title").Build(t, env.DB)

	t.Run("owner updates", func(t *testing.T) {
		updated, err := env.Services.Blog.Update(ctx, owner.ID, blog.ID, "New Title", "")
		require.NoError(t, err)
		assert.Equal(t, "New Title", updated.Title)
		assert.Equal(t, blog.Description, updated.Description)
		waitIndexed(t, env, 1)
	})

	t.Run("non-owner is rejected", func(t *testing.T) {
		_, err := env.Services.Blog.Update(ctx, stranger.ID, blog.ID, "Hijacked", "")
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("nothing to update", func(t *testing.T) {
		_, err := env.Services.Blog.Update(ctx, owner.ID, blog.ID, "", "  ")
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})
}

func TestBlogService_Delete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, env.DB)
	stranger, _ := testutil.NewUserBuilder().Build(t, env.DB)

	blog, err := env.Services.Blog.Create(ctx, owner.ID, "Doomed Post", "Soon gone.", nil)
	require.NoError(t, err)
	waitIndexed(t, env, 1)

	err = env.Services.Blog.Delete(ctx, stranger.ID, blog.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, env.Services.Blog.Delete(ctx, owner.ID, blog.ID))

	_, err = env.Services.Blog.GetByID(ctx, blog.ID)
	assert.ErrorIs(t, err, domain.ErrBlogNotFound)
	assert.Zero(t, env.Vectors.Len())
}

func TestBlogService_Feed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	reader, _ := testutil.NewUserBuilder().Build(t, env.DB)
	author, _ := testutil.NewUserBuilder().Build(t, env.DB)
	other, _ := testutil.NewUserBuilder().Build(t, env.DB)

	older := testutil.NewBlogBuilder(author.ID).
		WithCreatedAt(time.Now().Add(-time.Hour)).Build(t, env.DB)
	newer := testutil.NewBlogBuilder(author.ID).Build(t, env.DB)
	testutil.NewBlogBuilder(other.ID).Build(t, env.DB)

	t.Run("empty when following nobody", func(t *testing.T) {
		feed, err := env.Services.Blog.Feed(ctx, reader.ID)
		require.NoError(t, err)
		assert.Empty(t, feed)
	})

	t.Run("followed posts newest first", func(t *testing.T) {
		require.NoError(t, env.Services.User.Follow(ctx, reader.ID, author.ID))

		feed, err := env.Services.Blog.Feed(ctx, reader.ID)
		require.NoError(t, err)
		require.Len(t, feed, 2)
		assert.Equal(t, newer.ID, feed[0].ID)
		assert.Equal(t, older.ID, feed[1].ID)
	})

	t.Run("empty when followed user has no posts", func(t *testing.T) {
		lurker, _ := testutil.NewUserBuilder().Build(t, env.DB)
		quiet, _ := testutil.NewUserBuilder().Build(t, env.DB)
		require.NoError(t, env.Services.User.Follow(ctx, lurker.ID, quiet.ID))

		feed, err := env.Services.Blog.Feed(ctx, lurker.ID)
		require.NoError(t, err)
		assert.Empty(t, feed)
	})
}

func TestBlogService_ListByOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, env.DB)
	other, _ := testutil.NewUserBuilder().Build(t, env.DB)

	testutil.NewBlogBuilder(owner.ID).Build(t, env.DB)
	testutil.NewBlogBuilder(owner.ID).Build(t, env.DB)
	testutil.NewBlogBuilder(other.ID).Build(t, env.DB)

	blogs, err := env.Services.Blog.ListByOwner(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, blogs, 2)
}
