package service_test

import (
	"testing"

	"NexusFlow/internal/model"
	"NexusFlow/internal/pkg"
	"NexusFlow/internal/service"
	"NexusFlow/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelloScenario(t *testing.T) {
	s := newServices(t)
	ctx := t.Context()
	a := testutil.CreateUser(t, s.db, model.RoleUser)
	b := testutil.CreateUser(t, s.db, model.RoleUser)

	p, err := s.posts.CreatePost(ctx, a, service.PostInput{Content: "Hello"})
	require.NoError(t, err)
	assert.Nil(t, p.CommunityID)
	require.NotNil(t, p.Author)

	_, err = s.likes.Like(ctx, b.ID, p.ID)
	require.NoError(t, err)
	got, err := s.posts.Get(ctx, p.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.LikesCount)
	assert.True(t, got.IsLiked)

	_, err = s.likes.Like(ctx, b.ID, p.ID)
	assert.ErrorIs(t, err, pkg.ErrAlreadyLiked)

	likes, err := s.likes.Likes(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, likes, 1)
	assert.Equal(t, b.ID, likes[0].UserID)

	require.NoError(t, s.likes.Unlike(ctx, b.ID, p.ID))
	require.NoError(t, s.likes.Unlike(ctx, b.ID, p.ID))
	got, err = s.posts.Get(ctx, p.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.LikesCount)
	assert.False(t, got.IsLiked)
	var rows int64
	require.NoError(t, s.db.Model(&model.PostLike{}).Where("post_id = ?", p.ID).Count(&rows).Error)
	assert.Zero(t, rows)
}

func TestCreatePostValidation(t *testing.T) {
	s := newServices(t)
	ctx := t.Context()
	a := testutil.CreateUser(t, s.db, model.RoleUser)

	_, err := s.posts.CreatePost(ctx, a, service.PostInput{Content: "  "})
	assert.Equal(t, pkg.KindInvalid, pkg.KindOf(err))

	_, err = s.posts.CreatePost(ctx, a, service.PostInput{Content: "hi", CommunityID: strPtr("missing")})
	assert.ErrorIs(t, err, pkg.ErrCommunityNotFound)

	c := testutil.CreateCommunity(t, s.db, a, "Hikers", true)
	p, err := s.posts.CreatePost(ctx, a, service.PostInput{Content: "hi", CommunityID: &c.ID, MediaURL: strPtr("https://cdn/x.png")})
	require.NoError(t, err)
	require.NotNil(t, p.Community)
	assert.Equal(t, "Hikers", p.Community.Name)

	list, err := s.posts.List(ctx, c.ID, a.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	mine, err := s.posts.ListByUser(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestPostOwnership(t *testing.T) {
	s := newServices(t)
	ctx := t.Context()
	author := testutil.CreateUser(t, s.db, model.RoleUser)
	other := testutil.CreateUser(t, s.db, model.RoleVolunteer)
	staff := testutil.CreateUser(t, s.db, model.RoleStaff)
	p := testutil.CreatePost(t, s.db, author, nil, "Hello")

	_, err := s.posts.UpdatePost(ctx, other, p.ID, service.PostUpdate{Content: strPtr("hacked")})
	assert.ErrorIs(t, err, pkg.ErrForbidden)
	assert.ErrorIs(t, s.posts.DeletePost(ctx, other, p.ID), pkg.ErrForbidden)

	updated, err := s.posts.UpdatePost(ctx, author, p.ID, service.PostUpdate{Content: strPtr("Hello again")})
	require.NoError(t, err)
	assert.Equal(t, "Hello again", updated.Content)

	updated, err = s.posts.UpdatePost(ctx, staff, p.ID, service.PostUpdate{MediaURL: strPtr("https://cdn/y.png")})
	require.NoError(t, err)
	require.NotNil(t, updated.MediaURL)
	assert.Equal(t, "https://cdn/y.png", *updated.MediaURL)

	require.NoError(t, s.posts.DeletePost(ctx, staff, p.ID))
	_, err = s.posts.Get(ctx, p.ID, author.ID)
	assert.ErrorIs(t, err, pkg.ErrPostNotFound)
}

func TestCommentOwnership(t *testing.T) {
	s := newServices(t)
	ctx := t.Context()
	author := testutil.CreateUser(t, s.db, model.RoleUser)
	commenter := testutil.CreateUser(t, s.db, model.RoleUser)
	admin := testutil.CreateUser(t, s.db, model.RoleAdmin)
	p := testutil.CreatePost(t, s.db, author, nil, "Hello")

	_, err := s.comments.AddComment(ctx, commenter, p.ID, "")
	assert.Equal(t, pkg.KindInvalid, pkg.KindOf(err))

	c1, err := s.comments.AddComment(ctx, commenter, p.ID, "nice")
	require.NoError(t, err)
	c2, err := s.comments.AddComment(ctx, commenter, p.ID, "again")
	require.NoError(t, err)

	assert.ErrorIs(t, s.comments.DeleteComment(ctx, author, c1.ID), pkg.ErrForbidden)
	require.NoError(t, s.comments.DeleteComment(ctx, commenter, c1.ID))
	require.NoError(t, s.comments.DeleteComment(ctx, admin, c2.ID))

	list, err := s.comments.ListComments(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
	got, err := s.posts.Get(ctx, p.ID, author.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.CommentsCount)

	_, err = s.comments.ListComments(ctx, "missing")
	assert.ErrorIs(t, err, pkg.ErrPostNotFound)
}
