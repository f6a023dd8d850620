package rdb_test

import (
	"testing"

	"NexusFlow/internal/model"
	"NexusFlow/internal/pkg"
	"NexusFlow/internal/repository/rdb"
	"NexusFlow/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func countWhere(t *testing.T, db *gorm.DB, m any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(m).Where(query, args...).Count(&n).Error)
	return n
}

func TestLikeUnlikeKeepsLikesCount(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := t.Context()
	a := testutil.CreateUser(t, db, model.RoleUser)
	b := testutil.CreateUser(t, db, model.RoleUser)
	p := testutil.CreatePost(t, db, a, nil, "Hello")
	likes := &rdb.PostLikeRepository{DB: db}

	like, err := likes.Like(ctx, b.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, like.PostID)
	assert.Equal(t, int64(1), testutil.Reload[model.Post](t, db, p.ID).LikesCount)
	assert.Equal(t, int64(1), countWhere(t, db, &model.PostLike{}, "post_id = ? AND user_id = ?", p.ID, b.ID))

	_, err = likes.Like(ctx, b.ID, p.ID)
	assert.ErrorIs(t, err, pkg.ErrAlreadyLiked)
	assert.Equal(t, int64(1), testutil.Reload[model.Post](t, db, p.ID).LikesCount)

	changed, err := likes.Unlike(ctx, b.ID, p.ID)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, int64(0), testutil.Reload[model.Post](t, db, p.ID).LikesCount)
	assert.Zero(t, countWhere(t, db, &model.PostLike{}, "post_id = ?", p.ID))

	changed, err = likes.Unlike(ctx, b.ID, p.ID)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, int64(0), testutil.Reload[model.Post](t, db, p.ID).LikesCount)
}

func TestLikeNotifiesAuthorOnly(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := t.Context()
	a := testutil.CreateUser(t, db, model.RoleUser)
	b := testutil.CreateUser(t, db, model.RoleUser)
	p := testutil.CreatePost(t, db, a, nil, "Hello")
	likes := &rdb.PostLikeRepository{DB: db}

	_, err := likes.Like(ctx, a.ID, p.ID)
	require.NoError(t, err)
	assert.Zero(t, countWhere(t, db, &model.Notification{}, "user_id = ?", a.ID))

	_, err = likes.Like(ctx, b.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), countWhere(t, db, &model.Notification{}, "user_id = ? AND type = ?", a.ID, model.NotifyPostLiked))
}

func TestLikeMissingPost(t *testing.T) {
	db := testutil.NewDB(t)
	b := testutil.CreateUser(t, db, model.RoleUser)
	likes := &rdb.PostLikeRepository{DB: db}

	_, err := likes.Like(t.Context(), b.ID, "missing")
	assert.ErrorIs(t, err, pkg.ErrPostNotFound)
	assert.Zero(t, countWhere(t, db, &model.PostLike{}, "1 = 1"))
}

func TestCommentsKeepCommentsCount(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := t.Context()
	a := testutil.CreateUser(t, db, model.RoleUser)
	b := testutil.CreateUser(t, db, model.RoleUser)
	p := testutil.CreatePost(t, db, a, nil, "Hello")
	comments := &rdb.CommentRepository{DB: db}

	first := &model.Comment{PostID: p.ID, UserID: b.ID, Content: "first"}
	require.NoError(t, comments.Create(ctx, first))
	require.NoError(t, comments.Create(ctx, &model.Comment{PostID: p.ID, UserID: a.ID, Content: "second"}))
	assert.Equal(t, int64(2), testutil.Reload[model.Post](t, db, p.ID).CommentsCount)
	assert.Equal(t, int64(1), countWhere(t, db, &model.Notification{}, "user_id = ? AND type = ?", a.ID, model.NotifyPostCommented))

	list, err := comments.ListByPost(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Content)
	require.NotNil(t, list[0].Author)
	assert.Equal(t, b.ID, list[0].Author.ID)

	require.NoError(t, comments.Delete(ctx, first.ID))
	assert.Equal(t, int64(1), testutil.Reload[model.Post](t, db, p.ID).CommentsCount)
	assert.ErrorIs(t, comments.Delete(ctx, first.ID), pkg.ErrCommentNotFound)
	assert.Equal(t, int64(1), testutil.Reload[model.Post](t, db, p.ID).CommentsCount)

	err = comments.Create(ctx, &model.Comment{PostID: "missing", UserID: b.ID, Content: "x"})
	assert.ErrorIs(t, err, pkg.ErrPostNotFound)
}

func TestListPostsWithIsLiked(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := t.Context()
	a := testutil.CreateUser(t, db, model.RoleUser)
	b := testutil.CreateUser(t, db, model.RoleUser)
	c := testutil.CreateCommunity(t, db, a, "Hikers", true)
	older := testutil.CreatePost(t, db, a, c, "older")
	newer := testutil.CreatePost(t, db, a, c, "newer")
	testutil.CreatePost(t, db, a, nil, "elsewhere")

	_, err := (&rdb.PostLikeRepository{DB: db}).Like(ctx, b.ID, older.ID)
	require.NoError(t, err)

	posts := &rdb.PostRepository{DB: db}
	list, err := posts.List(ctx, c.ID, b.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.False(t, list[0].IsLiked)
	assert.Equal(t, older.ID, list[1].ID)
	assert.True(t, list[1].IsLiked)
	assert.Equal(t, int64(1), list[1].LikesCount)
	require.NotNil(t, list[1].Author)
	assert.Equal(t, a.ID, list[1].Author.ID)
	require.NotNil(t, list[1].Community)
	assert.Equal(t, "Hikers", list[1].Community.Name)

	all, err := posts.List(ctx, "", a.ID)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	for _, p := range all {
		assert.False(t, p.IsLiked)
	}

	got, err := posts.FindByID(ctx, older.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, got.IsLiked)

	_, err = posts.FindByID(ctx, "missing", b.ID)
	assert.ErrorIs(t, err, pkg.ErrPostNotFound)
}

func TestDeletePostRemovesEdges(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := t.Context()
	a := testutil.CreateUser(t, db, model.RoleUser)
	b := testutil.CreateUser(t, db, model.RoleUser)
	p := testutil.CreatePost(t, db, a, nil, "Hello")
	_, err := (&rdb.PostLikeRepository{DB: db}).Like(ctx, b.ID, p.ID)
	require.NoError(t, err)
	require.NoError(t, (&rdb.CommentRepository{DB: db}).Create(ctx, &model.Comment{PostID: p.ID, UserID: b.ID, Content: "hi"}))

	posts := &rdb.PostRepository{DB: db}
	require.NoError(t, posts.Delete(ctx, p.ID))
	assert.Zero(t, countWhere(t, db, &model.PostLike{}, "post_id = ?", p.ID))
	assert.Zero(t, countWhere(t, db, &model.Comment{}, "post_id = ?", p.ID))
	assert.ErrorIs(t, posts.Delete(ctx, p.ID), pkg.ErrPostNotFound)
}
