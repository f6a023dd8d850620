package rdb_test

import (
	"testing"
	"time"

	"NexusFlow/internal/model"
	"NexusFlow/internal/pkg"
	"NexusFlow/internal/repository/rdb"
	"NexusFlow/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertKeepsRole(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := t.Context()
	repo := &rdb.UserRepository{DB: db}
	email := "ada@example.com"

	u, err := repo.Upsert(ctx, &model.User{ID: "sub-1", Email: &email, FirstName: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, u.Role)

	_, err = repo.UpdateRole(ctx, "sub-1", model.RoleStaff)
	require.NoError(t, err)

	u, err = repo.Upsert(ctx, &model.User{ID: "sub-1", Email: &email, FirstName: "Ada", LastName: "Lovelace"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleStaff, u.Role)
	assert.Equal(t, "Lovelace", u.LastName)

	var n int64
	require.NoError(t, db.Model(&model.User{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestUpdateProfile(t *testing.T) {
	db := testutil.NewDB(t)
	repo := &rdb.UserRepository{DB: db}
	u := testutil.CreateUser(t, db, model.RoleUser)

	got, err := repo.UpdateProfile(t.Context(), u.ID, map[string]any{"bio": "hiker"})
	require.NoError(t, err)
	assert.Equal(t, "hiker", got.Bio)
	assert.Equal(t, u.FirstName, got.FirstName)

	_, err = repo.UpdateProfile(t.Context(), "missing", map[string]any{"bio": "x"})
	assert.ErrorIs(t, err, pkg.ErrUserNotFound)
}

func TestSessionRepository(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := t.Context()
	repo := &rdb.SessionRepository{DB: db}

	_, err := repo.Get(ctx, "u1")
	assert.ErrorIs(t, err, pkg.ErrSessionNotFound)

	require.NoError(t, repo.Save(ctx, "u1", "tok-1", time.Hour))
	tok, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)

	// 新 token 覆盖旧 token
	require.NoError(t, repo.Save(ctx, "u1", "tok-2", time.Hour))
	tok, err = repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "tok-2", tok)

	require.NoError(t, repo.Save(ctx, "u2", "tok-3", -time.Minute))
	_, err = repo.Get(ctx, "u2")
	assert.ErrorIs(t, err, pkg.ErrSessionNotFound)
	purged, err := repo.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	require.NoError(t, repo.Delete(ctx, "u1"))
	_, err = repo.Get(ctx, "u1")
	assert.ErrorIs(t, err, pkg.ErrSessionNotFound)
}

func TestMarkNotificationRead(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := t.Context()
	a := testutil.CreateUser(t, db, model.RoleUser)
	b := testutil.CreateUser(t, db, model.RoleUser)
	repo := &rdb.NotificationRepository{DB: db}
	n := &model.Notification{UserID: a.ID, Type: model.NotifyRoleChanged, Title: "Role updated", Message: "staff"}
	require.NoError(t, repo.Create(ctx, n))

	assert.ErrorIs(t, repo.MarkRead(ctx, n.ID, b.ID), pkg.ErrNotificationNotFound)
	require.NoError(t, repo.MarkRead(ctx, n.ID, a.ID))

	list, err := repo.ListByUser(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].IsRead)
}
