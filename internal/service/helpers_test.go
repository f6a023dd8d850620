package service_test

import (
	"testing"
	"time"

	"NexusFlow/internal/pkg"
	"NexusFlow/internal/repository/rdb"
	"NexusFlow/internal/service"
	"NexusFlow/internal/testutil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const identitySecret = "identity-secret-for-tests"

type services struct {
	db            *gorm.DB
	users         *service.UserService
	communities   *service.CommunityService
	posts         *service.PostService
	likes         *service.PostLikeService
	comments      *service.CommentService
	events        *service.EventService
	notifications *service.NotificationService
	stats         *service.StatsService
}

func newServices(t *testing.T) *services {
	t.Helper()
	db := testutil.NewDB(t)
	tokens, err := pkg.NewTokenIssuer("session-secret-for-tests", 15*time.Minute, 24*time.Hour)
	require.NoError(t, err)
	notifier := service.NewNotificationService(db, nil, zap.NewNop())
	return &services{
		db:            db,
		users:         service.NewUserService(db, &rdb.SessionRepository{DB: db}, tokens, identitySecret, notifier),
		communities:   service.NewCommunityService(db, notifier),
		posts:         service.NewPostService(db),
		likes:         service.NewPostLikeService(db),
		comments:      service.NewCommentService(db),
		events:        service.NewEventService(db),
		notifications: notifier,
		stats:         service.NewStatsService(db),
	}
}

func identityToken(t *testing.T, subject, email string, ttl time.Duration) string {
	t.Helper()
	now := time.Now()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, pkg.IdentityClaims{
		Email:      email,
		GivenName:  "Ada",
		FamilyName: "Lovelace",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}).SignedString([]byte(identitySecret))
	require.NoError(t, err)
	return tok
}
