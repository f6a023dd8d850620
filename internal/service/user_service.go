package service

import (
	"context"
	"errors"

	"NexusFlow/internal/model"
	"NexusFlow/internal/pkg"
	"NexusFlow/internal/repository/rdb"

	"gorm.io/gorm"
)

type UserService struct {
	repo           *rdb.UserRepository
	sessions       SessionStore
	tokens         *pkg.TokenIssuer
	identitySecret []byte
	notifier       *NotificationService
}

// LoginResult 登录返回 token 与用户资料
type LoginResult struct {
	*pkg.Pair
	User *model.User `json:"user"`
}

// ProfileInput nil 字段不修改
type ProfileInput struct {
	FirstName       *string
	LastName        *string
	Bio             *string
	ProfileImageURL *string
}

func NewUserService(db *gorm.DB, sessions SessionStore, tokens *pkg.TokenIssuer, identitySecret string, notifier *NotificationService) *UserService {
	return &UserService{
		repo:           &rdb.UserRepository{DB: db},
		sessions:       sessions,
		tokens:         tokens,
		identitySecret: []byte(identitySecret),
		notifier:       notifier,
	}
}

// Login 校验身份提供方的 id token，写入/刷新用户资料，签发会话 token
func (s *UserService) Login(ctx context.Context, idToken string) (*LoginResult, error) {
	claims, err := pkg.ParseIdentity(idToken, s.identitySecret)
	if err != nil {
		return nil, pkg.ErrUnauthorized
	}

	u := &model.User{
		ID:              claims.Subject,
		FirstName:       claims.GivenName,
		LastName:        claims.FamilyName,
		ProfileImageURL: claims.Picture,
	}
	if claims.Email != "" {
		u.Email = &claims.Email
	}
	user, err := s.repo.Upsert(ctx, u)
	if err != nil {
		return nil, err
	}

	pair, err := s.issue(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Pair: pair, User: user}, nil
}

// Refresh 用 refresh token 换新的一对 token，旧 access token 随之失效
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*pkg.Pair, error) {
	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return nil, pkg.ErrUnauthorized
	}
	if _, err := s.repo.FindByID(ctx, claims.UserID); err != nil {
		if errors.Is(err, pkg.ErrUserNotFound) {
			return nil, pkg.ErrUnauthorized
		}
		return nil, err
	}
	return s.issue(ctx, claims.UserID)
}

func (s *UserService) issue(ctx context.Context, userID string) (*pkg.Pair, error) {
	pair, err := s.tokens.GeneratePair(userID)
	if err != nil {
		return nil, err
	}
	// 将token写入会话存储
	if err := s.sessions.Save(ctx, userID, pair.AccessToken, s.tokens.AccessTTL); err != nil {
		return nil, err
	}
	return pair, nil
}

func (s *UserService) Logout(ctx context.Context, userID string) error {
	return s.sessions.Delete(ctx, userID)
}

// Authenticate 解析 access token，与会话存储中的 token 比对后续期，返回当前用户
func (s *UserService) Authenticate(ctx context.Context, accessToken string) (*model.User, error) {
	claims, err := s.tokens.ParseAccess(accessToken)
	if err != nil {
		return nil, pkg.ErrUnauthorized
	}

	stored, err := s.sessions.Get(ctx, claims.UserID)
	if errors.Is(err, pkg.ErrSessionNotFound) {
		return nil, pkg.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if stored != accessToken {
		return nil, pkg.ErrUnauthorized
	}
	if err := s.sessions.Extend(ctx, claims.UserID, s.tokens.AccessTTL); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, claims.UserID)
	if errors.Is(err, pkg.ErrUserNotFound) {
		return nil, pkg.ErrUnauthorized
	}
	return user, err
}

func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) List(ctx context.Context, caller *model.User) ([]model.User, error) {
	if !model.CanModerate(caller) {
		return nil, pkg.ErrForbidden
	}
	return s.repo.List(ctx)
}

// UpdateRole 只有 admin 可以修改角色，成功后通知被修改的用户
func (s *UserService) UpdateRole(ctx context.Context, caller *model.User, id string, role model.Role) (*model.User, error) {
	if !model.CanAssignRoles(caller) {
		return nil, pkg.ErrForbidden
	}
	if !role.Valid() {
		return nil, pkg.ErrInvalidRole
	}
	user, err := s.repo.UpdateRole(ctx, id, role)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.Notify(ctx, user.ID, model.NotifyRoleChanged,
			"Role updated", "Your role is now "+string(role), "")
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*model.User, error) {
	fields := map[string]any{}
	if in.FirstName != nil {
		fields["first_name"] = *in.FirstName
	}
	if in.LastName != nil {
		fields["last_name"] = *in.LastName
	}
	if in.Bio != nil {
		fields["bio"] = *in.Bio
	}
	if in.ProfileImageURL != nil {
		fields["profile_image_url"] = *in.ProfileImageURL
	}
	return s.repo.UpdateProfile(ctx, userID, fields)
}
