package pkg

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"
)

var (
	ErrTokenExpired      = errors.New("token expired")
	ErrTokenInvalid      = errors.New("token invalid")
	ErrRefreshExpired    = errors.New("refresh expired")
	ErrRefreshInvalid    = errors.New("refresh invalid")
	ErrTokenParseFailure = errors.New("token parse failure")
	ErrIdentityInvalid   = errors.New("identity token invalid")
)

type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

type Pair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// TokenIssuer 会话令牌签发，access 与 refresh 使用由同一个 secret 派生出的不同密钥
type TokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

func NewTokenIssuer(sessionSecret string, accessTTL, refreshTTL time.Duration) (*TokenIssuer, error) {
	access, err := deriveKey(sessionSecret, "nexus access token")
	if err != nil {
		return nil, err
	}
	refresh, err := deriveKey(sessionSecret, "nexus refresh token")
	if err != nil {
		return nil, err
	}
	return &TokenIssuer{
		accessSecret:  access,
		refreshSecret: refresh,
		AccessTTL:     accessTTL,
		RefreshTTL:    refreshTTL,
	}, nil
}

func deriveKey(secret, info string) ([]byte, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(info)), key); err != nil {
		return nil, fmt.Errorf("derive %s key: %w", info, err)
	}
	return key, nil
}

func (t *TokenIssuer) GeneratePair(userID string) (*Pair, error) {
	now := time.Now()

	access := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.AccessTTL)),
			Subject:   "access",
			ID:        uuid.NewString(),
		},
	})
	accessToken, err := access.SignedString(t.accessSecret)
	if err != nil {
		return nil, err
	}

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.RefreshTTL)),
			Subject:   "refresh",
			ID:        uuid.NewString(),
		},
	})
	refreshToken, err := refresh.SignedString(t.refreshSecret)
	if err != nil {
		return nil, err
	}

	return &Pair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// ParseAccess 解析 access
func (t *TokenIssuer) ParseAccess(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(*jwt.Token) (any, error) {
		return t.accessSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrTokenInvalid
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		default:
			return nil, err
		}
	}
	if !token.Valid {
		return nil, ErrTokenParseFailure
	}
	return token.Claims.(*Claims), nil
}

// ParseRefresh 校验 refresh，返回其中的用户
func (t *TokenIssuer) ParseRefresh(refreshToken string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(refreshToken, &Claims{}, func(*jwt.Token) (any, error) {
		return t.refreshSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrRefreshInvalid
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrRefreshExpired
		}
		return nil, ErrRefreshInvalid
	}
	if !token.Valid {
		return nil, ErrRefreshInvalid
	}
	return token.Claims.(*Claims), nil
}

// IdentityClaims 身份提供方签发的 id token
type IdentityClaims struct {
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Picture    string `json:"picture"`
	jwt.RegisteredClaims
}

func ParseIdentity(tokenStr string, secret []byte) (*IdentityClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &IdentityClaims{}, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, ErrIdentityInvalid
	}
	claims := token.Claims.(*IdentityClaims)
	if claims.Subject == "" {
		return nil, ErrIdentityInvalid
	}
	return claims, nil
}
