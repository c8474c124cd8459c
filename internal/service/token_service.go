package service

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"backend/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenKind discriminates access from refresh tokens. Verification requires
// the caller to state which kind it expects; a refresh token presented where
// an access token is required fails, and vice versa.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// Claims is the payload of both token kinds. Role is a snapshot taken at
// issuance and is not re-checked against the database until the next
// issuance.
type Claims struct {
	Role string    `json:"role"`
	Kind TokenKind `json:"kind"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim.
func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// TokenService issues and verifies the signed credentials. Verification is a
// pure function of token, signing key and the service clock — no shared
// mutable state, safe under full concurrency. Clock skew is not compensated.
type TokenService interface {
	IssueAccess(user *model.User) (string, error)
	// IssueRefresh signs a refresh token expiring at the given time, so a
	// rotated replacement can inherit the original window instead of
	// silently extending it.
	IssueRefresh(user *model.User, expiresAt time.Time) (string, error)
	Verify(tokenString string, kind TokenKind) (*Claims, error)
	AccessTTL() time.Duration
	RefreshTTL() time.Duration
}

type tokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenService(secret []byte, accessTTL, refreshTTL time.Duration) TokenService {
	return &tokenService{secret: secret, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

func (s *tokenService) AccessTTL() time.Duration  { return s.accessTTL }
func (s *tokenService) RefreshTTL() time.Duration { return s.refreshTTL }

func (s *tokenService) IssueAccess(user *model.User) (string, error) {
	return s.sign(user, TokenKindAccess, time.Now().Add(s.accessTTL))
}

func (s *tokenService) IssueRefresh(user *model.User, expiresAt time.Time) (string, error) {
	return s.sign(user, TokenKindRefresh, expiresAt)
}

func (s *tokenService) sign(user *model.User, kind TokenKind, expiresAt time.Time) (string, error) {
	now := time.Now()
	claims := &Claims{
		Role: user.Role,
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: user.ID.String(),
			// The jti makes every issuance unique; without it a refresh
			// token rotated within the same second would be byte-identical
			// to the one it replaces.
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", kind, err)
	}
	return signed, nil
}

// Verify fails closed: a malformed, tampered, expired or wrong-kind token is
// never treated as valid.
func (s *tokenService) Verify(tokenString string, kind TokenKind) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if claims.Kind != kind {
		return nil, ErrInvalidToken
	}
	if _, err := claims.UserID(); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// HashRefreshToken returns the SHA-256 hex digest under which a refresh
// token is persisted. Only the digest ever touches storage.
func HashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
