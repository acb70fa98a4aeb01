package token

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Purpose discriminates the three signed-token shapes. Verification always
// checks the purpose before trusting any other claim, so a token of one kind
// can never be replayed as another.
const (
	PurposeSession    = "session"
	PurposeAPIKey     = "api_key"
	PurposeInvitation = "invitation"
)

// APIKeyPrefix is the fixed marker in front of every issued API key. It lets
// DecodeAPIKey reject clearly-foreign strings in O(1) before touching the
// signature.
const APIKeyPrefix = "etk_"

// InvitationTTL is the fixed lifetime of invitation tokens.
const InvitationTTL = 24 * time.Hour

// SessionClaims are the claims embedded in a session token. CompanyID is
// omitted from the payload, not serialized as null, when the principal has
// no company.
type SessionClaims struct {
	UserID    int64  `json:"userId"`
	CompanyID *int64 `json:"companyId,omitempty"`
	IsAdmin   bool   `json:"isAdmin"`
	Purpose   string `json:"purpose"`
	jwt.RegisteredClaims
}

// APIKeyClaims are the claims embedded in an API key. There is no expiry:
// keys live until their stored record is deactivated.
type APIKeyClaims struct {
	UserID    int64  `json:"userId"`
	CompanyID int64  `json:"companyId"`
	Purpose   string `json:"purpose"`
	jwt.RegisteredClaims
}

// InvitationClaims are the claims embedded in an invitation token.
type InvitationClaims struct {
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies all three token shapes with one
// process-wide HMAC secret, loaded once at startup and read-only afterwards.
type TokenService struct {
	secret     []byte
	sessionTTL time.Duration
}

var signToken = func(token *jwt.Token, secret []byte) (string, error) {
	return token.SignedString(secret)
}

// NewTokenService creates a new token service
func NewTokenService(secret string, sessionTTL time.Duration) *TokenService {
	return &TokenService{
		secret:     []byte(secret),
		sessionTTL: sessionTTL,
	}
}

// SessionTTL returns the configured default session lifetime.
func (s *TokenService) SessionTTL() time.Duration {
	return s.sessionTTL
}

// IssueSession produces a signed session token with an absolute expiry.
// A zero ttl falls back to the configured default.
func (s *TokenService) IssueSession(userID int64, companyID *int64, isAdmin bool, ttl time.Duration) (string, error) {
	if ttl == 0 {
		ttl = s.sessionTTL
	}
	now := time.Now()
	claims := &SessionClaims{
		UserID:    userID,
		CompanyID: companyID,
		IsAdmin:   isAdmin,
		Purpose:   PurposeSession,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	return signToken(jwt.NewWithClaims(jwt.SigningMethodHS256, claims), s.secret)
}

// VerifySession validates a session token and returns its claims.
func (s *TokenService) VerifySession(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&SessionClaims{},
		s.keyFunc,
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.Purpose != PurposeSession {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// IssueAPIKey produces a marker-prefixed signed API key bound to one user
// and one company. The key carries no expiry and is never persisted; callers
// store only its hash. The random jti guarantees every issued key is a
// distinct plaintext, so a regenerated key never collides with the one it
// replaces.
func (s *TokenService) IssueAPIKey(userID, companyID int64) (string, error) {
	claims := &APIKeyClaims{
		UserID:    userID,
		CompanyID: companyID,
		Purpose:   PurposeAPIKey,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}

	signed, err := signToken(jwt.NewWithClaims(jwt.SigningMethodHS256, claims), s.secret)
	if err != nil {
		return "", err
	}
	return APIKeyPrefix + signed, nil
}

// DecodeAPIKey verifies an API key and returns its claims. It reports
// failure via the second return value rather than an error: this credential
// shape is expected to be probed, and the caller must not leak which part of
// validation failed.
func (s *TokenService) DecodeAPIKey(plaintext string) (*APIKeyClaims, bool) {
	if !strings.HasPrefix(plaintext, APIKeyPrefix) {
		return nil, false
	}

	token, err := jwt.ParseWithClaims(
		strings.TrimPrefix(plaintext, APIKeyPrefix),
		&APIKeyClaims{},
		s.keyFunc,
	)
	if err != nil {
		return nil, false
	}

	claims, ok := token.Claims.(*APIKeyClaims)
	if !ok || !token.Valid || claims.Purpose != PurposeAPIKey {
		return nil, false
	}

	return claims, true
}

// IssueInvitation produces a signed invitation token for an email address
// with a fixed 24-hour expiry.
func (s *TokenService) IssueInvitation(email string) (string, error) {
	now := time.Now()
	claims := &InvitationClaims{
		Email:   email,
		Purpose: PurposeInvitation,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(InvitationTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	return signToken(jwt.NewWithClaims(jwt.SigningMethodHS256, claims), s.secret)
}

// VerifyInvitation validates an invitation token and returns the invited
// email address.
func (s *TokenService) VerifyInvitation(tokenString string) (string, bool) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&InvitationClaims{},
		s.keyFunc,
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", false
	}

	claims, ok := token.Claims.(*InvitationClaims)
	if !ok || !token.Valid || claims.Purpose != PurposeInvitation {
		return "", false
	}

	return claims.Email, true
}

func (s *TokenService) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, ErrInvalidToken
	}
	return s.secret, nil
}
