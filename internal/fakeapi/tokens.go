package fakeapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// claims carries the user id in the subject and the token kind in "type".
type claims struct {
	Type string `json:"type"`
	jwt.RegisteredClaims
}

// tokenIssuer signs and verifies HS256 access and refresh tokens.
type tokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func (ti *tokenIssuer) issue(userID string) (access, refresh string, err error) {
	access, err = ti.sign(userID, tokenTypeAccess, ti.accessSecret, ti.accessTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err = ti.sign(userID, tokenTypeRefresh, ti.refreshSecret, ti.refreshTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (ti *tokenIssuer) sign(userID, kind string, secret []byte, ttl time.Duration) (string, error) {
	now := ti.now()
	c := &claims{
		Type: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			// Distinguishes tokens issued within the same second.
			ID: fmt.Sprintf("%d", now.UnixNano()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", kind, err)
	}
	return signed, nil
}

var errInvalidToken = errors.New("invalid or expired token")

// verify returns the user id of a valid token of the given kind.
func (ti *tokenIssuer) verify(token, kind string) (string, error) {
	secret := ti.accessSecret
	if kind == tokenTypeRefresh {
		secret = ti.refreshSecret
	}

	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(ti.now))
	if err != nil {
		return "", errInvalidToken
	}
	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid || c.Type != kind || c.Subject == "" {
		return "", errInvalidToken
	}
	return c.Subject, nil
}

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the authenticated user id from the request context.
func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(userIDKey).(string); ok {
		return v
	}
	return ""
}

// authenticate rejects requests without a valid access token.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			Error(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		userID, err := s.tokens.verify(token, tokenTypeAccess)
		if err != nil {
			Error(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		if _, ok := s.data.userByID(userID); !ok {
			Error(w, http.StatusUnauthorized, "User not found or deactivated")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
