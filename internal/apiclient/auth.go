package apiclient

import (
	"context"
	"net/http"

	"github.com/upscprep/prepdesk/internal/domain"
)

// AuthService covers sign-in, registration and token refresh.
type AuthService struct {
	c *Client
}

// Login exchanges email and password for a token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.TokenPair, error) {
	in := map[string]string{"email": email, "password": password}
	var pair domain.TokenPair
	if err := s.c.sendJSON(ctx, http.MethodPost, "/auth/login", in, &pair); err != nil {
		return nil, err
	}
	return &pair, nil
}

// Register creates an account. The API answers with a token pair like Login.
func (s *AuthService) Register(ctx context.Context, reg domain.Registration) (*domain.TokenPair, error) {
	var pair domain.TokenPair
	if err := s.c.sendJSON(ctx, http.MethodPost, "/auth/register", reg, &pair); err != nil {
		return nil, err
	}
	return &pair, nil
}

// Refresh exchanges a refresh token for a new access token. It bypasses the
// client's 401 handling.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	in := map[string]string{"refresh_token": refreshToken}
	var pair domain.TokenPair
	if err := s.c.sendBare(ctx, http.MethodPost, "/auth/refresh", in, &pair); err != nil {
		return nil, err
	}
	return &pair, nil
}
