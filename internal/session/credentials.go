// Package session holds the signed-in identity and the credentials that
// authenticate API calls.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/upscprep/prepdesk/internal/storage"
)

// Credentials reads and writes the access and refresh tokens in durable storage.
type Credentials struct {
	store storage.Storage
}

// NewCredentials returns Credentials backed by store.
func NewCredentials(store storage.Storage) *Credentials {
	return &Credentials{store: store}
}

// AccessToken returns the stored access token, or "" when none is stored.
func (c *Credentials) AccessToken(ctx context.Context) (string, error) {
	v, _, err := c.store.Get(ctx, storage.KeyAccessToken)
	if err != nil {
		return "", fmt.Errorf("read access token: %w", err)
	}
	return v, nil
}

// RefreshToken returns the stored refresh token, or "" when none is stored.
func (c *Credentials) RefreshToken(ctx context.Context) (string, error) {
	v, _, err := c.store.Get(ctx, storage.KeyRefreshToken)
	if err != nil {
		return "", fmt.Errorf("read refresh token: %w", err)
	}
	return v, nil
}

// SetTokens stores both tokens.
func (c *Credentials) SetTokens(ctx context.Context, access, refresh string) error {
	if err := c.SetAccessToken(ctx, access); err != nil {
		return err
	}
	if err := c.store.Set(ctx, storage.KeyRefreshToken, refresh); err != nil {
		return fmt.Errorf("write refresh token: %w", err)
	}
	return nil
}

// SetAccessToken replaces only the access token.
func (c *Credentials) SetAccessToken(ctx context.Context, access string) error {
	if err := c.store.Set(ctx, storage.KeyAccessToken, access); err != nil {
		return fmt.Errorf("write access token: %w", err)
	}
	return nil
}

// Clear removes both tokens. Clearing absent tokens succeeds.
func (c *Credentials) Clear(ctx context.Context) error {
	return errors.Join(
		c.store.Remove(ctx, storage.KeyAccessToken),
		c.store.Remove(ctx, storage.KeyRefreshToken),
	)
}
