package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/upscprep/prepdesk/internal/domain"
	"github.com/upscprep/prepdesk/internal/storage"
)

// snapshot is the persisted form of the session under storage.KeyIdentity.
// The layout is shared with the web client, which writes the same key.
type snapshot struct {
	State   snapshotState `json:"state"`
	Version int           `json:"version"`
}

type snapshotState struct {
	User            *domain.Identity `json:"user"`
	IsAuthenticated bool             `json:"isAuthenticated"`
}

// Store is the client's view of who is signed in.
// IsAuthenticated is true exactly when an identity is present.
type Store struct {
	mu       sync.RWMutex
	identity *domain.Identity

	storage storage.Storage
	creds   *Credentials
	logger  *slog.Logger
}

// NewStore creates an unauthenticated Store. Call Initialize to restore a
// previous session.
func NewStore(store storage.Storage, creds *Credentials, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{storage: store, creds: creds, logger: logger}
}

// Identity returns the current identity and whether one is present.
func (s *Store) Identity() (domain.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.identity == nil {
		return domain.Identity{}, false
	}
	return *s.identity, true
}

// IsAuthenticated reports whether an identity is present.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity != nil
}

// SetIdentity replaces the current identity and persists the snapshot.
// A nil identity signs the store out without touching the tokens.
// The in-memory state changes even when persisting fails.
func (s *Store) SetIdentity(ctx context.Context, id *domain.Identity) error {
	s.mu.Lock()
	if id == nil {
		s.identity = nil
	} else {
		cp := *id
		s.identity = &cp
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	return s.persist(ctx, snap)
}

// SignOut clears both tokens and the identity. Signing out twice is harmless.
func (s *Store) SignOut(ctx context.Context) error {
	s.mu.Lock()
	s.identity = nil
	snap := s.snapshotLocked()
	s.mu.Unlock()

	var errs []error
	if err := s.creds.Clear(ctx); err != nil {
		errs = append(errs, fmt.Errorf("clear credentials: %w", err))
	}
	if err := s.persist(ctx, snap); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Initialize restores the session persisted by a previous run.
// The session is restored only when both the snapshot and an access token are
// present. Unreadable or malformed data is logged and treated as no session.
func (s *Store) Initialize(ctx context.Context) {
	restored := s.load(ctx)

	s.mu.Lock()
	s.identity = restored
	s.mu.Unlock()

	if restored != nil {
		s.logger.Debug("Session restored", "user_id", restored.ID, "role", restored.Role)
	}
}

func (s *Store) load(ctx context.Context) *domain.Identity {
	raw, ok, err := s.storage.Get(ctx, storage.KeyIdentity)
	if err != nil {
		s.logger.Warn("Failed to read stored session, starting signed out", "error", err)
		return nil
	}
	if !ok || raw == "" {
		return nil
	}

	token, err := s.creds.AccessToken(ctx)
	if err != nil {
		s.logger.Warn("Failed to read access token, starting signed out", "error", err)
		return nil
	}
	if token == "" {
		return nil
	}

	var snap snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		s.logger.Warn("Stored session is malformed, starting signed out", "error", err)
		return nil
	}
	return snap.State.User
}

func (s *Store) snapshotLocked() snapshot {
	snap := snapshot{State: snapshotState{IsAuthenticated: s.identity != nil}}
	if s.identity != nil {
		cp := *s.identity
		snap.State.User = &cp
	}
	return snap
}

func (s *Store) persist(ctx context.Context, snap snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.storage.Set(ctx, storage.KeyIdentity, string(data)); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}
