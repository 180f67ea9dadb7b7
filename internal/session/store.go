package session

import (
	"context"
	"errors"
	"sync"

	"exam-admin-console/internal/apiclient"
	"exam-admin-console/internal/logger"
	"exam-admin-console/internal/model"
	errs "exam-admin-console/pkg/errors"

	"github.com/rs/zerolog"
)

// Store holds the current bearer token and admin profile. Every
// authenticated screen is gated on it.
type Store struct {
	client *apiclient.Client
	tokens TokenStore

	mu      sync.RWMutex
	token   string
	profile *model.User
	loading bool

	log zerolog.Logger
}

func NewStore(client *apiclient.Client, tokens TokenStore) *Store {
	return &Store{
		client:  client,
		tokens:  tokens,
		loading: true,
		log:     logger.Named("session"),
	}
}

// Restore runs once at startup. A persisted token is attached and verified
// with a profile fetch; an expired or invalid token behaves as a logout.
// Loading always ends false so dependent views stop waiting.
func (s *Store) Restore(ctx context.Context) {
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	token, err := s.tokens.Load(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to read persisted token")
		return
	}
	if token == "" {
		return
	}

	profile, err := s.client.Profile(ctx, token)
	if err != nil {
		s.log.Info().Err(err).Msg("Persisted token rejected, clearing session")
		s.clear(ctx)
		return
	}

	s.mu.Lock()
	s.token = token
	s.profile = profile
	s.mu.Unlock()
	s.log.Info().Str("username", profile.Username).Msg("Session restored")
}

// Login authenticates against the remote service, persists the token and
// fetches the profile. A rejection maps to ErrInvalidCredentials.
func (s *Store) Login(ctx context.Context, username, password string) error {
	resp, err := s.client.Login(ctx, username, password)
	if err != nil {
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) {
			s.log.Info().Int("status", apiErr.Status).Msg("Login rejected")
			return errs.ErrInvalidCredentials
		}
		return err
	}

	if err := s.tokens.Save(ctx, resp.AccessToken); err != nil {
		s.log.Warn().Err(err).Msg("Failed to persist token")
	}

	s.mu.Lock()
	s.token = resp.AccessToken
	s.profile = &resp.User
	s.mu.Unlock()

	s.log.Info().Str("username", resp.User.Username).Msg("Logged in")
	return nil
}

// Logout clears the persisted token and the in-memory session. It never
// fails; persistence errors are only logged.
func (s *Store) Logout(ctx context.Context) {
	s.clear(ctx)
	s.log.Info().Msg("Logged out")
}

func (s *Store) clear(ctx context.Context) {
	if err := s.tokens.Clear(ctx); err != nil {
		s.log.Warn().Err(err).Msg("Failed to clear persisted token")
	}
	s.mu.Lock()
	s.token = ""
	s.profile = nil
	s.mu.Unlock()
}

// Token returns the current bearer token, sourced at call time so every
// outbound request carries its credential explicitly.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Store) Profile() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}
