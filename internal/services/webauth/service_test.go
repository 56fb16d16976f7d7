package webauth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	pgrepo "github.com/travhouse/communitybot/internal/repo/postgres"
)

type memSessions struct {
	mu      sync.Mutex
	entries map[uuid.UUID]string
}

func newMemSessions() *memSessions {
	return &memSessions{entries: map[uuid.UUID]string{}}
}

func (s *memSessions) Create(_ context.Context, sid uuid.UUID, username string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sid] = username
	return nil
}

func (s *memSessions) Touch(_ context.Context, sid uuid.UUID, _ time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	username, ok := s.entries[sid]
	if !ok {
		return "", pgrepo.ErrPanelSessionNotFound
	}
	return username, nil
}

func (s *memSessions) Revoke(_ context.Context, sid uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sid)
	return nil
}

func newTestService(t *testing.T, sessions SessionStore) *Service {
	t.Helper()
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return NewService("admin", hash, "test-jwt-secret", 30*time.Minute, sessions)
}

func TestLoginAndValidate(t *testing.T) {
	sessions := newMemSessions()
	svc := newTestService(t, sessions)
	ctx := context.Background()

	token, err := svc.Login(ctx, "admin", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Fatalf("expected a signed token")
	}

	claims, err := svc.Validate(ctx, token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.Username != "admin" {
		t.Fatalf("unexpected username: %q", claims.Username)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestService(t, newMemSessions())
	ctx := context.Background()

	if _, err := svc.Login(ctx, "admin", "wrong"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for bad password, got %v", err)
	}
	if _, err := svc.Login(ctx, "intruder", "s3cret"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for unknown user, got %v", err)
	}
}

func TestValidateRejectsGarbageAndRevokedTokens(t *testing.T) {
	sessions := newMemSessions()
	svc := newTestService(t, sessions)
	ctx := context.Background()

	if _, err := svc.Validate(ctx, "not-a-token"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for garbage token, got %v", err)
	}

	token, err := svc.Login(ctx, "admin", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := svc.Logout(ctx, token); err != nil {
		t.Fatalf("logout: %v", err)
	}

	if _, err := svc.Validate(ctx, token); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired after logout, got %v", err)
	}
}

func TestUnconfiguredServiceRefusesLogin(t *testing.T) {
	svc := NewService("admin", "", "", time.Minute, nil)
	if svc.IsConfigured() {
		t.Fatalf("service without secret and sessions must not be configured")
	}
	if _, err := svc.Login(context.Background(), "admin", "s3cret"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
