package webauth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	pgrepo "github.com/travhouse/communitybot/internal/repo/postgres"
)

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrSessionExpired = errors.New("session expired")
	ErrUnavailable    = errors.New("panel auth is unavailable")
)

type SessionStore interface {
	Create(ctx context.Context, sid uuid.UUID, username string, ttl time.Duration) error
	Touch(ctx context.Context, sid uuid.UUID, ttl time.Duration) (string, error)
	Revoke(ctx context.Context, sid uuid.UUID) error
}

type Service struct {
	username     string
	passwordHash string
	secret       []byte
	sessions     SessionStore
	sessionTTL   time.Duration
	configured   bool
}

type Claims struct {
	Username string
	SID      string
}

type tokenClaims struct {
	Username string `json:"username"`
	SID      string `json:"sid"`
	jwt.RegisteredClaims
}

func NewService(username, passwordHash, jwtSecret string, sessionTTL time.Duration, sessions SessionStore) *Service {
	secret := strings.TrimSpace(jwtSecret)
	if sessionTTL <= 0 {
		sessionTTL = 30 * time.Minute
	}
	return &Service{
		username:     strings.TrimSpace(username),
		passwordHash: strings.TrimSpace(passwordHash),
		secret:       []byte(secret),
		sessions:     sessions,
		sessionTTL:   sessionTTL,
		configured:   secret != "" && strings.TrimSpace(passwordHash) != "" && sessions != nil,
	}
}

func (s *Service) IsConfigured() bool {
	return s != nil && s.configured
}

// Login verifies panel credentials and opens a server-side session,
// returning a signed cookie token.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	if !s.IsConfigured() {
		return "", ErrUnavailable
	}
	if strings.TrimSpace(username) != s.username {
		return "", ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		return "", ErrUnauthorized
	}

	sid := uuid.New()
	if err := s.sessions.Create(ctx, sid, s.username, s.sessionTTL); err != nil {
		return "", fmt.Errorf("create panel session: %w", err)
	}

	return s.issue(sid)
}

func (s *Service) Validate(ctx context.Context, token string) (Claims, error) {
	if !s.IsConfigured() {
		return Claims{}, ErrUnavailable
	}

	claims, err := s.parse(token)
	if err != nil {
		return Claims{}, ErrUnauthorized
	}

	sid, err := uuid.Parse(claims.SID)
	if err != nil {
		return Claims{}, ErrUnauthorized
	}

	username, err := s.sessions.Touch(ctx, sid, s.sessionTTL)
	if err != nil {
		if errors.Is(err, pgrepo.ErrPanelSessionNotFound) {
			return Claims{}, ErrSessionExpired
		}
		return Claims{}, fmt.Errorf("touch panel session: %w", err)
	}

	claims.Username = username
	return claims, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	if !s.IsConfigured() {
		return ErrUnavailable
	}

	claims, err := s.parse(token)
	if err != nil {
		return nil
	}
	sid, err := uuid.Parse(claims.SID)
	if err != nil {
		return nil
	}

	return s.sessions.Revoke(ctx, sid)
}

func (s *Service) issue(sid uuid.UUID) (string, error) {
	now := time.Now().UTC()
	claims := tokenClaims{
		Username: s.username,
		SID:      sid.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionTTL)),
			NotBefore: jwt.NewNumericDate(now.Add(-5 * time.Second)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign panel token: %w", err)
	}
	return signed, nil
}

func (s *Service) parse(token string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrUnauthorized
		}
		return s.secret, nil
	})
	if err != nil {
		return Claims{}, ErrUnauthorized
	}
	tc, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return Claims{}, ErrUnauthorized
	}
	if strings.TrimSpace(tc.SID) == "" {
		return Claims{}, ErrUnauthorized
	}
	return Claims{
		Username: strings.TrimSpace(tc.Username),
		SID:      strings.TrimSpace(tc.SID),
	}, nil
}

// HashPassword is used by the operator tooling to produce the panel
// password hash for configuration.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
