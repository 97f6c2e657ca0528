package auth

import (
	"errors"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"chargepanel/internal/models"
)

// ErrInvalidCredentials represents a login failure.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

// ErrSessionExpired is returned when a token is valid but the session was
// revoked or aged out.
var ErrSessionExpired = errors.New("auth: session expired")

// Session is one active operator session.
type Session struct {
	ID        string    `json:"-"`
	Username  string    `json:"username"`
	LoginTime time.Time `json:"loginTime"`
}

// SessionService authenticates the operator and tracks active sessions in an
// in-process TTL registry, so logout revokes a token before it expires.
type SessionService struct {
	username  string
	hash      string
	hasher    Hasher
	tokenizer *TokenService
	active    *gocache.Cache
	logger    *zap.Logger
}

// NewSessionService builds the session service.
func NewSessionService(username, passwordHash string, hasher Hasher, tokenizer *TokenService, logger *zap.Logger) *SessionService {
	ttl := tokenizer.ExpiresIn()
	return &SessionService{
		username:  username,
		hash:      passwordHash,
		hasher:    hasher,
		tokenizer: tokenizer,
		active:    gocache.New(ttl, 10*time.Minute),
		logger:    logger,
	}
}

// TTL returns the session lifetime.
func (s *SessionService) TTL() time.Duration {
	return s.tokenizer.ExpiresIn()
}

// Login checks the operator credentials and issues a session token.
func (s *SessionService) Login(username, password string) (string, *Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", nil, ErrInvalidCredentials
	}
	if username != s.username {
		return "", nil, ErrInvalidCredentials
	}
	if err := s.hasher.Compare(s.hash, password); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	session := &Session{
		ID:        models.NewID(),
		Username:  username,
		LoginTime: time.Now().UTC(),
	}

	token, err := s.tokenizer.GenerateToken(session.Username, session.ID)
	if err != nil {
		return "", nil, err
	}

	s.active.Set(session.ID, session, gocache.DefaultExpiration)
	s.logger.Info("operator logged in", zap.String("username", username))
	return token, session, nil
}

// Validate verifies a token and resolves its live session.
func (s *SessionService) Validate(token string) (*Session, error) {
	claims, err := s.tokenizer.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	cached, ok := s.active.Get(claims.SessionID)
	if !ok {
		return nil, ErrSessionExpired
	}
	return cached.(*Session), nil
}

// Logout revokes a session.
func (s *SessionService) Logout(sessionID string) {
	s.active.Delete(sessionID)
	s.logger.Info("operator logged out")
}
