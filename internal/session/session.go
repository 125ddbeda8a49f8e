// file: internal/session/session.go
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"linkedout/internal/cache"
	"linkedout/internal/models"

	"github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const keyPrefix = "session:"

var (
	// ErrInvalidToken is returned for malformed, expired or badly signed tokens
	ErrInvalidToken = errors.New("invalid session token")
	// ErrSessionNotFound is returned when the token is valid but the session is gone
	ErrSessionNotFound = errors.New("session not found")
)

// Session is the logged-in user's context. User is a snapshot taken at login
// and replaced whenever the user's record changes through this session.
type Session struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	User      *models.User `json:"user"`
	CreatedAt time.Time    `json:"created_at"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// IsUser reports whether the session belongs to userID. A nil session
// belongs to nobody.
func (s *Session) IsUser(userID string) bool {
	return s != nil && s.UserID == userID
}

// CurrentUser returns the snapshot, or nil without a session
func (s *Session) CurrentUser() *models.User {
	if s == nil {
		return nil
	}
	return s.User
}

type claims struct {
	jwt.RegisteredClaims
}

// Manager issues signed tokens and keeps session snapshots in a cache
type Manager struct {
	cache  cache.Cache
	secret []byte
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewManager creates a session manager
func NewManager(c cache.Cache, secret string, ttl time.Duration, logger *zap.Logger) *Manager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		cache:  c,
		secret: []byte(secret),
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// Create opens a session for user and returns it with its signed token
func (m *Manager) Create(ctx context.Context, user *models.User) (*Session, string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate session id: %w", err)
	}

	now := m.now()
	sess := &Session{
		ID:        id.String(),
		UserID:    user.ID,
		User:      user.Public(),
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.ID,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign session token: %w", err)
	}

	if err := m.store(ctx, sess); err != nil {
		return nil, "", err
	}

	m.logger.Info("Session created",
		zap.String("user_id", user.ID),
		zap.String("session_id", sess.ID),
	)
	return sess, signed, nil
}

// Resolve validates a token and loads its session
func (m *Manager) Resolve(ctx context.Context, tokenString string) (*Session, error) {
	tokenString = strings.TrimSpace(strings.TrimPrefix(tokenString, "Bearer "))
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	var c claims
	_, err := jwt.ParseWithClaims(tokenString, &c, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		m.logger.Debug("Rejected session token", zap.Error(err))
		return nil, ErrInvalidToken
	}

	sess, ok := m.load(ctx, c.ID)
	if !ok || sess.UserID != c.Subject {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Refresh replaces the snapshot held by sess and the cached copy
func (m *Manager) Refresh(ctx context.Context, sess *Session, user *models.User) error {
	if sess == nil || user == nil || sess.UserID != user.ID {
		return nil
	}
	sess.User = user.Public()
	return m.store(ctx, sess)
}

// Destroy ends a session
func (m *Manager) Destroy(ctx context.Context, sess *Session) error {
	if sess == nil {
		return nil
	}
	if err := m.cache.Delete(ctx, keyPrefix+sess.ID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	m.logger.Info("Session destroyed",
		zap.String("user_id", sess.UserID),
		zap.String("session_id", sess.ID),
	)
	return nil
}

// ActiveSessions returns every session that has not expired yet
func (m *Manager) ActiveSessions(ctx context.Context) []*Session {
	keys, err := m.cache.Keys(ctx, keyPrefix+"*")
	if err != nil {
		m.logger.Warn("Failed to list sessions", zap.Error(err))
		return nil
	}

	out := make([]*Session, 0, len(keys))
	for _, key := range keys {
		if sess, ok := m.load(ctx, strings.TrimPrefix(key, keyPrefix)); ok {
			out = append(out, sess)
		}
	}
	return out
}

func (m *Manager) store(ctx context.Context, sess *Session) error {
	ttl := sess.ExpiresAt.Sub(m.now())
	if ttl <= 0 {
		return ErrInvalidToken
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := m.cache.Set(ctx, keyPrefix+sess.ID, data, ttl); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func (m *Manager) load(ctx context.Context, id string) (*Session, bool) {
	data, ok := m.cache.Get(ctx, keyPrefix+id)
	if !ok {
		return nil, false
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		m.logger.Warn("Discarding unreadable session", zap.String("session_id", id), zap.Error(err))
		return nil, false
	}
	if !sess.ExpiresAt.After(m.now()) {
		return nil, false
	}
	return &sess, true
}

// ===============================
// CONTEXT HELPERS
// ===============================

type contextKey struct{}

// WithSession stores sess in ctx
func WithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, sess)
}

// FromContext returns the request's session, or nil
func FromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(contextKey{}).(*Session)
	return sess
}
