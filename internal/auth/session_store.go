package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Session binds one browser, through its session cookie, to the API token
// obtained when that browser logged in.
type Session struct {
	ID    string `json:"id"`
	Token string `json:"token"`
	CSRF  string `json:"csrf"`
}

type sessionKey struct{}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

func SessionFromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	return s, ok
}

// SessionStore keeps the open sessions keyed by id. When path is set they are
// persisted (0600) so a restart keeps staff logged in. It satisfies
// gateway.TokenSource: the token sent upstream is the one of the session
// attached to the request context.
type SessionStore struct {
	path   string
	logger *zap.Logger
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]Session
	loaded   bool
}

func NewSessionStore(path string, logger *zap.Logger) *SessionStore {
	return &SessionStore{
		path:   path,
		logger: logger,
		now:    time.Now,
	}
}

// Create opens a session for token with fresh random id and CSRF values.
// Sessions whose JWT has expired are dropped on the way.
func (s *SessionStore) Create(token string) (Session, error) {
	sess := Session{
		ID:    uuid.NewString(),
		Token: token,
		CSRF:  uuid.NewString(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()

	for id, cur := range s.sessions {
		if isExpired(cur.Token, s.now()) {
			delete(s.sessions, id)
		}
	}

	s.sessions[sess.ID] = sess
	if err := s.persistLocked(); err != nil {
		delete(s.sessions, sess.ID)
		return Session{}, err
	}
	return sess, nil
}

// Get returns the session id names, unless it is unknown or its token is a
// JWT whose exp claim has passed. Opaque tokens never expire here.
func (s *SessionStore) Get(id string) (Session, bool) {
	if id == "" {
		return Session{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()

	sess, ok := s.sessions[id]
	if !ok || isExpired(sess.Token, s.now()) {
		return Session{}, false
	}
	return sess, true
}

func (s *SessionStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()

	if _, ok := s.sessions[id]; !ok {
		return nil
	}
	delete(s.sessions, id)
	return s.persistLocked()
}

// Token returns the API token of the session carried by ctx, or "" when the
// request has none or the session ended meanwhile.
func (s *SessionStore) Token(ctx context.Context) string {
	sess, ok := SessionFromContext(ctx)
	if !ok {
		return ""
	}
	cur, ok := s.Get(sess.ID)
	if !ok {
		return ""
	}
	return cur.Token
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()
	return len(s.sessions)
}

func (s *SessionStore) loadLocked() {
	if s.loaded {
		return
	}
	s.loaded = true
	s.sessions = map[string]Session{}

	if s.path == "" {
		return
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("failed to read session file", zap.String("path", s.path), zap.Error(err))
		}
		return
	}

	var stored []Session
	if err := json.Unmarshal(data, &stored); err != nil {
		s.logger.Warn("ignoring malformed session file", zap.String("path", s.path), zap.Error(err))
		return
	}
	for _, sess := range stored {
		if sess.ID != "" && sess.Token != "" {
			s.sessions[sess.ID] = sess
		}
	}
}

func (s *SessionStore) persistLocked() error {
	if s.path == "" {
		return nil
	}

	if len(s.sessions) == 0 {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("removing session file: %w", err)
		}
		return nil
	}

	stored := make([]Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		stored = append(stored, sess)
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("encoding sessions: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	return nil
}

// isExpired only inspects the exp claim. Signature checks belong to the API.
func isExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !now.Before(exp.Time)
}
