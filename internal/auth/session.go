package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
)

const (
	FlashSuccess = "success"
	FlashError   = "error"
)

const (
	userKey     = "user_id"
	redirectKey = "redirect_url"
	flashPrefix = "flash_"
)

// Session is the per-request view of the visitor's session: who is logged
// in, where to go after the next login, and pending flash messages. It is
// loaded once per request and saved once when the request finishes.
type Session struct {
	s *session.Session
}

func NewSession(s *session.Session) *Session {
	return &Session{s: s}
}

// UserID returns the logged-in user's id, if any.
func (s *Session) UserID() (uuid.UUID, bool) {
	raw, ok := s.s.Get(userKey).(string)
	if !ok || raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// Login binds userID to a fresh session id.
func (s *Session) Login(userID uuid.UUID) error {
	if err := s.s.Regenerate(); err != nil {
		return err
	}
	s.s.Set(userKey, userID.String())
	return nil
}

// Logout forgets the user and any pending redirect target and moves the
// visitor to a fresh session id. Flash messages survive.
func (s *Session) Logout() error {
	s.s.Delete(userKey)
	s.s.Delete(redirectKey)
	return s.s.Regenerate()
}

// SetRedirectTarget remembers path for the next successful login. Only
// site-relative paths are kept.
func (s *Session) SetRedirectTarget(path string) {
	if !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") {
		return
	}
	s.s.Set(redirectKey, path)
}

// ConsumeRedirectTarget returns the pending redirect target and clears it,
// so a target is used at most once.
func (s *Session) ConsumeRedirectTarget() (string, bool) {
	path, ok := s.s.Get(redirectKey).(string)
	s.s.Delete(redirectKey)
	if !ok || path == "" {
		return "", false
	}
	return path, true
}

// Flash queues a message of the given kind for the next rendered page.
func (s *Session) Flash(kind, message string) {
	key := flashPrefix + kind
	existing, _ := s.s.Get(key).([]string)
	s.s.Set(key, append(existing, message))
}

// Flashes returns and clears all queued messages.
func (s *Session) Flashes() map[string][]string {
	out := make(map[string][]string)
	for _, kind := range []string{FlashSuccess, FlashError} {
		key := flashPrefix + kind
		if msgs, ok := s.s.Get(key).([]string); ok && len(msgs) > 0 {
			out[kind] = msgs
		}
		s.s.Delete(key)
	}
	return out
}

func (s *Session) Save() error {
	return s.s.Save()
}
