package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultSessionTTL is how long an admin session stays valid without a
// new sign-in.
const DefaultSessionTTL = 12 * time.Hour

// Session is one signed-in admin browser session, keyed by an opaque
// token carried in a cookie.
type Session struct {
	Token     string
	User      User
	ExpiresAt time.Time
}

// Sessions is a server-side session store. It is passed explicitly to
// the handlers that need it.
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]Session
	ttl      time.Duration
	now      func() time.Time

	nextSubID int
	subs      map[int]func(*User)
}

func NewSessions(ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Sessions{
		sessions: make(map[string]Session),
		ttl:      ttl,
		now:      time.Now,
		subs:     make(map[int]func(*User)),
	}
}

// Start creates a session for a freshly authenticated user and notifies
// subscribers.
func (s *Sessions) Start(u User) Session {
	s.mu.Lock()
	sess := Session{
		Token:     uuid.NewString(),
		User:      u,
		ExpiresAt: s.now().Add(s.ttl),
	}
	s.sessions[sess.Token] = sess
	subs := s.snapshotSubs()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(&u)
	}
	return sess
}

// Get returns the session for a token. Expired sessions are dropped and
// reported as absent.
func (s *Sessions) Get(token string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return Session{}, false
	}
	if s.now().After(sess.ExpiresAt) {
		delete(s.sessions, token)
		return Session{}, false
	}
	return sess, true
}

// End removes a session and notifies subscribers of the sign-out.
func (s *Sessions) End(token string) {
	s.mu.Lock()
	_, ok := s.sessions[token]
	delete(s.sessions, token)
	subs := s.snapshotSubs()
	s.mu.Unlock()

	if !ok {
		return
	}
	for _, fn := range subs {
		fn(nil)
	}
}

// Subscribe registers a callback invoked with the user on sign-in and
// nil on sign-out. The returned function unsubscribes.
func (s *Sessions) Subscribe(fn func(*User)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Sessions) snapshotSubs() []func(*User) {
	out := make([]func(*User), 0, len(s.subs))
	for _, fn := range s.subs {
		out = append(out, fn)
	}
	return out
}
