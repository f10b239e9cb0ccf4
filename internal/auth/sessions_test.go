package auth

import (
	"testing"
	"time"
)

func TestSessionLifecycle(t *testing.T) {
	s := NewSessions(time.Hour)

	sess := s.Start(User{UID: "uid-1", Email: "admin@example.com"})
	if sess.Token == "" {
		t.Fatal("expected a session token")
	}

	got, ok := s.Get(sess.Token)
	if !ok || got.User.UID != "uid-1" {
		t.Fatalf("get = %+v, %v", got, ok)
	}

	s.End(sess.Token)
	if _, ok := s.Get(sess.Token); ok {
		t.Fatal("expected session gone after End")
	}
}

func TestSessionExpiry(t *testing.T) {
	s := NewSessions(time.Hour)
	current := time.Now()
	s.now = func() time.Time { return current }

	sess := s.Start(User{UID: "uid-1"})

	current = current.Add(2 * time.Hour)
	if _, ok := s.Get(sess.Token); ok {
		t.Fatal("expected expired session to be rejected")
	}
}

func TestGetUnknownToken(t *testing.T) {
	s := NewSessions(time.Hour)
	if _, ok := s.Get("nope"); ok {
		t.Fatal("expected miss for unknown token")
	}
}

func TestSubscribeNotifiesSignInAndOut(t *testing.T) {
	s := NewSessions(time.Hour)

	var events []*User
	unsubscribe := s.Subscribe(func(u *User) { events = append(events, u) })

	sess := s.Start(User{UID: "uid-1"})
	s.End(sess.Token)

	if len(events) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(events))
	}
	if events[0] == nil || events[0].UID != "uid-1" {
		t.Fatalf("first event = %+v, want signed-in user", events[0])
	}
	if events[1] != nil {
		t.Fatalf("second event = %+v, want nil for sign-out", events[1])
	}

	unsubscribe()
	s.Start(User{UID: "uid-2"})
	if len(events) != 2 {
		t.Fatal("expected no notifications after unsubscribe")
	}
}

func TestEndUnknownTokenDoesNotNotify(t *testing.T) {
	s := NewSessions(time.Hour)
	calls := 0
	s.Subscribe(func(*User) { calls++ })

	s.End("missing")
	if calls != 0 {
		t.Fatalf("expected no notifications, got %d", calls)
	}
}
