package interview

import (
	"errors"
	"testing"
	"time"

	"github.com/girishnp17/Avaa-AI/internal/question"
	"github.com/girishnp17/Avaa-AI/internal/transcribe"
)

func registrySession(t *testing.T, id string) *Session {
	t.Helper()
	pool := transcribe.NewPool(1, 4)
	t.Cleanup(pool.Close)
	deps := Deps{
		Source: question.NewSource(fakeTextGen{reply: "Next question?"}, question.DefaultBank(), 15),
		STT:    &fakeSTT{},
		Pool:   pool,
	}
	s := New(id, testProfile(), testJob(), deps, Options{})
	t.Cleanup(s.Close)
	return s
}

func TestRegistry_PutGetDestroy(t *testing.T) {
	r := NewRegistry(time.Hour)
	defer r.Stop()

	s := registrySession(t, "alpha")
	if err := r.Put(s); err != nil {
		t.Fatal(err)
	}
	if err := r.Put(s); !errors.Is(err, ErrDuplicateSession) {
		t.Fatalf("duplicate put err = %v, want ErrDuplicateSession", err)
	}

	got, err := r.Get("alpha")
	if err != nil {
		t.Fatal(err)
	}
	if got != s {
		t.Fatal("Get returned a different session")
	}

	if err := r.Destroy("alpha"); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Get("alpha"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
	if err := r.Destroy("alpha"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("second destroy err = %v, want ErrSessionNotFound", err)
	}

	// destroyed sessions reject further operations
	if _, err := s.DeliverQuestion(); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("err = %v, want ErrSessionClosed", err)
	}
}

func TestRegistry_JanitorReapsIdleSessions(t *testing.T) {
	r := NewRegistry(30 * time.Millisecond)
	defer r.Stop()

	s := registrySession(t, "stale")
	if err := r.Put(s); err != nil {
		t.Fatal(err)
	}
	r.StartJanitor(10 * time.Millisecond)

	waitFor(t, 2*time.Second, func() bool {
		_, err := r.Get("stale")
		return errors.Is(err, ErrSessionNotFound)
	})
	if r.Len() != 0 {
		t.Fatalf("registry still holds %d sessions", r.Len())
	}
}

func TestRegistry_ActiveSessionSurvivesJanitor(t *testing.T) {
	r := NewRegistry(60 * time.Millisecond)
	defer r.Stop()

	s := registrySession(t, "busy")
	if err := r.Put(s); err != nil {
		t.Fatal(err)
	}
	r.StartJanitor(10 * time.Millisecond)

	// keep touching the session past the idle window
	for i := 0; i < 10; i++ {
		s.Status()
		time.Sleep(15 * time.Millisecond)
	}
	if _, err := r.Get("busy"); err != nil {
		t.Fatalf("active session reaped: %v", err)
	}
}

func TestRegistry_StopClosesSessions(t *testing.T) {
	r := NewRegistry(time.Hour)
	s := registrySession(t, "omega")
	if err := r.Put(s); err != nil {
		t.Fatal(err)
	}
	r.Stop()

	if r.Len() != 0 {
		t.Fatal("sessions remain after Stop")
	}
	if _, err := s.DeliverQuestion(); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("err = %v, want ErrSessionClosed", err)
	}
}
