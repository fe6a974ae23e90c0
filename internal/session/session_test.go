package session

import (
	"errors"
	"testing"
	"time"

	"github.com/clipforge/clipforge/internal/types"
)

func TestCreateAndGet(t *testing.T) {
	store := NewStore(0)

	sess := store.Create()
	if sess.ID == "" {
		t.Fatalf("expected session id")
	}

	got, err := store.Get(sess.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != sess.ID {
		t.Fatalf("id mismatch: %s vs %s", got.ID, sess.ID)
	}

	if _, err := store.Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdate(t *testing.T) {
	store := NewStore(0)
	sess := store.Create()

	err := store.Update(sess.ID, func(s *Session) {
		s.Query = "standup comedy"
		s.Results = []types.VideoSummary{{ID: "abc123"}}
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := store.Get(sess.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Query != "standup comedy" || len(got.Results) != 1 {
		t.Fatalf("update lost: %+v", got)
	}

	if err := store.Update("nope", func(*Session) {}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetReturnsSnapshot(t *testing.T) {
	store := NewStore(0)
	sess := store.Create()

	err := store.Update(sess.ID, func(s *Session) {
		s.Selected = &types.VideoSummary{ID: "abc123", Duration: 600}
		s.Suggestions = []types.ClipSuggestion{{Start: 45, End: 72}}
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	snap, err := store.Get(sess.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	// Mutations after the Get must not show up in the snapshot.
	err = store.Update(sess.ID, func(s *Session) {
		s.Suggestions = append(s.Suggestions, types.ClipSuggestion{Start: 100, End: 130})
		s.Suggestions[0].Start = 40
		s.Selected.Duration = 900
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(snap.Suggestions) != 1 || snap.Suggestions[0].Start != 45 {
		t.Fatalf("snapshot shares suggestion storage: %+v", snap.Suggestions)
	}
	if snap.Selected.Duration != 600 {
		t.Fatalf("snapshot shares selected video: %+v", snap.Selected)
	}

	// Writes to the snapshot must not leak into the store.
	snap.Suggestions[0].End = 999
	fresh, err := store.Get(sess.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if fresh.Suggestions[0].End == 999 {
		t.Fatalf("snapshot write leaked into store")
	}
}

func TestIdleExpiry(t *testing.T) {
	store := NewStore(time.Hour)
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	sess := store.Create()

	now = now.Add(30 * time.Minute)
	if _, err := store.Get(sess.ID); err != nil {
		t.Fatalf("session expired early: %v", err)
	}

	// The get above refreshed LastActive; push past the TTL from there.
	now = now.Add(2 * time.Hour)
	if _, err := store.Get(sess.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expiry, got %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expired session not swept, len=%d", store.Len())
	}
}

func TestDelete(t *testing.T) {
	store := NewStore(0)
	sess := store.Create()
	store.Delete(sess.ID)
	if _, err := store.Get(sess.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
