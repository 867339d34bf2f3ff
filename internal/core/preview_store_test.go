package core

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore() (*MemoryPreviewStore, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)}
	s := NewMemoryPreviewStore()
	s.now = clock.now
	return s, clock
}

func TestMemoryPreviewStore_SaveGetDelete(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	if err := s.Save(ctx, &ImportPreview{ID: "a", TeamID: "t1"}, time.Minute); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(ctx, "a")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.TeamID != "t1" {
		t.Errorf("TeamID = %q, want t1", got.TeamID)
	}

	got.TeamID = "mutated"
	again, _ := s.Get(ctx, "a")
	if again.TeamID != "t1" {
		t.Error("Get() must return a copy")
	}

	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, "a"); !errors.Is(err, ErrPreviewNotFound) {
		t.Errorf("Get() after Delete error = %v, want ErrPreviewNotFound", err)
	}
	if err := s.Delete(ctx, "a"); err != nil {
		t.Errorf("Delete() of missing id error = %v", err)
	}
}

func TestMemoryPreviewStore_Take(t *testing.T) {
	s, clock := newTestStore()
	ctx := context.Background()

	_ = s.Save(ctx, &ImportPreview{ID: "a", TeamID: "t1"}, time.Minute)
	got, err := s.Take(ctx, "a")
	if err != nil {
		t.Fatalf("Take() error = %v", err)
	}
	if got.TeamID != "t1" {
		t.Errorf("TeamID = %q, want t1", got.TeamID)
	}
	if _, err := s.Take(ctx, "a"); !errors.Is(err, ErrPreviewNotFound) {
		t.Errorf("second Take() error = %v, want ErrPreviewNotFound", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d after Take, want 0", s.Len())
	}

	_ = s.Save(ctx, &ImportPreview{ID: "old"}, time.Minute)
	clock.advance(time.Minute)
	if _, err := s.Take(ctx, "old"); !errors.Is(err, ErrPreviewNotFound) {
		t.Errorf("expired Take() error = %v, want ErrPreviewNotFound", err)
	}
}

func TestMemoryPreviewStore_TakeConcurrent(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()
	_ = s.Save(ctx, &ImportPreview{ID: "a"}, time.Minute)

	const callers = 8
	var (
		wg  sync.WaitGroup
		won atomic.Int32
	)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Take(ctx, "a"); err == nil {
				won.Add(1)
			}
		}()
	}
	wg.Wait()

	if won.Load() != 1 {
		t.Errorf("%d callers took the preview, want 1", won.Load())
	}
}

func TestMemoryPreviewStore_Expiry(t *testing.T) {
	s, clock := newTestStore()
	ctx := context.Background()

	_ = s.Save(ctx, &ImportPreview{ID: "short"}, time.Minute)
	_ = s.Save(ctx, &ImportPreview{ID: "long"}, time.Hour)

	clock.advance(time.Minute)
	if _, err := s.Get(ctx, "short"); !errors.Is(err, ErrPreviewNotFound) {
		t.Errorf("expired Get() error = %v, want ErrPreviewNotFound", err)
	}
	if _, err := s.Get(ctx, "long"); err != nil {
		t.Errorf("live Get() error = %v", err)
	}

	if s.Len() != 2 {
		t.Errorf("Len() = %d before sweep, want 2", s.Len())
	}
	if n := s.Sweep(); n != 1 {
		t.Errorf("Sweep() = %d, want 1", n)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d after sweep, want 1", s.Len())
	}
}

func TestMemoryPreviewStore_StartSweeperStops(t *testing.T) {
	s := NewMemoryPreviewStore()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		s.StartSweeper(ctx, time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("StartSweeper did not return after cancel")
	}
}
