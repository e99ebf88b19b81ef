// Package queue provides unit tests for the background sync scheduler.
package queue

import (
	"context"
	"testing"
	"time"

	"github.com/agrilens/backend/internal/kv"
	"github.com/agrilens/backend/internal/models"
)

func TestSchedulerRunsStartupPass(t *testing.T) {
	store := kv.NewMemoryStore()
	proc := &mockProcessor{failFor: map[string]error{}}
	svc := NewService(store, proc, nil)
	ctx := context.Background()

	if err := svc.Enqueue(ctx, imageRecord("startup", 100)); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	sched := NewScheduler(svc, time.Hour, nil)
	sched.Start(ctx)
	defer sched.Stop()

	deadline := time.After(2 * time.Second)
	for {
		count, err := svc.UnsyncedCount(ctx)
		if err != nil {
			t.Fatalf("UnsyncedCount failed: %v", err)
		}
		if count == 0 {
			return
		}
		select {
		case <-deadline:
			t.Fatal("startup pass never synced the queued record")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestSchedulerStopIsIdempotent(t *testing.T) {
	svc := NewService(kv.NewMemoryStore(), &mockProcessor{failFor: map[string]error{}}, nil)

	sched := NewScheduler(svc, time.Hour, nil)
	sched.Start(context.Background())
	sched.Start(context.Background()) // second Start is a no-op
	sched.Stop()
	sched.Stop() // second Stop must not panic
}

func TestSchedulerRestartsAfterStop(t *testing.T) {
	store := kv.NewMemoryStore()
	proc := &mockProcessor{failFor: map[string]error{}}
	svc := NewService(store, proc, nil)
	ctx := context.Background()

	sched := NewScheduler(svc, time.Hour, nil)
	sched.Start(ctx)
	sched.Stop()

	// Work queued while stopped must be picked up by the next run's
	// startup pass.
	if err := svc.Enqueue(ctx, imageRecord("after-restart", 100)); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	sched.Start(ctx)
	defer sched.Stop()

	deadline := time.After(2 * time.Second)
	for {
		count, err := svc.UnsyncedCount(ctx)
		if err != nil {
			t.Fatalf("UnsyncedCount failed: %v", err)
		}
		if count == 0 {
			return
		}
		select {
		case <-deadline:
			t.Fatal("restarted scheduler never ran a pass")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestSchedulerPeriodicPass(t *testing.T) {
	store := kv.NewMemoryStore()
	proc := &mockProcessor{failFor: map[string]error{}}
	svc := NewService(store, proc, nil)
	ctx := context.Background()

	sched := NewScheduler(svc, 20*time.Millisecond, nil)
	sched.Start(ctx)
	defer sched.Stop()

	// Give the startup pass time to finish, then enqueue work for a tick.
	time.Sleep(30 * time.Millisecond)
	rec := &models.PendingMedia{
		ID:        "late-arrival",
		FilePath:  "/captures/late.jpg",
		MediaKind: models.MediaKindImage,
		CreatedAt: time.Now().UnixMilli(),
	}
	if err := svc.Enqueue(ctx, rec); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		count, err := svc.UnsyncedCount(ctx)
		if err != nil {
			t.Fatalf("UnsyncedCount failed: %v", err)
		}
		if count == 0 {
			return
		}
		select {
		case <-deadline:
			t.Fatal("periodic pass never synced the record")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
