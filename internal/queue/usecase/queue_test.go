package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"carelink-srv/internal/model"
	"carelink-srv/internal/queue"
	"carelink-srv/pkg/log"
)

type fakeJournal struct {
	drops   []model.QueueItem
	reasons []string
}

func (j *fakeJournal) ItemDropped(_ context.Context, item model.QueueItem, reason string) {
	j.drops = append(j.drops, item)
	j.reasons = append(j.reasons, reason)
}

func newTestQueue(cfg queue.Config, journal queue.Journal) queue.UseCase {
	return New(log.NewNoop(), cfg, journal)
}

func alertItem(id string, prio model.Priority, enqueuedAt time.Time) model.QueueItem {
	return model.QueueItem{
		ID:         id,
		Kind:       model.ItemAlert,
		AlertID:    "alert-" + id,
		Prio:       prio,
		EnqueuedAt: enqueuedAt,
	}
}

func TestQueue_StrictPriorityOrder(t *testing.T) {
	ctx := context.Background()
	q := newTestQueue(queue.Config{}, nil)
	base := time.Now().Add(-time.Minute)

	// Enqueue out of order; PeekReady must hand them back highest first.
	for i, prio := range []model.Priority{
		model.PriorityLow, model.PriorityCritical, model.PriorityMedium, model.PriorityHigh,
	} {
		it := alertItem(fmt.Sprintf("item-%d", i), prio, base.Add(time.Duration(i)*time.Second))
		if err := q.Enqueue(ctx, it); err != nil {
			t.Fatalf("Enqueue(%s) error = %v", it.ID, err)
		}
	}

	wantOrder := []model.Priority{
		model.PriorityCritical, model.PriorityHigh, model.PriorityMedium, model.PriorityLow,
	}
	for _, want := range wantOrder {
		it, ok := q.PeekReady(time.Now())
		if !ok {
			t.Fatalf("PeekReady returned no item, want priority %s", want)
		}
		if it.Prio != want {
			t.Fatalf("PeekReady priority = %s, want %s", it.Prio, want)
		}
		if err := q.Ack(ctx, it.ID); err != nil {
			t.Fatalf("Ack(%s) error = %v", it.ID, err)
		}
	}
	if q.Len() != 0 {
		t.Errorf("Len() = %d after draining, want 0", q.Len())
	}
}

func TestQueue_FIFOWithinTier(t *testing.T) {
	ctx := context.Background()
	q := newTestQueue(queue.Config{}, nil)
	base := time.Now().Add(-time.Minute)

	for i := 0; i < 3; i++ {
		it := alertItem(fmt.Sprintf("item-%d", i), model.PriorityHigh, base.Add(time.Duration(i)*time.Second))
		if err := q.Enqueue(ctx, it); err != nil {
			t.Fatalf("Enqueue error = %v", err)
		}
	}

	for i := 0; i < 3; i++ {
		it, ok := q.PeekReady(time.Now())
		if !ok {
			t.Fatal("PeekReady returned no item")
		}
		want := fmt.Sprintf("item-%d", i)
		if it.ID != want {
			t.Fatalf("PeekReady ID = %s, want %s (FIFO within tier)", it.ID, want)
		}
		q.Ack(ctx, it.ID)
	}
}

func TestQueue_OverflowEvictsLowestNeverCritical(t *testing.T) {
	ctx := context.Background()
	journal := &fakeJournal{}
	q := newTestQueue(queue.Config{Capacity: 2}, journal)
	base := time.Now().Add(-time.Minute)

	if err := q.Enqueue(ctx, alertItem("low", model.PriorityLow, base)); err != nil {
		t.Fatalf("Enqueue(low) error = %v", err)
	}
	if err := q.Enqueue(ctx, alertItem("crit-1", model.PriorityCritical, base)); err != nil {
		t.Fatalf("Enqueue(crit-1) error = %v", err)
	}

	// A CRITICAL arrival at capacity evicts the LOW item.
	if err := q.Enqueue(ctx, alertItem("crit-2", model.PriorityCritical, base)); err != nil {
		t.Fatalf("Enqueue(crit-2) at capacity error = %v", err)
	}
	if len(journal.drops) != 1 || journal.drops[0].ID != "low" {
		t.Fatalf("journal drops = %+v, want the LOW item dropped", journal.drops)
	}
	if journal.reasons[0] != "queue overflow" {
		t.Errorf("drop reason = %q, want queue overflow", journal.reasons[0])
	}

	// With only CRITICAL items left, admission fails rather than evicting.
	err := q.Enqueue(ctx, alertItem("crit-3", model.PriorityCritical, base))
	if !errors.Is(err, queue.ErrQueueFull) {
		t.Fatalf("Enqueue with all-CRITICAL queue error = %v, want ErrQueueFull", err)
	}
	if q.Len() != 2 {
		t.Errorf("Len() = %d, want 2", q.Len())
	}
}

func TestQueue_OverflowRejectsLowerPriorityArrival(t *testing.T) {
	ctx := context.Background()
	q := newTestQueue(queue.Config{Capacity: 1}, nil)
	base := time.Now().Add(-time.Minute)

	if err := q.Enqueue(ctx, alertItem("high", model.PriorityHigh, base)); err != nil {
		t.Fatalf("Enqueue(high) error = %v", err)
	}
	err := q.Enqueue(ctx, alertItem("low", model.PriorityLow, base))
	if !errors.Is(err, queue.ErrQueueFull) {
		t.Fatalf("lower-priority arrival error = %v, want ErrQueueFull", err)
	}
}

func TestQueue_RequeueBackoffAndExhaustion(t *testing.T) {
	ctx := context.Background()
	q := newTestQueue(queue.Config{BackoffBase: 30 * time.Second, BackoffCap: 10 * time.Minute}, nil)

	it := alertItem("retry-me", model.PriorityHigh, time.Now())
	it.MaxRetries = 2
	if err := q.Enqueue(ctx, it); err != nil {
		t.Fatalf("Enqueue error = %v", err)
	}

	// First requeue schedules the next attempt into the future.
	if err := q.Requeue(ctx, "retry-me"); err != nil {
		t.Fatalf("Requeue #1 error = %v", err)
	}
	if _, ok := q.PeekReady(time.Now()); ok {
		t.Fatal("item should not be ready immediately after requeue")
	}
	if got, ok := q.PeekReady(time.Now().Add(31 * time.Second)); !ok || got.ID != "retry-me" {
		t.Fatal("item should be ready once the backoff elapses")
	}

	if err := q.Requeue(ctx, "retry-me"); err != nil {
		t.Fatalf("Requeue #2 error = %v", err)
	}

	// Third requeue exhausts the budget and removes the item.
	err := q.Requeue(ctx, "retry-me")
	if !errors.Is(err, queue.ErrRetriesExhausted) {
		t.Fatalf("Requeue #3 error = %v, want ErrRetriesExhausted", err)
	}
	if q.Len() != 0 {
		t.Errorf("Len() = %d after exhaustion, want 0", q.Len())
	}
}

func TestConfig_Backoff(t *testing.T) {
	cfg := queue.Config{BackoffBase: 30 * time.Second, BackoffCap: 10 * time.Minute}.WithDefaults()

	tests := []struct {
		retry int
		want  time.Duration
	}{
		{0, 30 * time.Second},
		{1, time.Minute},
		{2, 2 * time.Minute},
		{3, 4 * time.Minute},
		{4, 8 * time.Minute},
		{5, 10 * time.Minute},
		{9, 10 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("retry %d", tt.retry), func(t *testing.T) {
			if got := cfg.Backoff(tt.retry); got != tt.want {
				t.Errorf("Backoff(%d) = %s, want %s", tt.retry, got, tt.want)
			}
		})
	}
}

func TestQueue_DeferDoesNotConsumeRetry(t *testing.T) {
	ctx := context.Background()
	q := newTestQueue(queue.Config{}, nil)

	it := alertItem("quiet", model.PriorityMedium, time.Now())
	it.MaxRetries = 1
	if err := q.Enqueue(ctx, it); err != nil {
		t.Fatalf("Enqueue error = %v", err)
	}

	until := time.Now().Add(time.Hour)
	if err := q.Defer(ctx, "quiet", until); err != nil {
		t.Fatalf("Defer error = %v", err)
	}
	if _, ok := q.PeekReady(time.Now()); ok {
		t.Fatal("deferred item should not be ready")
	}
	got, ok := q.PeekReady(until.Add(time.Second))
	if !ok {
		t.Fatal("deferred item should be ready after the deferral window")
	}
	if got.RetryCount != 0 {
		t.Errorf("RetryCount = %d after Defer, want 0", got.RetryCount)
	}
}

func TestQueue_PurgeExpired(t *testing.T) {
	ctx := context.Background()
	journal := &fakeJournal{}
	q := newTestQueue(queue.Config{}, journal)

	live := alertItem("live", model.PriorityHigh, time.Now())
	dead := alertItem("dead", model.PriorityHigh, time.Now())
	dead.ExpiresAt = time.Now().Add(time.Minute)

	if err := q.Enqueue(ctx, live); err != nil {
		t.Fatalf("Enqueue(live) error = %v", err)
	}
	if err := q.Enqueue(ctx, dead); err != nil {
		t.Fatalf("Enqueue(dead) error = %v", err)
	}

	expired := q.PurgeExpired(ctx, time.Now().Add(2*time.Minute))
	if len(expired) != 1 || expired[0].ID != "dead" {
		t.Fatalf("PurgeExpired = %+v, want only the dead item", expired)
	}
	if len(journal.drops) != 1 || journal.reasons[0] != "expired" {
		t.Errorf("journal = %+v / %v, want one expired drop", journal.drops, journal.reasons)
	}
	if q.Len() != 1 {
		t.Errorf("Len() = %d, want 1", q.Len())
	}
}

func TestQueue_EnqueueAlreadyExpired(t *testing.T) {
	q := newTestQueue(queue.Config{}, nil)

	it := alertItem("stale", model.PriorityLow, time.Now().Add(-2*time.Hour))
	it.ExpiresAt = time.Now().Add(-time.Hour)
	err := q.Enqueue(context.Background(), it)
	if !errors.Is(err, queue.ErrItemExpired) {
		t.Fatalf("Enqueue expired item error = %v, want ErrItemExpired", err)
	}
}

func TestQueue_CancelAlert(t *testing.T) {
	ctx := context.Background()
	q := newTestQueue(queue.Config{}, nil)

	a := alertItem("a", model.PriorityHigh, time.Now())
	b := alertItem("b", model.PriorityHigh, time.Now())
	b.AlertID = a.AlertID
	c := alertItem("c", model.PriorityHigh, time.Now())

	for _, it := range []model.QueueItem{a, b, c} {
		if err := q.Enqueue(ctx, it); err != nil {
			t.Fatalf("Enqueue error = %v", err)
		}
	}

	if n := q.CancelAlert(ctx, a.AlertID); n != 2 {
		t.Errorf("CancelAlert = %d, want 2", n)
	}
	if q.Len() != 1 {
		t.Errorf("Len() = %d, want 1", q.Len())
	}
}

func TestQueue_PurgeLink(t *testing.T) {
	ctx := context.Background()
	journal := &fakeJournal{}
	q := newTestQueue(queue.Config{}, journal)

	syncItem := model.QueueItem{
		ID:       "sync-1",
		Kind:     model.ItemSync,
		LinkID:   "link-1",
		Category: model.SyncCategoryVitals,
		Prio:     model.PriorityLow,
	}
	other := alertItem("alert-1", model.PriorityHigh, time.Now())

	if err := q.Enqueue(ctx, syncItem); err != nil {
		t.Fatalf("Enqueue(sync) error = %v", err)
	}
	if err := q.Enqueue(ctx, other); err != nil {
		t.Fatalf("Enqueue(alert) error = %v", err)
	}

	purged := q.PurgeLink(ctx, "link-1")
	if len(purged) != 1 || purged[0].ID != "sync-1" {
		t.Fatalf("PurgeLink = %+v, want only sync-1", purged)
	}
	if len(journal.reasons) != 1 || journal.reasons[0] != "link removed" {
		t.Errorf("journal reasons = %v, want [link removed]", journal.reasons)
	}
}

func TestQueue_HasReadyAlert(t *testing.T) {
	ctx := context.Background()
	q := newTestQueue(queue.Config{}, nil)

	syncItem := model.QueueItem{
		ID:       "sync-1",
		Kind:     model.ItemSync,
		LinkID:   "link-1",
		Category: model.SyncCategoryActivity,
		Prio:     model.PriorityLow,
	}
	if err := q.Enqueue(ctx, syncItem); err != nil {
		t.Fatalf("Enqueue(sync) error = %v", err)
	}
	if q.HasReadyAlert(time.Now()) {
		t.Fatal("sync-only queue must not report a ready alert")
	}

	if err := q.Enqueue(ctx, alertItem("a", model.PriorityCritical, time.Now())); err != nil {
		t.Fatalf("Enqueue(alert) error = %v", err)
	}
	if !q.HasReadyAlert(time.Now()) {
		t.Fatal("queued alert must be reported as ready")
	}
}
