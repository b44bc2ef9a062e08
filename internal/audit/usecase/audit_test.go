package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"carelink-srv/internal/audit"
	"carelink-srv/internal/model"
	"carelink-srv/pkg/log"
	"carelink-srv/pkg/paginator"
)

type fakeRepository struct {
	mu          sync.Mutex
	heartbeats  []model.Heartbeat
	alerts      []model.EmergencyAlert
	escalations []model.EscalationRecord
	drops       []model.QueueItem
	wrote       chan struct{}
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{wrote: make(chan struct{}, 64)}
}

func (r *fakeRepository) signal() {
	select {
	case r.wrote <- struct{}{}:
	default:
	}
}

func (r *fakeRepository) InsertHeartbeat(_ context.Context, hb model.Heartbeat) error {
	r.mu.Lock()
	r.heartbeats = append(r.heartbeats, hb)
	r.mu.Unlock()
	r.signal()
	return nil
}

func (r *fakeRepository) UpsertLink(context.Context, model.CaregiverLink) error {
	r.signal()
	return nil
}

func (r *fakeRepository) UpsertAlert(_ context.Context, alert model.EmergencyAlert) error {
	r.mu.Lock()
	r.alerts = append(r.alerts, alert)
	r.mu.Unlock()
	r.signal()
	return nil
}

func (r *fakeRepository) InsertQueueDrop(_ context.Context, item model.QueueItem, _ string) error {
	r.mu.Lock()
	r.drops = append(r.drops, item)
	r.mu.Unlock()
	r.signal()
	return nil
}

func (r *fakeRepository) InsertSyncOperation(context.Context, model.SyncOperation) error {
	r.signal()
	return nil
}

func (r *fakeRepository) UpsertEscalation(_ context.Context, rec model.EscalationRecord) error {
	r.mu.Lock()
	r.escalations = append(r.escalations, rec)
	r.mu.Unlock()
	r.signal()
	return nil
}

func (r *fakeRepository) Alerts(_ context.Context, _ audit.AlertFilter, limit, offset int64) ([]model.EmergencyAlert, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := int64(len(r.alerts))
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return append([]model.EmergencyAlert(nil), r.alerts[offset:end]...), total, nil
}

func (r *fakeRepository) Escalations(context.Context, bool, int64, int64) ([]model.EscalationRecord, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.EscalationRecord(nil), r.escalations...), int64(len(r.escalations)), nil
}

func (r *fakeRepository) SyncOperations(context.Context, string, int64, int64) ([]model.SyncOperation, int64, error) {
	return nil, 0, nil
}

func (r *fakeRepository) Heartbeats(context.Context, string, int) ([]model.Heartbeat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Heartbeat(nil), r.heartbeats...), nil
}

func (r *fakeRepository) waitWrites(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-r.wrote:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for write %d of %d", i+1, n)
		}
	}
}

func TestAudit_WorkerWritesRecords(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := newFakeRepository()
	uc := New(log.NewNoop(), audit.Config{}, repo)
	uc.Run(ctx)

	uc.RecordHeartbeat(ctx, model.Heartbeat{LinkID: "link-1", Success: true, At: time.Now()})
	uc.RecordAlert(ctx, model.EmergencyAlert{ID: "alert-1", Status: model.AlertPending})
	uc.ItemDropped(ctx, model.QueueItem{ID: "item-1", Kind: model.ItemAlert}, "expired")
	repo.waitWrites(t, 3)

	repo.mu.Lock()
	defer repo.mu.Unlock()
	if len(repo.heartbeats) != 1 || repo.heartbeats[0].LinkID != "link-1" {
		t.Errorf("heartbeats = %+v, want one for link-1", repo.heartbeats)
	}
	if len(repo.alerts) != 1 || repo.alerts[0].ID != "alert-1" {
		t.Errorf("alerts = %+v, want one for alert-1", repo.alerts)
	}
	if len(repo.drops) != 1 || repo.drops[0].ID != "item-1" {
		t.Errorf("drops = %+v, want one for item-1", repo.drops)
	}
}

func TestAudit_ShutdownDrainsBuffer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	repo := newFakeRepository()
	uc := New(log.NewNoop(), audit.Config{}, repo)
	uc.Run(ctx)

	for i := 0; i < 5; i++ {
		uc.RecordEscalation(ctx, model.EscalationRecord{ID: "rec", AlertID: "alert-1"})
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer shutdownCancel()
	if err := uc.Shutdown(shutdownCtx); err != nil {
		t.Fatalf("Shutdown error = %v", err)
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()
	if len(repo.escalations) != 5 {
		t.Errorf("escalations written = %d, want all 5 drained", len(repo.escalations))
	}
}

func TestAudit_AlertsPagination(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	for i := 0; i < 30; i++ {
		repo.alerts = append(repo.alerts, model.EmergencyAlert{ID: "alert", Status: model.AlertResolved})
	}
	uc := New(log.NewNoop(), audit.Config{}, repo)

	alerts, page, err := uc.Alerts(ctx, audit.AlertFilter{}, paginator.PaginateQuery{Page: 2, Limit: 25})
	if err != nil {
		t.Fatalf("Alerts error = %v", err)
	}
	if len(alerts) != 5 {
		t.Errorf("second page length = %d, want 5", len(alerts))
	}
	if page.Total != 30 || page.CurrentPage != 2 || page.PerPage != 25 {
		t.Errorf("paginator = %+v, want total 30, page 2, per page 25", page)
	}
	if page.TotalPages() != 2 || page.HasNextPage() {
		t.Errorf("paginator pages = %d hasNext = %v, want 2 pages and no next", page.TotalPages(), page.HasNextPage())
	}
}
