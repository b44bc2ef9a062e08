package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"carelink-srv/internal/escalation"
	"carelink-srv/internal/model"
	"carelink-srv/pkg/log"
	"carelink-srv/pkg/webhook"
)

type fakeNotifier struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (n *fakeNotifier) Notify(context.Context, webhook.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
	return n.err
}

func (n *fakeNotifier) NotifyUrgent(context.Context, string, string, map[string]string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
	return n.err
}

func (n *fakeNotifier) URL() string  { return "https://hook.example/test" }
func (n *fakeNotifier) Close() error { return nil }

func (n *fakeNotifier) callCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls
}

func testAlert(id string) model.EmergencyAlert {
	return model.EmergencyAlert{
		ID:         id,
		UserID:     "user-1",
		Type:       "PANIC_BUTTON",
		Message:    "no caregiver reached",
		Prio:       model.PriorityCritical,
		Status:     model.AlertFailed,
		RetryCount: 3,
		MaxRetries: 3,
	}
}

func newAuthority(advocate, secondary webhook.INotifier) escalation.UseCase {
	return New(log.NewNoop(), escalation.Config{}, advocate, secondary, nil, nil)
}

func TestOnExhausted_AdvocatePath(t *testing.T) {
	ctx := context.Background()
	advocate := &fakeNotifier{}
	secondary := &fakeNotifier{}
	uc := newAuthority(advocate, secondary)

	rec, err := uc.OnExhausted(ctx, testAlert("alert-1"))
	if err != nil {
		t.Fatalf("OnExhausted error = %v", err)
	}
	if rec.Path != model.PathElderRightsAdvocate {
		t.Errorf("path = %s, want ELDER_RIGHTS_ADVOCATE", rec.Path)
	}
	if !rec.NotifySucceeded || rec.RequiresManualIntervention {
		t.Errorf("record = %+v, want notified without manual intervention", rec)
	}
	if rec.Reason != model.ReasonRetriesExhausted {
		t.Errorf("reason = %s, want RETRIES_EXHAUSTED", rec.Reason)
	}
	if advocate.callCount() != 1 {
		t.Errorf("advocate calls = %d, want 1", advocate.callCount())
	}
	if secondary.callCount() != 0 {
		t.Errorf("secondary calls = %d, want 0 (advocate answered)", secondary.callCount())
	}
}

func TestOnExhausted_FallsBackToSecondary(t *testing.T) {
	ctx := context.Background()
	advocate := &fakeNotifier{err: errors.New("advocate endpoint down")}
	secondary := &fakeNotifier{}
	uc := newAuthority(advocate, secondary)

	rec, err := uc.OnExhausted(ctx, testAlert("alert-1"))
	if err != nil {
		t.Fatalf("OnExhausted error = %v", err)
	}
	if rec.Path != model.PathSecondaryCaregiver {
		t.Errorf("path = %s, want SECONDARY_CAREGIVER", rec.Path)
	}
	if !rec.NotifySucceeded {
		t.Error("secondary path answered, NotifySucceeded should be set")
	}
	if advocate.callCount() != 1 || secondary.callCount() != 1 {
		t.Errorf("calls = %d/%d, want both paths tried once", advocate.callCount(), secondary.callCount())
	}
}

func TestOnExhausted_AllPathsFail(t *testing.T) {
	ctx := context.Background()
	advocate := &fakeNotifier{err: errors.New("advocate endpoint down")}
	secondary := &fakeNotifier{err: errors.New("no answer")}
	uc := newAuthority(advocate, secondary)

	rec, err := uc.OnExhausted(ctx, testAlert("alert-1"))
	if err != nil {
		t.Fatalf("OnExhausted error = %v", err)
	}
	if rec.NotifySucceeded {
		t.Error("NotifySucceeded should be false when every path fails")
	}
	if !rec.RequiresManualIntervention {
		t.Error("RequiresManualIntervention must be set when every path fails")
	}
	// The record still exists and is queryable; failure is never silent loss.
	if got, ok := uc.RecordForAlert("alert-1"); !ok || got.ID != rec.ID {
		t.Error("record should be retained even when notification fails")
	}
}

func TestEscalateOnce_ExactlyOnePerAlert(t *testing.T) {
	ctx := context.Background()
	advocate := &fakeNotifier{}
	uc := newAuthority(advocate, nil)

	first, err := uc.OnExhausted(ctx, testAlert("alert-1"))
	if err != nil {
		t.Fatalf("OnExhausted error = %v", err)
	}
	// A later deadline miss for the same alert reuses the existing record.
	second, err := uc.OnDeadlineMissed(ctx, testAlert("alert-1"))
	if err != nil {
		t.Fatalf("OnDeadlineMissed error = %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("second record = %s, want the original %s", second.ID, first.ID)
	}
	if second.Reason != model.ReasonRetriesExhausted {
		t.Errorf("reason = %s, want the original reason preserved", second.Reason)
	}
	if advocate.callCount() != 1 {
		t.Errorf("advocate calls = %d, want 1 (no repeat notification)", advocate.callCount())
	}
	if n := len(uc.Unresolved()); n != 1 {
		t.Errorf("unresolved count = %d, want 1", n)
	}
}

func TestOnDeadlineMissed(t *testing.T) {
	ctx := context.Background()
	uc := newAuthority(&fakeNotifier{}, nil)

	rec, err := uc.OnDeadlineMissed(ctx, testAlert("alert-1"))
	if err != nil {
		t.Fatalf("OnDeadlineMissed error = %v", err)
	}
	if rec.Reason != model.ReasonDeadlineMissed {
		t.Errorf("reason = %s, want RESPONSE_DEADLINE_MISSED", rec.Reason)
	}
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	uc := newAuthority(&fakeNotifier{err: errors.New("down")}, nil)

	rec, err := uc.OnExhausted(ctx, testAlert("alert-1"))
	if err != nil {
		t.Fatalf("OnExhausted error = %v", err)
	}

	if _, err := uc.Resolve(ctx, rec.ID, ""); !errors.Is(err, escalation.ErrResolverRequired) {
		t.Errorf("Resolve without resolver error = %v, want ErrResolverRequired", err)
	}
	if _, err := uc.Resolve(ctx, "missing", "ops@example.org"); !errors.Is(err, escalation.ErrRecordNotFound) {
		t.Errorf("Resolve unknown record error = %v, want ErrRecordNotFound", err)
	}

	resolved, err := uc.Resolve(ctx, rec.ID, "ops@example.org")
	if err != nil {
		t.Fatalf("Resolve error = %v", err)
	}
	if resolved.ResolvedAt == nil || resolved.ResolvedBy != "ops@example.org" {
		t.Errorf("resolved record = %+v, want resolver and timestamp set", resolved)
	}
	// Resolution closes the record but keeps its history intact.
	if !resolved.RequiresManualIntervention {
		t.Error("manual intervention flag must survive resolution")
	}
	if n := len(uc.Unresolved()); n != 0 {
		t.Errorf("unresolved count = %d, want 0", n)
	}

	if _, err := uc.Resolve(ctx, rec.ID, "ops@example.org"); !errors.Is(err, escalation.ErrAlreadyResolved) {
		t.Errorf("double Resolve error = %v, want ErrAlreadyResolved", err)
	}
}

func TestUnresolved_OldestFirst(t *testing.T) {
	ctx := context.Background()
	uc := newAuthority(&fakeNotifier{}, nil)

	for _, id := range []string{"alert-1", "alert-2", "alert-3"} {
		if _, err := uc.OnExhausted(ctx, testAlert(id)); err != nil {
			t.Fatalf("OnExhausted(%s) error = %v", id, err)
		}
		time.Sleep(time.Millisecond)
	}

	open := uc.Unresolved()
	if len(open) != 3 {
		t.Fatalf("unresolved count = %d, want 3", len(open))
	}
	for i := 1; i < len(open); i++ {
		if open[i].CreatedAt.Before(open[i-1].CreatedAt) {
			t.Fatal("unresolved records should be ordered oldest first")
		}
	}
}
