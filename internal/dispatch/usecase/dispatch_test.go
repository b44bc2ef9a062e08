package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"carelink-srv/internal/channel"
	"carelink-srv/internal/connectivity"
	"carelink-srv/internal/dispatch"
	"carelink-srv/internal/model"
	"carelink-srv/internal/queue"
	queueUC "carelink-srv/internal/queue/usecase"
	pkgErrors "carelink-srv/pkg/errors"
	"carelink-srv/pkg/log"
)

type fakeMonitor struct {
	mu    sync.Mutex
	links map[string]model.CaregiverLink
}

func newFakeMonitor(links ...model.CaregiverLink) *fakeMonitor {
	m := &fakeMonitor{links: make(map[string]model.CaregiverLink)}
	for _, l := range links {
		m.links[l.ID] = l
	}
	return m
}

func (m *fakeMonitor) AddLink(_ context.Context, link model.CaregiverLink) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.links[link.ID] = link
	return nil
}

func (m *fakeMonitor) RemoveLink(_ context.Context, linkID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.links, linkID)
	return nil
}

func (m *fakeMonitor) Link(linkID string) (model.CaregiverLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.links[linkID]
	if !ok {
		return model.CaregiverLink{}, connectivity.ErrLinkNotFound
	}
	return l, nil
}

func (m *fakeMonitor) Links() []model.CaregiverLink {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.CaregiverLink, 0, len(m.links))
	for _, l := range m.links {
		out = append(out, l)
	}
	return out
}

func (m *fakeMonitor) State(linkID string) model.LinkState {
	l, err := m.Link(linkID)
	if err != nil {
		return model.LinkStateUnknown
	}
	return l.State
}

func (m *fakeMonitor) Quality(linkID string) model.LinkQuality {
	l, err := m.Link(linkID)
	if err != nil {
		return model.QualityUnknown
	}
	return l.Quality
}

func (m *fakeMonitor) Health(linkID string) (model.LinkHealth, error) {
	l, err := m.Link(linkID)
	if err != nil {
		return model.LinkHealth{}, err
	}
	return model.LinkHealth{LinkID: l.ID, State: l.State, Quality: l.Quality}, nil
}

func (m *fakeMonitor) HealthAll() []model.LinkHealth {
	var out []model.LinkHealth
	for _, l := range m.Links() {
		out = append(out, model.LinkHealth{LinkID: l.ID, State: l.State, Quality: l.Quality})
	}
	return out
}

func (m *fakeMonitor) Subscribe(connectivity.TransitionFunc) {}
func (m *fakeMonitor) Run(context.Context)                   {}
func (m *fakeMonitor) Shutdown(context.Context) error        { return nil }

func (m *fakeMonitor) setState(linkID string, s model.LinkState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l := m.links[linkID]
	l.State = s
	m.links[linkID] = l
}

type fakeChannel struct {
	typ model.ChannelType

	mu    sync.Mutex
	calls int
	err   error
}

func (c *fakeChannel) Type() model.ChannelType { return c.typ }

func (c *fakeChannel) Send(_ context.Context, _ string, _ channel.Message) (channel.SendResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return channel.SendResult{}, c.err
	}
	return channel.SendResult{DeliveryToken: fmt.Sprintf("tok-%d", c.calls)}, nil
}

func (c *fakeChannel) sendCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

type fakeEscalator struct {
	mu    sync.Mutex
	calls int
	path  model.EscalationPath
}

func (e *fakeEscalator) OnExhausted(_ context.Context, alert model.EmergencyAlert) (model.EscalationRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	return model.EscalationRecord{
		ID:      fmt.Sprintf("esc-%d", e.calls),
		AlertID: alert.ID,
		UserID:  alert.UserID,
		Reason:  model.ReasonRetriesExhausted,
		Path:    e.path,
	}, nil
}

func (e *fakeEscalator) callCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

func onlineLink(id, userID string, channels ...model.ChannelType) model.CaregiverLink {
	return model.CaregiverLink{
		ID:          id,
		UserID:      userID,
		CaregiverID: "cg-" + id,
		Target:      "target-" + id,
		State:       model.LinkStateOnline,
		Policy:      model.ChannelPolicy{Enabled: channels},
	}
}

type dispatcherEnv struct {
	uc      *implUseCase
	q       queue.UseCase
	monitor *fakeMonitor
	esc     *fakeEscalator
}

func newDispatcherEnv(t *testing.T, cfg dispatch.Config, monitor *fakeMonitor, channels ...channel.Channel) *dispatcherEnv {
	t.Helper()

	registry, err := channel.NewRegistry(channels...)
	if err != nil {
		t.Fatalf("NewRegistry error = %v", err)
	}
	q := queueUC.New(log.NewNoop(), queue.Config{
		BackoffBase: time.Nanosecond,
		BackoffCap:  time.Nanosecond,
	}, nil)
	esc := &fakeEscalator{path: model.PathElderRightsAdvocate}

	uc := New(log.NewNoop(), cfg, monitor, q, registry, esc, nil, nil, nil)
	return &dispatcherEnv{
		uc:      uc.(*implUseCase),
		q:       q,
		monitor: monitor,
		esc:     esc,
	}
}

func emergencyEvent(userID, priority string) model.EmergencyEvent {
	return model.EmergencyEvent{
		ID:        "ev-1",
		UserID:    userID,
		Type:      "PANIC_BUTTON",
		Message:   "help needed",
		Priority:  priority,
		Timestamp: time.Now(),
	}
}

func TestHandleEvent(t *testing.T) {
	ctx := context.Background()
	env := newDispatcherEnv(t, dispatch.Config{},
		newFakeMonitor(onlineLink("link-1", "user-1", model.ChannelSMS)),
		&fakeChannel{typ: model.ChannelSMS})

	alert, err := env.uc.HandleEvent(ctx, emergencyEvent("user-1", "CRITICAL"))
	if err != nil {
		t.Fatalf("HandleEvent error = %v", err)
	}
	if alert.Status != model.AlertPending {
		t.Errorf("status = %s, want PENDING", alert.Status)
	}
	if alert.Prio != model.PriorityCritical {
		t.Errorf("priority = %s, want CRITICAL", alert.Prio)
	}
	if len(alert.TargetLinks) != 1 || alert.TargetLinks[0] != "link-1" {
		t.Errorf("target links = %v, want [link-1]", alert.TargetLinks)
	}
	if alert.ResponseDeadline.IsZero() {
		t.Error("emergency alert should carry a response deadline")
	}
	if env.q.Len() != 1 {
		t.Errorf("queue length = %d, want 1", env.q.Len())
	}
}

func TestHandleEvent_NoTargetLinks(t *testing.T) {
	env := newDispatcherEnv(t, dispatch.Config{}, newFakeMonitor(),
		&fakeChannel{typ: model.ChannelSMS})

	_, err := env.uc.HandleEvent(context.Background(), emergencyEvent("user-1", "HIGH"))
	if !errors.Is(err, dispatch.ErrNoTargetLinks) {
		t.Fatalf("HandleEvent error = %v, want ErrNoTargetLinks", err)
	}
}

func TestHandleEvent_LowPriorityHasNoDeadline(t *testing.T) {
	env := newDispatcherEnv(t, dispatch.Config{},
		newFakeMonitor(onlineLink("link-1", "user-1", model.ChannelSMS)),
		&fakeChannel{typ: model.ChannelSMS})

	alert, err := env.uc.HandleEvent(context.Background(), emergencyEvent("user-1", "MEDIUM"))
	if err != nil {
		t.Fatalf("HandleEvent error = %v", err)
	}
	if !alert.ResponseDeadline.IsZero() {
		t.Error("MEDIUM alert should not carry a response deadline")
	}
}

func TestDispatch_DeliversOnFirstAttempt(t *testing.T) {
	ctx := context.Background()
	sms := &fakeChannel{typ: model.ChannelSMS}
	env := newDispatcherEnv(t, dispatch.Config{},
		newFakeMonitor(onlineLink("link-1", "user-1", model.ChannelSMS)), sms)

	alert, err := env.uc.HandleEvent(ctx, emergencyEvent("user-1", "CRITICAL"))
	if err != nil {
		t.Fatalf("HandleEvent error = %v", err)
	}

	env.uc.drainOnce(ctx)

	got, err := env.uc.Alert(alert.ID)
	if err != nil {
		t.Fatalf("Alert error = %v", err)
	}
	if got.Status != model.AlertDelivered {
		t.Errorf("status = %s, want DELIVERED", got.Status)
	}
	if !got.Delivered() {
		t.Error("alert should carry a successful channel result")
	}
	if sms.sendCount() != 1 {
		t.Errorf("send count = %d, want 1", sms.sendCount())
	}
	if env.q.Len() != 0 {
		t.Errorf("queue length = %d after delivery, want 0", env.q.Len())
	}
}

func TestDispatch_FanOutAnySuccessCountsAsDelivered(t *testing.T) {
	ctx := context.Background()
	sms := &fakeChannel{typ: model.ChannelSMS, err: pkgErrors.NewTransientChannelError("SMS", errors.New("gateway timeout"))}
	voice := &fakeChannel{typ: model.ChannelVoice}
	env := newDispatcherEnv(t, dispatch.Config{},
		newFakeMonitor(onlineLink("link-1", "user-1", model.ChannelSMS, model.ChannelVoice)),
		sms, voice)

	alert, err := env.uc.HandleEvent(ctx, emergencyEvent("user-1", "CRITICAL"))
	if err != nil {
		t.Fatalf("HandleEvent error = %v", err)
	}

	env.uc.drainOnce(ctx)

	got, _ := env.uc.Alert(alert.ID)
	if got.Status != model.AlertDelivered {
		t.Errorf("status = %s, want DELIVERED (one channel succeeded)", got.Status)
	}
	if got.DeliveryConfidence() != 1 {
		t.Errorf("DeliveryConfidence() = %d, want 1", got.DeliveryConfidence())
	}
	if sms.sendCount() != 1 || voice.sendCount() != 1 {
		t.Errorf("send counts = %d/%d, want both channels attempted", sms.sendCount(), voice.sendCount())
	}
}

func TestDispatch_AllChannelsFailRequeues(t *testing.T) {
	ctx := context.Background()
	sms := &fakeChannel{typ: model.ChannelSMS, err: pkgErrors.NewTransientChannelError("SMS", errors.New("gateway timeout"))}
	env := newDispatcherEnv(t, dispatch.Config{},
		newFakeMonitor(onlineLink("link-1", "user-1", model.ChannelSMS)), sms)

	alert, err := env.uc.HandleEvent(ctx, emergencyEvent("user-1", "CRITICAL"))
	if err != nil {
		t.Fatalf("HandleEvent error = %v", err)
	}

	env.uc.drainOnce(ctx)

	got, _ := env.uc.Alert(alert.ID)
	if got.Status != model.AlertPending {
		t.Errorf("status = %s, want PENDING (requeued for retry)", got.Status)
	}
	if got.RetryCount != 1 {
		t.Errorf("RetryCount = %d, want 1", got.RetryCount)
	}
	if env.q.Len() != 1 {
		t.Errorf("queue length = %d, want 1 (item kept for retry)", env.q.Len())
	}
}

func TestDispatch_ExhaustedRetriesEscalate(t *testing.T) {
	ctx := context.Background()
	sms := &fakeChannel{typ: model.ChannelSMS, err: pkgErrors.NewTransientChannelError("SMS", errors.New("gateway down"))}
	env := newDispatcherEnv(t, dispatch.Config{DefaultMaxRetries: 1},
		newFakeMonitor(onlineLink("link-1", "user-1", model.ChannelSMS)), sms)

	alert, err := env.uc.HandleEvent(ctx, emergencyEvent("user-1", "CRITICAL"))
	if err != nil {
		t.Fatalf("HandleEvent error = %v", err)
	}

	// First pass fails and requeues; the backoff in this setup is a
	// nanosecond so the second pass finds the retry ready and exhausts it.
	env.uc.drainOnce(ctx)
	time.Sleep(time.Millisecond)
	env.uc.drainOnce(ctx)

	got, _ := env.uc.Alert(alert.ID)
	if got.Status != model.AlertEscalated {
		t.Fatalf("status = %s, want ESCALATED", got.Status)
	}
	if !got.EscalatedToElderRights {
		t.Error("EscalatedToElderRights should be set for the advocate path")
	}
	if env.esc.callCount() != 1 {
		t.Errorf("escalator calls = %d, want exactly 1", env.esc.callCount())
	}
	if env.q.Len() != 0 {
		t.Errorf("queue length = %d after exhaustion, want 0", env.q.Len())
	}
}

func TestDispatch_PermanentFailureExcludesChannel(t *testing.T) {
	ctx := context.Background()
	sms := &fakeChannel{typ: model.ChannelSMS, err: pkgErrors.NewPermanentChannelError("SMS", errors.New("number disconnected"))}
	voice := &fakeChannel{typ: model.ChannelVoice, err: pkgErrors.NewTransientChannelError("VOICE", errors.New("busy"))}
	env := newDispatcherEnv(t, dispatch.Config{},
		newFakeMonitor(onlineLink("link-1", "user-1", model.ChannelSMS, model.ChannelVoice)),
		sms, voice)

	if _, err := env.uc.HandleEvent(ctx, emergencyEvent("user-1", "CRITICAL")); err != nil {
		t.Fatalf("HandleEvent error = %v", err)
	}

	env.uc.drainOnce(ctx)
	time.Sleep(time.Millisecond)
	env.uc.drainOnce(ctx)

	if sms.sendCount() != 1 {
		t.Errorf("SMS send count = %d, want 1 (permanent failure is not retried)", sms.sendCount())
	}
	if voice.sendCount() != 2 {
		t.Errorf("VOICE send count = %d, want 2 (transient failure is retried)", voice.sendCount())
	}
}

func TestDispatch_AllChannelsPermanentlyFailedEscalates(t *testing.T) {
	ctx := context.Background()
	sms := &fakeChannel{typ: model.ChannelSMS, err: pkgErrors.NewPermanentChannelError("SMS", errors.New("number disconnected"))}
	env := newDispatcherEnv(t, dispatch.Config{},
		newFakeMonitor(onlineLink("link-1", "user-1", model.ChannelSMS)), sms)

	alert, err := env.uc.HandleEvent(ctx, emergencyEvent("user-1", "CRITICAL"))
	if err != nil {
		t.Fatalf("HandleEvent error = %v", err)
	}

	env.uc.drainOnce(ctx)
	time.Sleep(time.Millisecond)
	env.uc.drainOnce(ctx)

	got, _ := env.uc.Alert(alert.ID)
	if got.Status != model.AlertEscalated {
		t.Fatalf("status = %s, want ESCALATED (no channel left to try)", got.Status)
	}
	if env.esc.callCount() != 1 {
		t.Errorf("escalator calls = %d, want 1", env.esc.callCount())
	}
}

func TestDispatch_OfflineLinkDefersAttempt(t *testing.T) {
	ctx := context.Background()
	sms := &fakeChannel{typ: model.ChannelSMS}
	monitor := newFakeMonitor(onlineLink("link-1", "user-1", model.ChannelSMS))
	env := newDispatcherEnv(t, dispatch.Config{}, monitor, sms)

	alert, err := env.uc.HandleEvent(ctx, emergencyEvent("user-1", "CRITICAL"))
	if err != nil {
		t.Fatalf("HandleEvent error = %v", err)
	}

	monitor.setState("link-1", model.LinkStateOffline)
	env.uc.drainOnce(ctx)

	got, _ := env.uc.Alert(alert.ID)
	if got.Status != model.AlertPending {
		t.Errorf("status = %s, want PENDING (no retry consumed while offline)", got.Status)
	}
	if got.RetryCount != 0 {
		t.Errorf("RetryCount = %d, want 0", got.RetryCount)
	}
	if sms.sendCount() != 0 {
		t.Errorf("send count = %d, want 0", sms.sendCount())
	}
	if env.q.Len() != 1 {
		t.Errorf("queue length = %d, want 1 (item deferred, not dropped)", env.q.Len())
	}
}

func TestDispatch_AlertSurvivesTargetLinkRemoval(t *testing.T) {
	ctx := context.Background()
	sms := &fakeChannel{typ: model.ChannelSMS}
	monitor := newFakeMonitor(
		onlineLink("link-1", "user-1", model.ChannelSMS),
		onlineLink("link-2", "user-1", model.ChannelSMS))
	env := newDispatcherEnv(t, dispatch.Config{}, monitor, sms)

	alert, err := env.uc.HandleEvent(ctx, emergencyEvent("user-1", "CRITICAL"))
	if err != nil {
		t.Fatalf("HandleEvent error = %v", err)
	}

	// Link removal drops the link from the monitor and purges its queued
	// sync work. The queued alert carries no link binding.
	if err := monitor.RemoveLink(ctx, "link-1"); err != nil {
		t.Fatalf("RemoveLink error = %v", err)
	}
	if purged := env.q.PurgeLink(ctx, "link-1"); len(purged) != 0 {
		t.Fatalf("PurgeLink removed %d items, want 0", len(purged))
	}
	if env.q.Len() != 1 {
		t.Fatalf("queue length = %d after purge, want 1", env.q.Len())
	}

	env.uc.drainOnce(ctx)

	got, _ := env.uc.Alert(alert.ID)
	if got.Status != model.AlertDelivered {
		t.Errorf("status = %s, want DELIVERED via the remaining link", got.Status)
	}
	if sms.sendCount() != 1 {
		t.Errorf("send count = %d, want 1 (removed link skipped)", sms.sendCount())
	}
}

func TestDispatch_QuietHours(t *testing.T) {
	now := time.Now()
	window := &model.QuietWindow{
		StartMinute: (now.Hour()*60 + now.Minute() + 1380) % 1440,
		EndMinute:   (now.Hour()*60 + now.Minute() + 60) % 1440,
	}

	tests := []struct {
		name     string
		priority string
		override bool
		wantSend bool
	}{
		{name: "medium alert deferred", priority: "MEDIUM", override: true, wantSend: false},
		{name: "critical overrides quiet hours", priority: "CRITICAL", override: true, wantSend: true},
		{name: "critical without override is deferred", priority: "CRITICAL", override: false, wantSend: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			link := onlineLink("link-1", "user-1", model.ChannelSMS)
			link.Policy.QuietHours = window
			link.Policy.RespectQuietHours = true
			link.Policy.EmergencyOverrideQuietHours = tt.override

			sms := &fakeChannel{typ: model.ChannelSMS}
			env := newDispatcherEnv(t, dispatch.Config{}, newFakeMonitor(link), sms)

			alert, err := env.uc.HandleEvent(ctx, emergencyEvent("user-1", tt.priority))
			if err != nil {
				t.Fatalf("HandleEvent error = %v", err)
			}

			env.uc.drainOnce(ctx)

			got, _ := env.uc.Alert(alert.ID)
			if tt.wantSend {
				if sms.sendCount() != 1 {
					t.Errorf("send count = %d, want 1", sms.sendCount())
				}
				if got.Status != model.AlertDelivered {
					t.Errorf("status = %s, want DELIVERED", got.Status)
				}
			} else {
				if sms.sendCount() != 0 {
					t.Errorf("send count = %d, want 0 (deferred by quiet hours)", sms.sendCount())
				}
				if got.Status != model.AlertPending {
					t.Errorf("status = %s, want PENDING", got.Status)
				}
				if got.RetryCount != 0 {
					t.Errorf("RetryCount = %d, want 0 (deferral costs no retry)", got.RetryCount)
				}
			}
		})
	}
}

func TestHandleResponse(t *testing.T) {
	ctx := context.Background()
	sms := &fakeChannel{typ: model.ChannelSMS}
	env := newDispatcherEnv(t, dispatch.Config{},
		newFakeMonitor(onlineLink("link-1", "user-1", model.ChannelSMS)), sms)

	alert, err := env.uc.HandleEvent(ctx, emergencyEvent("user-1", "CRITICAL"))
	if err != nil {
		t.Fatalf("HandleEvent error = %v", err)
	}
	env.uc.drainOnce(ctx)

	got, err := env.uc.HandleResponse(ctx, alert.ID, model.ChannelSMS, "on my way")
	if err != nil {
		t.Fatalf("HandleResponse error = %v", err)
	}
	if got.Status != model.AlertResponded {
		t.Errorf("status = %s, want RESPONDED", got.Status)
	}

	last := got.Results[len(got.Results)-1]
	if last.Response != "on my way" {
		t.Errorf("response = %q, want recorded acknowledgment", last.Response)
	}

	if _, err := env.uc.HandleResponse(ctx, "missing", model.ChannelSMS, "ok"); !errors.Is(err, dispatch.ErrAlertNotFound) {
		t.Errorf("HandleResponse unknown alert error = %v, want ErrAlertNotFound", err)
	}
}

func TestResolveAlert(t *testing.T) {
	ctx := context.Background()
	sms := &fakeChannel{typ: model.ChannelSMS}
	env := newDispatcherEnv(t, dispatch.Config{},
		newFakeMonitor(onlineLink("link-1", "user-1", model.ChannelSMS)), sms)

	alert, err := env.uc.HandleEvent(ctx, emergencyEvent("user-1", "CRITICAL"))
	if err != nil {
		t.Fatalf("HandleEvent error = %v", err)
	}
	env.uc.drainOnce(ctx)
	if _, err := env.uc.HandleResponse(ctx, alert.ID, model.ChannelSMS, "ack"); err != nil {
		t.Fatalf("HandleResponse error = %v", err)
	}

	got, err := env.uc.ResolveAlert(ctx, alert.ID)
	if err != nil {
		t.Fatalf("ResolveAlert error = %v", err)
	}
	if got.Status != model.AlertResolved {
		t.Errorf("status = %s, want RESOLVED", got.Status)
	}
	if len(env.uc.ActiveAlerts()) != 0 {
		t.Error("resolved alert should leave the active set")
	}
}

func TestResolveAlert_RejectsPending(t *testing.T) {
	ctx := context.Background()
	env := newDispatcherEnv(t, dispatch.Config{},
		newFakeMonitor(onlineLink("link-1", "user-1", model.ChannelSMS)),
		&fakeChannel{typ: model.ChannelSMS})

	alert, err := env.uc.HandleEvent(ctx, emergencyEvent("user-1", "CRITICAL"))
	if err != nil {
		t.Fatalf("HandleEvent error = %v", err)
	}

	if _, err := env.uc.ResolveAlert(ctx, alert.ID); !errors.Is(err, dispatch.ErrIllegalTransition) {
		t.Errorf("ResolveAlert on PENDING error = %v, want ErrIllegalTransition", err)
	}
}

func TestUnresolvedPastDeadline(t *testing.T) {
	ctx := context.Background()
	sms := &fakeChannel{typ: model.ChannelSMS}
	env := newDispatcherEnv(t, dispatch.Config{ResponseDeadline: time.Millisecond},
		newFakeMonitor(onlineLink("link-1", "user-1", model.ChannelSMS)), sms)

	alert, err := env.uc.HandleEvent(ctx, emergencyEvent("user-1", "CRITICAL"))
	if err != nil {
		t.Fatalf("HandleEvent error = %v", err)
	}
	env.uc.drainOnce(ctx)

	overdue := env.uc.UnresolvedPastDeadline(time.Now().Add(time.Second))
	if len(overdue) != 1 || overdue[0].ID != alert.ID {
		t.Fatalf("UnresolvedPastDeadline = %+v, want the delivered unanswered alert", overdue)
	}

	// A deadline-missed escalation moves the alert out of the overdue set.
	env.uc.MarkEscalated(ctx, alert.ID, model.EscalationRecord{
		ID: "esc-1", AlertID: alert.ID, Path: model.PathSecondaryCaregiver, Reason: model.ReasonDeadlineMissed,
	})
	got, _ := env.uc.Alert(alert.ID)
	if got.Status != model.AlertEscalated {
		t.Errorf("status = %s, want ESCALATED", got.Status)
	}
	if got.EscalatedToElderRights {
		t.Error("secondary caregiver path must not set EscalatedToElderRights")
	}
	if n := len(env.uc.UnresolvedPastDeadline(time.Now().Add(time.Second))); n != 0 {
		t.Errorf("overdue count after escalation = %d, want 0", n)
	}
}
