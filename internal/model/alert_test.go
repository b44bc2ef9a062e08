package model

import (
	"testing"
	"time"
)

func TestParsePriority(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Priority
	}{
		{name: "low", in: "LOW", want: PriorityLow},
		{name: "medium", in: "MEDIUM", want: PriorityMedium},
		{name: "high", in: "HIGH", want: PriorityHigh},
		{name: "critical", in: "CRITICAL", want: PriorityCritical},
		{name: "unknown defaults to critical", in: "SEVERE", want: PriorityCritical},
		{name: "empty defaults to critical", in: "", want: PriorityCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParsePriority(tt.in); got != tt.want {
				t.Errorf("ParsePriority(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestPriority_Emergency(t *testing.T) {
	if PriorityLow.Emergency() || PriorityMedium.Emergency() {
		t.Error("LOW/MEDIUM must not qualify as emergency")
	}
	if !PriorityHigh.Emergency() || !PriorityCritical.Emergency() {
		t.Error("HIGH/CRITICAL must qualify as emergency")
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from AlertStatus
		to   AlertStatus
		want bool
	}{
		{name: "pending to sent", from: AlertPending, to: AlertSent, want: true},
		{name: "pending to delivered skips sent", from: AlertPending, to: AlertDelivered, want: false},
		{name: "sent to delivered", from: AlertSent, to: AlertDelivered, want: true},
		{name: "sent to failed", from: AlertSent, to: AlertFailed, want: true},
		{name: "failed to pending for requeue", from: AlertFailed, to: AlertPending, want: true},
		{name: "failed to escalated", from: AlertFailed, to: AlertEscalated, want: true},
		{name: "delivered to responded", from: AlertDelivered, to: AlertResponded, want: true},
		{name: "delivered to escalated on missed deadline", from: AlertDelivered, to: AlertEscalated, want: true},
		{name: "escalated to responded", from: AlertEscalated, to: AlertResponded, want: true},
		{name: "responded to resolved", from: AlertResponded, to: AlertResolved, want: true},
		{name: "resolved is terminal", from: AlertResolved, to: AlertPending, want: false},
		{name: "resolved cannot escalate", from: AlertResolved, to: AlertEscalated, want: false},
		{name: "delivered cannot fail", from: AlertDelivered, to: AlertFailed, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestEmergencyAlert_SetStatus(t *testing.T) {
	a := &EmergencyAlert{Status: AlertPending}

	if !a.SetStatus(AlertSent) {
		t.Fatal("PENDING -> SENT should be legal")
	}
	if a.Status != AlertSent {
		t.Fatalf("status = %s, want SENT", a.Status)
	}
	if a.UpdatedAt.IsZero() {
		t.Error("SetStatus should stamp UpdatedAt")
	}

	if a.SetStatus(AlertResolved) {
		t.Error("SENT -> RESOLVED should be rejected")
	}
	if a.Status != AlertSent {
		t.Errorf("rejected transition mutated status to %s", a.Status)
	}
}

func TestEmergencyAlert_Delivered(t *testing.T) {
	a := &EmergencyAlert{
		Results: []ChannelResult{
			{Channel: ChannelSMS, Success: false, Error: "gateway timeout"},
			{Channel: ChannelPush, Success: false, Error: "token revoked"},
		},
	}
	if a.Delivered() {
		t.Error("all failed attempts should not count as delivered")
	}
	if a.DeliveryConfidence() != 0 {
		t.Errorf("DeliveryConfidence() = %d, want 0", a.DeliveryConfidence())
	}

	a.Results = append(a.Results, ChannelResult{Channel: ChannelVoice, Success: true, At: time.Now()})
	if !a.Delivered() {
		t.Error("one success should count as delivered")
	}
	if a.DeliveryConfidence() != 1 {
		t.Errorf("DeliveryConfidence() = %d, want 1", a.DeliveryConfidence())
	}
}
