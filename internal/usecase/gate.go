package usecase

import (
	"sync"

	"github.com/xavierca1/signature-campaign/internal/entity"
)

type GateState string

const (
	GateUnarmed GateState = "unarmed"
	GateArmed   GateState = "armed"
	GateSending GateState = "sending"
	GateSent    GateState = "sent"
)

// NotificationGate allows at most one approval notification per completed
// campaign state. The state is keyed by the snapshot's completion key, so a
// campaign that drops back to incomplete and completes again is notified again.
type NotificationGate struct {
	mu    sync.Mutex
	key   string
	state GateState
}

func NewNotificationGate() *NotificationGate {
	return &NotificationGate{state: GateUnarmed}
}

// Observe feeds the latest snapshot. Incomplete resets the gate; a complete
// snapshot with a new key arms it; the same key leaves it alone.
func (g *NotificationGate) Observe(snap entity.CampaignSnapshot) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !snap.IsComplete {
		g.key = ""
		g.state = GateUnarmed
		return
	}
	if snap.Key != g.key {
		g.key = snap.Key
		g.state = GateArmed
	}
}

// Claim moves an armed gate for key into sending. Only one caller can hold a
// claim; everyone else gets false until the holder calls Release.
func (g *NotificationGate) Claim(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if key == "" || g.key != key || g.state != GateArmed {
		return false
	}
	g.state = GateSending
	return true
}

// Complete marks a claimed key as sent. It is a no-op when the gate has been
// reset or re-keyed while the send was in flight.
func (g *NotificationGate) Complete(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.key == key && g.state == GateSending {
		g.state = GateSent
	}
}

// Release gives a failed claim back so the next trigger can retry.
func (g *NotificationGate) Release(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.key == key && g.state == GateSending {
		g.state = GateArmed
	}
}

func (g *NotificationGate) State() GateState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}
