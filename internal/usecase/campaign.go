package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/xavierca1/signature-campaign/internal/entity"
	"github.com/xavierca1/signature-campaign/internal/infra/queue"
	"github.com/xavierca1/signature-campaign/internal/pkg/logger"
)

// CampaignState is one consistent read of the store and the roster.
type CampaignState struct {
	Signatures []entity.SignatureRecord
	Roster     entity.Roster
	Snapshot   entity.CampaignSnapshot
}

// CampaignTracker recomputes the snapshot from the store of record on every
// call and keeps the notification gate in step with it. Refreshes run one at
// a time, so the gate sees snapshots in the order the store was read and a
// slow reader can never roll it back to an older state.
type CampaignTracker struct {
	Repo   entity.SignatureRepository
	Roster RosterProvider
	Gate   *NotificationGate

	mu sync.Mutex
}

func NewCampaignTracker(repo entity.SignatureRepository, roster RosterProvider, gate *NotificationGate) *CampaignTracker {
	return &CampaignTracker{Repo: repo, Roster: roster, Gate: gate}
}

func (t *CampaignTracker) Refresh(ctx context.Context) (CampaignState, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	signatures, err := t.Repo.List(ctx)
	if err != nil {
		return CampaignState{}, storeError("failed to list signatures", err)
	}
	roster, err := t.Roster.Roster(ctx)
	if err != nil {
		return CampaignState{}, &TechnicalError{
			Code:    CodeConfiguration,
			Message: "roster unavailable",
			Err:     err,
		}
	}
	snap := entity.ComputeSnapshot(signatures, roster)
	t.Gate.Observe(snap)
	return CampaignState{Signatures: signatures, Roster: roster, Snapshot: snap}, nil
}

// Reset drops the gate back to unarmed after the store was emptied and the
// fresh state could not be read.
func (t *CampaignTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Gate.Observe(entity.CampaignSnapshot{})
}

// publishEvent never fails the caller: the store write has already committed.
func publishEvent(ctx context.Context, pub EventPublisher, log *logger.Logger, eventType, email string, snap entity.CampaignSnapshot) {
	if pub == nil {
		return
	}
	event := queue.CampaignEvent{
		ID:          uuid.New().String(),
		Type:        eventType,
		Email:       email,
		SignedCount: snap.SignedCount,
		RosterCount: snap.RosterCount,
		IsComplete:  snap.IsComplete,
		OccurredAt:  time.Now().UTC(),
	}
	if err := pub.Publish(ctx, event); err != nil {
		log.Warn("campaign event not published", "type", eventType, "error", err)
	}
}

func parseDateOrNow(dateStr string, now func() time.Time) time.Time {
	t, err := time.Parse(time.RFC3339, dateStr)
	if err != nil {
		return now().UTC()
	}
	return t.UTC()
}
