package usecase

import (
	"context"

	"github.com/xavierca1/signature-campaign/internal/entity"
	"github.com/xavierca1/signature-campaign/internal/infra/queue"
	"github.com/xavierca1/signature-campaign/internal/pkg/logger"
)

type ListSignaturesUseCase struct {
	Repo entity.SignatureRepository
}

func NewListSignaturesUseCase(repo entity.SignatureRepository) *ListSignaturesUseCase {
	return &ListSignaturesUseCase{Repo: repo}
}

func (uc *ListSignaturesUseCase) Execute(ctx context.Context) ([]entity.SignatureRecord, error) {
	signatures, err := uc.Repo.List(ctx)
	if err != nil {
		return nil, storeError("failed to get signatures", err)
	}
	if signatures == nil {
		signatures = []entity.SignatureRecord{}
	}
	return signatures, nil
}

type ClearSignaturesUseCase struct {
	Repo      entity.SignatureRepository
	Tracker   *CampaignTracker
	Publisher EventPublisher
	Log       *logger.Logger
}

func NewClearSignaturesUseCase(
	repo entity.SignatureRepository,
	tracker *CampaignTracker,
	publisher EventPublisher,
	log *logger.Logger,
) *ClearSignaturesUseCase {
	return &ClearSignaturesUseCase{Repo: repo, Tracker: tracker, Publisher: publisher, Log: log}
}

func (uc *ClearSignaturesUseCase) Execute(ctx context.Context) (*ClearSignaturesOutput, error) {
	deleted, err := uc.Repo.Clear(ctx)
	if err != nil {
		return nil, storeError("failed to clear signatures", err)
	}

	// Refreshing resets the gate when the campaign was complete before the clear.
	snap := entity.CampaignSnapshot{}
	if state, err := uc.Tracker.Refresh(ctx); err != nil {
		uc.Log.Warn("signatures cleared but campaign state unavailable", "error", err)
		uc.Tracker.Reset()
	} else {
		snap = state.Snapshot
	}

	uc.Log.Info("signatures cleared", "deleted", deleted)
	publishEvent(ctx, uc.Publisher, uc.Log, queue.EventSignaturesCleared, "", snap)

	return &ClearSignaturesOutput{
		Success:      true,
		Message:      "All signatures cleared successfully",
		DeletedCount: deleted,
	}, nil
}
