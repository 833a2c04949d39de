package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/xavierca1/signature-campaign/internal/entity"
	"github.com/xavierca1/signature-campaign/internal/infra/queue"
	"github.com/xavierca1/signature-campaign/internal/pkg/logger"
)

type SaveSignatureUseCase struct {
	Repo      entity.SignatureRepository
	Tracker   *CampaignTracker
	Publisher EventPublisher
	Log       *logger.Logger
	Now       func() time.Time
}

func NewSaveSignatureUseCase(
	repo entity.SignatureRepository,
	tracker *CampaignTracker,
	publisher EventPublisher,
	log *logger.Logger,
) *SaveSignatureUseCase {
	return &SaveSignatureUseCase{
		Repo:      repo,
		Tracker:   tracker,
		Publisher: publisher,
		Log:       log,
		Now:       time.Now,
	}
}

func (uc *SaveSignatureUseCase) Execute(ctx context.Context, input SaveSignatureInput) (*SaveSignatureOutput, error) {
	if errs := ValidateSaveSignatureInput(input); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	rec := &entity.SignatureRecord{
		Email:     entity.NormalizeEmail(input.Email),
		Name:      strings.TrimSpace(input.Name),
		ImageData: input.Signature,
		SignedAt:  parseDateOrNow(input.Timestamp, uc.Now),
	}

	created, err := uc.Repo.Upsert(ctx, rec)
	if err != nil {
		return nil, storeError("failed to save signature", err)
	}

	out := &SaveSignatureOutput{
		Success: true,
		Message: "Signature saved successfully",
		IsNew:   created,
	}
	if !created {
		out.Message = "Signature updated successfully"
	}

	// The write is committed; a failed refresh only costs the progress summary.
	state, err := uc.Tracker.Refresh(ctx)
	if err != nil {
		uc.Log.Warn("signature saved but campaign state unavailable", "email", rec.Email, "error", err)
		return out, nil
	}
	out.Campaign = NewSnapshotView(state.Snapshot)

	uc.Log.Info("signature stored",
		"email", rec.Email,
		"created", created,
		"signed", state.Snapshot.SignedCount,
		"roster", state.Snapshot.RosterCount,
	)
	publishEvent(ctx, uc.Publisher, uc.Log, queue.EventSignatureSaved, rec.Email, state.Snapshot)

	return out, nil
}
