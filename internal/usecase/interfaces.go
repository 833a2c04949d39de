package usecase

import (
	"context"

	"github.com/xavierca1/signature-campaign/internal/entity"
	"github.com/xavierca1/signature-campaign/internal/infra/mail"
	"github.com/xavierca1/signature-campaign/internal/infra/queue"
)

// RosterProvider supplies the current roster. Implementations may re-read
// their source between calls.
type RosterProvider interface {
	Roster(ctx context.Context) (entity.Roster, error)
}

type MailTransport interface {
	Send(ctx context.Context, msg mail.Message) (messageID string, err error)
}

type ApprovalRenderer interface {
	Render(data mail.ApprovalData) (subject, html string, err error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event queue.CampaignEvent) error
}
