package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/xavierca1/signature-campaign/internal/entity"
	"github.com/xavierca1/signature-campaign/internal/infra/mail"
	"github.com/xavierca1/signature-campaign/internal/infra/queue"
	"github.com/xavierca1/signature-campaign/internal/pkg/logger"
)

// NotifyApproversUseCase mails HR (to) and the board (cc) once every roster
// employee has signed. Only the designated sender may trigger it, and the
// gate lets at most one send through per completed state.
type NotifyApproversUseCase struct {
	Tracker          *CampaignTracker
	Transport        MailTransport
	Renderer         ApprovalRenderer
	Publisher        EventPublisher
	Log              *logger.Logger
	DesignatedSender string
	AppName          string
	CampaignURL      string
	SendTimeout      time.Duration
}

func NewNotifyApproversUseCase(
	tracker *CampaignTracker,
	transport MailTransport,
	renderer ApprovalRenderer,
	publisher EventPublisher,
	log *logger.Logger,
	designatedSender, appName, campaignURL string,
	sendTimeout time.Duration,
) *NotifyApproversUseCase {
	return &NotifyApproversUseCase{
		Tracker:          tracker,
		Transport:        transport,
		Renderer:         renderer,
		Publisher:        publisher,
		Log:              log,
		DesignatedSender: designatedSender,
		AppName:          appName,
		CampaignURL:      campaignURL,
		SendTimeout:      sendTimeout,
	}
}

func (uc *NotifyApproversUseCase) Execute(ctx context.Context, input NotifyApproversInput) (*NotifyApproversOutput, error) {
	if errs := ValidateNotifyApproversInput(input); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	state, err := uc.Tracker.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	return uc.MaybeNotify(ctx, input.RequestedBy, state)
}

// MaybeNotify runs the dispatch checks in order: completion, sender, gate.
// A refusal is reported through Reason with a nil error. Configuration and
// transport failures return an error and leave the gate armed.
func (uc *NotifyApproversUseCase) MaybeNotify(ctx context.Context, trigger string, state CampaignState) (*NotifyApproversOutput, error) {
	snap := state.Snapshot
	log := uc.Log.With("trigger", entity.NormalizeEmail(trigger))

	if !snap.IsComplete {
		return &NotifyApproversOutput{
			Reason:  ReasonNotComplete,
			Message: fmt.Sprintf("Campaign is not complete: %d of %d employees have signed", snap.SignedCount, snap.RosterCount),
		}, nil
	}

	if !entity.IsDesignatedSender(trigger, uc.DesignatedSender) {
		log.Warn("approval notification refused: not the designated sender")
		return &NotifyApproversOutput{
			Reason:  ReasonUnauthorized,
			Message: "Only the campaign administrator can notify HR and the board",
		}, nil
	}

	if !uc.Tracker.Gate.Claim(snap.Key) {
		return &NotifyApproversOutput{
			Reason:  ReasonAlreadySent,
			Message: "HR and the board have already been notified for this campaign",
		}, nil
	}

	recipients := composeRecipients(state.Roster)
	if len(recipients.HR) == 0 {
		uc.Tracker.Gate.Release(snap.Key)
		log.Error("approval notification refused: roster has no HR recipients")
		return nil, &TechnicalError{
			Code:    CodeConfiguration,
			Message: "No HR emails configured. Please check the hrBoard.hr list of the roster file",
		}
	}

	signers := employeeSignatures(state.Signatures, state.Roster)
	subject, html, err := uc.Renderer.Render(mail.ApprovalData{
		AppName:     uc.AppName,
		SignerCount: len(signers),
		SignerNames: signerNames(signers),
		CampaignURL: uc.CampaignURL,
	})
	if err != nil {
		uc.Tracker.Gate.Release(snap.Key)
		return nil, &TechnicalError{Code: CodeConfiguration, Message: "failed to render approval email", Err: err}
	}

	// The send outlives a disconnecting client; only the transport deadline stops it.
	sendCtx := context.WithoutCancel(ctx)
	if uc.SendTimeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(sendCtx, uc.SendTimeout)
		defer cancel()
	}

	messageID, err := uc.Transport.Send(sendCtx, mail.Message{
		To:      recipients.HR,
		Cc:      recipients.Board,
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		uc.Tracker.Gate.Release(snap.Key)
		log.Error("approval email failed", "hr", recipients.HR, "board", recipients.Board, "error", err)
		out := &NotifyApproversOutput{
			Reason:     ReasonTransportError,
			Message:    "Failed to send email: " + err.Error(),
			Recipients: &recipients,
		}
		return out, &TechnicalError{Code: CodeTransport, Message: "failed to send approval email", Err: err}
	}
	uc.Tracker.Gate.Complete(snap.Key)

	log.Info("approval email sent", "messageId", messageID, "hr", len(recipients.HR), "board", len(recipients.Board))
	publishEvent(ctx, uc.Publisher, uc.Log, queue.EventApproversNotified, entity.NormalizeEmail(trigger), snap)

	return &NotifyApproversOutput{
		Sent: true,
		Message: fmt.Sprintf("Email sent successfully to %d HR recipient(s) and %d board member(s)",
			len(recipients.HR), len(recipients.Board)),
		Recipients: &recipients,
		MessageID:  messageID,
	}, nil
}

func composeRecipients(r entity.Roster) Recipients {
	return Recipients{HR: r.HREmails(), Board: r.BoardEmails()}
}

// employeeSignatures keeps the signatures of roster employees. Approvers who
// signed along are not part of the petition count.
func employeeSignatures(signatures []entity.SignatureRecord, r entity.Roster) []entity.SignatureRecord {
	employees := make(map[string]struct{}, r.Len())
	for _, p := range r.Employees() {
		employees[p.Email] = struct{}{}
	}
	out := make([]entity.SignatureRecord, 0, len(employees))
	for _, s := range signatures {
		if _, ok := employees[entity.NormalizeEmail(s.Email)]; ok {
			out = append(out, s)
		}
	}
	return out
}

func signerNames(signatures []entity.SignatureRecord) []string {
	names := make([]string, 0, len(signatures))
	for _, s := range signatures {
		names = append(names, s.DisplayName())
	}
	return names
}
