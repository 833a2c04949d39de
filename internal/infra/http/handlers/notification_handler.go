package handlers

import (
	"net/http"
	"strings"

	"github.com/xavierca1/signature-campaign/internal/infra/http/middleware"
	"github.com/xavierca1/signature-campaign/internal/pkg/logger"
	"github.com/xavierca1/signature-campaign/internal/usecase"
)

// UserEmailHeader carries the signed-in user's email when the body has no requestedBy.
const UserEmailHeader = "X-User-Email"

type NotificationHandler struct {
	NotifyUC *usecase.NotifyApproversUseCase
	Log      *logger.Logger
}

func NewNotificationHandler(uc *usecase.NotifyApproversUseCase, log *logger.Logger) *NotificationHandler {
	return &NotificationHandler{NotifyUC: uc, Log: log}
}

// SendEmail handles POST /api/send-email.
func (h *NotificationHandler) SendEmail(w http.ResponseWriter, r *http.Request) {
	var input usecase.NotifyApproversInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if strings.TrimSpace(input.RequestedBy) == "" {
		input.RequestedBy = r.Header.Get(UserEmailHeader)
	}

	output, err := h.NotifyUC.Execute(r.Context(), input)
	if err != nil {
		if usecase.IsTransportError(err) {
			middleware.RecordApproverNotification(string(usecase.ReasonTransportError))
		} else if usecase.IsConfigurationError(err) {
			middleware.RecordApproverNotification("ConfigurationError")
		}
		writeUseCaseError(w, h.Log, err)
		return
	}

	if output.Sent {
		middleware.RecordApproverNotification("Sent")
		writeJSON(w, http.StatusOK, output)
		return
	}

	middleware.RecordApproverNotification(string(output.Reason))
	writeJSON(w, refusalStatus(output.Reason), output)
}

func refusalStatus(reason usecase.NotifyReason) int {
	switch reason {
	case usecase.ReasonUnauthorized:
		return http.StatusForbidden
	case usecase.ReasonNotComplete, usecase.ReasonAlreadySent:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
