package usecase

import (
	"encoding/json"

	"github.com/xavierca1/signature-campaign/internal/entity"
)

type SaveSignatureInput struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	Signature string `json:"signature"`
	Timestamp string `json:"timestamp"`
}

type SaveSignatureOutput struct {
	Success  bool         `json:"success"`
	Message  string       `json:"message"`
	IsNew    bool         `json:"isNew"`
	Campaign SnapshotView `json:"campaign"`
}

// SnapshotView is the wire form of entity.CampaignSnapshot.
type SnapshotView struct {
	SignedCount     int  `json:"signedCount"`
	RosterCount     int  `json:"rosterCount"`
	TotalSignatures int  `json:"totalSignatures"`
	IsComplete      bool `json:"isComplete"`
	Percent         int  `json:"percent"`
}

func NewSnapshotView(s entity.CampaignSnapshot) SnapshotView {
	return SnapshotView{
		SignedCount:     s.SignedCount,
		RosterCount:     s.RosterCount,
		TotalSignatures: s.TotalSignatures,
		IsComplete:      s.IsComplete,
		Percent:         s.Percent(),
	}
}

type ClearSignaturesOutput struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	DeletedCount int    `json:"deletedCount"`
}

type CampaignStatusOutput struct {
	SnapshotView
	Signed  []entity.Person `json:"signed"`
	Pending []entity.Person `json:"pending"`
}

type ResolveRoleInput struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type ResolveRoleOutput struct {
	Email string      `json:"email"`
	Name  string      `json:"name"`
	Role  entity.Role `json:"role"`
}

type NotifyApproversInput struct {
	// Signatures is what the triggering client saw. Only its size is checked;
	// the message is built from the store.
	Signatures  []json.RawMessage `json:"signatures"`
	RequestedBy string            `json:"requestedBy"`
}

type NotifyReason string

const (
	ReasonNone           NotifyReason = ""
	ReasonNotComplete    NotifyReason = "NotComplete"
	ReasonUnauthorized   NotifyReason = "Unauthorized"
	ReasonAlreadySent    NotifyReason = "AlreadySent"
	ReasonTransportError NotifyReason = "TransportError"
)

type Recipients struct {
	HR    []string `json:"hr"`
	Board []string `json:"board"`
}

type NotifyApproversOutput struct {
	Sent       bool         `json:"success"`
	Reason     NotifyReason `json:"reason,omitempty"`
	Message    string       `json:"message"`
	Recipients *Recipients  `json:"recipients,omitempty"`
	MessageID  string       `json:"messageId,omitempty"`
}
