package mail

// Message is an outgoing HTML mail. From is filled in by the transport.
type Message struct {
	To      []string
	Cc      []string
	Subject string
	HTML    string
}

// ApprovalData feeds the approval request template.
type ApprovalData struct {
	AppName     string
	SignerCount int
	SignerNames []string
	CampaignURL string
}

type SMTPConfig struct {
	Host               string
	Port               int
	User               string
	Password           string
	SSL                bool
	VerifyCertificates bool
	FromName           string
}
