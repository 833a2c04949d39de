package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var templatesFS embed.FS

const approvalSubject = "URGENT: Team Trip Request - Signed by Everyone!"

type ApprovalTemplate struct {
	tmpl *template.Template
}

func NewApprovalTemplate() (*ApprovalTemplate, error) {
	t, err := template.New("approval_request.html").
		Funcs(template.FuncMap{"join": strings.Join}).
		ParseFS(templatesFS, "templates/approval_request.html")
	if err != nil {
		return nil, fmt.Errorf("parse approval template: %w", err)
	}
	return &ApprovalTemplate{tmpl: t}, nil
}

func (a *ApprovalTemplate) Render(data ApprovalData) (string, string, error) {
	if data.AppName == "" {
		data.AppName = "Signature Campaign"
	}
	data.CampaignURL = strings.TrimRight(data.CampaignURL, "/") + "/"

	var body bytes.Buffer
	if err := a.tmpl.Execute(&body, data); err != nil {
		return "", "", fmt.Errorf("render approval template: %w", err)
	}
	return approvalSubject, body.String(), nil
}
