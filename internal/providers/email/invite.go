package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var inviteTmpl = template.Must(template.ParseFS(templateFS, "templates/invite_member.html"))

type InviteData struct {
	WorkspaceName string
	InviterName   string
	Role          string
	AcceptURL     string
	ExpiresAt     time.Time
}

// RenderInvite returns the subject and HTML body for an invite mail.
func RenderInvite(data InviteData) (string, string, error) {
	var body bytes.Buffer
	err := inviteTmpl.Execute(&body, map[string]string{
		"WorkspaceName": data.WorkspaceName,
		"InviterName":   data.InviterName,
		"Role":          data.Role,
		"AcceptURL":     data.AcceptURL,
		"ExpiresAt":     data.ExpiresAt.Format("02/01/2006"),
	})
	if err != nil {
		return "", "", err
	}
	subject := fmt.Sprintf("Invitation à rejoindre %s", data.WorkspaceName)
	return subject, body.String(), nil
}
