package templates

import (
	"bytes"
	"html/template"
	"log"
)

// LeadEmailProps carries the fields of a contact submission into the
// notification email. Values are escaped by html/template on render.
type LeadEmailProps struct {
	FirstName  string
	LastName   string
	Email      string
	Company    string
	JobTitle   string
	Message    string
	UUID       string
	ReceivedAt string
}

var leadEmailTemplate = template.Must(template.New("leadEmail").Parse(`
<h2 style="margin: 0 0 16px 0; font-weight: bold;">New contact inquiry</h2>
<p style="margin: 0 0 16px 0;"><strong>{{.FirstName}} {{.LastName}}</strong> ({{.Email}}) submitted the contact form.</p>
<table role="presentation" border="0" cellpadding="4" cellspacing="0" style="border-collapse: collapse; margin-bottom: 16px;">
  {{if .Company}}<tr><td style="color: #9a9ea6;">Company</td><td>{{.Company}}</td></tr>{{end}}
  {{if .JobTitle}}<tr><td style="color: #9a9ea6;">Job title</td><td>{{.JobTitle}}</td></tr>{{end}}
  <tr><td style="color: #9a9ea6;">Reference</td><td>{{.UUID}}</td></tr>
  <tr><td style="color: #9a9ea6;">Received</td><td>{{.ReceivedAt}}</td></tr>
</table>
<p style="margin: 0 0 8px 0; font-weight: bold;">Message</p>
<p style="margin: 0; white-space: pre-wrap;">{{.Message}}</p>`))

// GetLeadEmailContent renders the inner content of the lead notification.
func GetLeadEmailContent(props LeadEmailProps) string {
	var buf bytes.Buffer
	if err := leadEmailTemplate.Execute(&buf, props); err != nil {
		log.Printf("Error executing lead email template: %v", err)
		return "<p>New contact inquiry received.</p>"
	}
	return buf.String()
}
