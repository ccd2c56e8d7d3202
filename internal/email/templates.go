package email

import (
	"bytes"
	"fmt"
	"html/template"
)

// Templates are compiled once at startup. Keeping them in source avoids a
// deploy-time asset directory.
var templates = template.Must(template.New("email").Parse(`
{{define "layout_top"}}
<div style="font-family: Arial, sans-serif; max-width: 560px; margin: 0 auto; padding: 24px;">
  <h2 style="color: #1a1a1a;">Tastes Like Home</h2>
{{end}}

{{define "layout_bottom"}}
  <p style="color: #888; font-size: 12px; margin-top: 32px;">
    You are receiving this email because of an action on tasteslikehome.example.
    If this wasn't you, you can safely ignore it.
  </p>
</div>
{{end}}

{{define "review_verification"}}
{{template "layout_top"}}
  <p>Thanks for reviewing {{.ChefName}}!</p>
  <p>Please confirm your email address to publish your review. The link is valid for 24 hours.</p>
  <p style="margin: 24px 0;">
    <a href="{{.VerifyURL}}" style="background: #e0592a; color: #fff; padding: 12px 24px; text-decoration: none; border-radius: 6px;">Publish my review</a>
  </p>
  <p>If the button does not work, copy this link into your browser:<br>{{.VerifyURL}}</p>
{{template "layout_bottom"}}
{{end}}

{{define "application_approved"}}
{{template "layout_top"}}
  <p>Hi {{.ApplicantName}},</p>
  <p>Great news: your chef application has been approved. Our team is preparing your profile and will publish it shortly.</p>
  <p>Once it is live, you will find it here:</p>
  <p style="margin: 24px 0;">
    <a href="{{.ProfileURL}}" style="background: #e0592a; color: #fff; padding: 12px 24px; text-decoration: none; border-radius: 6px;">View my profile</a>
  </p>
{{template "layout_bottom"}}
{{end}}

{{define "application_rejected"}}
{{template "layout_top"}}
  <p>Hi {{.ApplicantName}},</p>
  <p>Thank you for applying to Tastes Like Home. After review, we are unable to list your profile at this time.</p>
  {{if .Reason}}<p>Note from our team: {{.Reason}}</p>{{end}}
  <p>You are welcome to apply again in the future.</p>
{{template "layout_bottom"}}
{{end}}
`))

func render(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render template %s: %w", name, err)
	}
	return buf.String(), nil
}
