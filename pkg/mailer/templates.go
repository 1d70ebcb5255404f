package mailer

import (
	"bytes"
	"fmt"
	htmltpl "html/template"
	texttpl "text/template"
)

var resetText = texttpl.Must(texttpl.New(TemplateResetPassword).Parse(
	`Hi {{.Name}},

We received a request to reset your password. Open the link below to choose
a new one. The link expires in {{.ExpiresIn}}.

{{.ResetLink}}

If you did not request this, you can ignore this email.
`))

var resetHTML = htmltpl.Must(htmltpl.New(TemplateResetPassword).Parse(
	`<p>Hi {{.Name}},</p>
<p>We received a request to reset your password. The link below expires in {{.ExpiresIn}}.</p>
<p><a href="{{.ResetLink}}">Reset your password</a></p>
<p>If you did not request this, you can ignore this email.</p>
`))

// Render produces subject, text and html bodies for a job. Jobs without a
// template pass through their literal fields.
func Render(job EmailJob) (subject, text, html string, err error) {
	switch job.Template {
	case "":
		return job.Subject, job.Text, job.HTML, nil
	case TemplateResetPassword:
		var tb, hb bytes.Buffer
		if err = resetText.Execute(&tb, job.Data); err != nil {
			return
		}
		if err = resetHTML.Execute(&hb, job.Data); err != nil {
			return
		}
		return "Reset your password", tb.String(), hb.String(), nil
	default:
		return "", "", "", fmt.Errorf("unknown email template %q", job.Template)
	}
}
