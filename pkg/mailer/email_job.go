package mailer

// Template names understood by Render and the email worker.
const TemplateResetPassword = "reset_password"

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either set Template with Data, or provide Subject/Text/HTML directly.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}
