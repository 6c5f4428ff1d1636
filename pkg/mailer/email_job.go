package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Template names a known template in pkg/mailer/templates; Data feeds it.
type EmailJob struct {
	To       string         `json:"to"`
	Template string         `json:"template"` // "verification_code" or "password_reset"
	Data     map[string]any `json:"data,omitempty"`
}
