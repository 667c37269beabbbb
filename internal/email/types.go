package email

// Email is a single outbound message.
type Email struct {
	From     string
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// TemplateData is the payload handed to a template on render.
type TemplateData map[string]interface{}

// SMTPConfig holds connection settings for the SMTP provider.
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}
