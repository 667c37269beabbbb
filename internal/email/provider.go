package email

// Provider sends transactional email. Implementations report failure
// through the returned error; callers decide whether a failed send is
// fatal to the surrounding operation.
type Provider interface {
	// Send sends a single message.
	Send(email *Email) error

	// SendWithTemplate renders the named template into the message body
	// and sends it.
	SendWithTemplate(templateName string, data TemplateData, email *Email) error

	// Validate checks the provider configuration.
	Validate() error

	// Close releases provider resources.
	Close() error
}

// TemplateRenderer renders named templates to HTML.
type TemplateRenderer interface {
	Render(templateName string, data TemplateData) (string, error)
	AddTemplate(name string, template string) error
	LoadTemplates(dirPath string) error
}
