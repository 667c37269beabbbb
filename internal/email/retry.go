package email

import (
	"fmt"
	"time"

	"windbooks_backend/internal/logger"
)

// RetrySender wraps a Provider with a bounded retry: a fixed number of
// attempts with a linearly increasing delay between them (attempt *
// baseDelay). It blocks the caller for the duration of the retries;
// there is no background queue.
type RetrySender struct {
	provider  Provider
	attempts  int
	baseDelay time.Duration
}

func NewRetrySender(provider Provider, attempts int, baseDelay time.Duration) *RetrySender {
	if attempts < 1 {
		attempts = 1
	}
	return &RetrySender{
		provider:  provider,
		attempts:  attempts,
		baseDelay: baseDelay,
	}
}

func (s *RetrySender) Send(email *Email) error {
	return s.retry(func() error { return s.provider.Send(email) })
}

func (s *RetrySender) SendWithTemplate(templateName string, data TemplateData, email *Email) error {
	return s.retry(func() error { return s.provider.SendWithTemplate(templateName, data, email) })
}

func (s *RetrySender) Validate() error {
	return s.provider.Validate()
}

func (s *RetrySender) Close() error {
	return s.provider.Close()
}

func (s *RetrySender) retry(send func() error) error {
	var lastErr error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		if lastErr = send(); lastErr == nil {
			return nil
		}
		logger.Warn("email send attempt failed",
			"attempt", attempt,
			"max_attempts", s.attempts,
			"error", lastErr.Error(),
		)
		if attempt < s.attempts {
			time.Sleep(time.Duration(attempt) * s.baseDelay)
		}
	}
	return fmt.Errorf("all %d send attempts failed: %w", s.attempts, lastErr)
}
