package email

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyProvider fails the first failUntil sends, then succeeds.
type flakyProvider struct {
	calls     int
	failUntil int
}

var errSMTPDown = errors.New("smtp down")

func (p *flakyProvider) Send(email *Email) error {
	p.calls++
	if p.calls <= p.failUntil {
		return errSMTPDown
	}
	return nil
}

func (p *flakyProvider) SendWithTemplate(templateName string, data TemplateData, email *Email) error {
	return p.Send(email)
}

func (p *flakyProvider) Validate() error { return nil }
func (p *flakyProvider) Close() error    { return nil }

func TestRetrySenderRecoversFromTransientFailures(t *testing.T) {
	provider := &flakyProvider{failUntil: 2}
	sender := NewRetrySender(provider, 3, time.Millisecond)

	err := sender.Send(&Email{To: []string{"a@example.com"}, Subject: "hi"})
	require.NoError(t, err)
	assert.Equal(t, 3, provider.calls)
}

func TestRetrySenderGivesUpAfterAllAttempts(t *testing.T) {
	provider := &flakyProvider{failUntil: 100}
	sender := NewRetrySender(provider, 3, time.Millisecond)

	err := sender.Send(&Email{To: []string{"a@example.com"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, errSMTPDown)
	assert.Equal(t, 3, provider.calls)
}

func TestRetrySenderSingleAttemptFloor(t *testing.T) {
	provider := &flakyProvider{failUntil: 100}
	sender := NewRetrySender(provider, 0, time.Millisecond)

	err := sender.Send(&Email{})
	require.Error(t, err)
	assert.Equal(t, 1, provider.calls)
}

func TestRetrySenderWrapsTemplateSends(t *testing.T) {
	provider := &flakyProvider{failUntil: 1}
	sender := NewRetrySender(provider, 2, time.Millisecond)

	err := sender.SendWithTemplate(TemplateVerification, TemplateData{"Code": "x"}, &Email{})
	require.NoError(t, err)
	assert.Equal(t, 2, provider.calls)
}
