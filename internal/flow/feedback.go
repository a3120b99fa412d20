package flow

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"csvdesk/internal/api"
	"csvdesk/internal/logging"
)

const (
	MsgFeedbackSent   = "Feedback submitted successfully! Thank you."
	MsgFeedbackFailed = "Failed to submit feedback. Please try again."
)

// Field names of the feedback form, as sent on the wire.
const (
	FieldPurpose           = "purpose"
	FieldStakeholders      = "stakeholders"
	FieldIncorrectFields   = "incorrectFields"
	FieldTerminology       = "terminology"
	FieldAdditionalContext = "additionalContext"
)

// FeedbackSubmitter sends a feedback form.
type FeedbackSubmitter interface {
	SubmitFeedback(ctx context.Context, fb api.Feedback) (*api.FeedbackResult, error)
}

// Feedback is the five-field feedback form.
type Feedback struct {
	lifecycle

	client FeedbackSubmitter
	log    *slog.Logger
	guard  *inflight

	mu      sync.Mutex
	form    api.Feedback
	message string
	sent    bool
}

func NewFeedback(client FeedbackSubmitter) *Feedback {
	return &Feedback{
		client: client,
		log:    logging.New("feedback"),
		guard:  newInflight(),
	}
}

// Set updates one field by its wire name.
func (f *Feedback) Set(field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch field {
	case FieldPurpose:
		f.form.Purpose = value
	case FieldStakeholders:
		f.form.Stakeholders = value
	case FieldIncorrectFields:
		f.form.IncorrectFields = value
	case FieldTerminology:
		f.form.Terminology = value
	case FieldAdditionalContext:
		f.form.AdditionalContext = value
	default:
		return fmt.Errorf("%w: unknown feedback field %q", ErrInvalidInput, field)
	}
	return nil
}

// SetForm replaces all five fields.
func (f *Feedback) SetForm(fb api.Feedback) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.form = fb
}

// Form returns the fields as currently entered.
func (f *Feedback) Form() api.Feedback {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.form
}

// Submit sends the form. Empty forms are allowed. On success every field is
// cleared; on failure the fields are kept as entered.
func (f *Feedback) Submit(ctx context.Context) error {
	if !f.guard.begin() {
		return ErrBusy
	}
	defer f.guard.end()

	form := f.Form()
	_, err := f.client.SubmitFeedback(ctx, form)
	if !f.Mounted() {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.message, f.sent = MsgFeedbackFailed, false
		f.log.Warn("feedback submission failed", "error", err)
		return err
	}
	f.form = api.Feedback{}
	f.message, f.sent = MsgFeedbackSent, true
	f.log.Info("feedback submitted")
	return nil
}

// Submitting reports whether a submission is in flight.
func (f *Feedback) Submitting() bool { return f.guard.busy() }

// Message returns the result message of the last submission and whether it
// succeeded.
func (f *Feedback) Message() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message, f.sent
}
