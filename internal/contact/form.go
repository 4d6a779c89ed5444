// Package contact owns the contact form: field values, submit-time validation,
// the submission lifecycle and the relay that forwards messages to Web3Forms.
package contact

import (
	"errors"
	"time"
)

// FailureMessage is the only thing a visitor learns about a failed send.
const FailureMessage = "Failed to send message. Please try again."

// RevertDelay is how long the success banner stays up.
const RevertDelay = 5 * time.Second

var (
	// ErrInvalid means validation failed and nothing was sent.
	ErrInvalid = errors.New("contact form has invalid fields")
	// ErrInFlight means a submission is already being sent.
	ErrInFlight = errors.New("contact form submission already in flight")
	// ErrUnknownField is returned for input events naming a field the form does not have.
	ErrUnknownField = errors.New("unknown contact form field")
)

// Status is the submission lifecycle.
type Status int

const (
	Idle Status = iota
	Submitting
	Submitted
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Submitted:
		return "submitted"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Submission is the payload handed to a Sender.
type Submission struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// Form is the contact form state. The zero value is an empty, idle form.
//
// Transitions per attempt are Idle -> Submitting -> Submitted|Failed. Submitted
// falls back to Idle once RevertAt has passed; Failed stays until the next Begin.
type Form struct {
	Fields   Fields    `json:"fields"`
	Errors   Errors    `json:"errors,omitempty"`
	Status   Status    `json:"status"`
	Failure  string    `json:"failure,omitempty"`
	RevertAt time.Time `json:"revert_at,omitzero"`
}

// Input records a keystroke-level change. If the field had an error, only that
// error is dropped; the rest of the form is not revalidated.
func (f *Form) Input(field Field, value string) error {
	if !f.Fields.set(field, value) {
		return ErrUnknownField
	}
	delete(f.Errors, field)
	return nil
}

// Begin starts a submission attempt. On ErrInvalid the errors are left on the
// form for display and the caller must not send anything.
func (f *Form) Begin(now time.Time) (Submission, error) {
	f.Advance(now)
	if f.Status == Submitting {
		return Submission{}, ErrInFlight
	}

	errs := Validate(f.Fields)
	if len(errs) > 0 {
		f.Errors = errs
		return Submission{}, ErrInvalid
	}

	f.Errors = nil
	f.Status = Submitting
	f.Failure = ""
	f.RevertAt = time.Time{}
	return Submission{
		Name:    f.Fields.Name,
		Email:   f.Fields.Email,
		Subject: f.Fields.Subject,
		Message: f.Fields.Message,
	}, nil
}

// Complete applies the outcome of the send started by Begin. A nil err is a
// delivered message: the fields are cleared and the success banner armed.
func (f *Form) Complete(now time.Time, err error) {
	if f.Status != Submitting {
		return
	}
	if err != nil {
		f.Status = Failed
		f.Failure = FailureMessage
		return
	}
	f.Fields = Fields{}
	f.Status = Submitted
	f.Failure = ""
	f.RevertAt = now.Add(RevertDelay)
}

// Advance fires the success banner's delayed revert if it is due.
func (f *Form) Advance(now time.Time) {
	if f.Status != Submitted || f.RevertAt.IsZero() {
		return
	}
	if !now.Before(f.RevertAt) {
		f.Status = Idle
		f.RevertAt = time.Time{}
	}
}
