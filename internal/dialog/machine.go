package dialog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/muurk/stepdialog/internal/form"
	"github.com/muurk/stepdialog/internal/logging"
	"github.com/muurk/stepdialog/internal/submit"
)

var (
	// ErrNotReady is returned when a submission is requested outside the
	// confirmation step or while another one is in flight
	ErrNotReady = errors.New("dialog is not ready to submit")

	// ErrValidation is returned when the contact details fail re-validation at submit time
	ErrValidation = errors.New("form has validation errors")

	// ErrSubmitting is returned for edits attempted while a submission is in flight
	ErrSubmitting = errors.New("submission in progress")

	// ErrClosed is returned for edits attempted on a closed dialog
	ErrClosed = errors.New("dialog is closed")
)

// FailureNotice is shown after a failed submission
const FailureNotice = "送信に失敗しました。もう一度お試しください。"

// Host is notified whenever the dialog closes (cancel or successful submit)
type Host interface {
	Close()
}

// HostFunc adapts a plain function to Host
type HostFunc func()

// Close calls f
func (f HostFunc) Close() { f() }

// Option configures a Dialog
type Option func(*Dialog)

// WithHost registers the collaborator notified on close
func WithHost(h Host) Option {
	return func(d *Dialog) {
		d.host = h
	}
}

// WithSchema replaces the default validation schema
func WithSchema(s *form.Schema) Option {
	return func(d *Dialog) {
		d.schema = s
	}
}

// Submission is one in-flight submit attempt. It is handed to the effect
// runner by BeginSubmit and handed back through FinishSubmit.
type Submission struct {
	ID   string
	Data form.FormData

	ctx    context.Context
	cancel context.CancelFunc
}

// Context is canceled when the dialog is closed before the submission finishes
func (s *Submission) Context() context.Context {
	return s.ctx
}

// Dialog is the step state machine behind the modal form.
// It is not safe for concurrent use; drive it from a single goroutine.
type Dialog struct {
	id     string
	host   Host
	schema *form.Schema

	open       bool
	step       form.Step
	data       form.FormData
	errors     form.Errors
	notice     string
	submitting bool
	pending    *Submission
}

// New creates a closed dialog
func New(opts ...Option) *Dialog {
	d := &Dialog{
		id:     uuid.NewString(),
		step:   form.FirstStep,
		errors: form.Errors{},
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.schema == nil {
		d.schema = form.DefaultSchema()
	}
	return d
}

// ID identifies the dialog in logs
func (d *Dialog) ID() string { return d.id }

// IsOpen reports whether the dialog is shown
func (d *Dialog) IsOpen() bool { return d.open }

// Step returns the current step
func (d *Dialog) Step() form.Step { return d.step }

// Data returns a copy of the form data
func (d *Dialog) Data() form.FormData { return d.data }

// Errors returns a copy of the displayed field errors
func (d *Dialog) Errors() form.Errors { return d.errors.Clone() }

// Submitting reports whether a submission is in flight
func (d *Dialog) Submitting() bool { return d.submitting }

// Notice returns the failure notice, or "" when there is none
func (d *Dialog) Notice() string { return d.notice }

// Open shows the dialog with empty data at the first step.
// Opening an already open dialog does nothing.
func (d *Dialog) Open() {
	if d.open {
		return
	}
	d.reset()
	d.open = true
	logging.LogTransition(d.id, "open", form.FirstStep, d.step)
}

// Next validates the current step and advances when it passes.
// It returns false when the step failed validation or no move is possible.
func (d *Dialog) Next() bool {
	if !d.open || d.submitting || d.step >= form.LastStep {
		return false
	}

	errs := d.schema.ValidateStep(d.step, d.data)
	logging.LogValidation(d.id, d.step, errs.Keys())
	if len(errs) > 0 {
		d.errors = errs
		return false
	}

	from := d.step
	d.step++
	d.errors = form.Errors{}
	logging.LogTransition(d.id, "next", from, d.step)
	return true
}

// Previous moves back one step without validating. Displayed errors are kept.
func (d *Dialog) Previous() bool {
	if !d.open || d.submitting || d.step <= form.FirstStep {
		return false
	}

	from := d.step
	d.step--
	logging.LogTransition(d.id, "previous", from, d.step)
	return true
}

// UpdateField overwrites one field and clears that field's error only.
func (d *Dialog) UpdateField(field form.Field, value any) error {
	if !d.open {
		return ErrClosed
	}
	if d.submitting {
		return ErrSubmitting
	}
	if err := d.data.Set(field, value); err != nil {
		return err
	}
	delete(d.errors, field)
	return nil
}

// BeginSubmit starts a submission from the confirmation step. Only the
// contact details are re-validated; the name fields were checked on step 1.
// The returned Submission must be passed to FinishSubmit once the effect
// completes.
func (d *Dialog) BeginSubmit(ctx context.Context) (*Submission, bool) {
	sub, err := d.begin(ctx)
	return sub, err == nil
}

func (d *Dialog) begin(ctx context.Context) (*Submission, error) {
	if !d.open || d.submitting || d.step != form.StepConfirm {
		return nil, ErrNotReady
	}

	errs := d.schema.ValidateStep(form.StepConfirm, d.data)
	logging.LogValidation(d.id, d.step, errs.Keys())
	if len(errs) > 0 {
		d.errors = errs
		return nil, ErrValidation
	}

	id := uuid.NewString()
	subCtx, cancel := context.WithCancel(submit.WithSubmissionID(ctx, id))
	sub := &Submission{
		ID:     id,
		Data:   d.data,
		ctx:    subCtx,
		cancel: cancel,
	}

	d.pending = sub
	d.submitting = true
	d.notice = ""
	d.errors = form.Errors{}
	logging.LogSubmit(d.id, id, "started")
	return sub, nil
}

// FinishSubmit records the outcome of sub. Success closes and resets the
// dialog; failure keeps data and step and shows FailureNotice. Results for a
// submission that is no longer current are ignored and false is returned.
func (d *Dialog) FinishSubmit(sub *Submission, err error) bool {
	if sub == nil || sub != d.pending {
		id := ""
		if sub != nil {
			id = sub.ID
		}
		logging.LogSubmit(d.id, id, "discarded")
		return false
	}

	sub.cancel()
	d.pending = nil
	d.submitting = false

	if err != nil {
		d.notice = FailureNotice
		logging.LogSubmit(d.id, sub.ID, "failed",
			zap.String("reason", submit.ShortMessage(err)),
			zap.Error(err),
		)
		return true
	}

	logging.LogSubmit(d.id, sub.ID, "succeeded")
	d.Close()
	return true
}

// Submit runs the whole submission synchronously through s.
func (d *Dialog) Submit(ctx context.Context, s submit.Submitter) error {
	sub, err := d.begin(ctx)
	if err != nil {
		return err
	}

	effectErr := s.Submit(sub.Context(), sub.Data)
	if !d.FinishSubmit(sub, effectErr) {
		return ErrClosed
	}
	if effectErr != nil {
		return fmt.Errorf("submit: %w", effectErr)
	}
	return nil
}

// Fill sets every field from data and advances toward the confirmation
// step. It stops at the first step that fails validation and returns that
// step's errors as a *form.ValidationError.
func (d *Dialog) Fill(data form.FormData) error {
	for _, f := range form.Fields {
		var value any = data.Text(f)
		if f == form.FieldAgreement {
			value = data.Agreement
		}
		if err := d.UpdateField(f, value); err != nil {
			return err
		}
	}

	for d.step < form.LastStep {
		if !d.Next() {
			if err := d.errors.Err(); err != nil {
				return err
			}
			return ErrNotReady
		}
	}
	return nil
}

// Close hides the dialog and resets it from any step. An in-flight
// submission is canceled and its late result will be discarded.
func (d *Dialog) Close() {
	if d.pending != nil {
		d.pending.cancel()
		logging.LogSubmit(d.id, d.pending.ID, "canceled")
		d.pending = nil
	}

	wasOpen := d.open
	from := d.step
	d.reset()
	d.open = false

	if wasOpen {
		logging.LogTransition(d.id, "close", from, d.step)
		if d.host != nil {
			d.host.Close()
		}
	}
}

func (d *Dialog) reset() {
	d.step = form.FirstStep
	d.data = form.FormData{}
	d.errors = form.Errors{}
	d.notice = ""
	d.submitting = false
}
