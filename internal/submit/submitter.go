package submit

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/stepdialog/internal/config"
	"github.com/muurk/stepdialog/internal/form"
	"github.com/muurk/stepdialog/internal/logging"
)

// DefaultDelay is how long the simulated submission takes
const DefaultDelay = 1500 * time.Millisecond

// Submitter finalizes a completed form. It returns nil on success and an
// error (preferably *Error) on failure. Implementations must honor ctx.
type Submitter interface {
	Submit(ctx context.Context, data form.FormData) error
}

// Func adapts a plain function to Submitter
type Func func(ctx context.Context, data form.FormData) error

// Submit calls f
func (f Func) Submit(ctx context.Context, data form.FormData) error {
	return f(ctx, data)
}

// Payload is the wire representation sent by the network submitters
type Payload struct {
	ID          string        `json:"id"`
	SubmittedAt time.Time     `json:"submitted_at"`
	Form        form.FormData `json:"form"`
}

type submissionIDKey struct{}

// WithSubmissionID attaches the submission id to ctx so submitters can
// include it in the payload
func WithSubmissionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, submissionIDKey{}, id)
}

// SubmissionID returns the id attached by WithSubmissionID, or ""
func SubmissionID(ctx context.Context) string {
	id, _ := ctx.Value(submissionIDKey{}).(string)
	return id
}

func newPayload(ctx context.Context, data form.FormData) Payload {
	return Payload{
		ID:          SubmissionID(ctx),
		SubmittedAt: time.Now().UTC(),
		Form:        data,
	}
}

// Delay simulates a submission by waiting a fixed duration
type Delay struct {
	Duration time.Duration
	// FailWith, when set, is returned after the delay instead of success
	FailWith error
}

// NewDelay creates a Delay submitter; a non-positive duration uses DefaultDelay
func NewDelay(d time.Duration) *Delay {
	if d <= 0 {
		d = DefaultDelay
	}
	return &Delay{Duration: d}
}

// Submit waits for the delay or until ctx is done
func (d *Delay) Submit(ctx context.Context, data form.FormData) error {
	timer := time.NewTimer(d.Duration)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ClassifyError("submission abandoned", ctx.Err())
	case <-timer.C:
	}

	if d.FailWith != nil {
		return d.FailWith
	}

	logging.Info("Form submitted",
		zap.String("submission_id", SubmissionID(ctx)),
		zap.String("name", data.FullName()),
		zap.String("address", data.Address),
		zap.String("phone", data.Phone),
		zap.Bool("agreement", data.Agreement),
	)
	return nil
}

// FromConfig builds the submitter selected by the configuration
func FromConfig(cfg config.Submit) (Submitter, error) {
	switch cfg.Mode {
	case config.SubmitModeDelay, "":
		return NewDelay(cfg.Delay.Duration), nil
	case config.SubmitModeHTTP:
		if cfg.URL == "" {
			return nil, fmt.Errorf("submit mode %q requires a url", cfg.Mode)
		}
		c := NewHTTP(cfg.URL)
		if cfg.Timeout.Duration > 0 {
			c.SetTimeout(cfg.Timeout.Duration)
		}
		c.MaxRetries = cfg.Retries
		return c, nil
	case config.SubmitModeWebSocket:
		if cfg.URL == "" {
			return nil, fmt.Errorf("submit mode %q requires a url", cfg.Mode)
		}
		ws := NewWebSocket(cfg.URL)
		if cfg.Timeout.Duration > 0 {
			ws.Timeout = cfg.Timeout.Duration
		}
		return ws, nil
	default:
		return nil, fmt.Errorf("unknown submit mode %q", cfg.Mode)
	}
}
