package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/muurk/stepdialog/internal/dialog"
	"github.com/muurk/stepdialog/internal/form"
	"github.com/muurk/stepdialog/internal/logging"
	"github.com/muurk/stepdialog/internal/submit"
)

// ErrCanceled is returned when the user picks キャンセル
var ErrCanceled = errors.New("form canceled")

// Choices offered on the confirmation step
const (
	ChoiceSubmit   = "送信"
	ChoicePrevious = "前へ"
	ChoiceCancel   = "キャンセル"
)

// Texts printed by the runner
const (
	SuccessMessage = "フォームが送信されました！"
	SubmittingText = "送信中..."
	agreementLabel = "利用規約に同意します"
	phoneHint      = "携帯電話または固定電話の番号を入力してください"
)

var confirmChoices = []string{ChoiceSubmit, ChoicePrevious, ChoiceCancel}

// Runner walks a Dialog through line-by-line prompts
type Runner struct {
	Dialog    *dialog.Dialog
	Driver    PromptDriver
	Submitter submit.Submitter
}

// NewRunner creates a runner over a fresh dialog
func NewRunner(driver PromptDriver, s submit.Submitter, opts ...dialog.Option) *Runner {
	return &Runner{
		Dialog:    dialog.New(opts...),
		Driver:    driver,
		Submitter: s,
	}
}

// Run opens the dialog and prompts until the form is submitted, canceled or
// ctx is done. It returns nil after a successful submission.
func (r *Runner) Run(ctx context.Context) error {
	d := r.Dialog
	d.Open()
	defer d.Close()

	for d.IsOpen() {
		if err := ctx.Err(); err != nil {
			return err
		}

		step := d.Step()
		if err := r.Driver.Info(ctx, fmt.Sprintf("\n%s\n%s", step.Title(), step.Description())); err != nil {
			return err
		}

		var (
			done bool
			err  error
		)
		if step == form.StepConfirm {
			done, err = r.confirm(ctx)
		} else {
			err = r.collect(ctx, step)
		}
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
	return nil
}

// collect prompts every field of step, then tries to advance
func (r *Runner) collect(ctx context.Context, step form.Step) error {
	d := r.Dialog

	for _, f := range step.Fields() {
		data := d.Data()

		if f == form.FieldAgreement {
			agreed, err := r.Driver.Confirm(ctx, ConfirmConfig{
				Message: agreementLabel,
				Default: data.Agreement,
			})
			if err != nil {
				return err
			}
			if err := d.UpdateField(f, agreed); err != nil {
				return err
			}
			continue
		}

		help := "例: " + f.Placeholder()
		if f == form.FieldPhone {
			help = phoneHint + " (" + help + ")"
		}
		value, err := r.Driver.Input(ctx, InputConfig{
			Message:   f.Label(),
			Default:   data.Text(f),
			Help:      help,
			Validator: fieldValidator(f),
		})
		if err != nil {
			return err
		}
		if err := d.UpdateField(f, value); err != nil {
			return err
		}
	}

	if !d.Next() {
		return r.showErrors(ctx)
	}
	return nil
}

// confirm shows the summary and acts on the user's choice.
// It reports true once the form has been submitted.
func (r *Runner) confirm(ctx context.Context) (bool, error) {
	d := r.Dialog

	if err := r.Driver.Info(ctx, formatSummary(d.Data())); err != nil {
		return false, err
	}

	choice, err := r.Driver.Select(ctx, SelectConfig{
		Message: "上記の内容でよろしければ、送信を選んでください。",
		Options: confirmChoices,
	})
	if err != nil {
		return false, err
	}

	switch choice {
	case 0:
		return r.submit(ctx)
	case 1:
		d.Previous()
		return false, nil
	default:
		d.Close()
		return false, ErrCanceled
	}
}

func (r *Runner) submit(ctx context.Context) (bool, error) {
	d := r.Dialog

	sub, ok := d.BeginSubmit(ctx)
	if !ok {
		return false, r.showErrors(ctx)
	}

	if err := r.Driver.Info(ctx, SubmittingText); err != nil {
		d.FinishSubmit(sub, err)
		return false, err
	}

	effectErr := r.Submitter.Submit(sub.Context(), sub.Data)
	d.FinishSubmit(sub, effectErr)

	if effectErr != nil {
		logging.Debug("Line-mode submission failed",
			zap.String("dialog_id", d.ID()),
			zap.String("reason", submit.ShortMessage(effectErr)),
		)
		return false, r.Driver.Info(ctx, d.Notice())
	}

	return true, r.Driver.Info(ctx, SuccessMessage)
}

func (r *Runner) showErrors(ctx context.Context) error {
	errs := r.Dialog.Errors()
	for _, f := range errs.Fields() {
		if err := r.Driver.Info(ctx, "✗ "+errs.Get(f)); err != nil {
			return err
		}
	}
	return nil
}

// fieldValidator adapts the per-field rule to a prompt validator
func fieldValidator(f form.Field) func(string) error {
	return func(value string) error {
		if msg := form.ValidateField(f, value); msg != "" {
			return errors.New(msg)
		}
		return nil
	}
}

func formatSummary(data form.FormData) string {
	var b strings.Builder
	b.WriteString("入力内容確認\n")
	for _, row := range data.Summary() {
		b.WriteString("  " + row.Label + ": " + row.Value + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
