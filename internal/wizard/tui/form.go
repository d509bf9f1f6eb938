package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/muurk/stepdialog/internal/dialog"
	"github.com/muurk/stepdialog/internal/form"
	"github.com/muurk/stepdialog/internal/logging"
	"github.com/muurk/stepdialog/internal/submit"
)

// Fixed texts of the form modal
const (
	AgreementLabel = "利用規約に同意します"
	PhoneHint      = "携帯電話または固定電話の番号を入力してください"
	SummaryHeading = "入力内容確認"
	SummaryFooter  = "上記の内容でよろしければ、送信ボタンを押してください。"
	SubmittingText = "送信中..."
	ButtonPrevious = "前へ"
	ButtonCancel   = "キャンセル"
	ButtonNext     = "次へ"
	ButtonSubmit   = "送信"
)

// Region identifiers exposed by Regions
const (
	RegionAgreementCheckbox     = "agreement-checkbox"
	RegionConfirmationSummary   = "confirmation-summary"
	RegionConfirmationName      = "confirmation-name"
	RegionConfirmationAddress   = "confirmation-address"
	RegionConfirmationPhone     = "confirmation-phone"
	RegionConfirmationAgreement = "confirmation-agreement"
	RegionNotice                = "submit-notice"
)

// InputRegion returns the region id of a field's input, e.g. "phone-input"
func InputRegion(f form.Field) string { return f.String() + "-input" }

// ErrorRegion returns the region id of a field's error, e.g. "phone-error"
func ErrorRegion(f form.Field) string { return f.String() + "-error" }

// submitResultMsg carries the outcome of a submission back to the update loop
type submitResultMsg struct {
	sub *dialog.Submission
	err error
}

// formKeyMap defines key bindings inside the modal
type formKeyMap struct {
	Next      key.Binding
	Previous  key.Binding
	Cancel    key.Binding
	Toggle    key.Binding
	FocusNext key.Binding
	FocusPrev key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k formKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.FocusNext, k.Toggle, k.Next, k.Previous, k.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (k formKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.FocusNext, k.FocusPrev, k.Toggle},
		{k.Next, k.Previous, k.Cancel},
	}
}

// submittingKeyMap is shown while a submission is in flight
type submittingKeyMap struct {
	Cancel key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k submittingKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (k submittingKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Cancel}}
}

func newFormKeyMap() formKeyMap {
	return formKeyMap{
		Next: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "次へ/送信"),
		),
		Previous: key.NewBinding(
			key.WithKeys("ctrl+b"),
			key.WithHelp("ctrl+b", "戻る"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "キャンセル"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "同意の切替"),
		),
		FocusNext: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "次の項目"),
		),
		FocusPrev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "前の項目"),
		),
	}
}

// FormModel renders a dialog.Dialog as a modal and turns key presses into
// dialog operations. Field values live in the Dialog; the text inputs only
// mirror them for editing.
type FormModel struct {
	Dialog    *dialog.Dialog
	Submitter submit.Submitter

	// Context is the parent of every submission context
	Context context.Context

	inputs [form.FieldAgreement]textinput.Model // Indexed by text field
	focus  int                                  // Index into the current step's fields

	Spinner spinner.Model
	Help    help.Model
	Keys    formKeyMap
	busy    submittingKeyMap

	Width  int
	Height int

	// Submitted is set once a submission has succeeded and the dialog closed.
	// The host clears it after showing its toast.
	Submitted bool
}

// NewFormModel creates a modal bound to d that submits through s
func NewFormModel(d *dialog.Dialog, s submit.Submitter) FormModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = SpinnerStyle

	m := FormModel{
		Dialog:    d,
		Submitter: s,
		Context:   context.Background(),
		Spinner:   sp,
		Help:      help.New(),
		Keys:      newFormKeyMap(),
		busy: submittingKeyMap{
			Cancel: key.NewBinding(
				key.WithKeys("esc"),
				key.WithHelp("esc", "キャンセル"),
			),
		},
		Width:  DefaultWidth,
		Height: DefaultHeight,
	}

	for _, f := range form.Fields {
		if !f.IsText() {
			continue
		}
		ti := textinput.New()
		ti.Placeholder = f.Placeholder()
		ti.CharLimit = 200
		ti.Width = ModalWidth - 10
		ti.Prompt = "› "
		ti.PromptStyle = BlurredInputStyle
		m.inputs[f] = ti
	}

	return m
}

// Open shows the dialog with an empty form and focuses the first field
func (m FormModel) Open() (FormModel, tea.Cmd) {
	m.Dialog.Open()
	m.Submitted = false
	m = m.syncFromDialog()
	m.focus = 0
	m = m.applyFocus()
	return m, textinput.Blink
}

// Update handles messages while the modal is shown
func (m FormModel) Update(msg tea.Msg) (FormModel, tea.Cmd) {
	switch msg := msg.(type) {
	case submitResultMsg:
		if m.Dialog.FinishSubmit(msg.sub, msg.err) && msg.err == nil {
			m.Submitted = true
		}
		m = m.syncFromDialog()
		return m, nil

	case spinner.TickMsg:
		if !m.Dialog.Submitting() {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Cursor blink and other input messages
	if f, ok := m.focusedField(); ok && f.IsText() {
		var cmd tea.Cmd
		m.inputs[f], cmd = m.inputs[f].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m FormModel) handleKey(msg tea.KeyMsg) (FormModel, tea.Cmd) {
	if !m.Dialog.IsOpen() {
		return m, nil
	}

	// Controls are disabled while submitting, except cancel
	if m.Dialog.Submitting() {
		if key.Matches(msg, m.Keys.Cancel) {
			m.Dialog.Close()
			m = m.syncFromDialog()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.Keys.Cancel):
		m.Dialog.Close()
		m = m.syncFromDialog()
		return m, nil

	case key.Matches(msg, m.Keys.Next):
		return m.advance()

	case key.Matches(msg, m.Keys.Previous):
		if m.Dialog.Previous() {
			m.focus = 0
			m = m.applyFocus()
		}
		return m, nil

	case key.Matches(msg, m.Keys.FocusNext):
		return m.moveFocus(1), nil

	case key.Matches(msg, m.Keys.FocusPrev):
		return m.moveFocus(-1), nil
	}

	f, ok := m.focusedField()
	if !ok {
		return m, nil
	}

	if f == form.FieldAgreement {
		if key.Matches(msg, m.Keys.Toggle) {
			m.update(f, !m.Dialog.Data().Agreement)
		}
		return m, nil
	}

	before := m.inputs[f].Value()
	var cmd tea.Cmd
	m.inputs[f], cmd = m.inputs[f].Update(msg)
	if value := m.inputs[f].Value(); value != before {
		m.update(f, value)
	}
	return m, cmd
}

func (m FormModel) update(f form.Field, value any) {
	if err := m.Dialog.UpdateField(f, value); err != nil {
		logging.Debug("Field update ignored",
			zap.String("dialog_id", m.Dialog.ID()),
			zap.Stringer("field", f),
			zap.Error(err),
		)
	}
}

// advance moves to the next step, or starts the submission on the last one
func (m FormModel) advance() (FormModel, tea.Cmd) {
	if m.Dialog.Step() == form.StepConfirm {
		sub, ok := m.Dialog.BeginSubmit(m.Context)
		if !ok {
			return m, nil
		}
		return m, tea.Batch(m.Spinner.Tick, runSubmit(m.Submitter, sub))
	}

	if m.Dialog.Next() {
		m.focus = 0
		m = m.applyFocus()
		return m, textinput.Blink
	}

	// Jump to the first field that needs attention
	errs := m.Dialog.Errors()
	for i, f := range m.Dialog.Step().Fields() {
		if errs.Has(f) {
			m.focus = i
			break
		}
	}
	m = m.applyFocus()
	return m, nil
}

// runSubmit performs the effect off the update loop
func runSubmit(s submit.Submitter, sub *dialog.Submission) tea.Cmd {
	return func() tea.Msg {
		return submitResultMsg{sub: sub, err: s.Submit(sub.Context(), sub.Data)}
	}
}

func (m FormModel) focusedField() (form.Field, bool) {
	fields := m.Dialog.Step().Fields()
	if m.focus < 0 || m.focus >= len(fields) {
		return 0, false
	}
	return fields[m.focus], true
}

func (m FormModel) moveFocus(delta int) FormModel {
	n := len(m.Dialog.Step().Fields())
	if n == 0 {
		return m
	}
	m.focus = (m.focus + delta + n) % n
	return m.applyFocus()
}

// applyFocus focuses the selected input and blurs the rest
func (m FormModel) applyFocus() FormModel {
	focused, ok := m.focusedField()
	for _, f := range form.Fields {
		if !f.IsText() {
			continue
		}
		if ok && f == focused && m.Dialog.IsOpen() {
			m.inputs[f].Focus()
			m.inputs[f].PromptStyle = FocusedInputStyle
		} else {
			m.inputs[f].Blur()
			m.inputs[f].PromptStyle = BlurredInputStyle
		}
	}
	return m
}

// syncFromDialog copies the dialog's data into the inputs, e.g. after a reset
func (m FormModel) syncFromDialog() FormModel {
	data := m.Dialog.Data()
	for _, f := range form.Fields {
		if f.IsText() {
			m.inputs[f].SetValue(data.Text(f))
		}
	}
	if !m.Dialog.IsOpen() {
		m.focus = 0
	}
	return m.applyFocus()
}

// View renders the modal content (without the backdrop)
func (m FormModel) View() string {
	if !m.Dialog.IsOpen() {
		return ""
	}

	step := m.Dialog.Step()
	width := SafeModalWidth(ModalWidth, m.Width)

	var b strings.Builder
	b.WriteString(TitleStyle.Render(step.Title()))
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render(step.Description()))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width-6, lipgloss.Center, RenderStepIndicator(step)))
	b.WriteString("\n\n")

	switch step {
	case form.StepPersonalInfo, form.StepContactInfo:
		b.WriteString(m.renderFields(step))
	case form.StepConfirm:
		b.WriteString(m.renderConfirmation())
	}

	if notice := m.Dialog.Notice(); notice != "" {
		b.WriteString("\n")
		b.WriteString(NoticeStyle.Render(notice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.Dialog.Submitting() {
		b.WriteString(m.Spinner.View() + " " + SubmittingText)
		b.WriteString("\n")
		b.WriteString(RenderHelp(m.Help.View(m.busy)))
	} else {
		b.WriteString(m.renderButtons(width - 6))
		b.WriteString("\n")
		b.WriteString(RenderHelp(m.Help.View(m.Keys)))
	}

	return ModalStyle.Width(width).Render(b.String())
}

func (m FormModel) renderFields(step form.Step) string {
	data := m.Dialog.Data()
	errs := m.Dialog.Errors()

	var b strings.Builder
	for i, f := range step.Fields() {
		if i > 0 {
			b.WriteString("\n")
		}

		if f == form.FieldAgreement {
			b.WriteString(m.renderCheckbox(data.Agreement))
		} else {
			b.WriteString(RenderLabel(f.Label(), true))
			b.WriteString("\n")
			b.WriteString(m.inputs[f].View())
		}
		b.WriteString("\n")

		if msg := errs.Get(f); msg != "" {
			b.WriteString(RenderFieldError(msg))
			b.WriteString("\n")
		}
		if f == form.FieldPhone {
			b.WriteString(HintStyle.Render(PhoneHint))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m FormModel) renderCheckbox(checked bool) string {
	box := checkboxText(checked)
	focused, ok := m.focusedField()
	style := BlurredInputStyle
	if ok && focused == form.FieldAgreement {
		style = FocusedInputStyle
	}
	return style.Render(box[:3]) + " " + RenderLabel(AgreementLabel, true)
}

func checkboxText(checked bool) string {
	if checked {
		return "[x] " + AgreementLabel + " *"
	}
	return "[ ] " + AgreementLabel + " *"
}

func (m FormModel) renderConfirmation() string {
	data := m.Dialog.Data()

	var rows []string
	for _, row := range data.Summary() {
		value := row.Value
		if row.Label == form.FieldAgreement.Label() {
			if data.Agreement {
				value = AgreedStyle.Render(value)
			} else {
				value = NotAgreedStyle.Render(value)
			}
		}
		label := LabelStyle.Width(12).Render(row.Label + ":")
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, label, value))
	}

	var b strings.Builder
	b.WriteString(LabelStyle.Render(SummaryHeading))
	b.WriteString("\n")
	b.WriteString(SummaryStyle.Render(strings.Join(rows, "\n")))
	b.WriteString("\n")

	// Contact details are re-checked on submit; show what failed
	errs := m.Dialog.Errors()
	for _, f := range errs.Fields() {
		b.WriteString(RenderFieldError(errs.Get(f)))
		b.WriteString("\n")
	}

	b.WriteString(HintStyle.Render(SummaryFooter))
	b.WriteString("\n")
	return b.String()
}

func (m FormModel) renderButtons(width int) string {
	var left string
	if m.Dialog.Step() > form.FirstStep {
		left = ButtonStyle.Render(ButtonPrevious)
	}

	primary := ButtonNext
	if m.Dialog.Step() == form.StepConfirm {
		primary = ButtonSubmit
	}
	right := lipgloss.JoinHorizontal(lipgloss.Top,
		ButtonStyle.Render(ButtonCancel),
		" ",
		PrimaryButtonStyle.Render(primary),
	)

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, left, strings.Repeat(" ", gap), right)
}

// Regions returns the plain text of every identifiable region currently
// shown, keyed by region id. A closed dialog has no regions.
func (m FormModel) Regions() map[string]string {
	regions := map[string]string{}
	if !m.Dialog.IsOpen() {
		return regions
	}

	data := m.Dialog.Data()
	step := m.Dialog.Step()

	switch step {
	case form.StepPersonalInfo, form.StepContactInfo:
		for _, f := range step.Fields() {
			if f == form.FieldAgreement {
				regions[RegionAgreementCheckbox] = checkboxText(data.Agreement)
				continue
			}
			regions[InputRegion(f)] = data.Text(f)
		}

	case form.StepConfirm:
		rows := data.Summary()
		lines := make([]string, len(rows))
		for i, row := range rows {
			lines[i] = row.Label + ": " + row.Value
		}
		regions[RegionConfirmationSummary] = strings.Join(lines, "\n")
		regions[RegionConfirmationName] = data.FullName()
		regions[RegionConfirmationAddress] = data.Address
		regions[RegionConfirmationPhone] = data.Phone
		regions[RegionConfirmationAgreement] = data.AgreementStatus()
	}

	errs := m.Dialog.Errors()
	for _, f := range errs.Fields() {
		regions[ErrorRegion(f)] = errs.Get(f)
	}

	if notice := m.Dialog.Notice(); notice != "" {
		regions[RegionNotice] = notice
	}

	return regions
}
