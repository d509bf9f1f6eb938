package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/stepdialog/internal/form"
	"github.com/muurk/stepdialog/internal/version"
)

// Application branding constants
const (
	AppName   = "STEPDIALOG"
	GitHubURL = "github.com/muurk/stepdialog"
)

// AppVersion returns the application version from the centralized version package
func AppVersion() string {
	return version.Version
}

// Layout constants for responsive terminal width
const (
	MinTerminalWidth = 72 // Minimum supported terminal width
	ModalWidth       = 60 // Preferred width of the form modal
	DefaultWidth     = 80 // Used before the first tea.WindowSizeMsg
	DefaultHeight    = 24
)

// Color palette
var (
	PrimaryColor   = lipgloss.Color("#7D56F4") // Purple
	SecondaryColor = lipgloss.Color("#43BF6D") // Green
	WarningColor   = lipgloss.Color("#FFA500") // Orange
	ErrorColor     = lipgloss.Color("#FF0000") // Red

	TextColor   = lipgloss.Color("#FFFFFF") // White
	SubtleColor = lipgloss.Color("#626262") // Gray
	BorderColor = lipgloss.Color("#7D56F4") // Purple (same as primary)
	MutedColor  = lipgloss.Color("236")     // Dark gray panel
)

// Common styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Bold(true)

	RequiredStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	HintStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	FieldErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	HelpStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			PaddingTop(1)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	FocusedInputStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true)

	BlurredInputStyle = lipgloss.NewStyle().
				Foreground(SubtleColor)

	// Modal frame around the whole form
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(1, 2)

	// Confirmation summary panel
	SummaryStyle = lipgloss.NewStyle().
			Background(MutedColor).
			Padding(1, 2)

	NoticeStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ErrorColor).
			Padding(0, 1)

	ToastStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(SecondaryColor).
			Padding(0, 2)

	AgreedStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Bold(true)

	NotAgreedStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	ButtonStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(SubtleColor).
			Padding(0, 1)

	PrimaryButtonStyle = ButtonStyle.
				Background(PrimaryColor).
				BorderForeground(PrimaryColor).
				Bold(true)

	DisabledButtonStyle = ButtonStyle.
				Foreground(SubtleColor)

	ActiveStepStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	InactiveStepStyle = lipgloss.NewStyle().
				Foreground(SubtleColor)
)

// stepGlyphs are the circled numbers of the step indicator
var stepGlyphs = map[form.Step]string{
	form.StepPersonalInfo: "①",
	form.StepContactInfo:  "②",
	form.StepConfirm:      "③",
}

// RenderStepIndicator renders ①─②─③ with every step up to current highlighted.
// The connector after a step is highlighted once that step is behind us.
func RenderStepIndicator(current form.Step) string {
	var b strings.Builder
	for i, step := range form.Steps {
		style := InactiveStepStyle
		if step <= current {
			style = ActiveStepStyle
		}
		b.WriteString(style.Render(stepGlyphs[step]))

		if i < len(form.Steps)-1 {
			connector := InactiveStepStyle
			if step < current {
				connector = ActiveStepStyle
			}
			b.WriteString(connector.Render("──"))
		}
	}
	return b.String()
}

// RenderLabel renders a field label, marking required fields with a red asterisk
func RenderLabel(text string, required bool) string {
	label := LabelStyle.Render(text)
	if required {
		label += " " + RequiredStyle.Render("*")
	}
	return label
}

// RenderFieldError renders an inline validation message
func RenderFieldError(text string) string {
	return FieldErrorStyle.Render(text)
}

// RenderHelp renders help text
func RenderHelp(text string) string {
	return HelpStyle.Render(text)
}

// BuildHeaderContent creates header content with app name and GitHub URL
func BuildHeaderContent() string {
	left := lipgloss.NewStyle().
		Foreground(TextColor).
		Bold(true).
		Render(AppName + " v" + AppVersion())

	right := lipgloss.NewStyle().
		Foreground(SubtleColor).
		Render(GitHubURL)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
}

// BuildFooterContent creates footer content with help text
func BuildFooterContent(helpText string) string {
	return lipgloss.NewStyle().
		Foreground(SubtleColor).
		Render(helpText)
}

// RenderApplicationContainer wraps the host screen: header, content and a
// footer pinned to the bottom inside a full-terminal border.
func RenderApplicationContainer(content string, footerText string, terminalWidth int, terminalHeight int) string {
	header := BuildHeaderContent()
	footer := BuildFooterContent(footerText)

	headerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderForeground(BorderColor).
		Width(terminalWidth-4). // Leave room for outer border
		Padding(0, 1)

	footerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderForeground(BorderColor).
		Width(terminalWidth-4).
		Padding(0, 1)

	// Content takes whatever height is left between header and footer
	contentHeight := terminalHeight - 2 - lipgloss.Height(headerStyle.Render(header)) - lipgloss.Height(footerStyle.Render(footer))
	if contentHeight < 1 {
		contentHeight = 1
	}
	contentStyle := lipgloss.NewStyle().
		Width(terminalWidth - 4).
		Height(contentHeight)

	innerContent := lipgloss.JoinVertical(
		lipgloss.Left,
		headerStyle.Render(header),
		contentStyle.Render(content),
		footerStyle.Render(footer),
	)

	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(BorderColor).
		Width(terminalWidth - 2).
		Height(terminalHeight - 2).
		AlignVertical(lipgloss.Top)

	return lipgloss.Place(
		terminalWidth,
		terminalHeight,
		lipgloss.Left,
		lipgloss.Top,
		borderStyle.Render(innerContent),
	)
}

// SafeModalWidth returns requestedWidth capped to what fits in the terminal.
// Modals never drop below 40 columns.
func SafeModalWidth(requestedWidth, terminalWidth int) int {
	maxWidth := terminalWidth - 4
	if maxWidth < 40 {
		maxWidth = 40
	}
	if requestedWidth < maxWidth {
		return requestedWidth
	}
	return maxWidth
}

// RenderModal centers modalContent on a dimmed full-screen backdrop.
// lipgloss.Place draws over the whole terminal so the host screen is hidden.
func RenderModal(modalContent string, terminalWidth int, terminalHeight int) string {
	return lipgloss.Place(
		terminalWidth,
		terminalHeight,
		lipgloss.Center,
		lipgloss.Center,
		modalContent,
		lipgloss.WithWhitespaceChars("░"),
		lipgloss.WithWhitespaceForeground(lipgloss.Color("240")),
	)
}
