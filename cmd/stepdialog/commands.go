package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/muurk/stepdialog/internal/config"
	"github.com/muurk/stepdialog/internal/dialog"
	"github.com/muurk/stepdialog/internal/form"
	"github.com/muurk/stepdialog/internal/logging"
	"github.com/muurk/stepdialog/internal/prompt"
	"github.com/muurk/stepdialog/internal/submit"
	"github.com/muurk/stepdialog/internal/ui"
	"github.com/muurk/stepdialog/internal/wizard/tui"
)

// Global flags
var (
	configPath  string
	logLevel    string
	submitMode  string
	submitURL   string
	submitDelay time.Duration
)

// Form input flags shared by check and send
var (
	formFile      string
	formFirstName string
	formLastName  string
	formAddress   string
	formPhone     string
	formAgree     bool
)

var (
	checkStep   int
	sendVerbose bool
	initForce   bool
)

// errInvalidForm makes check exit non-zero after the issues were printed
var errInvalidForm = errors.New("form is invalid")

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default is the user config dir)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&submitMode, "submit-mode", "", "Submission mode (delay, http, websocket)")
	rootCmd.PersistentFlags().StringVar(&submitURL, "submit-url", "", "Receiver URL for http and websocket modes")
	rootCmd.PersistentFlags().DurationVar(&submitDelay, "submit-delay", 0, "Simulated latency for delay mode (e.g., 1500ms)")

	for _, cmd := range []*cobra.Command{checkCmd, sendCmd} {
		cmd.Flags().StringVarP(&formFile, "file", "f", "", "Read form values from a YAML or JSON file (- for stdin)")
		cmd.Flags().StringVar(&formFirstName, "first-name", "", "姓")
		cmd.Flags().StringVar(&formLastName, "last-name", "", "名")
		cmd.Flags().StringVar(&formAddress, "address", "", "住所")
		cmd.Flags().StringVar(&formPhone, "phone", "", "電話番号")
		cmd.Flags().BoolVar(&formAgree, "agree", false, "Agree to the terms")
	}
	checkCmd.Flags().IntVar(&checkStep, "step", 0, "Only check the fields of this step (1 or 2)")
	sendCmd.Flags().BoolVarP(&sendVerbose, "verbose", "v", false, "Print the submitted form data")
	configInitCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing file without asking")

	configCmd.AddCommand(configInitCmd, configShowCmd, configPathCmd)
	rootCmd.AddCommand(promptCmd, checkCmd, sendCmd, configCmd)
}

// loadConfig reads the config file and overlays environment and flags.
// Later sources win: file, then STEPDIALOG_* variables, then flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("submit-mode") {
		cfg.Submit.Mode = submitMode
	}
	if flags.Changed("submit-url") {
		cfg.Submit.URL = submitURL
	}
	if flags.Changed("submit-delay") {
		cfg.Submit.Delay = config.Duration{Duration: submitDelay}
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return cfg, nil
}

// setup loads the configuration, starts logging and builds the submitter.
// The full-screen form owns the terminal, so it only logs to a file.
func setup(cmd *cobra.Command, fullScreen bool) (*config.Config, submit.Submitter, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	if fullScreen && cfg.Log.File == "" {
		logging.SetLogger(nil)
	} else if err := logging.Initialize(cfg.Log.Level, cfg.Log.File); err != nil {
		return nil, nil, err
	}

	s, err := submit.FromConfig(cfg.Submit)
	if err != nil {
		return nil, nil, err
	}

	logging.Debug("Configuration loaded",
		zap.String("command", cmd.CommandPath()),
		zap.String("submit_mode", cfg.Submit.Mode),
		zap.String("submit_url", cfg.Submit.URL),
	)
	return cfg, s, nil
}

func runForm(cmd *cobra.Command, args []string) error {
	_, s, err := setup(cmd, true)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	model := tui.NewAppModel(s).WithContext(ctx)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("form error: %w", err)
	}
	return nil
}

// promptCmd runs the form as line-by-line questions
var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Fill in the form with line-by-line prompts",
	Long: `Fill in the form one question at a time instead of the full-screen view.

Useful over slow connections or in terminals without alternate screen
support. Field errors are printed after each step and the questions are
asked again.`,
	RunE: runPrompt,
}

func runPrompt(cmd *cobra.Command, args []string) error {
	_, s, err := setup(cmd, false)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	r := prompt.NewRunner(prompt.NewSurveyDriver(out), s)

	err = r.Run(cmd.Context())
	if errors.Is(err, prompt.ErrCanceled) || errors.Is(err, prompt.ErrAborted) {
		fmt.Fprintln(out, "キャンセルしました")
		return nil
	}
	return err
}

// checkCmd validates form values without submitting
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate form values",
	Long: `Validate form values with the same rules the form uses.

Values come from a YAML or JSON file, from flags, or both; flags win.
The command exits with status 1 when any field is invalid.`,
	Example: `  # Check a file
  stepdialog check --file form.yaml

  # Check only the name step
  stepdialog check --first-name 山田 --last-name 太郎 --step 1

  # Check a file with a corrected phone number
  stepdialog check -f form.yaml --phone 090-1234-5678`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	if _, err := loadLogging(cmd); err != nil {
		return err
	}

	data, err := formInput(cmd)
	if err != nil {
		return err
	}

	var errs form.Errors
	scope := "all fields"
	switch checkStep {
	case 0:
		errs = form.ValidateForm(data)
	case int(form.StepPersonalInfo), int(form.StepContactInfo):
		step := form.Step(checkStep)
		scope = step.Title()
		errs = form.ValidateStep(step, data)
	default:
		return fmt.Errorf("--step must be 1 or 2, got %d", checkStep)
	}
	logging.Debug("Form checked",
		zap.Int("step", checkStep),
		zap.Strings("failed", errs.Keys()),
	)

	p := ui.NewPrinter(cmd.OutOrStdout())
	p.PrintHeader("Form Check", cmd.CommandPath(),
		ui.Param{Key: "Source", Value: formSource()},
		ui.Param{Key: "Scope", Value: scope},
	)

	if len(errs) > 0 {
		p.PrintIssues("Form is invalid", errs.Messages())
		return errInvalidForm
	}
	p.PrintSuccess("Form is valid", summaryParams(data)...)
	return nil
}

// sendCmd validates and submits form values without the interactive form
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Submit form values non-interactively",
	Long: `Validate form values and submit them through the configured receiver.

The values go through the same steps as the interactive form: the name
step, then the contact step, then submission. The first step that fails
validation stops the command.`,
	Example: `  # Simulated submission
  stepdialog send -f form.yaml

  # Post to a receiver
  stepdialog send -f form.yaml --submit-mode http --submit-url http://127.0.0.1:8080/submit`,
	Args: cobra.NoArgs,
	RunE: runSend,
}

func runSend(cmd *cobra.Command, args []string) error {
	cfg, s, err := setup(cmd, false)
	if err != nil {
		return err
	}

	receiver := cfg.Submit.URL
	if receiver == "" {
		receiver = "-"
	}

	runner := ui.NewTaskRunner(ui.TaskConfig{
		Title:   "Form Submission",
		Command: cmd.CommandPath(),
		Params: []ui.Param{
			{Key: "Source", Value: formSource()},
			{Key: "Mode", Value: cfg.Submit.Mode},
			{Key: "Receiver", Value: receiver},
		},
		Steps: []string{"Load form", form.StepPersonalInfo.Title(), form.StepContactInfo.Title(), "Submit"},
		Hints: []string{
			"Run 'stepdialog check' to see every invalid field",
			"Check that the receiver is running and reachable",
			"Run with --log-level debug for details",
		},
		Verbose: sendVerbose,
		Output:  cmd.OutOrStdout(),
	})

	_, err = runner.Run(cmd.Context(), func(ctx context.Context, onStep ui.StepCallback) ([]ui.Param, error) {
		onStep(1, ui.StepRunning, "")
		data, err := formInput(cmd)
		if err != nil {
			onStep(1, ui.StepFailed, "")
			return nil, err
		}
		onStep(1, ui.StepComplete, "")

		if raw, err := json.MarshalIndent(data, "", "  "); err == nil {
			runner.SetRaw("Form data", string(raw))
		}

		d := dialog.New()
		d.Open()
		defer d.Close()

		if err := d.Fill(data); err != nil {
			failed := 2
			if d.Step() == form.StepContactInfo {
				onStep(2, ui.StepComplete, "")
				failed = 3
			}
			onStep(failed, ui.StepFailed, fmt.Sprintf("%d error(s)", len(d.Errors())))
			return nil, err
		}
		onStep(2, ui.StepComplete, "")
		onStep(3, ui.StepComplete, "")

		onStep(4, ui.StepRunning, "")
		start := time.Now()
		if err := d.Submit(ctx, s); err != nil {
			onStep(4, ui.StepFailed, submit.ShortMessage(err))
			return nil, err
		}
		onStep(4, ui.StepComplete, time.Since(start).Round(time.Millisecond).String())

		return summaryParams(data), nil
	})
	return err
}

// configCmd groups config file commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with default values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.ResolvePath(configPath)
		if err != nil {
			return err
		}

		if _, err := os.Stat(path); err == nil && !initForce {
			if !ui.ConfirmOverwrite(cmd.InOrStdin(), cmd.OutOrStdout(), path) {
				return nil
			}
		}

		if err := config.Default().Save(path); err != nil {
			return err
		}
		ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess("Config written", ui.Param{Key: "Path", Value: path})
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the configuration after applying the file, STEPDIALOG_*
environment variables and command-line flags.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.ResolvePath(configPath)
		if err != nil {
			return err
		}
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		raw, err := cfg.Marshal()
		if err != nil {
			return err
		}

		p := ui.NewPrinter(cmd.OutOrStdout())
		p.PrintHeader("Configuration", cmd.CommandPath(), ui.Param{Key: "Path", Value: path})
		p.PrintRaw("Effective settings", string(raw))
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.ResolvePath(configPath)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

// loadLogging starts logging for commands that never submit
func loadLogging(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return cfg, logging.Initialize(cfg.Log.Level, cfg.Log.File)
}

// formInput reads --file and then applies any field flags on top
func formInput(cmd *cobra.Command) (form.FormData, error) {
	var data form.FormData
	if formFile != "" {
		var err error
		if data, err = form.LoadData(formFile); err != nil {
			return form.FormData{}, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("first-name") {
		data.FirstName = formFirstName
	}
	if flags.Changed("last-name") {
		data.LastName = formLastName
	}
	if flags.Changed("address") {
		data.Address = formAddress
	}
	if flags.Changed("phone") {
		data.Phone = formPhone
	}
	if flags.Changed("agree") {
		data.Agreement = formAgree
	}
	return data, nil
}

func formSource() string {
	switch formFile {
	case "":
		return "flags"
	case "-":
		return "stdin"
	default:
		return formFile
	}
}

func summaryParams(data form.FormData) []ui.Param {
	rows := data.Summary()
	params := make([]ui.Param, len(rows))
	for i, row := range rows {
		params[i] = ui.Param{Key: row.Label, Value: row.Value}
	}
	return params
}

func printYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
