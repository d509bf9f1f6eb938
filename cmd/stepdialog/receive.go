package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/muurk/stepdialog/internal/logging"
	"github.com/muurk/stepdialog/internal/server"
	"github.com/muurk/stepdialog/internal/ui"
)

// Receiver flags
var (
	receiveHost    string
	receivePort    int
	receiveCert    string
	receiveKey     string
	receiveCapture string
)

// receiveCmd runs a local receiver for the http and websocket submit modes
var receiveCmd = &cobra.Command{
	Use:   "receive",
	Short: "Run a local receiver for submitted forms",
	Long: `Run a local receiver that accepts forms from the http and websocket
submit modes.

Forms are validated with the same rules as the dialog. Valid forms are
acknowledged; invalid ones are refused with the field messages, which the
dialog shows as a failed submission.

The receiver logs at info level unless --log-level says otherwise.`,
	Example: `  # Start the receiver
  stepdialog receive --port 8080

  # In another terminal, submit over http
  stepdialog --submit-mode http --submit-url http://127.0.0.1:8080/submit

  # Or over a websocket, keeping a record of every submission
  stepdialog receive --capture received.jsonl
  stepdialog --submit-mode websocket --submit-url ws://127.0.0.1:8080/ws`,
	Args: cobra.NoArgs,
	RunE: runReceive,
}

func init() {
	receiveCmd.Flags().StringVar(&receiveHost, "host", "127.0.0.1", "Address to listen on")
	receiveCmd.Flags().IntVar(&receivePort, "port", 8080, "Port to listen on")
	receiveCmd.Flags().StringVar(&receiveCert, "cert", "", "TLS certificate file (enables https and wss)")
	receiveCmd.Flags().StringVar(&receiveKey, "key", "", "TLS private key file")
	receiveCmd.Flags().StringVar(&receiveCapture, "capture", "", "Append received submissions to this JSON Lines file")

	rootCmd.AddCommand(receiveCmd)
}

func runReceive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	level := cfg.Log.Level
	if level == "" {
		level = "info"
	}
	if err := logging.Initialize(level, cfg.Log.File); err != nil {
		return err
	}

	s, err := server.New(server.Config{
		Host:        receiveHost,
		Port:        receivePort,
		CertPath:    receiveCert,
		KeyPath:     receiveKey,
		CaptureFile: receiveCapture,
	})
	if err != nil {
		return err
	}

	httpScheme, wsScheme := "http", "ws"
	if receiveCert != "" {
		httpScheme, wsScheme = "https", "wss"
	}
	addr := server.Config{Host: receiveHost, Port: receivePort}.Addr()

	capture := receiveCapture
	if capture == "" {
		capture = "disabled"
	}

	ui.NewPrinter(cmd.OutOrStdout()).PrintHeader("Form Receiver", cmd.CommandPath(),
		ui.Param{Key: "HTTP", Value: fmt.Sprintf("%s://%s%s", httpScheme, addr, server.SubmitPath)},
		ui.Param{Key: "WebSocket", Value: fmt.Sprintf("%s://%s%s", wsScheme, addr, server.WebSocketPath)},
		ui.Param{Key: "Capture", Value: capture},
	)

	return s.Start(cmd.Context())
}
