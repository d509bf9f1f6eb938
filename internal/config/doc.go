// Package config provides user configuration management for stepdialog.
//
// The configuration is a small YAML file selecting how completed forms are
// submitted and how much the tool logs. It follows OS-specific conventions
// for storage location.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/stepdialog/config.yaml or $HOME/.config/stepdialog/config.yaml
//   - macOS: $HOME/.config/stepdialog/config.yaml
//   - Windows: %LOCALAPPDATA%\stepdialog\config.yaml
//
// # Precedence
//
// Defaults, then the file, then STEPDIALOG_* environment variables
// (ApplyEnv), then command-line flags applied by the caller.
//
// # Usage Example
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cfg.ApplyEnv()
//	if errs := cfg.Validate(); len(errs) > 0 {
//	    log.Fatal(errs[0])
//	}
//
//	cfg.Submit.Mode = config.SubmitModeHTTP
//	cfg.Submit.URL = "http://localhost:8080/forms"
//	if err := cfg.Save(""); err != nil {
//	    log.Fatal(err)
//	}
package config
