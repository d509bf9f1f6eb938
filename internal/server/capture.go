package server

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/muurk/stepdialog/internal/form"
)

// Record is one line of the capture file
type Record struct {
	Timestamp  time.Time     `json:"timestamp"`
	Transport  string        `json:"transport"`
	RemoteAddr string        `json:"remote_addr"`
	ID         string        `json:"id"`
	Form       form.FormData `json:"form"`
	Accepted   bool          `json:"accepted"`
	Errors     []string      `json:"errors,omitempty"`
}

// Capture appends received submissions to a JSON Lines file
type Capture struct {
	mu  sync.Mutex
	f   *os.File
	enc *json.Encoder
}

// OpenCapture opens path for appending, creating it and its directory
func OpenCapture(path string) (*Capture, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create capture directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture file: %w", err)
	}
	return &Capture{f: f, enc: json.NewEncoder(f)}, nil
}

// Write appends one record
func (c *Capture) Write(rec Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enc.Encode(rec)
}

// Close closes the file
func (c *Capture) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.f.Close()
}
