package server

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/stepdialog/internal/form"
	"github.com/muurk/stepdialog/internal/logging"
	"github.com/muurk/stepdialog/internal/submit"
)

// Transports recorded in the capture file
const (
	TransportHTTP      = "http"
	TransportWebSocket = "websocket"
)

// accept validates a received payload, records it and returns the field
// errors that caused a rejection
func (s *Server) accept(transport, remoteAddr string, p submit.Payload) form.Errors {
	errs := form.ValidateForm(p.Form)
	accepted := len(errs) == 0

	if accepted {
		s.mu.Lock()
		s.received = append(s.received, p)
		s.mu.Unlock()
		logging.Info("Submission accepted",
			zap.String("transport", transport),
			zap.String("remote_addr", remoteAddr),
			zap.String("submission_id", p.ID),
		)
	} else {
		logging.Warn("Submission rejected",
			zap.String("transport", transport),
			zap.String("remote_addr", remoteAddr),
			zap.String("submission_id", p.ID),
			zap.Strings("failed", errs.Keys()),
		)
	}

	if s.capture != nil {
		rec := Record{
			Timestamp:  time.Now().UTC(),
			Transport:  transport,
			RemoteAddr: remoteAddr,
			ID:         p.ID,
			Form:       p.Form,
			Accepted:   accepted,
			Errors:     errs.Messages(),
		}
		if err := s.capture.Write(rec); err != nil {
			logging.Error("Failed to write capture record", zap.Error(err))
		}
	}

	return errs
}

// rejection joins field messages into the single line sent back to clients
func rejection(errs form.Errors) string {
	return strings.Join(errs.Messages(), "; ")
}
