package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/muurk/stepdialog/internal/logging"
	"github.com/muurk/stepdialog/internal/submit"
)

// maxBodySize caps a submission body; a form is a few hundred bytes
const maxBodySize = 64 << 10

// SubmitResponse is the body of an accepted HTTP submission
type SubmitResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// handleSubmit accepts a JSON payload posted by the HTTP submitter.
// Invalid forms get 422 with the field messages as a plain text body.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var p submit.Payload
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err := dec.Decode(&p); err != nil {
		logging.Debug("Malformed submission",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		http.Error(w, "malformed submission", http.StatusBadRequest)
		return
	}

	if errs := s.accept(TransportHTTP, r.RemoteAddr, p); len(errs) > 0 {
		http.Error(w, rejection(errs), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(SubmitResponse{ID: p.ID, Status: "accepted"})
}
