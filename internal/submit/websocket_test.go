package submit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// newWSServer runs handle for each upgraded connection
func newWSServer(t *testing.T, handle func(conn *websocket.Conn)) (*httptest.Server, string) {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		handle(conn)
	}))
	return srv, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func readSubmit(t *testing.T, conn *websocket.Conn) Payload {
	t.Helper()
	var env Envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Errorf("server read: %v", err)
		return Payload{}
	}
	if env.Type != MessageSubmit {
		t.Errorf("frame type = %q, want %q", env.Type, MessageSubmit)
	}
	var p Payload
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		t.Errorf("payload decode: %v", err)
	}
	return p
}

func TestWebSocket_Ack(t *testing.T) {
	got := make(chan Payload, 1)
	srv, url := newWSServer(t, func(conn *websocket.Conn) {
		got <- readSubmit(t, conn)
		// Unrelated frames are skipped until the ack
		_ = conn.WriteJSON(Envelope{Type: "progress"})
		_ = conn.WriteJSON(Envelope{Type: MessageAck})
		_, _, _ = conn.ReadMessage()
	})
	defer srv.Close()

	ctx := WithSubmissionID(context.Background(), "sub-ws")
	if err := NewWebSocket(url).Submit(ctx, sampleForm); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	p := <-got
	if p.ID != "sub-ws" || p.Form != sampleForm {
		t.Errorf("payload = %+v", p)
	}
}

func TestWebSocket_ErrorFrame(t *testing.T) {
	srv, url := newWSServer(t, func(conn *websocket.Conn) {
		readSubmit(t, conn)
		_ = conn.WriteJSON(Envelope{Type: MessageError, Payload: json.RawMessage(`{"error":"quota exceeded"}`)})
	})
	defer srv.Close()

	err := NewWebSocket(url).Submit(context.Background(), sampleForm)
	var subErr *Error
	if !errors.As(err, &subErr) {
		t.Fatalf("Submit() error = %v, want *Error", err)
	}
	if subErr.Type != ErrTypeRejected || subErr.Message != "quota exceeded" {
		t.Errorf("error = %+v", subErr)
	}
}

func TestWebSocket_ErrorFrameWithoutReason(t *testing.T) {
	srv, url := newWSServer(t, func(conn *websocket.Conn) {
		readSubmit(t, conn)
		_ = conn.WriteJSON(Envelope{Type: MessageError})
	})
	defer srv.Close()

	err := NewWebSocket(url).Submit(context.Background(), sampleForm)
	var subErr *Error
	if !errors.As(err, &subErr) || subErr.Message != "receiver refused the submission" {
		t.Errorf("Submit() error = %v", err)
	}
}

func TestWebSocket_HandshakeRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no websockets here", http.StatusForbidden)
	}))
	defer srv.Close()

	err := NewWebSocket("ws"+strings.TrimPrefix(srv.URL, "http")).Submit(context.Background(), sampleForm)
	var subErr *Error
	if !errors.As(err, &subErr) || subErr.Type != ErrTypeHTTP || subErr.StatusCode != http.StatusForbidden {
		t.Errorf("Submit() error = %v, want HTTP 403", err)
	}
}

func TestWebSocket_ServerHangsUp(t *testing.T) {
	srv, url := newWSServer(t, func(conn *websocket.Conn) {
		readSubmit(t, conn)
	})
	defer srv.Close()

	err := NewWebSocket(url).Submit(context.Background(), sampleForm)
	if err == nil {
		t.Fatal("Submit() expected error when the server closes without ack")
	}
	if IsCanceled(err) {
		t.Errorf("hang-up should not be reported as cancel: %v", err)
	}
}

func TestWebSocket_Canceled(t *testing.T) {
	release := make(chan struct{})
	srv, url := newWSServer(t, func(conn *websocket.Conn) {
		readSubmit(t, conn)
		<-release
	})
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- NewWebSocket(url).Submit(ctx, sampleForm)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !IsCanceled(err) {
			t.Errorf("Submit() error = %v, want canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Submit() did not return after cancel")
	}
}

func TestWebSocket_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv, url := newWSServer(t, func(conn *websocket.Conn) {
		readSubmit(t, conn)
		<-release
	})
	defer srv.Close()
	defer close(release)

	ws := NewWebSocket(url)
	ws.Timeout = 50 * time.Millisecond

	err := ws.Submit(context.Background(), sampleForm)
	var subErr *Error
	if !errors.As(err, &subErr) || subErr.Type != ErrTypeTimeout {
		t.Errorf("Submit() error = %v, want timeout", err)
	}
}
