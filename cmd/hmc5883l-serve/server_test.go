package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mikesmitty/hmc5883l"
)

type mockSource struct {
	reading hmc5883l.Reading
	err     error
}

func (m *mockSource) Reading(hmc5883l.Gain) (hmc5883l.Reading, error) {
	return m.reading, m.err
}

func TestReadingHandler(t *testing.T) {
	s := &server{
		src:  &mockSource{reading: hmc5883l.Reading{X: 3.0, Y: 4.0, Z: 0.0}},
		gain: hmc5883l.Gain1090,
	}

	req := httptest.NewRequest("GET", "/api/reading", nil)
	w := httptest.NewRecorder()
	s.readingHandler(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var rr readingResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if rr.X != 3.0 || rr.Y != 4.0 || rr.Z != 0.0 {
		t.Errorf("reading = (%v, %v, %v), want (3, 4, 0)", rr.X, rr.Y, rr.Z)
	}
	if rr.Norm != 5.0 {
		t.Errorf("norm = %v, want 5", rr.Norm)
	}
}

func TestReadingHandlerError(t *testing.T) {
	s := &server{
		src: &mockSource{err: errors.New("bus timeout")},
	}

	req := httptest.NewRequest("GET", "/api/reading", nil)
	w := httptest.NewRecorder()
	s.readingHandler(w, req)

	if w.Result().StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Result().StatusCode)
	}
}

func TestWSHandler(t *testing.T) {
	s := &server{
		src:      &mockSource{reading: hmc5883l.Reading{X: 1.0, Y: 2.0, Z: 3.0}},
		gain:     hmc5883l.Gain1090,
		interval: time.Millisecond,
	}

	srv := httptest.NewServer(http.HandlerFunc(s.wsHandler))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("websocket dial failed: %v", err)
	}
	defer conn.Close()

	var rr readingResponse
	if err := conn.ReadJSON(&rr); err != nil {
		t.Fatalf("failed to read message: %v", err)
	}
	if rr.X != 1.0 || rr.Y != 2.0 || rr.Z != 3.0 {
		t.Errorf("reading = (%v, %v, %v), want (1, 2, 3)", rr.X, rr.Y, rr.Z)
	}
}
