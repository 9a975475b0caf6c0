package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mikesmitty/hmc5883l"
)

// source is the part of *hmc5883l.Dev the server uses, split out so the
// handlers can be tested without a bus.
type source interface {
	Reading(hmc5883l.Gain) (hmc5883l.Reading, error)
}

type readingResponse struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Z    float64 `json:"z"`
	Norm float64 `json:"norm"`
	Time string  `json:"time"`
}

type server struct {
	src      source
	gain     hmc5883l.Gain
	interval time.Duration
	upgrader websocket.Upgrader
}

func (s *server) sample() (readingResponse, error) {
	r, err := s.src.Reading(s.gain)
	if err != nil {
		return readingResponse{}, err
	}
	return readingResponse{
		X:    r.X,
		Y:    r.Y,
		Z:    r.Z,
		Norm: math.Sqrt(r.X*r.X + r.Y*r.Y + r.Z*r.Z),
		Time: time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// readingHandler serves the latest reading as JSON.
func (s *server) readingHandler(w http.ResponseWriter, r *http.Request) {
	resp, err := s.sample()
	if err != nil {
		log.Printf("reading failed: %v", err)
		http.Error(w, "sensor read failed", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("json encode error: %v", err)
	}
}

// wsHandler streams readings over a websocket until the client goes away.
func (s *server) wsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	t := time.NewTicker(s.interval)
	defer t.Stop()

	for {
		resp, err := s.sample()
		if err != nil {
			log.Printf("reading failed: %v", err)
			return
		}
		if err := conn.WriteJSON(resp); err != nil {
			return
		}
		<-t.C
	}
}

func run(port int, src source, gain hmc5883l.Gain, interval time.Duration) error {
	s := &server{
		src:      src,
		gain:     gain,
		interval: interval,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/reading", s.readingHandler)
	mux.HandleFunc("/ws", s.wsHandler)

	addr := fmt.Sprintf(":%d", port)
	log.Printf("listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}
