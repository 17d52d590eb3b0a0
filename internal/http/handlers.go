package http

import (
	"net/http"
	"time"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).String(),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	// The store is local, so readiness is a cheap settings read.
	if _, err := s.ledger.Settings(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}

type unlockRequest struct {
	Pin string `json:"pin"`
}

type gateStatusResponse struct {
	PinEnabled  bool   `json:"pin_enabled"`
	Unlocked    bool   `json:"unlocked"`
	LockedUntil string `json:"locked_until,omitempty"`
}

func (s *Server) handleUnlock(w http.ResponseWriter, r *http.Request) {
	var req unlockRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if err := s.gate.VerifyPin(req.Pin); err != nil {
		writeError(w, r, http.StatusUnauthorized, err)
		return
	}
	s.gateStatus(w)
}

func (s *Server) handleLock(w http.ResponseWriter, r *http.Request) {
	s.gate.Lock()
	s.gateStatus(w)
}

func (s *Server) handleGateStatus(w http.ResponseWriter, r *http.Request) {
	s.gateStatus(w)
}

func (s *Server) gateStatus(w http.ResponseWriter) {
	resp := gateStatusResponse{
		PinEnabled: s.gate.Enabled(),
		Unlocked:   s.gate.Unlocked(),
	}
	if until := s.gate.LockedUntil(); !until.IsZero() {
		resp.LockedUntil = until.Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, resp)
}
