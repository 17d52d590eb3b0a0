package http

import (
	"net/http"
	"time"

	"daftar/internal/core"
	"daftar/internal/gate"
)

type settingsResponse struct {
	CompanyNameAr   string `json:"company_name_ar"`
	CompanyNameEn   string `json:"company_name_en"`
	PhoneNumber     string `json:"phone_number"`
	Address         string `json:"address"`
	DefaultCurrency string `json:"default_currency"`
	PinEnabled      bool   `json:"pin_enabled"`
	UpdatedAt       string `json:"updated_at"`
}

// The PIN hash and salt never leave the server.
func toSettingsResponse(a core.AppSettings) settingsResponse {
	return settingsResponse{
		CompanyNameAr:   a.CompanyNameAr,
		CompanyNameEn:   a.CompanyNameEn,
		PhoneNumber:     a.PhoneNumber,
		Address:         a.Address,
		DefaultCurrency: a.DefaultCurrency,
		PinEnabled:      a.PinEnabled,
		UpdatedAt:       a.UpdatedAt.Format(time.RFC3339),
	}
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.ledger.Settings(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, toSettingsResponse(settings))
}

type updateSettingsRequest struct {
	CompanyNameAr   string `json:"company_name_ar"`
	CompanyNameEn   string `json:"company_name_en"`
	PhoneNumber     string `json:"phone_number"`
	Address         string `json:"address"`
	DefaultCurrency string `json:"default_currency"`
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	settings, err := s.ledger.Settings(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	settings.CompanyNameAr = req.CompanyNameAr
	settings.CompanyNameEn = req.CompanyNameEn
	settings.PhoneNumber = req.PhoneNumber
	settings.Address = req.Address
	settings.DefaultCurrency = req.DefaultCurrency

	if err := s.ledger.SaveSettings(r.Context(), settings); err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	saved, err := s.ledger.Settings(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, toSettingsResponse(saved))
}

type setPinRequest struct {
	Pin     string `json:"pin"`     // new PIN, empty disables the gate
	Enabled *bool  `json:"enabled"` // explicit disable when false
}

// handleSetPin changes or disables the PIN. The route is guarded, so the
// caller has already proven knowledge of the current PIN (or none is set).
func (s *Server) handleSetPin(w http.ResponseWriter, r *http.Request) {
	var req setPinRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	settings, err := s.ledger.Settings(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	disable := req.Enabled != nil && !*req.Enabled
	if disable {
		settings.PinEnabled = false
		settings.PinHash = nil
		settings.PinSalt = nil
	} else {
		hash, salt, err := gate.HashPin(req.Pin)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err)
			return
		}
		settings.PinEnabled = true
		settings.PinHash = hash
		settings.PinSalt = salt
	}

	if err := s.ledger.SaveSettings(r.Context(), settings); err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	s.gate.SetCredentials(settings)

	writeJSON(w, http.StatusOK, toSettingsResponse(settings))
}
