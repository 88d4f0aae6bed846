package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/strandworks/strand-core/internal/controller"
	"github.com/strandworks/strand-core/internal/pattern"
	"github.com/strandworks/strand-core/internal/zone"
)

// setEffectRequest is the body for POST /zone/effect.
type setEffectRequest struct {
	Name string `json:"name"`
}

// setPowerRequest is the body for POST /zone/power.
type setPowerRequest struct {
	On bool `json:"on"`
}

// renamePatternRequest is the body for PATCH /patterns/{name}.
type renamePatternRequest struct {
	Name string `json:"name"`
}

// handleGetZone returns the zone's observable state.
func (s *Server) handleGetZone(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"zone":  s.zone.Zone(),
		"state": s.zone.State(),
	})
}

// handleSetEffect issues a named effect to the zone.
func (s *Server) handleSetEffect(w http.ResponseWriter, r *http.Request) {
	var req setEffectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Name == "" {
		writeBadRequest(w, "name is required")
		return
	}

	if err := s.zone.SetEffect(r.Context(), req.Name); err != nil {
		s.writeZoneError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"zone":   s.zone.Zone(),
		"effect": req.Name,
	})
}

// handleSetPower switches the zone on or off.
func (s *Server) handleSetPower(w http.ResponseWriter, r *http.Request) {
	var req setPowerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	var err error
	if req.On {
		err = s.zone.On(r.Context())
	} else {
		err = s.zone.Off(r.Context())
	}
	if err != nil {
		s.writeZoneError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"zone": s.zone.Zone(),
		"on":   req.On,
	})
}

// handleCapture saves the zone's currently running pattern.
func (s *Server) handleCapture(w http.ResponseWriter, r *http.Request) {
	entry, err := s.zone.Capture(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, pattern.ErrDeviceOff):
			writeConflict(w, "zone is off; nothing to capture")
		case errors.Is(err, pattern.ErrStoreFull):
			writeConflict(w, "pattern store is full; delete a pattern first")
		default:
			s.writeZoneError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

// handleRefresh forces an immediate status poll.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.zone.Poll(r.Context()); err != nil {
		s.writeZoneError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"zone":  s.zone.Zone(),
		"state": s.zone.State(),
	})
}

// handleListEffects returns all selectable effect names.
func (s *Server) handleListEffects(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"effects": s.zone.EffectNames(),
	})
}

// handleListPatterns returns the captured pattern library.
func (s *Server) handleListPatterns(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"patterns": s.store.List(),
		"capacity": pattern.Capacity,
	})
}

// handleRenamePattern renames a captured pattern.
func (s *Server) handleRenamePattern(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req renamePatternRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Name == "" {
		writeBadRequest(w, "name is required")
		return
	}

	if err := s.store.Rename(name, req.Name); err != nil {
		switch {
		case errors.Is(err, pattern.ErrNotFound):
			writeNotFound(w, "pattern not found")
		case errors.Is(err, pattern.ErrNameTaken):
			writeConflict(w, "name already in use")
		default:
			writeInternalError(w, err.Error())
		}
		return
	}

	entry, _ := s.store.Resolve(req.Name)
	writeJSON(w, http.StatusOK, entry)
}

// handleDeletePattern removes a captured pattern, freeing its slot.
func (s *Server) handleDeletePattern(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if err := s.store.Delete(name); err != nil {
		if errors.Is(err, pattern.ErrNotFound) {
			writeNotFound(w, "pattern not found")
			return
		}
		writeInternalError(w, err.Error())
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}

// writeZoneError maps zone and controller errors to HTTP responses.
func (s *Server) writeZoneError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, zone.ErrUnknownEffect):
		writeNotFound(w, "unknown effect")
	case errors.Is(err, zone.ErrZoneMissing):
		writeUpstreamError(w, "zone missing from controller status")
	case errors.Is(err, controller.ErrUnreachable),
		errors.Is(err, controller.ErrBadStatus),
		errors.Is(err, controller.ErrNoAck),
		errors.Is(err, controller.ErrBadPayload):
		writeUpstreamError(w, err.Error())
	default:
		writeInternalError(w, err.Error())
	}
}
