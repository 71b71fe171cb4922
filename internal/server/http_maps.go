package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/alfredjeanlab/marketmaps/internal/events"
	"github.com/alfredjeanlab/marketmaps/internal/mapid"
	"github.com/alfredjeanlab/marketmaps/internal/store"
)

// handleSaveMap handles POST /api/maps.
//
// The raw body is stored verbatim. Its key is the top-level "filename" of a
// JSON object body, or a generated ID otherwise. The key is returned as
// text/plain.
func (s *MapsServer) handleSaveMap(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	if len(body) == 0 {
		writeError(w, http.StatusBadRequest, "request body is required")
		return
	}
	mapData := string(body)

	id, generated, err := mapid.Assign(mapData, s.idLength)
	if err != nil {
		s.logger.Error("failed to generate map id", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to generate id")
		return
	}

	saved, err := s.store.PutMap(r.Context(), id, mapData)
	if err != nil {
		s.logger.Error("failed to save map", "id", id, "error", err)
		writeError(w, http.StatusServiceUnavailable, "storage unavailable")
		return
	}
	s.logger.Info("map saved", "id", id, "generated", generated, "size", len(body))

	s.publishSaved(r.Context(), events.MapSaved{
		ID:        saved.ID,
		Size:      len(body),
		Generated: generated,
		UpdatedAt: saved.UpdatedAt,
	})

	writeText(w, http.StatusOK, saved.ID)
}

// handleLoadMap handles GET /api/maps/{id}.
func (s *MapsServer) handleLoadMap(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.logger.Info("map requested", "id", id)

	m, err := s.store.GetMap(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		s.logger.Error("failed to load map", "id", id, "error", err)
		writeError(w, http.StatusServiceUnavailable, "storage unavailable")
		return
	}

	writeText(w, http.StatusOK, m.MapData)
}
