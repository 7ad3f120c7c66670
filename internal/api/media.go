package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/fieldhub/internal/media"
)

// handleListMedia returns indexed uploads, newest first.
//
// Query parameters:
//   - device_id: filter by device
//   - kind: filter by media kind (photo, audio, screenshot, screen_recording)
//   - limit: page size (default 50, max 200)
//   - offset: pagination offset
func (s *Server) handleListMedia(w http.ResponseWriter, r *http.Request) {
	filter := media.Filter{
		DeviceID: r.URL.Query().Get("device_id"),
		Kind:     media.Kind(r.URL.Query().Get("kind")),
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Offset = n
		}
	}

	result, err := s.media.List(r.Context(), filter)
	if err != nil {
		s.logger.Error("media list query failed", "error", err)
		writeInternalError(w, "failed to list media")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleDeleteMedia removes one stored item: the file on disk, then its
// index row.
func (s *Server) handleDeleteMedia(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "media_id")

	item, err := s.media.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, media.ErrNotFound) {
			writeNotFound(w, "media item not found")
			return
		}
		writeInternalError(w, "failed to look up media item")
		return
	}

	if err := s.media.Delete(r.Context(), id); err != nil {
		if errors.Is(err, media.ErrNotFound) {
			writeNotFound(w, "media item not found")
			return
		}
		s.logger.Error("media delete failed", "media_id", id, "error", err)
		writeInternalError(w, "failed to delete media item")
		return
	}

	s.announce(EventMediaDeleted, map[string]any{
		"media_id":  id,
		"device_id": item.DeviceID,
		"kind":      string(item.Kind),
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
	})
}
