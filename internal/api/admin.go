package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/fieldhub/internal/history"
	"github.com/nerrad567/fieldhub/internal/infrastructure/mqtt"
	"github.com/nerrad567/fieldhub/internal/registry"
)

// SendCommandRequest is the body of POST /admin/send_command and the
// payload accepted on the MQTT admin ingress topic.
type SendCommandRequest struct {
	DeviceID string `json:"device_id"`
	Command  string `json:"command"`
}

// handleSendCommand queues one command for a registered device. Commands
// are opaque strings, delivered FIFO on the device's next poll. No
// deduplication: queueing the same command twice delivers it twice.
func (s *Server) handleSendCommand(w http.ResponseWriter, r *http.Request) {
	var req SendCommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	pending, err := s.registry.SendCommand(req.DeviceID, req.Command)
	if err != nil {
		switch {
		case errors.Is(err, registry.ErrInvalidDeviceID):
			writeBadRequest(w, "device_id field is required")
		case errors.Is(err, registry.ErrInvalidCommand):
			writeBadRequest(w, "command field is required")
		case errors.Is(err, registry.ErrDeviceNotFound):
			writeNotFound(w, "device not registered")
		default:
			writeInternalError(w, "failed to queue command")
		}
		return
	}

	s.recordHistory(r.Context(), history.EventQueued, req.DeviceID, req.Command, "api")
	s.announce(EventCommandQueued, map[string]any{
		"device_id": req.DeviceID,
		"command":   req.Command,
		"pending":   pending,
	})
	if s.influx != nil {
		s.influx.WriteQueueDepth(req.DeviceID, pending)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":           "success",
		"pending_commands": pending,
	})
}

// handleListDevices returns a snapshot of every registered device joined
// with its latest status and queue depth. Ordering is unspecified.
func (s *Server) handleListDevices(w http.ResponseWriter, _ *http.Request) {
	devices := s.registry.ListDevices()
	writeJSON(w, http.StatusOK, map[string]any{
		"devices": devices,
		"count":   len(devices),
	})
}

// handleClearCommands discards everything queued for a device without
// delivering it.
func (s *Server) handleClearCommands(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "device_id")

	removed, err := s.registry.ClearCommands(id)
	if err != nil {
		if errors.Is(err, registry.ErrDeviceNotFound) {
			writeNotFound(w, "device not registered")
			return
		}
		writeInternalError(w, "failed to clear commands")
		return
	}

	s.recordHistory(r.Context(), history.EventCleared, id, "", "api")
	s.announce(EventCommandsCleared, map[string]any{
		"device_id": id,
		"removed":   removed,
	})
	if s.influx != nil {
		s.influx.WriteQueueDepth(id, 0)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
	})
}

// handleCommandLog returns the paginated command lifecycle history.
//
// Query parameters:
//   - device_id: filter by device
//   - event: filter by event (queued, delivered, cleared)
//   - limit: page size (default 50, max 200)
//   - offset: pagination offset
func (s *Server) handleCommandLog(w http.ResponseWriter, r *http.Request) {
	filter := history.Filter{
		DeviceID: r.URL.Query().Get("device_id"),
		Event:    r.URL.Query().Get("event"),
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

	result, err := s.history.List(r.Context(), filter)
	if err != nil {
		s.logger.Error("command log query failed", "error", err)
		writeInternalError(w, "failed to list command log")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// subscribeAdminCommands wires the optional MQTT command ingress: a message
// on the admin send_command topic queues a command exactly like its HTTP
// equivalent. Devices still receive commands only by polling; the broker
// never pushes to them.
func (s *Server) subscribeAdminCommands() error {
	if s.mqtt == nil {
		return nil // broker not configured; HTTP ingress only
	}

	topic := mqtt.Topics{}.AdminSendCommand()
	s.logger.Info("subscribing to admin command ingress", "topic", topic)
	return s.mqtt.Subscribe(topic, 1, func(_ string, payload []byte) error {
		var req SendCommandRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			s.logger.Warn("ignoring malformed admin command message", "error", err)
			return nil
		}

		pending, err := s.registry.SendCommand(req.DeviceID, req.Command)
		if err != nil {
			s.logger.Warn("admin command via MQTT rejected",
				"device_id", req.DeviceID,
				"error", err,
			)
			return nil
		}

		s.recordHistory(context.Background(), history.EventQueued, req.DeviceID, req.Command, "mqtt")
		s.announce(EventCommandQueued, map[string]any{
			"device_id": req.DeviceID,
			"command":   req.Command,
			"pending":   pending,
		})
		if s.influx != nil {
			s.influx.WriteQueueDepth(req.DeviceID, pending)
		}
		return nil
	})
}
