package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/fieldhub/internal/history"
	"github.com/nerrad567/fieldhub/internal/infrastructure/mqtt"
	"github.com/nerrad567/fieldhub/internal/registry"
)

// RegisterDeviceRequest is the body of POST /register_device.
type RegisterDeviceRequest struct {
	DeviceID string `json:"device_id"`
}

// handleRegisterDevice creates or replaces a device registration.
// Re-registering an existing id resets its registration metadata but
// preserves any queued commands.
func (s *Server) handleRegisterDevice(w http.ResponseWriter, r *http.Request) {
	var req RegisterDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	dev, err := s.registry.RegisterDevice(req.DeviceID, clientIP(r))
	if err != nil {
		if errors.Is(err, registry.ErrInvalidDeviceID) {
			writeBadRequest(w, "device_id field is required")
			return
		}
		writeInternalError(w, "failed to register device")
		return
	}

	s.announce(EventDeviceRegistered, map[string]any{
		"device_id": dev.ID,
		"ip":        dev.SourceIP,
	})
	if s.influx != nil {
		s.influx.WriteHeartbeat(dev.ID, "register")
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "success",
		"device_id": dev.ID,
	})
}

// UpdateStatusRequest is the body of POST /update_status. Omitted fields
// take the documented defaults: an empty report describes an idle device
// that is not recording.
type UpdateStatusRequest struct {
	DeviceID        string `json:"device_id"`
	Status          string `json:"status"`
	Recording       bool   `json:"recording"`
	ScreenRecording bool   `json:"screen_recording"`
}

// handleUpdateStatus records a device status report. Reports are accepted
// for ids that never registered; they are stored without registering the
// device.
func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	rec, err := s.registry.UpdateStatus(req.DeviceID, registry.StatusUpdate{
		Status:          req.Status,
		Recording:       req.Recording,
		ScreenRecording: req.ScreenRecording,
	}, clientIP(r))
	if err != nil {
		if errors.Is(err, registry.ErrInvalidDeviceID) {
			writeBadRequest(w, "device_id field is required")
			return
		}
		writeInternalError(w, "failed to update status")
		return
	}

	s.announce(EventDeviceStatusChanged, map[string]any{
		"device_id":        req.DeviceID,
		"status":           rec.Status,
		"recording":        rec.Recording,
		"screen_recording": rec.ScreenRecording,
	})
	s.publishDeviceStatus(req.DeviceID, rec)
	if s.influx != nil {
		s.influx.WriteHeartbeat(req.DeviceID, "status")
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "success",
		"device_id": req.DeviceID,
		"timestamp": rec.UpdatedAt.Format(time.RFC3339),
	})
}

// handleGetCommands drains the device's command queue in one atomic
// read-and-clear. This is a device's sole mechanism for receiving
// operator commands; each command is delivered at most once.
func (s *Server) handleGetCommands(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "device_id")

	result, err := s.registry.PollCommands(id)
	if err != nil {
		if errors.Is(err, registry.ErrDeviceNotFound) {
			writeNotFound(w, "device not registered")
			return
		}
		writeInternalError(w, "failed to poll commands")
		return
	}

	if result.Count > 0 {
		for _, cmd := range result.Commands {
			s.recordHistory(r.Context(), history.EventDelivered, id, cmd, "")
		}
		s.announce(EventCommandsDelivered, map[string]any{
			"device_id": id,
			"count":     result.Count,
		})
	}
	if s.influx != nil {
		s.influx.WriteHeartbeat(id, "poll")
		s.influx.WriteQueueDepth(id, 0)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"device_id": result.DeviceID,
		"commands":  result.Commands,
		"count":     result.Count,
		"timestamp": result.Timestamp.Format(time.RFC3339),
	})
}

// publishDeviceStatus mirrors the latest status report on the device's
// retained MQTT topic, so integrations see the current state on subscribe
// without waiting for the next report.
func (s *Server) publishDeviceStatus(deviceID string, rec registry.StatusRecord) {
	if s.mqtt == nil {
		return
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return
	}
	if err := s.mqtt.PublishRetained(mqtt.Topics{}.DeviceStatus(deviceID), data); err != nil {
		s.logger.Debug("retained status not published", "device_id", deviceID, "error", err)
	}
}
