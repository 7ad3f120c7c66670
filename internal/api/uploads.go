package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/nerrad567/fieldhub/internal/media"
)

// multipartMemoryLimit is how much of a multipart body is parsed into
// memory before spilling to temporary files (10 MB).
const multipartMemoryLimit = 10 << 20

// handleUpload returns the handler for one media kind. All four upload
// routes share this shape; only the kind (and with it the expected form
// field and storage directory) differs.
//
// Uploads accept any non-empty device_id. They never register a device,
// but count as a heartbeat for devices that are registered.
func (s *Server) handleUpload(kind media.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				writeTooLarge(w, "upload exceeds size limit")
				return
			}
			writeBadRequest(w, "invalid multipart form")
			return
		}
		defer r.MultipartForm.RemoveAll() //nolint:errcheck // Best-effort temp file cleanup

		deviceID := r.FormValue("device_id")
		if deviceID == "" {
			writeBadRequest(w, "device_id field is required")
			return
		}

		// Kind-specific field name first; "file" is accepted as a
		// fallback for older clients.
		file, header, err := r.FormFile(kind.FieldName())
		if err != nil {
			file, header, err = r.FormFile("file")
		}
		if err != nil {
			writeBadRequest(w, "no file in request")
			return
		}
		defer file.Close() //nolint:errcheck // Read-only form file

		item, err := s.media.Save(r.Context(), media.SaveRequest{
			DeviceID:    deviceID,
			Kind:        kind,
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			SourceIP:    clientIP(r),
		}, file)
		if err != nil {
			s.logger.Error("media save failed",
				"device_id", deviceID,
				"kind", string(kind),
				"error", err,
			)
			writeInternalError(w, "failed to store upload")
			return
		}

		s.registry.TouchLastSeen(deviceID)

		s.announce(EventMediaUploaded, map[string]any{
			"media_id":  item.ID,
			"device_id": item.DeviceID,
			"kind":      string(item.Kind),
			"size":      item.SizeBytes,
		})
		if s.influx != nil {
			s.influx.WriteHeartbeat(deviceID, "upload")
			s.influx.WriteUploadSize(deviceID, string(kind), item.SizeBytes)
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"status":    "success",
			"media_id":  item.ID,
			"filename":  item.Filename,
			"size":      item.SizeBytes,
			"timestamp": item.UploadedAt.Format(time.RFC3339),
		})
	}
}
