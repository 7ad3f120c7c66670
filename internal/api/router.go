package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/fieldhub/internal/media"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)

	// JSON routes carry a small body cap; uploads get their own group below.
	r.Group(func(r chi.Router) {
		r.Use(s.bodySizeLimitMiddleware)

		// Health check
		r.Get("/health", s.handleHealth)

		// Device-facing routes
		r.Post("/register_device", s.handleRegisterDevice)
		r.Post("/update_status", s.handleUpdateStatus)
		r.Get("/get_commands/{device_id}", s.handleGetCommands)

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Post("/send_command", s.handleSendCommand)
			r.Get("/devices", s.handleListDevices)
			r.Delete("/clear_commands/{device_id}", s.handleClearCommands)

			r.Get("/media", s.handleListMedia)
			r.Delete("/media/{media_id}", s.handleDeleteMedia)

			r.Get("/command_log", s.handleCommandLog)
			r.Get("/metrics", s.handleMetrics)

			// WebSocket event feed
			r.Get("/events", s.handleWebSocket)
		})
	})

	// Upload routes accept multipart bodies up to the configured media cap.
	r.Group(func(r chi.Router) {
		r.Use(s.uploadSizeLimitMiddleware)

		r.Post("/upload_photo", s.handleUpload(media.KindPhoto))
		r.Post("/upload_audio", s.handleUpload(media.KindAudio))
		r.Post("/upload_screenshot", s.handleUpload(media.KindScreenshot))
		r.Post("/upload_screen_recording", s.handleUpload(media.KindScreenRecording))
	})

	// Stored media is served directly from the uploads root.
	fileServer := http.FileServer(http.Dir(s.media.Root()))
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", fileServer))

	return r
}
