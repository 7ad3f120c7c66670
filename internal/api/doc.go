// Package api implements the HTTP API and WebSocket server for FieldHub.
//
// This package provides:
//   - Device endpoints: registration, status reports, command polling,
//     media upload
//   - Admin endpoints: command queueing, device listing, media management,
//     command history, metrics
//   - WebSocket hub for live event broadcasts
//   - Middleware stack (request ID, logging, recovery, CORS, body limits)
//   - TLS support for production deployments
//
// # Architecture
//
// The API server fronts the in-memory device registry and the on-disk media
// store. Devices receive commands exclusively by polling
// GET /get_commands/{device_id}; there is no push channel to devices. The
// WebSocket feed and the MQTT event topics carry announcements for
// dashboards and integrations, and the MQTT admin topic accepts command
// submissions that are queued exactly like POST /admin/send_command.
//
// # Graceful Degradation
//
// MQTT and InfluxDB are optional. Without a broker there are no event
// announcements and no MQTT command ingress; without InfluxDB there is no
// activity telemetry. The registry and media endpoints are unaffected
// either way.
package api
