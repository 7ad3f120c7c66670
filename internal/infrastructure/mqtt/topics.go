package mqtt

import "fmt"

// Topic prefixes for the FieldHub MQTT namespace.
//
// Device-facing delivery stays on HTTP polling; these topics carry
// announcements for integrations and the admin command ingress.
const (
	// TopicPrefix is the base for all FieldHub topics.
	TopicPrefix = "fieldhub"

	// TopicPrefixDevice is the base for per-device topics.
	TopicPrefixDevice = "fieldhub/device"

	// TopicPrefixEvent is the base for event announcement topics.
	TopicPrefixEvent = "fieldhub/event"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "fieldhub/system"

	// TopicPrefixAdmin is the base for admin ingress topics.
	TopicPrefixAdmin = "fieldhub/admin"
)

// Topics provides builders for FieldHub MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	statusTopic := topics.DeviceStatus("cam-01")
//	// Returns: "fieldhub/device/cam-01/status"
type Topics struct{}

// =============================================================================
// Device Topics
// =============================================================================

// DeviceStatus returns the retained per-device status topic. Core
// publishes the latest status report here so integrations can read
// device state without polling the API.
//
// Example: fieldhub/device/cam-01/status
func (Topics) DeviceStatus(deviceID string) string {
	return fmt.Sprintf("%s/%s/status", TopicPrefixDevice, deviceID)
}

// =============================================================================
// Event Topics
// =============================================================================

// Event returns the announcement topic for an event type.
//
// Example: fieldhub/event/command.queued
func (Topics) Event(eventType string) string {
	return fmt.Sprintf("%s/%s", TopicPrefixEvent, eventType)
}

// =============================================================================
// System Topics
// =============================================================================

// SystemStatus returns the system status topic carrying the online /
// offline payloads (including the broker's last-will).
//
// Example: fieldhub/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// =============================================================================
// Admin Topics
// =============================================================================

// AdminSendCommand returns the admin command ingress topic. Messages
// published here are queued exactly as if they arrived via the admin
// HTTP endpoint; delivery to devices remains pull-only.
//
// Example: fieldhub/admin/send_command
func (Topics) AdminSendCommand() string {
	return fmt.Sprintf("%s/send_command", TopicPrefixAdmin)
}

// =============================================================================
// Wildcard Patterns for Subscriptions
// =============================================================================

// AllDeviceStatuses returns a pattern matching every device status topic.
//
// Pattern: fieldhub/device/+/status
func (Topics) AllDeviceStatuses() string {
	return fmt.Sprintf("%s/+/status", TopicPrefixDevice)
}

// AllEvents returns a pattern matching all event announcements.
//
// Pattern: fieldhub/event/+
func (Topics) AllEvents() string {
	return fmt.Sprintf("%s/+", TopicPrefixEvent)
}

// AllTopics returns a pattern matching all FieldHub topics.
// Use with caution - this receives ALL traffic.
//
// Pattern: fieldhub/#
func (Topics) AllTopics() string {
	return "fieldhub/#"
}
