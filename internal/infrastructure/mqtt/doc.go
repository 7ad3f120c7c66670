// Package mqtt provides MQTT client connectivity for FieldHub.
//
// This package manages:
//   - Connection to Mosquitto broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// FieldHub uses MQTT as an optional announcement bus. Devices never
// receive commands over it; they poll HTTP. The broker fans out device
// and media events to integrations, mirrors the latest device status on
// retained topics, and accepts admin command submissions that are queued
// exactly like the HTTP equivalent.
//
//	Integrations ↔ MQTT Broker ↔ FieldHub ↔ HTTP polling devices
//
// # Security Considerations
//
//   - TLS is required for production deployments (cfg.Broker.TLS=true)
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for local development
//   - Message payloads are not encrypted beyond TLS transport
//
// # Performance Characteristics
//
//   - Connection: <1 second to local broker
//   - Publish latency: <10ms for QoS 1 to local broker
//   - Reconnect: Exponential backoff 1s-60s with jitter
//   - Message throughput: Broker-limited (typically 10K+ msg/sec)
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Subscribe to admin command submissions
//	err = client.Subscribe(mqtt.Topics{}.AdminSendCommand(), 1,
//	    func(topic string, payload []byte) error {
//	        log.Printf("Received: %s = %s", topic, payload)
//	        return nil
//	    })
//
//	// Announce an event
//	topic := mqtt.Topics{}.Event("media.uploaded")
//	client.Publish(topic, []byte(`{"device_id":"cam-01"}`), 1, false)
package mqtt
