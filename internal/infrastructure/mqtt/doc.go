// Package mqtt wraps paho.mqtt.golang for Strand Core.
//
// It provides connection management with automatic reconnection, Last
// Will and Testament for offline detection, publish/subscribe with
// panic-safe handlers, and topic builders for the Strand topic
// hierarchy:
//
//	strand/zone/{n}/state     retained zone state (Core publishes)
//	strand/zone/{n}/set       zone commands (Core subscribes)
//	strand/system/status      online/offline status with LWT
//
// Subscriptions are tracked internally and restored automatically
// after a reconnect.
package mqtt
