package mqtt

import "fmt"

// Topic prefixes for the Strand MQTT hierarchy.
const (
	// TopicPrefix is the base for all Strand topics.
	TopicPrefix = "strand"

	// TopicPrefixZone is the base for per-zone topics.
	TopicPrefixZone = "strand/zone"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "strand/system"
)

// Topics provides builders for Strand MQTT topics.
// Using these helpers keeps topic naming consistent across the codebase.
//
//	topics := mqtt.Topics{}
//	stateTopic := topics.ZoneState(1)
//	// Returns: "strand/zone/1/state"
type Topics struct{}

// ZoneState returns the retained state topic for a zone.
//
// Example: strand/zone/1/state
func (Topics) ZoneState(zone int) string {
	return fmt.Sprintf("%s/%d/state", TopicPrefixZone, zone)
}

// ZoneCommand returns the command intake topic for a zone.
//
// Example: strand/zone/1/set
func (Topics) ZoneCommand(zone int) string {
	return fmt.Sprintf("%s/%d/set", TopicPrefixZone, zone)
}

// ZoneVerification returns the verification result topic for a zone.
//
// Example: strand/zone/1/verification
func (Topics) ZoneVerification(zone int) string {
	return fmt.Sprintf("%s/%d/verification", TopicPrefixZone, zone)
}

// SystemStatus returns the system status topic carrying online/offline
// payloads, including the Last Will message.
//
// Example: strand/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// AllZoneStates returns a pattern matching every zone's state topic.
//
// Pattern: strand/zone/+/state
func (Topics) AllZoneStates() string {
	return fmt.Sprintf("%s/+/state", TopicPrefixZone)
}

// AllZoneCommands returns a pattern matching every zone's command topic.
//
// Pattern: strand/zone/+/set
func (Topics) AllZoneCommands() string {
	return fmt.Sprintf("%s/+/set", TopicPrefixZone)
}

// AllTopics returns a pattern matching all Strand topics.
// Use with caution - this receives ALL traffic.
//
// Pattern: strand/#
func (Topics) AllTopics() string {
	return "strand/#"
}
