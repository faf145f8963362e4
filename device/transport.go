// Package device defines the transport boundary used to move frames to
// attached display devices, and an MQTT implementation of it.
package device

// A Transport moves bytes to a set of display devices. Both operations fan
// out to every device and report success per device; a failing device never
// fails the others.
type Transport interface {
	// Send delivers one compressed frame tagged with a transfer id.
	Send(data []byte, transferID byte) map[string]bool

	// SetRealTimeMode asks every device to treat incoming frames as a live
	// stream rather than stored media.
	SetRealTimeMode(enable bool) map[string]bool
}
