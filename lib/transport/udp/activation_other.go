//go:build !linux

package udp

// PlatformActivation returns the supervisor integration for this platform.
func PlatformActivation() ActivationProvider {
	return NoActivation{}
}
