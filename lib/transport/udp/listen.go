//go:build !nolisten

package udp

// listenSupported is false in builds tagged nolisten, which can only
// originate traffic.
const listenSupported = true
