//go:build nolisten

package udp

const listenSupported = false
