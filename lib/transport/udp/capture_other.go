//go:build !linux && !darwin && !dragonfly && !freebsd && !netbsd && !openbsd && !windows

package udp

var platformCapture CaptureStrategy = NoCapture{}
