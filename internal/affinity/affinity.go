// File: internal/affinity/affinity.go
// Package affinity pins the calling OS thread to a single logical CPU,
// letting a node dedicate a core to its worker goroutine under heavy
// ring traffic. Platform-neutral entry point; platform-specific bodies
// live in affinity_linux.go / affinity_windows.go / affinity_stub.go.
// Grounded on affinity/affinity.go's build-tag-per-platform layout.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package affinity

// SetAffinity pins the calling OS thread to cpuID on supported
// platforms. Callers must have already locked the goroutine to its OS
// thread via runtime.LockOSThread, since affinity is a thread property.
func SetAffinity(cpuID int) error {
	return setAffinityPlatform(cpuID)
}
