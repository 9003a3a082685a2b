// File: internal/affinity/affinity_stub.go
//go:build !linux && !windows
// +build !linux,!windows

// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package affinity

import "errors"

// setAffinityPlatform is a stub for platforms where CPU affinity pinning
// is not implemented.
func setAffinityPlatform(cpuID int) error {
	return errors.New("affinity: not supported on this platform")
}
