// File: internal/affinity/affinity_linux.go
//go:build linux
// +build linux

// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux affinity pinning via golang.org/x/sys/unix.SchedSetaffinity,
// substituting for the teacher's cgo pthread_setaffinity_np call: the
// same x/sys package the ring transport already depends on exposes
// sched_setaffinity directly, so the syscall needs no cgo bridge here.

package affinity

import "golang.org/x/sys/unix"

// setAffinityPlatform pins the calling thread to cpuID using
// sched_setaffinity(2) against tid 0 (the calling thread).
func setAffinityPlatform(cpuID int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(cpuID)
	return unix.SchedSetaffinity(0, &set)
}
