//go:build linux

package cpu

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// pinToCore pins the current OS thread to a specific CPU core.
// Must be called after runtime.LockOSThread().
func pinToCore(cpuID int) error {
	numCPU := runtime.NumCPU()
	if cpuID < 0 || cpuID >= numCPU {
		cpuID = cpuID % numCPU
	}

	var mask unix.CPUSet
	mask.Zero()
	mask.Set(cpuID)

	return unix.SchedSetaffinity(0, &mask) // 0 = current thread
}

// PinMeasurementThread locks the calling goroutine to an OS thread and
// pins it to the measurement core. Returns a cleanup function that should
// be deferred.
func PinMeasurementThread() func() {
	runtime.LockOSThread()
	_ = pinToCore(measurementCore)

	return func() {
		runtime.UnlockOSThread()
	}
}
