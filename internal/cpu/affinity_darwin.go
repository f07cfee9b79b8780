//go:build darwin

package cpu

import (
	"runtime"
)

// PinMeasurementThread locks the goroutine to an OS thread.
// CPU pinning is not available on macOS.
func PinMeasurementThread() func() {
	runtime.LockOSThread()

	return func() {
		runtime.UnlockOSThread()
	}
}
