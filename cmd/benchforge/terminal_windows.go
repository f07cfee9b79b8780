//go:build windows

package main

import (
	"os"
	"syscall"
	"unsafe"
)

// ENABLE_VIRTUAL_TERMINAL_PROCESSING, Windows 10+.
const virtualTerminalProcessing = 0x0004

// enableANSI switches the console into VT mode so colored reports and the
// fork progress bar render. Reports go to stdout, the bar and diagnostics
// to stderr, so both streams get the mode flag. Handles redirected to a
// pipe or file reject GetConsoleMode and are left alone.
func enableANSI() {
	kernel32 := syscall.NewLazyDLL("kernel32.dll")
	getConsoleMode := kernel32.NewProc("GetConsoleMode")
	setConsoleMode := kernel32.NewProc("SetConsoleMode")

	for _, stream := range []*os.File{os.Stdout, os.Stderr} {
		handle := uintptr(syscall.Handle(stream.Fd()))

		var mode uint32
		ok, _, _ := getConsoleMode.Call(handle, uintptr(unsafe.Pointer(&mode)))
		if ok == 0 {
			continue
		}
		_, _, _ = setConsoleMode.Call(handle, uintptr(mode|virtualTerminalProcessing))
	}
}
