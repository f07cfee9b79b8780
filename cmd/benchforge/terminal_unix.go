//go:build !windows

package main

// enableANSI is a no-op outside Windows: Unix terminals interpret VT
// escape sequences without opt-in.
func enableANSI() {}
