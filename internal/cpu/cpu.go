// Package cpu pins the measurement thread to a fixed core so timed loops
// do not migrate mid-iteration. Pinning is best-effort: platforms without
// an affinity API only lock the goroutine to its OS thread.
package cpu

// measurementCore is the core every timed loop runs on.
const measurementCore = 0
