package report

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// HostInfo describes the machine results were measured on. Probe fields
// are best-effort: failures leave them zero and the header omits them.
type HostInfo struct {
	CPUModel      string
	PhysicalCores int
	LogicalCores  int
	TotalMemory   uint64
	GoVersion     string
	MaxProcs      int
}

// ProbeHost collects the host description.
func ProbeHost() HostInfo {
	info := HostInfo{
		GoVersion: runtime.Version(),
		MaxProcs:  runtime.GOMAXPROCS(0),
	}

	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		info.CPUModel = infos[0].ModelName
	}
	if n, err := cpu.Counts(false); err == nil {
		info.PhysicalCores = n
	}
	if n, err := cpu.Counts(true); err == nil {
		info.LogicalCores = n
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		info.TotalMemory = vm.Total
	}
	return info
}
