// Package hostinfo snapshots host CPU/memory for the demonstration
// harness's startup log line and its host-CPU metrics gauge. It uses gopsutil's
// cross-platform counters rather than cgroup-specific container CPU
// detection, since the serializer core itself runs anywhere Go runs,
// not just inside a cgroup-limited container.
package hostinfo

import (
	"fmt"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Snapshot is a point-in-time view of host resource usage.
type Snapshot struct {
	CPUPercent    float64
	CPUCores      int
	MemoryUsedPct float64
	MemoryUsedMB  uint64
	MemoryTotalMB uint64
	Goroutines    int
}

// Monitor samples host resource usage on demand.
type Monitor struct {
	sampleWindow time.Duration
}

// NewMonitor builds a Monitor that samples CPU usage over window (a
// short blocking sample, e.g. 100ms, matching the project's
// cpu.Percent(100*time.Millisecond, false) call).
func NewMonitor(window time.Duration) *Monitor {
	if window <= 0 {
		window = 100 * time.Millisecond
	}
	return &Monitor{sampleWindow: window}
}

// Sample takes a fresh Snapshot. The CPU read blocks for the monitor's
// sample window.
func (m *Monitor) Sample() (Snapshot, error) {
	cpuPercents, err := cpu.Percent(m.sampleWindow, false)
	if err != nil {
		return Snapshot{}, fmt.Errorf("hostinfo: cpu sample failed: %w", err)
	}
	var cpuPct float64
	if len(cpuPercents) > 0 {
		cpuPct = cpuPercents[0]
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return Snapshot{}, fmt.Errorf("hostinfo: memory sample failed: %w", err)
	}

	return Snapshot{
		CPUPercent:    cpuPct,
		CPUCores:      runtime.NumCPU(),
		MemoryUsedPct: vm.UsedPercent,
		MemoryUsedMB:  vm.Used / (1024 * 1024),
		MemoryTotalMB: vm.Total / (1024 * 1024),
		Goroutines:    runtime.NumGoroutine(),
	}, nil
}
