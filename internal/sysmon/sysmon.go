// Package sysmon samples host load so that a run's figures can be read
// against how busy the machine was while it measured.
package sysmon

import (
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
)

// Stats holds a single snapshot of system-wide resource usage.
type Stats struct {
	CPUPercent float64 // 0.0 .. 100.0, since the previous sample
	MemPercent float64 // 0.0 .. 100.0
	Load1      float64 // one-minute load average, 0 where unsupported
}

// Sample collects one snapshot. CPU usage is the delta since the previous
// call; fields that cannot be read are left at zero.
func Sample() Stats {
	var s Stats
	if pcts, err := cpu.Percent(0, false); err == nil && len(pcts) > 0 {
		s.CPUPercent = pcts[0]
	}
	if vmem, err := mem.VirtualMemory(); err == nil && vmem != nil {
		s.MemPercent = vmem.UsedPercent
	}
	if avg, err := load.Avg(); err == nil && avg != nil {
		s.Load1 = avg.Load1
	}
	return s
}

// Host describes the machine a run executes on.
type Host struct {
	LogicalCPUs  int
	PhysicalCPUs int
	ModelName    string
}

// DescribeHost reads the CPU topology. Fields that cannot be read are left
// at their zero value.
func DescribeHost() Host {
	var h Host
	if n, err := cpu.Counts(true); err == nil {
		h.LogicalCPUs = n
	}
	if n, err := cpu.Counts(false); err == nil {
		h.PhysicalCPUs = n
	}
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		h.ModelName = infos[0].ModelName
	}
	return h
}
