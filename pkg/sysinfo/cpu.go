// Package sysinfo reports host resources used to size block generation.
package sysinfo

import (
	"context"

	"github.com/LumeraProtocol/codegen/pkg/logtrace"
	"github.com/shirou/gopsutil/v3/cpu"
)

// cpuCounter is swapped in tests.
var cpuCounter = cpu.Counts

// CPUCores returns the number of logical CPU cores.
func CPUCores(ctx context.Context) (int, error) {
	cores, err := cpuCounter(true)
	if err != nil {
		logtrace.Error(ctx, "failed to get cpu core count", logtrace.Fields{logtrace.FieldError: err.Error()})
		return 0, err
	}
	return cores, nil
}

// DefaultWorkers returns the worker count used when none is configured: one
// per logical core, and at least one when detection fails.
func DefaultWorkers(ctx context.Context) int {
	cores, err := CPUCores(ctx)
	if err != nil || cores < 1 {
		return 1
	}
	return cores
}
