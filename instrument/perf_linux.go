//go:build linux

package instrument

import (
	perf "github.com/hodgesds/perf-utils"
)

// HardwareCounts holds the perf counters sampled around a function.
type HardwareCounts struct {
	Instructions uint64
	Cycles       uint64
}

// CountHardware runs f twice under the kernel perf interface, once per
// counter. Requires perf_event_open access; callers should treat an
// error as "counters unavailable" rather than fatal.
func CountHardware(f func()) (HardwareCounts, error) {
	var out HardwareCounts
	fe := func() error {
		f()
		return nil
	}
	ins, err := perf.CPUInstructions(fe)
	if err != nil {
		return out, err
	}
	out.Instructions = ins.Value
	cyc, err := perf.CPUCycles(fe)
	if err != nil {
		return out, err
	}
	out.Cycles = cyc.Value
	return out, nil
}
