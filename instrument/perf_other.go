//go:build !linux

package instrument

import "errors"

type HardwareCounts struct {
	Instructions uint64
	Cycles       uint64
}

var errNoPerf = errors.New("hardware counters need linux perf")

func CountHardware(func()) (HardwareCounts, error) {
	return HardwareCounts{}, errNoPerf
}
