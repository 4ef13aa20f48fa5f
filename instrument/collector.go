// Package instrument provides lightweight wall-clock measurement of
// assembly and solve phases, with optional hardware counters on linux.
package instrument

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Collector accumulates named durations. A nil Collector is valid and
// records nothing, so callers can thread one through unconditionally.
type Collector struct {
	mu      sync.Mutex
	history map[string][]time.Duration
}

func NewCollector() *Collector {
	return &Collector{history: map[string][]time.Duration{}}
}

// Measure starts a timer and returns the stop function, meant for
// defer at the top of the measured section.
func (c *Collector) Measure(label string) func() {
	if c == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		d := time.Since(start)
		c.mu.Lock()
		c.history[label] = append(c.history[label], d)
		c.mu.Unlock()
	}
}

// Total returns the accumulated time under a label.
func (c *Collector) Total(label string) time.Duration {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	var total time.Duration
	for _, d := range c.history[label] {
		total += d
	}
	return total
}

// Count returns how many measurements a label has received.
func (c *Collector) Count(label string) int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.history[label])
}

// Summary formats the recorded totals, one label per line, sorted.
func (c *Collector) Summary() string {
	if c == nil {
		return ""
	}
	c.mu.Lock()
	labels := make([]string, 0, len(c.history))
	for label := range c.history {
		labels = append(labels, label)
	}
	c.mu.Unlock()
	sort.Strings(labels)

	var sb strings.Builder
	for _, label := range labels {
		fmt.Fprintf(&sb, "%-24s %3d calls %12v\n", label, c.Count(label), c.Total(label))
	}
	return sb.String()
}
