package instrument

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCollectorAccumulates(t *testing.T) {
	c := NewCollector()
	stop := c.Measure("assembly")
	time.Sleep(time.Millisecond)
	stop()
	stop = c.Measure("assembly")
	stop()

	assert.Equal(t, 2, c.Count("assembly"))
	assert.True(t, c.Total("assembly") >= time.Millisecond)
	assert.Equal(t, 0, c.Count("solve"))

	s := c.Summary()
	assert.True(t, strings.Contains(s, "assembly"))
	assert.True(t, strings.Contains(s, "2 calls"))
}

func TestNilCollectorIsInert(t *testing.T) {
	var c *Collector
	stop := c.Measure("anything")
	stop()
	assert.Equal(t, 0, c.Count("anything"))
	assert.Equal(t, time.Duration(0), c.Total("anything"))
	assert.Equal(t, "", c.Summary())
}

func TestCollectorConcurrent(t *testing.T) {
	c := NewCollector()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Measure("hot")()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1600, c.Count("hot"))
}
