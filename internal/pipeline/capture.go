package pipeline

import (
	"sync"

	"labelpress/internal/raster"
)

// Stage is one captured intermediate artifact.
type Stage struct {
	Label  string
	Buffer raster.ImageBuffer
}

// Capture accumulates intermediate artifacts for a single pipeline
// invocation. Handlers allocate one per request when debugging is asked
// for and drop it with the response; it is never shared between
// invocations. A nil *Capture disables recording.
type Capture struct {
	mu     sync.Mutex
	stages []Stage
}

// NewCapture returns an empty capture.
func NewCapture() *Capture {
	return &Capture{}
}

// Add records an artifact. Safe on a nil receiver and under concurrent
// candidate processing.
func (c *Capture) Add(label string, buf raster.ImageBuffer) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.stages = append(c.stages, Stage{Label: label, Buffer: buf})
	c.mu.Unlock()
}

// Stages returns the recorded artifacts in insertion order.
func (c *Capture) Stages() []Stage {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Stage, len(c.stages))
	copy(out, c.stages)
	return out
}
