package renderer

import (
	"time"

	"github.com/MitrB/my-cgfs/pkg/integrator"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels int // Total number of pixels rendered
	Hits        int // Primary rays that hit a sphere
	Misses      int // Primary rays that saw the background
	ShadeCalls  int // Shading evaluations over all pixels
	Bounces     int // Reflected rays cast over all pixels
	Absorbed    int
	Escaped     int
	Exhausted   int
	Duration    time.Duration
}

// addTrace records the outcome of a single primary ray
func (rs *RenderStats) addTrace(ts integrator.TraceStats) {
	rs.TotalPixels++
	rs.ShadeCalls += ts.ShadeCalls
	rs.Bounces += ts.Bounces

	switch ts.State {
	case integrator.StateMiss:
		rs.Misses++
		return
	case integrator.StateAbsorbed:
		rs.Absorbed++
	case integrator.StateEscaped:
		rs.Escaped++
	case integrator.StateExhausted:
		rs.Exhausted++
	}
	rs.Hits++
}

// merge adds the counters of another stats value
func (rs *RenderStats) merge(other RenderStats) {
	rs.TotalPixels += other.TotalPixels
	rs.Hits += other.Hits
	rs.Misses += other.Misses
	rs.ShadeCalls += other.ShadeCalls
	rs.Bounces += other.Bounces
	rs.Absorbed += other.Absorbed
	rs.Escaped += other.Escaped
	rs.Exhausted += other.Exhausted
}

// AverageShadeCalls returns the mean number of shading evaluations per pixel
func (rs RenderStats) AverageShadeCalls() float64 {
	if rs.TotalPixels == 0 {
		return 0
	}
	return float64(rs.ShadeCalls) / float64(rs.TotalPixels)
}
