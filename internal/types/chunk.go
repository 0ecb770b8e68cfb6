package types

import "time"

// ChunkPlan describes one contiguous slice [Start, End) of the packet arena.
type ChunkPlan struct {
	Index     int // 1-based
	Start     int
	End       int // exclusive
	StartTime time.Duration
	Duration  time.Duration
}

// Len returns the number of packets in the plan.
func (p ChunkPlan) Len() int {
	return p.End - p.Start
}

// EndTime returns the presentation time at which the plan ends.
func (p ChunkPlan) EndTime() time.Duration {
	return p.StartTime + p.Duration
}

// ChunkInfo describes one written chunk file.
type ChunkInfo struct {
	Index     int
	Path      string
	StartTime time.Duration
	EndTime   time.Duration
	Packets   int
	Bytes     int64
}

// Duration returns the chunk's playing time.
func (c ChunkInfo) Duration() time.Duration {
	return c.EndTime - c.StartTime
}
