// Package plan groups consecutive packets into chunks of a target duration.
package plan

import (
	"time"

	"github.com/simonhull/mp3split/internal/types"
)

// Plan partitions packets into contiguous chunk plans.
//
// Packets are attached to the current chunk until its accumulated duration
// reaches target; the packet that reaches it closes the chunk. Every chunk,
// the last included, is therefore shorter than target plus its final
// packet's duration. The last chunk takes whatever remains: it is at most
// target unless its final packet is the one that reaches target. A
// non-positive target yields one plan per packet.
func Plan(packets []types.Packet, target time.Duration) []types.ChunkPlan {
	if len(packets) == 0 {
		return nil
	}

	var plans []types.ChunkPlan
	start := 0
	var acc time.Duration

	for i, p := range packets {
		acc += p.Duration
		if acc >= target || i == len(packets)-1 {
			plans = append(plans, types.ChunkPlan{
				Index:     len(plans) + 1,
				Start:     start,
				End:       i + 1,
				StartTime: packets[start].Timestamp,
				Duration:  acc,
			})
			start = i + 1
			acc = 0
		}
	}

	return plans
}
