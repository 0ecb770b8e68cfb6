package types

import (
	"fmt"
	"math"
	"math/bits"
	"time"
)

// TimeBase is the number of seconds one native tick represents, as Num/Den.
type TimeBase struct {
	Num uint32
	Den uint32
}

// Valid reports whether the time base can convert ticks.
func (tb TimeBase) Valid() bool {
	return tb.Num > 0 && tb.Den > 0
}

// Duration converts a tick count to a time.Duration, truncating to the
// nanosecond. Values beyond the range of time.Duration saturate.
func (tb TimeBase) Duration(ticks uint64) time.Duration {
	if !tb.Valid() {
		return 0
	}
	hi, lo := bits.Mul64(ticks, uint64(tb.Num)*uint64(time.Second))
	if hi >= uint64(tb.Den) {
		return time.Duration(math.MaxInt64)
	}
	ns, _ := bits.Div64(hi, lo, uint64(tb.Den))
	if ns > math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(ns)
}

func (tb TimeBase) String() string {
	return fmt.Sprintf("%d/%d", tb.Num, tb.Den)
}

// RawPacket is one elementary packet as yielded by a demuxer, with timing in
// the stream's native ticks.
type RawPacket struct {
	PTS    uint64
	Dur    uint64
	Offset int64
	Data   []byte
}

// Packet is one scanned elementary packet.
//
// Timestamp and Duration are derived from the native ticks so that
// Timestamp + Duration of packet n equals Timestamp of packet n+1 exactly.
type Packet struct {
	Index     int
	PTS       uint64
	Ticks     uint64
	Timestamp time.Duration
	Duration  time.Duration
	Offset    int64
	Data      []byte
}

// End returns the presentation time just past the packet.
func (p Packet) End() time.Duration {
	return p.Timestamp + p.Duration
}

// TotalDuration sums the durations of packets.
func TotalDuration(packets []Packet) time.Duration {
	var total time.Duration
	for _, p := range packets {
		total += p.Duration
	}
	return total
}
