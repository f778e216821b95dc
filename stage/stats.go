package stage

import "time"

// Stats summarizes what a stage has done so far.
type Stats struct {
	Ticks           int64
	Actors          int
	ActiveBehaviors int
	Attached        int64
	Completed       int64
	Cancelled       int64

	MinTick   time.Duration
	MaxTick   time.Duration
	AvgTick   time.Duration
	LastTick  time.Duration
	TotalTick time.Duration
}

type statsInternal struct {
	ticks     int64
	attached  int64
	completed int64
	cancelled int64

	minTick   time.Duration
	maxTick   time.Duration
	lastTick  time.Duration
	totalTick time.Duration
}

func newStatsInternal() statsInternal {
	return statsInternal{minTick: time.Duration(1<<63 - 1)}
}

func (st *statsInternal) record(d time.Duration) {
	st.ticks++
	st.lastTick = d
	st.totalTick += d

	if d < st.minTick {
		st.minTick = d
	}
	if d > st.maxTick {
		st.maxTick = d
	}
}

// Stats returns counters and tick timings.
func (s *Stage) Stats() Stats {
	stats := Stats{
		Ticks:     s.stats.ticks,
		Attached:  s.stats.attached,
		Completed: s.stats.completed,
		Cancelled: s.stats.cancelled,
		MaxTick:   s.stats.maxTick,
		LastTick:  s.stats.lastTick,
		TotalTick: s.stats.totalTick,
	}

	if s.stats.ticks > 0 {
		stats.MinTick = s.stats.minTick
		stats.AvgTick = s.stats.totalTick / time.Duration(s.stats.ticks)
	}

	for actor := range s.Actors() {
		stats.Actors++
		stats.ActiveBehaviors += len(s.Active(actor.Id()))
	}

	return stats
}
