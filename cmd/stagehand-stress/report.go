package main

import (
	"fmt"
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/plus3/stagehand/stage"
)

type Report struct {
	// Configuration
	Duration time.Duration
	Stages   int
	Actors   int
	Seed     uint64

	// Results
	TotalTicks     int64
	TotalTime      time.Duration
	Attached       int64
	Completed      int64
	TickTime       Stats
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

// Stats aggregates tick durations across stages. Avg is weighted by tick count.
type Stats struct {
	Min   time.Duration
	Max   time.Duration
	Avg   time.Duration
	Total time.Duration
	Ticks int64
}

// Add folds the counters and tick timings of one stage into the report.
func (r *Report) Add(st stage.Stats) {
	r.TotalTicks += st.Ticks
	r.Attached += st.Attached
	r.Completed += st.Completed
	r.TickTime.add(st)
}

func (s *Stats) add(st stage.Stats) {
	if st.Ticks == 0 {
		return
	}
	if s.Ticks == 0 || st.MinTick < s.Min {
		s.Min = st.MinTick
	}
	if st.MaxTick > s.Max {
		s.Max = st.MaxTick
	}
	s.Total += st.TotalTick
	s.Ticks += st.Ticks
}

func (s *Stats) Finalize() {
	if s.Ticks == 0 {
		return
	}
	s.Avg = s.Total / time.Duration(s.Ticks)
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Stage Stress Test Report

## Test Configuration
- **Run Duration:** {{.Duration}}
- **Stages:** {{.Stages}}
- **Actors per Stage:** {{.Actors}}
- **Seed:** {{.Seed}}

## Performance Results
- **Total Ticks:** {{.TotalTicks}}
- **Total Test Time:** {{.TotalTime}}
- **Ticks per Second (all stages):** {{tps .TotalTicks .TotalTime}}
- **Behaviors Attached:** {{.Attached}}
- **Behaviors Completed:** {{.Completed}}
- **Tick Time:**
  - **Avg:** {{.TickTime.Avg}}
  - **Min:** {{.TickTime.Min}}
  - **Max:** {{.TickTime.Max}}

## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}

{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
- **Num GC Cycles:** {{ usub .MemStatsEnd.NumGC .MemStatsStart.NumGC }}
{{end}}
`

	fm := template.FuncMap{
		"tps": func(ticks int64, d time.Duration) string {
			if d <= 0 {
				return "N/A"
			}
			return fmt.Sprintf("%.0f", float64(ticks)/d.Seconds())
		},
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
