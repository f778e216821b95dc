package debugui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/stagehand/stage"
)

// StageStats shows stage counters and a rolling graph of tick durations.
type StageStats struct {
	stage *stage.Stage

	historyFrames int
	tickHistory   []float32
	tickIndex     int
	lastTicks     int64
}

// NewStageStats creates a panel keeping historyFrames tick samples (at least one).
func NewStageStats(s *stage.Stage, historyFrames int) *StageStats {
	historyFrames = max(historyFrames, 1)
	return &StageStats{
		stage:         s,
		historyFrames: historyFrames,
		tickHistory:   make([]float32, historyFrames),
	}
}

// sample records the duration of the last tick if the stage ticked since the previous call.
func (ss *StageStats) sample(stats stage.Stats) {
	if stats.Ticks == ss.lastTicks {
		return
	}
	ss.lastTicks = stats.Ticks
	ss.tickHistory[ss.tickIndex] = float32(stats.LastTick) / float32(time.Millisecond)
	ss.tickIndex = (ss.tickIndex + 1) % ss.historyFrames
}

func (ss *StageStats) Render() {
	if !imgui.BeginV("Stage Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	stats := ss.stage.Stats()
	ss.sample(stats)

	imgui.Text(fmt.Sprintf("Ticks: %d", stats.Ticks))
	imgui.Text(fmt.Sprintf("Actors: %d", stats.Actors))
	imgui.Text(fmt.Sprintf("Active Behaviors: %d", stats.ActiveBehaviors))
	imgui.Text(fmt.Sprintf("Attached / Completed / Cancelled: %d / %d / %d",
		stats.Attached, stats.Completed, stats.Cancelled))

	imgui.Separator()
	imgui.Text(fmt.Sprintf("Tick Time: avg %s, min %s, max %s", stats.AvgTick, stats.MinTick, stats.MaxTick))
	imgui.PlotLinesFloatPtr("##ticktime", &ss.tickHistory[0], int32(len(ss.tickHistory)))

	imgui.End()
}
