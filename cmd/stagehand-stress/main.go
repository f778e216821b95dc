package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/stagehand/behavior"
	"github.com/plus3/stagehand/internal/logging"
	"github.com/plus3/stagehand/stage"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	actorCount := flag.Int("actors", 10000, "The number of actors spawned on each stage.")
	stageCount := flag.Int("stages", runtime.GOMAXPROCS(0), "The number of stages ticked in parallel.")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "Seed for the random behavior programs.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	logLevel := flag.String("log-level", "info", "Log level (debug logs every attach and completion).")
	flag.Parse()

	logger, err := logging.New(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid log level: %v\n", err)
		os.Exit(2)
	}
	defer logger.Sync()

	logger.Info("starting stage stress test",
		zap.Int("stages", *stageCount),
		zap.Int("actors", *actorCount),
		zap.Uint64("seed", *seed))

	report := &Report{
		Duration:       *duration,
		Stages:         *stageCount,
		Actors:         *actorCount,
		Seed:           *seed,
		GCPauseMetrics: *gcPauseMetrics,
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	results := make([]stage.Stats, *stageCount)
	g, ctx := errgroup.WithContext(ctx)

	startTime := time.Now()
	for i := range *stageCount {
		g.Go(func() error {
			rng := rand.New(rand.NewPCG(*seed, uint64(i)))
			w, err := newWorker(rng, *actorCount, logger.With(zap.Int("stage", i)))
			if err != nil {
				return err
			}
			results[i], err = w.run(ctx)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		logger.Fatal("stress test failed", zap.Error(err))
	}
	report.TotalTime = time.Since(startTime)

	for _, st := range results {
		report.Add(st)
	}
	report.TickTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	logger.Info("simulation finished",
		zap.Int64("ticks", report.TotalTicks),
		zap.Int64("completed", report.Completed))

	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		logger.Fatal("failed to generate report", zap.Error(err))
	}
	fmt.Println("--- End of Report ---")
}

// worker owns one stage. An actor that goes idle is handed a fresh random
// program, so the load stays constant for the whole run.
type worker struct {
	stage *stage.Stage
	rng   *rand.Rand
	err   error
}

func newWorker(rng *rand.Rand, actors int, logger *zap.Logger) (*worker, error) {
	w := &worker{rng: rng}
	w.stage = stage.New(
		stage.WithLogger(logger),
		stage.WithCompletionHook(w.refill),
	)

	for i := range actors {
		pos := mgl64.Vec2{rng.Float64() * 1000, rng.Float64() * 1000}
		actor := w.stage.Spawn(fmt.Sprintf("actor-%d", i+1), pos, rng.Float64()*360)
		if err := assign(w.stage, actor.Id(), rng); err != nil {
			return nil, err
		}
	}
	return w, nil
}

func (w *worker) refill(actor *stage.Actor, _ stage.Handle, _ behavior.Behavior) {
	if w.err != nil || !w.stage.Idle(actor.Id()) {
		return
	}
	w.err = assign(w.stage, actor.Id(), w.rng)
}

// run ticks the stage as fast as possible until ctx is done.
func (w *worker) run(ctx context.Context) (stage.Stats, error) {
	for {
		select {
		case <-ctx.Done():
			return w.stage.Stats(), nil
		default:
			w.stage.Tick()
			if w.err != nil {
				return w.stage.Stats(), w.err
			}
		}
	}
}

// assign attaches a random rotation, movement, both, or a sequence of them.
func assign(s *stage.Stage, id stage.ActorId, rng *rand.Rand) error {
	var programs []behavior.Behavior

	switch rng.IntN(4) {
	case 0:
		b, err := randomRotate(rng)
		if err != nil {
			return err
		}
		programs = append(programs, b)
	case 1:
		b, err := randomMove(rng)
		if err != nil {
			return err
		}
		programs = append(programs, b)
	case 2:
		rot, err := randomRotate(rng)
		if err != nil {
			return err
		}
		move, err := randomMove(rng)
		if err != nil {
			return err
		}
		programs = append(programs, rot, move)
	default:
		steps := make([]behavior.Behavior, 0, 4)
		for range 2 {
			rot, err := randomRotate(rng)
			if err != nil {
				return err
			}
			move, err := randomMove(rng)
			if err != nil {
				return err
			}
			steps = append(steps, rot, move)
		}
		seq, err := behavior.NewSequence(steps...)
		if err != nil {
			return err
		}
		programs = append(programs, seq)
	}

	for _, b := range programs {
		if _, err := s.Attach(id, b); err != nil {
			return err
		}
	}
	return nil
}

func randomRotate(rng *rand.Rand) (behavior.Behavior, error) {
	b, err := behavior.NewRotateToAngle(rng.Float64()*360, 1+rng.Float64()*14)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func randomMove(rng *rand.Rand) (behavior.Behavior, error) {
	b, err := behavior.NewMoveAlongHeading(rng.Float64()*360, float64(10+rng.IntN(200)), 1+rng.Float64()*9)
	if err != nil {
		return nil, err
	}
	return b, nil
}
