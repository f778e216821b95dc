package main

import (
	"bytes"
	"context"
	_ "embed"
	"flag"
	"fmt"
	"image/color"
	"math"
	"os"
	"os/signal"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/stagehand/behavior"
	"github.com/plus3/stagehand/debugui"
	debugui_ebiten "github.com/plus3/stagehand/debugui/ebiten"
	"github.com/plus3/stagehand/internal/logging"
	"github.com/plus3/stagehand/scene"
	"github.com/plus3/stagehand/stage"
	"go.uber.org/zap"
)

//go:embed scenes/turtles.yaml
var defaultScene []byte

const actorRadius = 12

var (
	backgroundColor = color.RGBA{245, 245, 240, 255}
	idleColor       = color.RGBA{186, 225, 255, 255}
	busyColor       = color.RGBA{255, 179, 186, 255}
	headingColor    = color.RGBA{60, 60, 60, 255}
)

func main() {
	scenePath := flag.String("scene", "", "Scene file (.yaml or .json). Defaults to the built-in turtles scene.")
	logLevel := flag.String("log-level", "", "Overrides the scene's log level.")
	headless := flag.Bool("headless", false, "Tick the scene without a window, logging completions.")
	duration := flag.Duration("duration", 0, "Stops a headless run after this long. Zero runs until interrupted.")
	flag.Parse()

	sc, err := loadScene(*scenePath)
	if err != nil {
		zap.NewExample().Fatal("failed to load scene", zap.Error(err))
	}

	level := sc.Settings.LogLevel
	if *logLevel != "" {
		level = *logLevel
	}
	logger, err := logging.New(level)
	if err != nil {
		zap.NewExample().Fatal("failed to create logger", zap.Error(err))
	}
	defer logger.Sync()

	if *headless {
		if err := runHeadless(sc, logger, *duration); err != nil {
			logger.Fatal("headless run failed", zap.Error(err))
		}
		return
	}

	backend := debugui_ebiten.NewImguiBackend("stagehand", sc.Settings.Width, sc.Settings.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(sc.Settings.TickRate)

	game := &Game{
		scene:   sc,
		backend: backend,
		logger:  logger,
	}
	if err := game.reset(); err != nil {
		logger.Fatal("failed to populate stage", zap.Error(err))
	}

	logger.Info("starting demo",
		zap.Int("actors", game.stage.Len()),
		zap.Int("tick_rate", sc.Settings.TickRate))

	if err := ebiten.RunGame(game); err != nil {
		logger.Error("game exited", zap.Error(err))
		os.Exit(1)
	}
}

// runHeadless ticks the scene at its tick rate until interrupted or until
// duration elapses.
func runHeadless(sc *scene.Scene, logger *zap.Logger, duration time.Duration) error {
	s := stage.New(
		stage.WithLogger(logger),
		stage.WithCompletionHook(logCompletion(logger)),
	)
	if _, err := sc.Populate(s, scene.NewRegistry()); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, duration)
		defer cancel()
	}

	logger.Info("running headless",
		zap.Int("actors", s.Len()),
		zap.Duration("tick_interval", sc.Settings.TickInterval()))
	if err := s.Run(ctx, sc.Settings.TickInterval()); err != nil {
		return err
	}

	stats := s.Stats()
	logger.Info("headless run finished",
		zap.Int64("ticks", stats.Ticks),
		zap.Int64("completed", stats.Completed),
		zap.Int("active", stats.ActiveBehaviors),
		zap.Duration("avg_tick", stats.AvgTick))
	return nil
}

func logCompletion(logger *zap.Logger) stage.CompletionFunc {
	return func(actor *stage.Actor, _ stage.Handle, b behavior.Behavior) {
		logger.Info("behavior finished",
			zap.String("actor", actor.Name()),
			zap.String("behavior", fmt.Sprintf("%T", b)))
	}
}

func loadScene(path string) (*scene.Scene, error) {
	if path == "" {
		return scene.LoadYAML(bytes.NewReader(defaultScene))
	}
	return scene.LoadFile(path)
}

// Game implements ebiten.Game. Every Update is one stage tick.
type Game struct {
	scene   *scene.Scene
	backend *debugui_ebiten.ImguiBackend
	logger  *zap.Logger

	stage   *stage.Stage
	overlay *debugui.Overlay
	paused  bool
}

// reset rebuilds the stage and inspector from the scene.
func (g *Game) reset() error {
	g.stage = stage.New(
		stage.WithLogger(g.logger),
		stage.WithCompletionHook(logCompletion(g.logger)),
	)
	if _, err := g.scene.Populate(g.stage, scene.NewRegistry()); err != nil {
		return err
	}

	g.overlay = debugui.NewOverlay(
		debugui.NewActorBrowser(g.stage, 20).Render,
		debugui.NewStageStats(g.stage, 120).Render,
	)
	return nil
}

func (g *Game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyQ) || ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	input := g.overlay.Input()
	if !input.WantCaptureKeyboard {
		if inpututil.IsKeyJustPressed(ebiten.KeyP) {
			g.paused = !g.paused
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyR) {
			if err := g.reset(); err != nil {
				return err
			}
		}
		if g.paused && inpututil.IsKeyJustPressed(ebiten.KeyN) {
			g.stage.Tick()
		}
	}

	if !g.paused {
		g.stage.Tick()
	}

	g.backend.BeginFrame()
	g.overlay.Render()
	g.backend.EndFrame()

	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	for actor := range g.stage.Actors() {
		pos := actor.Position()
		x, y := float32(pos.X()), float32(pos.Y())

		c := idleColor
		if !g.stage.Idle(actor.Id()) {
			c = busyColor
		}
		vector.DrawFilledCircle(screen, x, y, actorRadius, c, true)

		tip := pos.Add(heading(actor.Rotation()).Mul(actorRadius * 1.6))
		vector.StrokeLine(screen, x, y, float32(tip.X()), float32(tip.Y()), 2, headingColor, true)
	}

	g.backend.Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.backend.Layout(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

func heading(degrees float64) mgl64.Vec2 {
	r := mgl64.DegToRad(degrees)
	return mgl64.Vec2{math.Cos(r), math.Sin(r)}
}
