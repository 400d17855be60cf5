package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"runtime/debug"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"github.com/lixenwraith/bouncegolf/audio"
	"github.com/lixenwraith/bouncegolf/config"
	"github.com/lixenwraith/bouncegolf/golf"
	"github.com/lixenwraith/bouncegolf/logging"
	"github.com/lixenwraith/bouncegolf/physics"
)

const (
	frameInterval = 16 * time.Millisecond
	trailLength   = 24
	aimDots       = 6

	angleStep = 5.0
	powerStep = 1.0
)

var (
	configPath = flag.String("config", "", "Path to a TOML config file")
	debugFlag  = flag.Bool("debug", false, "Enable debug logging to the log directory")
)

type point struct {
	x, y float64
}

// Game drives one ball around a terminal-sized course
type Game struct {
	screen        tcell.Screen
	width, height int

	ball    physics.Ball
	start   physics.Ball
	level   golf.Level
	angle   float64
	power   float64
	strokes int
	resting bool
	holed   bool

	trail []point
	acc   float64

	sound *audio.SoundManager
	log   logrus.FieldLogger
}

func NewGame(cfg *config.Config, log logrus.FieldLogger) (*Game, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return newGame(screen, cfg, log)
}

func newGame(screen tcell.Screen, cfg *config.Config, log logrus.FieldLogger) (*Game, error) {
	if err := screen.Init(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	level := golf.GenerateLevel(rng, time.Now(), cfg.Game.HoleWidth)

	g := &Game{
		screen: screen,
		level:  level,
		angle:  45,
		power:  10,
		log:    log,
		sound: audio.NewSoundManager(&audio.Config{
			Enabled:       cfg.Audio.Enabled,
			MasterVolume:  cfg.Audio.MasterVolume,
			SampleRate:    cfg.Audio.SampleRate,
			EffectVolumes: audio.DefaultConfig().EffectVolumes,
		}),
	}
	g.width, g.height = screen.Size()
	g.start = physics.NewBall(50, 300, 0, 0, 0)
	g.ball = g.start

	// Non-fatal, the sandbox runs silently
	if err := g.sound.Initialize(); err != nil {
		log.WithError(err).Warn("audio initialization failed")
	}

	log.WithFields(logrus.Fields{"hole_x1": g.level.Hole.X1, "hole_x2": g.level.Hole.X2}).Info("sandbox started")
	return g, nil
}

// toScreen maps world coordinates to a cell; y grows upward in the world
func (g *Game) toScreen(x, y float64) (int, int) {
	courseH := g.height - 2
	sx := int(math.Round(x / physics.XMax * float64(g.width-1)))
	sy := courseH - int(math.Round(y/physics.YMax*float64(courseH)))
	return sx, sy
}

// update advances the simulation by elapsed wall time in fixed ticks
func (g *Game) update(elapsed time.Duration) {
	if g.resting {
		return
	}

	g.acc += float64(elapsed) / float64(time.Millisecond)
	for g.acc >= physics.ProjectionTick {
		g.acc -= physics.ProjectionTick

		prev := g.ball
		g.ball = physics.Step(g.ball, physics.ProjectionTick)

		if physics.Classify(prev) == physics.StateOutOfBounds {
			// Clamped against the wall; back to the tee
			g.log.WithField("x", prev.X).Debug("ball left the course")
			g.ball = g.start
			continue
		}
		if physics.Bounced(prev, g.ball) {
			_, dy := g.ball.Velocity()
			g.sound.PlayBounce(math.Min(1, math.Abs(dy)/5))
		}

		g.trail = append(g.trail, point{g.ball.X, g.ball.Y})
		if len(g.trail) > trailLength {
			g.trail = g.trail[1:]
		}

		if g.ball.Y < physics.RestHeight && g.ball.SpeedSq() < physics.RestSpeedSq {
			g.settle()
			return
		}
	}
}

func (g *Game) settle() {
	g.ball = g.ball.WithVelocity(0, 0)
	g.resting = true
	g.acc = 0

	if g.level.Hole.Contains(g.ball.X) {
		g.holed = true
		g.sound.Play(audio.SoundCup)
	}
	g.log.WithFields(logrus.Fields{
		"x":       g.ball.X,
		"strokes": g.strokes,
		"holed":   g.holed,
	}).Info("ball settled")
}

func (g *Game) stroke() {
	if !g.resting && g.strokes > 0 {
		return
	}
	g.start = g.ball.WithVelocity(0, 0)
	g.ball = physics.Launch(g.start, g.angle, g.power)
	g.resting = false
	g.holed = false
	g.strokes++
	g.sound.Play(audio.SoundStroke)
}

func (g *Game) reset() {
	g.start = physics.NewBall(50, 300, 0, 0, 0)
	g.ball = g.start
	g.strokes = 0
	g.resting = false
	g.holed = false
	g.trail = g.trail[:0]
	g.acc = 0
}

func (g *Game) draw() {
	g.screen.Clear()

	groundStyle := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	holeStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	hillStyle := tcell.StyleDefault.Foreground(tcell.ColorDarkGreen)
	_, groundY := g.toScreen(0, 0)
	for x := 0; x < g.width; x++ {
		g.screen.SetContent(x, groundY+1, '▀', nil, groundStyle)
		// Terrain is scenery; the ball still rests on the floor
		wx := float64(x) / float64(max(g.width-1, 1)) * physics.XMax
		_, top := g.toScreen(wx, g.level.ElevationAt(wx))
		for y := top; y < groundY; y++ {
			g.setCell(x, y, '░', hillStyle)
		}
	}
	hx1, _ := g.toScreen(g.level.Hole.X1, 0)
	hx2, _ := g.toScreen(g.level.Hole.X2, 0)
	for x := hx1; x <= hx2; x++ {
		g.screen.SetContent(x, groundY+1, '▄', nil, holeStyle)
	}

	for i, p := range g.trail {
		x, y := g.toScreen(p.x, p.y)
		shade := int32(60 + 150*i/len(g.trail))
		g.setCell(x, y, '·', tcell.StyleDefault.Foreground(tcell.NewRGBColor(shade, shade, shade)))
	}

	if g.resting || g.strokes == 0 {
		dir := physics.DegreesToVector(g.angle)
		for i := 1; i <= aimDots; i++ {
			step := float64(i) * g.power * 2.5
			x, y := g.toScreen(g.ball.X+dir.X()*step, g.ball.Y+dir.Y()*step)
			g.setCell(x, y, '+', tcell.StyleDefault.Foreground(tcell.ColorDarkCyan))
		}
	}

	bx, by := g.toScreen(g.ball.X, g.ball.Y)
	if by < 0 {
		// Above the top edge
		g.setCell(bx, 0, '^', tcell.StyleDefault.Foreground(tcell.ColorWhite))
	} else {
		g.setCell(bx, by, '●', tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true))
	}

	status := fmt.Sprintf(" angle %4.0f  power %4.1f  strokes %d  x %6.1f  y %6.1f ",
		g.angle, g.power, g.strokes, g.ball.X, g.ball.Y)
	if g.holed {
		status += " IN THE HOLE! r to play again"
	}
	statusStyle := tcell.StyleDefault.Reverse(true)
	for i, r := range status {
		g.setCell(i, g.height-1, r, statusStyle)
	}

	g.screen.Show()
}

func (g *Game) setCell(x, y int, r rune, style tcell.Style) {
	if x >= 0 && x < g.width && y >= 0 && y < g.height {
		g.screen.SetContent(x, y, r, nil, style)
	}
}

func (g *Game) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyLeft:
			g.angle = math.Max(-golf.MaxAngle, g.angle-angleStep)
		case tcell.KeyRight:
			g.angle = math.Min(golf.MaxAngle, g.angle+angleStep)
		case tcell.KeyUp:
			g.power = math.Min(golf.MaxMightiness, g.power+powerStep)
		case tcell.KeyDown:
			g.power = math.Max(0, g.power-powerStep)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case '+', '=':
				g.power = math.Min(golf.MaxMightiness, g.power+powerStep)
			case '-':
				g.power = math.Max(0, g.power-powerStep)
			case ' ':
				g.stroke()
			case 'r':
				g.reset()
			}
		}

	case *tcell.EventResize:
		g.width, g.height = g.screen.Size()
		g.screen.Sync()
	}

	return true
}

func (g *Game) run() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			eventChan <- g.screen.PollEvent()
		}
	}()

	last := time.Now()
	for {
		select {
		case ev := <-eventChan:
			if ev == nil || !g.handleInput(ev) {
				return
			}

		case now := <-ticker.C:
			g.update(now.Sub(last))
			last = now
			g.draw()
		}
	}
}

func (g *Game) cleanup() {
	g.sound.Cleanup()
	g.screen.Fini()
}

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, logFile, err := logging.Setup(logging.Options{
		Debug:   cfg.Log.Debug || *debugFlag,
		Dir:     cfg.Log.Dir,
		Name:    "bounce-sandbox",
		MaxSize: cfg.Log.MaxSize,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	game, err := NewGame(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	defer game.cleanup()

	// Restore the terminal before reporting a crash
	defer func() {
		if r := recover(); r != nil {
			game.screen.Fini()
			fmt.Fprintf(os.Stderr, "\n\x1b[31mBOUNCE-SANDBOX CRASHED: %v\x1b[0m\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()

	game.run()
}
