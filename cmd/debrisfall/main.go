// Command debrisfall is a desktop frontend for a debris session: dodge the
// falling debris until the door arrives, then touch it before the clock runs
// out.
package main

import (
	"flag"
	"math/rand/v2"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/debrisfall/debris"
	"github.com/plus3/debrisfall/debugui"
	debugui_ebiten "github.com/plus3/debrisfall/debugui/ebiten"
	"github.com/plus3/debrisfall/physics"
)

const (
	ScreenWidth  = 1280
	ScreenHeight = 720
)

func main() {
	paramsPath := flag.String("params", "", "YAML file with session parameters")
	backend := flag.String("backend", physics.DefaultBackend, "physics backend: box2d or chipmunk")
	seed := flag.Uint64("seed", 0, "random seed (0 picks one from the clock)")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "debrisfall",
	})
	level, err := log.ParseLevel(*logLevel)
	if err != nil {
		logger.Fatal("bad log level", "err", err)
	}
	logger.SetLevel(level)

	params := debris.DefaultParams()
	if *paramsPath != "" {
		params, err = debris.LoadParams(*paramsPath)
		if err != nil {
			logger.Fatal("cannot load params", "err", err)
		}
	}

	newWorld, err := physics.Backend(*backend)
	if err != nil {
		logger.Fatal("cannot pick backend", "err", err)
	}

	if *seed == 0 {
		*seed = uint64(time.Now().UnixNano())
	}
	logger.Info("starting", "backend", *backend, "seed", *seed)

	session := debris.NewSession(params, newWorld, debris.SessionOptions{
		Rand:   rand.New(rand.NewPCG(*seed, *seed>>1)),
		Logger: logger.WithPrefix("session"),
	})
	session.OnTransition(func(t debris.Transition) {
		if t.To.Terminal() {
			logger.Info("session over", "result", t.To, "at", t.At, "spawned", session.SpawnedCount())
		}
	})
	session.Reset()

	imguiBackend := debugui_ebiten.NewImguiBackend("Debrisfall", ScreenWidth, ScreenHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	game := &Game{
		session:      session,
		ui:           debugui.New(session),
		imguiBackend: imguiBackend,
		renderer:     NewRenderer(params),
	}
	game.ui.Visible = false

	if err := ebiten.RunGame(game); err != nil {
		logger.Fatal("game stopped", "err", err)
	}
}
