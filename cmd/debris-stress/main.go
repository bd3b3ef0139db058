// Command debris-stress runs many headless sessions side by side with a
// random player and prints a Markdown report of outcomes and timings.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/plus3/debrisfall/control"
	"github.com/plus3/debrisfall/debris"
	"github.com/plus3/debrisfall/physics"
	"golang.org/x/sync/errgroup"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	sessions := flag.Int("sessions", runtime.GOMAXPROCS(0), "The number of sessions to run concurrently.")
	backend := flag.String("backend", physics.DefaultBackend, "Physics backend: box2d or chipmunk.")
	paramsPath := flag.String("params", "", "YAML file with session parameters.")
	seed := flag.Uint64("seed", 1, "Seed for debris and the random player.")
	tick := flag.Duration("tick", time.Second/60, "Simulated time per tick.")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "debris-stress",
	})
	level, err := log.ParseLevel(*logLevel)
	if err != nil {
		logger.Fatal("bad log level", "err", err)
	}
	logger.SetLevel(level)

	params := debris.DefaultParams()
	if *paramsPath != "" {
		if params, err = debris.LoadParams(*paramsPath); err != nil {
			logger.Fatal("cannot load params", "err", err)
		}
	}

	newWorld, err := physics.Backend(*backend)
	if err != nil {
		logger.Fatal("cannot pick backend", "err", err)
	}

	report := &Report{
		Duration:       *duration,
		Sessions:       *sessions,
		Backend:        *backend,
		Seed:           *seed,
		Tick:           *tick,
		GCPauseMetrics: *gcPauseMetrics,
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	logger.Info("running", "sessions", *sessions, "duration", *duration, "backend", *backend)
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	// Neither engine is safe to step from several goroutines at once, even
	// on separate worlds.
	var worldLock sync.Mutex

	results := make([]Result, *sessions)
	g, ctx := errgroup.WithContext(ctx)
	startTime := time.Now()

	for i := range results {
		runner := &Runner{
			Session: debris.NewSession(params, newWorld, debris.SessionOptions{
				Rand:   rand.New(rand.NewPCG(*seed, uint64(i))),
				Logger: logger.WithPrefix(fmt.Sprintf("session %d", i)),
			}),
			Controller: control.NewRandomController(rand.New(rand.NewPCG(*seed+1, uint64(i))), 30, 0.2),
			Tick:       tick.Seconds(),
			Lock:       &worldLock,
		}
		g.Go(func() error {
			results[i] = runner.Run(ctx)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Fatal("stress run failed", "err", err)
	}

	report.TotalTime = time.Since(startTime)
	report.Merge(results)
	runtime.ReadMemStats(&report.MemStatsEnd)

	logger.Info("finished", "rounds", report.Rounds, "wins", report.Wins, "deaths", report.Deaths)

	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		logger.Fatal("failed to generate report", "err", err)
	}
	fmt.Println("--- End of Report ---")
}
