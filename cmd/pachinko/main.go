package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mswork1021/pachigame/internal/board"
	"github.com/mswork1021/pachigame/internal/config"
	"github.com/mswork1021/pachigame/internal/game"
	"github.com/mswork1021/pachigame/internal/input"
	"github.com/mswork1021/pachigame/internal/lending"
	"github.com/mswork1021/pachigame/internal/logging"
	"github.com/mswork1021/pachigame/internal/lottery"
	"github.com/mswork1021/pachigame/internal/observer"
	"github.com/mswork1021/pachigame/internal/reel"
)

type options struct {
	configDir string
	machine   string
	watch     bool
	calibrate bool
	trials    int
	asJSON    bool
	overrides config.Overrides
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("pachinko", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.configDir, "config", "configs", "config directory")
	fs.StringVar(&opts.machine, "machine", "", "machine profile under <config>/machines")
	fs.BoolVar(&opts.watch, "watch", false, "reload shooter settings when the profile changes")
	fs.BoolVar(&opts.calibrate, "calibrate", false, "run the lottery calibration instead of a session")
	fs.IntVar(&opts.trials, "trials", 2000, "calibration trials per check")
	fs.BoolVar(&opts.asJSON, "json", false, "print the report as JSON")

	balls := fs.Int("balls", 0, "initial balls")
	lend := fs.Int("lend", 0, "yen to lend balls for at start")
	seed := fs.Uint64("seed", 0, "seed for the board and lottery (0 = crypto)")
	duration := fs.Duration("duration", 0, "simulated session length")
	tick := fs.Duration("tick", 0, "simulation tick")
	interval := fs.Duration("interval", 0, "shot interval")
	power := fs.Float64("power", 0, "shot power in [0,1]")
	realtime := fs.Bool("realtime", false, "pace ticks against the wall clock")
	level := fs.String("log-level", "", "log level")
	addr := fs.String("observer", "", "observer listen address, e.g. :8080")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	var o config.Overrides
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "balls":
			o.InitialBalls = balls
		case "lend":
			o.LendYen = lend
		case "seed":
			o.BoardSeed = seed
		case "duration":
			o.Duration = duration
		case "tick":
			o.Tick = tick
		case "interval":
			o.ShotInterval = interval
		case "power":
			o.ShotPower = power
		case "realtime":
			o.Realtime = realtime
		case "log-level":
			o.LogLevel = level
		case "observer":
			o.ObserverAddr = addr
		}
	})
	opts.overrides = o
	return opts, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "pachinko:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	envOverrides, err := config.OverridesFromEnv()
	if err != nil {
		return err
	}
	overrides := envOverrides.Merge(opts.overrides)

	loader := config.NewLoader(opts.configDir)
	_, settings, err := loader.Resolve(opts.machine, overrides)
	if err != nil {
		return err
	}

	logger, err := logging.New(settings.LogLevel, settings.LogDevelopment)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if opts.calibrate {
		return calibrate(stdout, opts.trials, rngFor(settings.BoardSeed, 2))
	}

	rate, err := lending.NewRate(settings.YenPerUnit, settings.BallsPerUnit, settings.ExchangeYenPerBall)
	if err != nil {
		return err
	}
	lent, change := rate.BallsForYen(settings.LendYen)
	initial := settings.InitialBalls + lent

	world := board.New(board.Config{
		Width:     settings.BoardWidth,
		Height:    settings.BoardHeight,
		Weights:   settings.Weights,
		FlightMin: settings.FlightMin,
		FlightMax: settings.FlightMax,
	}, rngFor(settings.BoardSeed, 0))

	shooter := input.NewAutoShooter(settings.ShotInterval, settings.ShotPower)
	shooter.Hold(true)

	gameOpts := []game.Option{
		game.WithRNG(rngFor(settings.BoardSeed, 1)),
		game.WithLogger(logger),
		game.WithInput(shooter),
		game.WithDisplay(world),
	}
	if settings.ObserverAddr != "" {
		obs := observer.New(observer.DefaultCapacity, logger)
		gameOpts = append(gameOpts, game.WithDisplay(obs))
		serveCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			if err := obs.Serve(serveCtx, settings.ObserverAddr); err != nil {
				logger.Error("observer stopped", zap.Error(err))
			}
		}()
	}
	g := game.New(world, initial, gameOpts...)

	if opts.watch && opts.machine != "" {
		w := loader.Watch(opts.machine, overrides, time.Second, logger, func(s config.Settings) {
			shooter.SetInterval(s.ShotInterval)
			shooter.SetPower(s.ShotPower)
		})
		defer w.Stop()
	}

	logger.Info("session started",
		zap.String("session_id", g.ID()),
		zap.String("machine", settings.Machine),
		zap.Int("balls", initial),
		zap.Int("lent", lent),
		zap.Int("change_yen", change),
	)

	simulate(ctx, g, settings)

	rep := newReport(g, settings, rate)
	logger.Info("session finished",
		zap.String("session_id", g.ID()),
		zap.Int("balls", rep.Snapshot.Balls),
		zap.Int("jackpots", rep.Snapshot.JackpotCount),
	)
	if opts.asJSON {
		return rep.writeJSON(stdout)
	}
	return rep.writeText(stdout)
}

// simulate ticks the session until the duration elapses, the context ends or
// the player runs dry with nothing left in play.
func simulate(ctx context.Context, g *game.Orchestrator, s config.Settings) {
	var pace <-chan time.Time
	if s.Realtime {
		t := time.NewTicker(s.Tick)
		defer t.Stop()
		pace = t.C
	}
	for s.Duration == 0 || g.Now() < s.Duration {
		if pace != nil {
			select {
			case <-ctx.Done():
				return
			case <-pace:
			}
		} else if ctx.Err() != nil {
			return
		}
		g.Tick(s.Tick)
		if exhausted(g) {
			return
		}
	}
}

func exhausted(g *game.Orchestrator) bool {
	snap := g.Snapshot()
	return snap.Balls == 0 && g.ActiveBalls() == 0 && g.Stage() == reel.StageIdle && !snap.IsAttackerOpen
}

// rngFor derives independent streams from one seed. Seed 0 uses the crypto source.
func rngFor(seed uint64, stream uint64) lottery.RandomSource {
	if seed == 0 {
		return lottery.DefaultRNG()
	}
	return lottery.NewSeededRNG(seed*3 + stream)
}
