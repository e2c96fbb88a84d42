package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lao-tseu-is-alive/go-flocking/internal/logging"
	"github.com/lao-tseu-is-alive/go-flocking/pkg/flocking"
	"github.com/lao-tseu-is-alive/go-flocking/pkg/render"
	"github.com/lao-tseu-is-alive/go-flocking/pkg/simulation"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
)

type cliOptions struct {
	configPath string
	headless   bool
	ticks      uint64
	logLevel   string

	flags   *flag.FlagSet
	seed    uint64
	workers int
}

func parseFlags(args []string) (*cliOptions, error) {
	o := &cliOptions{}
	fs := flag.NewFlagSet("flocking", flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", "", "simulation config file (.json, .yaml, .yml or .toml)")
	fs.BoolVar(&o.headless, "headless", false, "run without a window and log stats")
	fs.Uint64Var(&o.ticks, "ticks", 0, "stop a headless run after this many ticks (0 runs until interrupted)")
	fs.Uint64Var(&o.seed, "seed", 0, "random seed for the initial flock, overrides the config file")
	fs.IntVar(&o.workers, "workers", 1, "goroutines computing one tick, overrides the config file")
	fs.StringVar(&o.logLevel, "log-level", logging.DefaultLevel, "debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	o.flags = fs
	return o, nil
}

// loadConfig reads the config file when one is given and applies the flags
// the user actually set on top of it.
func (o *cliOptions) loadConfig() (*simulation.Config, error) {
	cfg := simulation.DefaultConfig()
	if o.configPath != "" {
		var err error
		if cfg, err = simulation.LoadConfig(o.configPath); err != nil {
			return nil, err
		}
	}
	if o.flags.Changed("seed") {
		cfg.Seed = o.seed
	}
	if o.flags.Changed("workers") {
		cfg.Workers = o.workers
	}
	if err := cfg.Flocking().Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func run(ctx context.Context, o *cliOptions, logger *zap.Logger) error {
	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}
	fc := cfg.Flocking()

	var opts []flocking.Option
	if cfg.Seed != 0 {
		opts = append(opts, flocking.WithSeed(cfg.Seed))
	}
	flock, err := flocking.New(fc, opts...)
	if err != nil {
		return fmt.Errorf("failed to create flock: %w", err)
	}

	runner, err := simulation.NewRunner(ctx, flock, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := runner.Stop(context.Background()); err != nil {
			logger.Warn("actor system did not stop cleanly", zap.Error(err))
		}
	}()

	if o.headless {
		logger.Info("starting headless run", zap.Uint64("ticks", o.ticks), zap.Int("agents", fc.Count))
		return runner.Run(ctx, o.ticks)
	}

	ebiten.SetWindowSize(int(fc.Width), int(fc.Height))
	ebiten.SetWindowTitle("Flocking")
	// ticks follow wall time, updating at least as often avoids multi-tick frames
	ebiten.SetTPS(max(1, int(math.Ceil(fc.TicksPerSecond))))
	return ebiten.RunGame(render.NewGame(ctx, runner, fc, logger))
}

func main() {
	o, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, err := logging.New(o.logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, o, logger); err != nil {
		logger.Error("flocking failed", zap.Error(err))
		_ = logger.Sync()
		stop()
		os.Exit(1)
	}
}
