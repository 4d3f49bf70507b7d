// Command eventplayback records desktop input into macro files and
// replays them. Subcommands: record, play, inspect, gen.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/iam74k4/eventplayback/internal/adapters/http/debug"
	"github.com/iam74k4/eventplayback/internal/adapters/repository"
	"github.com/iam74k4/eventplayback/internal/app"
	"github.com/iam74k4/eventplayback/internal/config"
	"github.com/iam74k4/eventplayback/internal/genmacro"
	"github.com/iam74k4/eventplayback/pkg/logger"
)

const stopTimeout = 10 * time.Second

func main() {
	// Disable default Go metrics collection; the engine registers its
	// own registry.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	// Optional operational listener (/healthz, /metrics).
	if cfg.MetricsAddr != "" {
		go func() {
			if err := debug.Serve(ctx, cfg.MetricsAddr); err != nil {
				log.Warn(ctx, "debug listener failed", logger.Error(err))
			}
		}()
	}

	switch os.Args[1] {
	case "record":
		err = runRecord(ctx, cfg, os.Args[2:])
	case "play":
		err = runPlay(ctx, cfg, os.Args[2:])
	case "inspect":
		err = runInspect(ctx, os.Args[2:])
	case "gen":
		err = runGen(ctx, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func usage() {
	os.Stderr.WriteString(`usage: eventplayback <command> [flags]

commands:
  record   capture input until interrupted and save a macro
  play     load a macro and replay it
  inspect  print a macro summary
  gen      write a synthetic macro
`)
}

func newEngine(cfg *config.Config, name string) *app.Engine {
	opts := []app.Option{
		app.WithQueueSize(cfg.QueueSize),
		app.WithExcludedKeys(cfg.ExcludedKeys),
	}
	if name == "" {
		name = cfg.DefaultMacroName
	}
	opts = append(opts, app.WithDefaultName(name))
	return app.New(opts...)
}

// runRecord captures input until the context is cancelled or the
// optional duration elapses, then saves the macro.
func runRecord(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("record", flag.ExitOnError)
	out := fs.String("out", "", "output macro file (required)")
	name := fs.String("name", "", "macro name")
	duration := fs.Duration("duration", 0, "stop automatically after this long (0 = until signal)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *out == "" {
		return fmt.Errorf("record: -out is required")
	}

	engine := newEngine(cfg, *name)

	if err := engine.BeginRecording(ctx); err != nil {
		return fmt.Errorf("record: %w", err)
	}

	fmt.Println("recording... press Ctrl+C to stop")

	if *duration > 0 {
		select {
		case <-ctx.Done():
		case <-time.After(*duration):
		}
	} else {
		<-ctx.Done()
	}

	// The root context is cancelled by now; finalize on a fresh one.
	stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	macro, err := engine.EndRecording(stopCtx)
	if err != nil {
		return fmt.Errorf("record: %w", err)
	}

	if err := engine.SaveMacro(stopCtx, macro, *out); err != nil {
		return fmt.Errorf("record: %w", err)
	}

	fmt.Printf("saved %q: %d events, %.2fs\n", *out, len(macro.Events), macro.Duration())
	return nil
}

// runPlay loads a macro and replays it until done or interrupted.
func runPlay(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	loop := fs.Int("loop", cfg.DefaultLoopCount, "pass count (0 = loop until signal)")
	wait := fs.Duration("wait", 0, "delay before playback starts")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("play: exactly one macro file expected")
	}

	engine := newEngine(cfg, "")

	macro, err := engine.LoadMacro(ctx, fs.Arg(0))
	if err != nil {
		return fmt.Errorf("play: %w", err)
	}

	if *wait > 0 {
		fmt.Printf("starting in %s...\n", *wait)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(*wait):
		}
	}

	if err := engine.BeginPlayback(ctx, macro, *loop); err != nil {
		return fmt.Errorf("play: %w", err)
	}

	fmt.Printf("playing %q (%d events)... press Ctrl+C to stop\n", macro.Name, len(macro.Events))

	select {
	case <-ctx.Done():
		if err := engine.EndPlayback(); err != nil {
			return fmt.Errorf("play: %w", err)
		}
		fmt.Println("stopped")
		return nil
	case <-engine.PlaybackDone():
		if err := engine.PlaybackErr(); err != nil {
			return fmt.Errorf("play: %w", err)
		}
		fmt.Println("done")
		return nil
	}
}

// runInspect prints a macro summary without replaying it.
func runInspect(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("inspect: exactly one macro file expected")
	}

	store := repository.NewFileStore()
	macro, err := store.Load(ctx, fs.Arg(0))
	if err != nil {
		return fmt.Errorf("inspect: %w", err)
	}

	fmt.Printf("name:       %s\n", macro.Name)
	fmt.Printf("created_at: %s\n", macro.CreatedAt.Format(time.RFC3339))
	fmt.Printf("events:     %d\n", len(macro.Events))
	fmt.Printf("duration:   %.2fs\n", macro.Duration())

	counts := make(map[string]int)
	for _, ev := range macro.Events {
		counts[string(ev.Payload.Kind())]++
	}
	for kind, n := range counts {
		fmt.Printf("  %-13s %d\n", kind, n)
	}
	return nil
}

// runGen writes a synthetic macro for exercising playback and storage.
func runGen(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("gen", flag.ExitOnError)
	out := fs.String("out", "", "output macro file (required)")
	name := fs.String("name", "Synthetic Macro", "macro name")
	moves := fs.Int("moves", 50, "mouse move samples")
	scrolls := fs.Int("scrolls", 4, "wheel steps")
	text := fs.String("text", "", "text typed as key events")
	cadence := fs.Duration("cadence", 10*time.Millisecond, "gap between events")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *out == "" {
		return fmt.Errorf("gen: -out is required")
	}

	macro, err := genmacro.Generate(genmacro.Config{
		Name:    *name,
		Moves:   *moves,
		Scrolls: *scrolls,
		Text:    *text,
		Cadence: *cadence,
	})
	if err != nil {
		return fmt.Errorf("gen: %w", err)
	}

	store := repository.NewFileStore()
	if err := store.Save(ctx, macro, *out); err != nil {
		return fmt.Errorf("gen: %w", err)
	}

	fmt.Printf("wrote %q: %d events, %.2fs\n", *out, len(macro.Events), macro.Duration())
	return nil
}
