package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.trai.ch/zerr"
	"go.uber.org/zap"

	"redbirden/internal/glyph"
	"redbirden/internal/guest"
	"redbirden/internal/job"
	"redbirden/internal/mod"
	"redbirden/internal/observability"
	"redbirden/internal/sched"
)

var (
	// ErrInvalidWild is returned when a --wild value is not species:name.
	ErrInvalidWild = zerr.New("invalid wild override, expected species:name")
	// ErrInvalidMovement is returned for an unknown --movement value.
	ErrInvalidMovement = zerr.New("invalid movement mode, expected foot or bike")
)

// RunOptions configures one simulated session.
type RunOptions struct {
	Frames         int
	Realtime       bool
	EncounterEvery int
	StatusAll      []uint
	Wilds          []string
	Movement       string
	Trace          bool
	ConfigDir      string
}

func (c *CLI) newRunCmd() *cobra.Command {
	var opts RunOptions
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Step the engine against a simulated guest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := sched.Load(c.configPath)
			if err != nil {
				return err
			}
			if opts.ConfigDir != "" {
				cfg.ConfigDir = opts.ConfigDir
			}
			return runSession(cmd.Context(), cfg, opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVarP(&opts.Frames, "frames", "n", 600, "Number of frames to run")
	cmd.Flags().BoolVar(&opts.Realtime, "realtime", false, "Pace frames with the configured frame period")
	cmd.Flags().IntVar(&opts.EncounterEvery, "encounter-every", 60, "Simulate a wild encounter every N frames (0 disables)")
	cmd.Flags().UintSliceVar(&opts.StatusAll, "status-all", nil, "Queue a StatusAll task with the given flags (repeatable)")
	cmd.Flags().StringArrayVar(&opts.Wilds, "wild", nil, "Queue a forced encounter as species:name (repeatable)")
	cmd.Flags().StringVar(&opts.Movement, "movement", "", "Force the avatar movement mode: foot or bike")
	cmd.Flags().BoolVar(&opts.Trace, "trace", false, "Print every scheduler event")
	cmd.Flags().StringVar(&opts.ConfigDir, "config-dir", "", "Directory holding the mod payload (overrides config)")
	return cmd
}

func parseWild(s string) (uint16, glyph.Name, error) {
	num, name, ok := strings.Cut(s, ":")
	if !ok || name == "" {
		return 0, glyph.Name{}, zerr.With(ErrInvalidWild, "value", s)
	}
	species, err := strconv.ParseUint(num, 10, 16)
	if err != nil || species == 0 {
		return 0, glyph.Name{}, zerr.With(ErrInvalidWild, "value", s)
	}
	return uint16(species), glyph.FromString(name), nil
}

func parseMovement(s string) (mod.MovementMode, bool, error) {
	switch strings.ToLower(s) {
	case "":
		return mod.OnFoot, false, nil
	case "foot", "walk":
		return mod.OnFoot, true, nil
	case "bike", "ride":
		return mod.Mounted, true, nil
	default:
		return mod.OnFoot, false, zerr.With(ErrInvalidMovement, "value", s)
	}
}

func runSession(ctx context.Context, cfg sched.Config, opts RunOptions, out io.Writer) error {
	log := observability.NewLogger(cfg.Log)
	defer func() { _ = log.Sync() }()

	var sinks sched.Tee
	if cfg.CSVPath != "" {
		csvSink, err := sched.NewCSVSink(cfg.CSVPath)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to open event log"), "path", cfg.CSVPath)
		}
		defer csvSink.Close()
		sinks = append(sinks, csvSink)
	}
	if opts.Trace {
		sinks = append(sinks, sched.TraceSink{W: out})
	}

	mem := guest.NewSupportedGuest()
	engine := mod.NewEngine(mem, mod.Options{
		FS:          os.DirFS(cfg.ConfigDir),
		PayloadFile: cfg.PayloadFile,
		Logger:      log,
		Sink:        sinks,
	})
	dispatcher := job.NewDispatcher(mem, cfg.GuestLatencyFrames, engine.ConsumeNextSpecies)

	for _, w := range opts.Wilds {
		species, name, err := parseWild(w)
		if err != nil {
			return err
		}
		engine.QueueWildOverride(species, name)
	}
	for _, flags := range opts.StatusAll {
		engine.EnqueueStatusAll(byte(flags))
	}
	mode, set, err := parseMovement(opts.Movement)
	if err != nil {
		return err
	}
	if set {
		engine.SetMovementMode(mode)
	}

	frame := func(n int) {
		dispatcher.Frame()
		engine.Step()
		if opts.EncounterEvery > 0 && n%opts.EncounterEvery == 0 {
			if species := dispatcher.Encounter(); species != 0 {
				log.Info("forced encounter", zap.Uint16("species", species), zap.Int("frame", n))
			}
		}
	}

	if opts.Realtime {
		clock := sched.NewFrameClock(1)
		clock.Start(time.Duration(cfg.FrameMS) * time.Millisecond)
		err := clock.Drive(ctx, opts.Frames, frame)
		clock.Stop()
		if dropped := clock.Dropped(); dropped > 0 {
			log.Warn("frames dropped", zap.Int64("dropped", dropped))
		}
		if err != nil {
			return err
		}
	} else {
		for n := 1; n <= opts.Frames; n++ {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			frame(n)
		}
	}

	payload := "NotRun"
	if engine.Initialised() {
		payload = engine.Report().Payload.Outcome.String()
	}
	fmt.Fprintf(out, "frames=%d executed=%d backlog=%d species=%v payload=%s entry=0x%08X\n",
		engine.Scheduler().Frame(),
		len(dispatcher.Executed),
		engine.Scheduler().Backlog(),
		dispatcher.Species,
		payload,
		engine.EntryPoint(),
	)
	return nil
}
