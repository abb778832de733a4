package mod

import (
	"fmt"
	"io/fs"

	"go.uber.org/zap"

	"redbirden/internal/glyph"
	"redbirden/internal/guest"
	"redbirden/internal/sched"
)

// MovementMode is the player avatar state forced by SetMovementMode.
type MovementMode int

const (
	OnFoot MovementMode = iota
	Mounted
)

// Flags returns the avatar flag word for m.
func (m MovementMode) Flags() uint32 {
	if m == Mounted {
		return 1 << 2 // mach bike
	}
	return 1 << 0
}

func (m MovementMode) String() string {
	if m == Mounted {
		return "Mounted"
	}
	return "OnFoot"
}

// Options configures an Engine.
type Options struct {
	FS          fs.FS  // where the payload lives; nil leaves the loader inert
	PayloadFile string // defaults to DefaultPayloadFile
	Logger      *zap.Logger
	Sink        sched.EventSink
}

// Engine is the per-guest context: patch table, scheduler and one-time state.
// It is not safe for concurrent use; every method must be called from the
// thread that steps frames.
type Engine struct {
	mem     guest.Memory
	fsys    fs.FS
	payload string
	log     *zap.Logger

	patches *PatchTable
	sched   *sched.Scheduler

	initialised bool
	report      BootstrapReport

	movement        MovementMode
	movementPending bool
}

// NewEngine binds an engine to mem. Nothing is written until the first Step.
func NewEngine(mem guest.Memory, opts Options) *Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	payload := opts.PayloadFile
	if payload == "" {
		payload = DefaultPayloadFile
	}

	s := sched.New(log.Named("sched"))
	s.SetSink(opts.Sink)

	return &Engine{
		mem:     mem,
		fsys:    opts.FS,
		payload: payload,
		log:     log,
		patches: NewPatchTable(),
		sched:   s,
	}
}

// Supported reports whether mem holds the supported guest revision.
func Supported(mem guest.Memory) bool {
	return mem.Read32(guest.IdentityAddr) == guest.IdentityValue
}

// Step runs one frame: identity gate, lazy bootstrap, patch re-application,
// pending avatar toggle, then one mailbox iteration. It reports whether the
// gate passed.
func (e *Engine) Step() bool {
	if !Supported(e.mem) {
		return false
	}

	e.Bootstrap()

	e.patches.Apply(e.mem)

	if e.movementPending {
		e.mem.Write32(guest.AvatarAddr, e.movement.Flags())
		e.movementPending = false
	}

	e.sched.Step(e.mem)
	return true
}

// Bootstrap installs the hooks and loads the payload. Only the first call on a
// supported guest does anything; later calls return the first report. On an
// unsupported guest it returns a zero report and leaves the engine ready to
// bootstrap later.
func (e *Engine) Bootstrap() BootstrapReport {
	if e.initialised {
		return e.report
	}
	if !Supported(e.mem) {
		return BootstrapReport{}
	}
	e.initialised = true

	e.report = Bootstrap(e.mem, e.patches, e.fsys, e.payload)

	res := e.report.Payload
	fields := []zap.Field{
		zap.String("file", e.payload),
		zap.Stringer("outcome", res.Outcome),
		zap.Int("patches", e.report.Patches),
	}
	switch res.Outcome {
	case PayloadLoaded:
		e.log.Info("mod payload loaded", append(fields,
			zap.String("entry", fmt.Sprintf("0x%08X", res.Entry)),
			zap.Int("half_words", res.HalfWords))...)
	default:
		e.log.Warn("mod payload inert", append(fields, zap.Error(res.Err))...)
	}
	return e.report
}

// Report returns the bootstrap report, zero until Bootstrap has run.
func (e *Engine) Report() BootstrapReport { return e.report }

// Initialised reports whether Bootstrap has run.
func (e *Engine) Initialised() bool { return e.initialised }

// EntryPoint returns the payload entry point, 0 until a payload header is read.
func (e *Engine) EntryPoint() uint32 { return e.report.Payload.Entry }

// EnqueueStatusAll queues a StatusAll task with flags.
func (e *Engine) EnqueueStatusAll(flags byte) { e.sched.EnqueueStatusAll(flags) }

// QueueWildOverride queues a forced encounter of species named name.
func (e *Engine) QueueWildOverride(species uint16, name glyph.Name) glyph.Result {
	r := e.sched.QueueWild(species, name)
	if n := r.Blanked(); n > 0 {
		e.log.Debug("name characters blanked", zap.Int("count", n))
	}
	return r
}

// ConsumeNextSpecies is called from the encounter hook; see
// sched.Scheduler.ConsumeNextSpecies.
func (e *Engine) ConsumeNextSpecies() uint16 { return e.sched.ConsumeNextSpecies() }

// SetMovementMode forces the avatar state on the next supported frame.
func (e *Engine) SetMovementMode(m MovementMode) {
	e.movement = m
	e.movementPending = true
}

// Scheduler exposes the mailbox scheduler.
func (e *Engine) Scheduler() *sched.Scheduler { return e.sched }

// Patches exposes the patch table.
func (e *Engine) Patches() *PatchTable { return e.patches }
