package scenario

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/vango-dev/vcommit/internal/errors"
	"github.com/vango-dev/vcommit/pkg/dom"
	"github.com/vango-dev/vcommit/pkg/protocol"
	"github.com/vango-dev/vcommit/pkg/runtime"
	"github.com/vango-dev/vcommit/pkg/vdom"
)

// PassResult is the outcome of one scenario pass.
type PassResult struct {
	Name      string         `json:"name,omitempty"`
	Pass      uint64         `json:"pass"`
	HTML      string         `json:"html"`
	Mutations []dom.Mutation `json:"mutations"`
	Log       []string       `json:"log,omitempty"`
	Errors    []string       `json:"errors,omitempty"`
	Pending   []string       `json:"pending,omitempty"`
	Tasks     int            `json:"tasks"`
	Effects   int            `json:"effects"`
	Duration  time.Duration  `json:"duration"`

	errs []error
}

// Frames returns the wire frames describing the pass.
func (pr *PassResult) Frames(flags protocol.FrameFlags) []*protocol.Frame {
	return protocol.PassFrames(pr.Pass, pr.Mutations, pr.errs, pr.HTML, flags)
}

// Result is the outcome of a scenario run.
type Result struct {
	Name   string        `json:"name"`
	Passes []*PassResult `json:"passes"`
}

// OK reports whether every pass completed without structural errors.
func (r *Result) OK() bool {
	for _, p := range r.Passes {
		if len(p.Errors) > 0 {
			return false
		}
	}
	return true
}

// WriteJournal writes the frames of every pass to w.
func (r *Result) WriteJournal(w io.Writer) error {
	for _, p := range r.Passes {
		for _, f := range p.Frames(0) {
			if err := protocol.WriteFrame(w, f); err != nil {
				return err
			}
		}
	}
	return nil
}

// Runner replays scenarios through a commit runtime.
type Runner struct {
	logger      *slog.Logger
	runtimeOpts []runtime.Option
	doc         *dom.Document
	containerID string
	observer    func(*PassResult)
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithRuntimeOptions passes options to the runtime created for each run.
func WithRuntimeOptions(opts ...runtime.Option) Option {
	return func(r *Runner) {
		r.runtimeOpts = append(r.runtimeOpts, opts...)
	}
}

// WithDocument sets the base document trees mount into. Each run gets a
// fresh empty document by default.
func WithDocument(doc *dom.Document) Option {
	return func(r *Runner) {
		r.doc = doc
	}
}

// WithContainer mounts trees into the element with the given id instead of
// the body.
func WithContainer(id string) Option {
	return func(r *Runner) {
		r.containerID = id
	}
}

// WithObserver calls fn after every pass.
func WithObserver(fn func(*PassResult)) Option {
	return func(r *Runner) {
		r.observer = fn
	}
}

// NewRunner creates a Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Run commits every pass of sc in order. On error the passes completed so
// far are returned with it.
func (r *Runner) Run(ctx context.Context, sc *Scenario) (*Result, error) {
	doc := r.doc
	if doc == nil {
		doc = dom.NewDocument()
	}
	container := doc.Body()
	if r.containerID != "" {
		container = doc.GetElementByID(r.containerID)
		if container == nil {
			return nil, errors.New("E165").WithNode("#" + r.containerID)
		}
	}

	logger := r.logger.With("scenario", sc.Name)
	rt := runtime.New(container, append([]runtime.Option{runtime.WithLogger(logger)}, r.runtimeOpts...)...)

	var lines []string
	logf := func(format string, args ...any) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}
	b := newBuilder(rt, logf)

	result := &Result{Name: sc.Name}
	for i, p := range sc.Passes {
		lines = nil
		if err := r.setState(b, p); err != nil {
			return result, err
		}
		pl, err := b.build(p)
		if err != nil {
			return result, err
		}
		for _, fn := range pl.reprops {
			rt.QueueEffect(fn)
		}
		res, err := rt.Commit(ctx, pl.root, pl.deletions...)
		if err != nil {
			return result, err
		}
		b.commit(pl)
		if err := r.dispatch(b, p); err != nil {
			return result, err
		}

		pr := &PassResult{
			Name:      p.label(i),
			Pass:      res.Pass,
			HTML:      rt.HTML(),
			Mutations: res.Mutations,
			Log:       lines,
			Tasks:     res.Tasks,
			Effects:   res.Effects,
			Duration:  res.Duration,
			errs:      res.Errors,
		}
		for _, err := range res.Errors {
			pr.Errors = append(pr.Errors, err.Error())
		}
		for _, n := range rt.Pending() {
			pr.Pending = append(pr.Pending, b.idOf(n))
		}
		result.Passes = append(result.Passes, pr)

		logger.Info("pass committed",
			"pass", pr.Name,
			"mutations", len(pr.Mutations),
			"deletions", len(pl.deletions),
			"errors", len(pr.Errors),
		)
		if r.observer != nil {
			r.observer(pr)
		}
	}
	return result, nil
}

// setState applies state patches in id order. Every target is resolved
// before any state changes, so a bad id leaves all components untouched.
func (r *Runner) setState(b *builder, p *Pass) error {
	ids := slices.Sorted(maps.Keys(p.SetState))
	targets := make([]*vdom.VNode, len(ids))
	for i, id := range ids {
		n, err := b.lookup(id)
		if err != nil {
			return err
		}
		if n.Instance == nil {
			return errors.New("E161").WithNode(id).WithDetail("setState targets must be components.")
		}
		targets[i] = n
	}
	for i, n := range targets {
		patch := p.SetState[ids[i]]
		n.Instance.Base().SetState(func(s vdom.State) vdom.State {
			maps.Copy(s, patch)
			return s
		})
	}
	return nil
}

func (r *Runner) dispatch(b *builder, p *Pass) error {
	for _, d := range p.Dispatch {
		n, err := b.lookup(d.Target)
		if err != nil {
			return err
		}
		target := n.Dom
		if target == nil && n.Instance != nil {
			target = n.Instance.RootDom()
		}
		if target == nil {
			return errors.New("E163").WithNode(d.Target).WithDetail("The node has no committed dom to dispatch to.")
		}
		target.Dispatch(&dom.Event{Type: d.Type})
	}
	return nil
}
