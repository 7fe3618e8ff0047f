package runtime

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/vcommit/internal/errors"
	"github.com/vango-dev/vcommit/pkg/commit"
	"github.com/vango-dev/vcommit/pkg/dom"
	"github.com/vango-dev/vcommit/pkg/vdom"
)

// Runtime drives commit passes against one container node. It is the
// vdom.Context handed to components and collects the effects and structural
// errors of each pass.
//
// Commit must not be called concurrently. RequestUpdate is safe to call from
// any goroutine.
type Runtime struct {
	doc       *dom.Document
	container *dom.Node
	logger    *slog.Logger
	metrics   *Metrics
	tracer    trace.Tracer

	// Per-pass state
	running bool
	effects []func()
	errs    []error
	pass    uint64

	mu         sync.Mutex
	pending    []*vdom.VNode
	pendingSet map[*vdom.VNode]struct{}
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) {
		r.logger = logger
	}
}

// WithMetrics records every pass into m.
func WithMetrics(m *Metrics) Option {
	return func(r *Runtime) {
		r.metrics = m
	}
}

// WithTracer sets the tracer used for pass spans. Default: the global
// OpenTelemetry provider's "vcommit" tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(r *Runtime) {
		r.tracer = tracer
	}
}

// Result describes one commit pass.
type Result struct {
	// Pass is the 1-based sequence number of the pass on its runtime.
	Pass uint64

	// Mutations is the document journal recorded during the pass.
	Mutations []dom.Mutation

	// Tasks is the number of commit tasks drained.
	Tasks int

	// Effects is the number of lifecycle effects run after the walk.
	Effects int

	// Errors are the structural errors reported by the walk.
	Errors []error

	// Duration is the wall time of the pass, effects included.
	Duration time.Duration
}

// OK reports whether the pass completed without structural errors.
func (res *Result) OK() bool {
	return len(res.Errors) == 0
}

// New creates a Runtime that mounts trees into container.
func New(container *dom.Node, opts ...Option) *Runtime {
	r := &Runtime{
		doc:        container.Document(),
		container:  container,
		pendingSet: make(map[*vdom.VNode]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.tracer == nil {
		r.tracer = defaultTracer()
	}
	return r
}

// Document implements commit.Documenter.
func (r *Runtime) Document() *dom.Document {
	return r.doc
}

// Container returns the node trees are mounted into.
func (r *Runtime) Container() *dom.Node {
	return r.container
}

// HTML renders the container's children.
func (r *Runtime) HTML() string {
	return r.container.InnerHTML()
}

// Passes returns how many passes have run.
func (r *Runtime) Passes() uint64 {
	return r.pass
}

// RequestUpdate implements vdom.Context. Requests are deduplicated until
// the next Pending call.
func (r *Runtime) RequestUpdate(node *vdom.VNode) {
	if node == nil {
		return
	}
	r.mu.Lock()
	if _, ok := r.pendingSet[node]; !ok {
		r.pendingSet[node] = struct{}{}
		r.pending = append(r.pending, node)
	}
	n := len(r.pending)
	r.mu.Unlock()

	r.metrics.setPending(n)
	r.logger.Debug("update requested", "node", node.String())
}

// QueueEffect implements vdom.Context. Effects run in queue order once the
// current pass has been drained.
func (r *Runtime) QueueEffect(fn func()) {
	r.effects = append(r.effects, fn)
}

// ReportError implements commit.Reporter.
func (r *Runtime) ReportError(err error) {
	r.errs = append(r.errs, err)
	r.metrics.recordError(err)
	r.logger.Warn("commit structural error", "error", err)
}

// Pending returns the nodes whose update was requested since the last call,
// in request order, and clears the set.
func (r *Runtime) Pending() []*vdom.VNode {
	r.mu.Lock()
	out := r.pending
	r.pending = nil
	clear(r.pendingSet)
	r.mu.Unlock()

	r.metrics.setPending(0)
	return out
}

// Commit runs one commit pass: the deletions are swept first, then root is
// committed into the container, then the queued lifecycle effects run in
// order. ctx is only consulted before the pass starts; a started pass always
// runs to completion. Panics from lifecycle callbacks propagate.
func (r *Runtime) Commit(ctx context.Context, root *vdom.VNode, deletions ...*vdom.VNode) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.New("E103").Wrap(err)
	}
	if r.running {
		return nil, errors.New("E104")
	}
	r.running = true
	defer func() { r.running = false }()

	r.pass++
	if stray := r.doc.TakeRecords(); len(stray) > 0 {
		r.logger.Debug("discarding mutations made outside a pass", "count", len(stray))
	}

	_, span := r.startPass(ctx, r.pass, len(deletions))
	start := time.Now()
	res := &Result{Pass: r.pass}

	for _, d := range deletions {
		if d == nil {
			continue
		}
		res.Tasks += commit.Drain(r, commit.CommitDeletion(d))
	}
	if root != nil {
		res.Tasks += commit.Drain(r, commit.CommitWork(r, root, r.container, nil))
	}

	res.Effects = r.runEffects()
	res.Mutations = r.doc.TakeRecords()
	res.Errors = r.errs
	r.errs = nil
	res.Duration = time.Since(start)

	r.metrics.recordPass(res)
	endPass(span, res)
	r.logger.Debug("commit pass",
		"pass", res.Pass,
		"mutations", len(res.Mutations),
		"tasks", res.Tasks,
		"effects", res.Effects,
		"errors", len(res.Errors),
		"duration", res.Duration,
	)
	return res, nil
}

// runEffects drains the effect queue, including effects queued by effects.
func (r *Runtime) runEffects() int {
	ran := 0
	for len(r.effects) > 0 {
		fn := r.effects[0]
		r.effects = r.effects[1:]
		fn()
		ran++
	}
	r.effects = nil
	return ran
}
