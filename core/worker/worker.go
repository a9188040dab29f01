package worker

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"runtime/debug"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/lustrousgorilla/cachex/internal/reflector"
)

// Options configures a worker instance.
type Options struct {
	// ID identifies the instance in logs and metrics. Defaults to a nanoid.
	ID          string
	MailboxSize int
	Context     context.Context
	Logger      *slog.Logger
	Metrics     WorkerMetrics
	// OnFault receives faults that have no caller to report to: unhandled
	// casts/infos and execution faults. Defaults to logging via Logger.
	OnFault func(err error)
}

// Worker is one running instance: private state, a serialized mailbox, and a
// single goroutine executing handlers strictly in arrival order.
type Worker[S any] struct {
	id       string
	ctx      context.Context
	log      *slog.Logger
	metrics  WorkerMetrics
	behavior *Behavior[S]
	onFault  func(err error)

	mailbox chan envelope

	stop chan struct{}
	done chan struct{}

	mu     sync.Mutex
	closed bool
}

type envelope struct {
	mode    Mode
	name    string
	args    []any
	payload any
	reply   chan reply // nil for casts and infos
}

type reply struct {
	result any
	err    error
}

// Start creates a worker running behavior b over the initial state and begins
// processing its mailbox.
func Start[S any](opts Options, b *Behavior[S], initial S) *Worker[S] {
	if opts.ID == "" {
		opts.ID = gonanoid.Must()
	}
	if opts.MailboxSize == 0 {
		opts.MailboxSize = 1024
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = NopWorkerMetrics()
	}

	log := opts.Logger.With(slog.String("worker", opts.ID))
	if opts.OnFault == nil {
		opts.OnFault = func(err error) {
			log.Error("worker fault", slog.Any("error", err))
		}
	}

	w := &Worker[S]{
		id:       opts.ID,
		ctx:      opts.Context,
		log:      log,
		metrics:  opts.Metrics,
		behavior: b,
		onFault:  opts.OnFault,
		mailbox:  make(chan envelope, opts.MailboxSize),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	go w.run(initial)
	return w
}

// ID returns the instance identifier.
func (w *Worker[S]) ID() string { return w.id }

// Done is closed when the worker stops, whether by Stop, context
// cancellation, or a handler fault.
func (w *Worker[S]) Done() <-chan struct{} { return w.done }

// Stop requests shutdown and waits for completion. Idempotent.
func (w *Worker[S]) Stop() {
	w.shutdown()
	<-w.done
}

// Call sends a synchronous message and blocks until the handler replies or
// ctx expires. A handler with no explicit reply answers [Void]. On timeout
// the handler is not preempted: it runs to completion and its state
// transition applies, only the result is discarded.
func (w *Worker[S]) Call(ctx context.Context, name string, args ...any) (any, error) {
	replyCh := make(chan reply, 1)
	env := envelope{mode: ModeCall, name: name, args: args, reply: replyCh}
	if err := w.enqueue(ctx, env); err != nil {
		return nil, err
	}

	select {
	case <-ctx.Done():
		return nil, &CallTimeoutError{Name: name, Arity: len(args), Err: ctx.Err()}
	case r := <-replyCh:
		return r.result, r.err
	case <-w.done:
		// The worker may have replied just before stopping.
		select {
		case r := <-replyCh:
			return r.result, r.err
		default:
			return nil, ErrStopped
		}
	}
}

// Cast sends an asynchronous message: it returns once the message is
// enqueued, never waiting for execution. A missing handler is reported to
// Options.OnFault, not to the caller.
func (w *Worker[S]) Cast(ctx context.Context, name string, args ...any) error {
	return w.enqueue(ctx, envelope{mode: ModeCast, name: name, args: args})
}

// Notify sends an out-of-band info payload, dispatched by its dynamic type.
func (w *Worker[S]) Notify(ctx context.Context, payload any) error {
	return w.enqueue(ctx, envelope{mode: ModeInfo, payload: payload})
}

// SendAfter delivers payload as an info message after d. The returned cancel
// reports whether delivery was averted.
func (w *Worker[S]) SendAfter(d time.Duration, payload any) (cancel func() bool) {
	t := time.AfterFunc(d, func() {
		if err := w.Notify(w.ctx, payload); err != nil {
			w.log.Warn("timed message dropped", slog.Any("error", err))
		}
	})
	return t.Stop
}

// SendEvery delivers payload as an info message every interval until the
// returned stop function is called or the worker stops.
func (w *Worker[S]) SendEvery(interval time.Duration, payload any) (stop func()) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		tick := time.NewTicker(interval)
		defer tick.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-w.done:
				return
			case <-tick.C:
				if err := w.Notify(ctx, payload); err != nil {
					w.log.Warn("tick dropped", slog.Any("error", err))
					return
				}
			}
		}
	}()
	return cancel
}

// ---- internals ----

func (w *Worker[S]) isClosed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

func (w *Worker[S]) shutdown() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	close(w.stop)
}

func (w *Worker[S]) enqueue(ctx context.Context, env envelope) error {
	if w.isClosed() {
		return ErrStopped
	}
	select {
	case <-ctx.Done():
		return fmt.Errorf("send failed: %w", ctx.Err())
	case <-w.stop:
		return ErrStopped
	case w.mailbox <- env:
		w.metrics.MailboxDepth(w.id, len(w.mailbox))
		return nil
	}
}

func (w *Worker[S]) run(state S) {
	defer close(w.done)
	defer w.drain()
	defer w.shutdown()

	for {
		select {
		case <-w.stop:
			return
		case <-w.ctx.Done():
			return
		case env := <-w.mailbox:
			w.metrics.MailboxDepth(w.id, len(w.mailbox))
			next, fault := w.dispatch(env, state)
			if fault != nil {
				w.onFault(fault)
				return
			}
			state = next
		}
	}
}

// drain releases callers whose messages were still queued when the worker
// stopped.
func (w *Worker[S]) drain() {
	for {
		select {
		case env := <-w.mailbox:
			if env.reply != nil {
				env.reply <- reply{err: ErrStopped}
			}
		default:
			return
		}
	}
}

// dispatch executes one message. A non-nil fault stops the worker; unhandled
// messages are not faults of the instance and leave state unchanged.
func (w *Worker[S]) dispatch(env envelope, state S) (S, error) {
	switch env.mode {
	case ModeCall:
		h, ok := w.behavior.calls[handlerKey{name: env.name, arity: len(env.args)}]
		if !ok {
			w.metrics.Unhandled(ModeCall, env.name)
			env.reply <- reply{err: &UnhandledCallError{Name: env.name, Arity: len(env.args), State: state}}
			return state, nil
		}
		out, fault := w.invoke(ModeCall, env.name, env.args, state, h)
		if fault != nil {
			env.reply <- reply{err: fault}
			return state, fault
		}
		env.reply <- reply{result: out.Result()}
		return out.State(), nil

	case ModeCast:
		h, ok := w.behavior.casts[handlerKey{name: env.name, arity: len(env.args)}]
		if !ok {
			w.metrics.Unhandled(ModeCast, env.name)
			w.onFault(&UnhandledCastError{Name: env.name, Arity: len(env.args)})
			return state, nil
		}
		out, fault := w.invoke(ModeCast, env.name, env.args, state, h)
		if fault != nil {
			return state, fault
		}
		return out.State(), nil

	case ModeInfo:
		name := reflector.TypeInfoOf(env.payload).Name
		h, ok := w.behavior.infos[reflect.TypeOf(env.payload)]
		if !ok {
			w.metrics.Unhandled(ModeInfo, name)
			w.onFault(&UnhandledInfoError{Payload: env.payload})
			return state, nil
		}
		out, fault := w.invoke(ModeInfo, name, nil, state, func(_ []any, s S) (Outcome[S], error) {
			return h(env.payload, s)
		})
		if fault != nil {
			return state, fault
		}
		return out.State(), nil
	}

	return state, fmt.Errorf("unknown message mode %q", env.mode)
}

// invoke runs a handler with crash containment, metrics, and outcome
// validation. The returned error, if any, is an *ExecutionFault.
func (w *Worker[S]) invoke(mode Mode, name string, args []any, state S, h Handler[S]) (out Outcome[S], fault error) {
	timer := w.metrics.MessageDuration(mode, name)
	defer timer.ObserveDuration()

	defer func() {
		if r := recover(); r != nil {
			w.metrics.MessagePanic(mode, name)
			w.metrics.MessageProcessed(mode, name, false)
			fault = &ExecutionFault{Mode: mode, Name: name, Recovered: r, Stack: debug.Stack()}
		}
	}()

	o, err := h(args, state)
	if err != nil {
		w.metrics.MessageProcessed(mode, name, false)
		return o, &ExecutionFault{Mode: mode, Name: name, Err: err}
	}
	if o.kind == outcomeInvalid {
		w.metrics.MessageProcessed(mode, name, false)
		return o, &ExecutionFault{Mode: mode, Name: name, Err: fmt.Errorf("handler returned a zero Outcome; use Reply or NoReply")}
	}

	w.metrics.MessageProcessed(mode, name, true)
	return o, nil
}
