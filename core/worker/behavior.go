package worker

import (
	"fmt"
	"reflect"
)

// Mode identifies a message delivery mode.
type Mode string

const (
	ModeCall Mode = "call"
	ModeCast Mode = "cast"
	ModeInfo Mode = "info"
)

type handlerKey struct {
	name  string
	arity int
}

// Handler processes a call or cast: it receives the message arguments and the
// worker's current state and produces the next state (and, for calls, a
// reply) as an [Outcome]. A non-nil error is an execution fault, not a reply.
type Handler[S any] func(args []any, state S) (Outcome[S], error)

// InfoHandler processes an out-of-band info payload.
type InfoHandler[S any] func(payload any, state S) (Outcome[S], error)

// Behavior is the immutable definition of a worker type: its call and cast
// tables keyed by (name, arity) and its info table keyed by payload type.
// Behaviors are built once by [NewBehavior] and may be shared by any number
// of workers concurrently.
type Behavior[S any] struct {
	calls map[handlerKey]Handler[S]
	casts map[handlerKey]Handler[S]
	infos map[reflect.Type]InfoHandler[S]
}

// Registration adds handlers to a behavior under construction. Create
// registrations with [OnCall], [OnCast], [OnInfo] and [Delegate].
type Registration[S any] func(b *Behavior[S]) error

// NewBehavior builds a behavior from the given registrations. Any duplicate
// (name, arity) within a delivery mode fails with [DuplicateHandlerError],
// regardless of registration order.
func NewBehavior[S any](regs ...Registration[S]) (*Behavior[S], error) {
	b := &Behavior[S]{
		calls: make(map[handlerKey]Handler[S]),
		casts: make(map[handlerKey]Handler[S]),
		infos: make(map[reflect.Type]InfoHandler[S]),
	}
	for _, reg := range regs {
		if err := reg(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// OnCall registers a call handler for (name, arity). Arity is part of the
// dispatch key: the same name may be registered at several arities.
func OnCall[S any](name string, arity int, h Handler[S]) Registration[S] {
	return func(b *Behavior[S]) error {
		return b.registerCall(name, arity, h)
	}
}

// OnCast registers a cast handler for (name, arity). The handler's reply, if
// any, is discarded.
func OnCast[S any](name string, arity int, h Handler[S]) Registration[S] {
	return func(b *Behavior[S]) error {
		return b.registerCast(name, arity, h)
	}
}

// OnInfo registers a handler for info payloads of type P. Info messages are
// dispatched by the payload's dynamic type alone.
func OnInfo[P any, S any](h func(payload P, state S) (Outcome[S], error)) Registration[S] {
	return func(b *Behavior[S]) error {
		t := reflect.TypeOf((*P)(nil)).Elem()
		if h == nil {
			return fmt.Errorf("register info %s: nil handler", t)
		}
		if _, dup := b.infos[t]; dup {
			return &DuplicateHandlerError{Mode: ModeInfo, Name: t.String()}
		}
		b.infos[t] = func(payload any, state S) (Outcome[S], error) {
			return h(payload.(P), state)
		}
		return nil
	}
}

func (b *Behavior[S]) registerCall(name string, arity int, h Handler[S]) error {
	return register(b.calls, ModeCall, name, arity, h)
}

func (b *Behavior[S]) registerCast(name string, arity int, h Handler[S]) error {
	return register(b.casts, ModeCast, name, arity, h)
}

func register[S any](table map[handlerKey]Handler[S], mode Mode, name string, arity int, h Handler[S]) error {
	if name == "" {
		return fmt.Errorf("register %s: name required", mode)
	}
	if arity < 0 {
		return fmt.Errorf("register %s %s: negative arity %d", mode, name, arity)
	}
	if h == nil {
		return fmt.Errorf("register %s %s/%d: nil handler", mode, name, arity)
	}
	k := handlerKey{name: name, arity: arity}
	if _, dup := table[k]; dup {
		return &DuplicateHandlerError{Mode: mode, Name: name, Arity: arity}
	}
	table[k] = h
	return nil
}
