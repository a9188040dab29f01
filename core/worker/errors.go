package worker

import (
	"errors"
	"fmt"

	"github.com/lustrousgorilla/cachex/internal/reflector"
)

// ErrStopped is returned when sending to a worker that has stopped, and to
// callers whose queued calls were abandoned by a crashing worker.
var ErrStopped = errors.New("worker stopped")

// DuplicateHandlerError is a definition-time error: two handlers were
// registered for the same (name, arity) within one delivery mode, or two info
// handlers for the same payload type.
type DuplicateHandlerError struct {
	Mode  Mode
	Name  string
	Arity int
}

func (e *DuplicateHandlerError) Error() string {
	if e.Mode == ModeInfo {
		return fmt.Sprintf("duplicate info handler for payload type %s", e.Name)
	}
	return fmt.Sprintf("duplicate %s handler for %s/%d", e.Mode, e.Name, e.Arity)
}

// UnhandledCallError fails a call for which no (name, arity) handler exists.
// State carries a snapshot of the worker's state at dispatch time for
// diagnostics; the worker itself keeps running, state unchanged.
type UnhandledCallError struct {
	Name  string
	Arity int
	State any
}

func (e *UnhandledCallError) Error() string {
	return fmt.Sprintf("unhandled call %s/%d (state: %+v)", e.Name, e.Arity, e.State)
}

// UnhandledCastError is reported to the fault collaborator when a cast has no
// matching handler. The sender has already returned and never observes it.
type UnhandledCastError struct {
	Name  string
	Arity int
}

func (e *UnhandledCastError) Error() string {
	return fmt.Sprintf("unhandled cast %s/%d", e.Name, e.Arity)
}

// UnhandledInfoError is reported to the fault collaborator when an info
// payload matches no registered payload type.
type UnhandledInfoError struct {
	Payload any
}

func (e *UnhandledInfoError) Error() string {
	return fmt.Sprintf("unhandled info message %s (%+v)", reflector.TypeInfoOf(e.Payload).Name, e.Payload)
}

// CallTimeoutError fails a caller whose context expired before the reply
// arrived. The in-flight handler is not preempted: it runs to completion and
// its state transition applies, only the result is discarded.
type CallTimeoutError struct {
	Name  string
	Arity int
	Err   error
}

func (e *CallTimeoutError) Error() string {
	return fmt.Sprintf("call %s/%d timed out: %v", e.Name, e.Arity, e.Err)
}

func (e *CallTimeoutError) Unwrap() error { return e.Err }

// ExecutionFault wraps a fault raised inside a handler: either a returned
// error (Err) or a recovered panic (Recovered, with Stack). It propagates to
// the worker's fault boundary and stops the worker.
type ExecutionFault struct {
	Mode      Mode
	Name      string
	Err       error
	Recovered any
	Stack     []byte
}

func (e *ExecutionFault) Error() string {
	if e.Recovered != nil {
		return fmt.Sprintf("%s handler %s panicked: %v", e.Mode, e.Name, e.Recovered)
	}
	return fmt.Sprintf("%s handler %s failed: %v", e.Mode, e.Name, e.Err)
}

func (e *ExecutionFault) Unwrap() error { return e.Err }
