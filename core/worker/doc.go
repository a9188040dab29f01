// Package worker implements a single-threaded, mailbox-driven actor ("worker")
// that exclusively owns one unit of mutable state and dispatches messages to
// named handlers.
//
// Each worker:
//   - Owns its state: only the worker's own goroutine ever touches it
//   - Processes messages strictly in mailbox order, one at a time
//   - Routes calls and casts by (name, arity) and info messages by payload type
//   - Replies to calls according to a uniform [Outcome] convention
//
// # Defining Behaviors
//
// A [Behavior] is the immutable definition of a worker type, built once from
// registrations:
//
//	b, err := worker.NewBehavior(
//	    worker.OnCall("increment", 1, func(args []any, s Counter) (worker.Outcome[Counter], error) {
//	        n := args[0].(int)
//	        next := Counter{Count: s.Count + n}
//	        return worker.Reply(next.Count, next), nil
//	    }),
//	    worker.OnCast("reset", 0, func(args []any, s Counter) (worker.Outcome[Counter], error) {
//	        return worker.NoReply(Counter{}), nil
//	    }),
//	    worker.OnInfo(func(t FlushTick, s Counter) (worker.Outcome[Counter], error) {
//	        return worker.NoReply(s), nil
//	    }),
//	)
//
// Registering the same (name, arity) twice for one delivery mode fails with
// [DuplicateHandlerError]; dispatch is deterministic by construction.
//
// # Delegation
//
// [Delegate] exposes an existing state-transforming operation as a call
// and/or cast handler without duplicating logic:
//
//	worker.Delegate[*cache.State](worker.Delegation{
//	    Name:      "put",
//	    Op:        cache.Put, // func(*cache.State, string, any) (worker.Outcome[*cache.State], error)
//	    Modes:     worker.DeliverCall | worker.DeliverCast,
//	    WithState: true,
//	})
//
// With WithState set, the operation's leading state parameter is stripped
// from the caller-visible argument list: callers send only the remaining
// arguments and the worker threads its current state through.
//
// # Sending Messages
//
// [Worker.Call] blocks until the handler replies or ctx expires; a timed-out
// call returns [CallTimeoutError] while the handler still runs to completion
// and its state transition still applies. [Worker.Cast] returns once the
// message is enqueued. [Worker.Notify] enqueues an out-of-band info payload.
//
// # Faults
//
// A handler that returns a non-nil error or panics raises an
// [ExecutionFault]: the fault is reported to Options.OnFault, the in-flight
// caller observes it, and the worker stops. State is never the result of a
// partially applied transition. Unhandled calls fail the caller with
// [UnhandledCallError]; unhandled casts and infos are reported asynchronously
// via Options.OnFault and leave state untouched.
package worker
