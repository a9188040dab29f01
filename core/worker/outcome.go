package worker

type outcomeKind int

const (
	outcomeInvalid outcomeKind = iota
	outcomeReply
	outcomeNoReply
)

// Outcome is a handler's classified return value: the worker's next state
// plus, optionally, a reply for the caller. Construct outcomes only via
// [Reply] or [NoReply]; the zero Outcome is an implementer error and is
// treated as an execution fault at dispatch.
type Outcome[S any] struct {
	kind   outcomeKind
	result any
	state  S
}

// Reply produces an outcome that transitions the worker to next and answers
// the caller with result. For casts and infos the result is discarded.
func Reply[S any](result any, next S) Outcome[S] {
	return Outcome[S]{kind: outcomeReply, result: result, state: next}
}

// NoReply produces an outcome that transitions the worker to next without an
// explicit reply. A call served by such an outcome still releases its caller,
// replying with [Void].
func NoReply[S any](next S) Outcome[S] {
	return Outcome[S]{kind: outcomeNoReply, state: next}
}

// Void is the reply a caller receives when the handler declared no explicit
// reply value.
type Void struct{}

// HasReply reports whether the outcome carries an explicit reply.
func (o Outcome[S]) HasReply() bool { return o.kind == outcomeReply }

// Result returns the reply payload, or [Void] for no-reply outcomes.
func (o Outcome[S]) Result() any {
	if o.kind == outcomeReply {
		return o.result
	}
	return Void{}
}

// State returns the next state carried by the outcome.
func (o Outcome[S]) State() S { return o.state }
