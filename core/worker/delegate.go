package worker

import (
	"fmt"
	"reflect"

	"github.com/lustrousgorilla/cachex/internal/reflector"
)

// DeliveryMode selects which handler tables a delegation registers into.
type DeliveryMode uint8

const (
	DeliverCall DeliveryMode = 1 << iota
	DeliverCast
)

// Delegation declares that invoking the worker via Name should route to an
// existing state-transforming operation Op, exposing it as a call and/or cast
// handler without duplicating logic.
//
// Op must be a non-variadic function returning (Outcome[S], error). With
// WithState set, Op's first parameter receives the worker's current state and
// is stripped from the caller-visible argument list; the flag is explicit and
// never inferred from parameter names.
type Delegation struct {
	Name      string
	Op        any
	Modes     DeliveryMode
	WithState bool
}

// Delegate expands a [Delegation] into call and/or cast handler entries whose
// body re-invokes Op with the state-included argument list and folds its
// result through the normal [Outcome] classification. Invalid delegations
// (non-func Op, wrong result types, state parameter mismatch, colliding
// dispatch keys) fail behavior construction.
func Delegate[S any](d Delegation) Registration[S] {
	return func(b *Behavior[S]) error {
		if d.Name == "" {
			return fmt.Errorf("delegate: name required")
		}
		if d.Modes == 0 {
			return fmt.Errorf("delegate %s: no delivery modes", d.Name)
		}

		fi, err := reflector.FuncInfoOf(d.Op)
		if err != nil {
			return fmt.Errorf("delegate %s: %w", d.Name, err)
		}
		ft := fi.Type
		if ft.IsVariadic() {
			return fmt.Errorf("delegate %s: variadic operations are not supported", d.Name)
		}

		outcomeType := reflect.TypeOf(Outcome[S]{})
		errType := reflect.TypeOf((*error)(nil)).Elem()
		if ft.NumOut() != 2 || ft.Out(0) != outcomeType || ft.Out(1) != errType {
			return fmt.Errorf("delegate %s: operation must return (%s, error), got %s", d.Name, outcomeType, ft)
		}

		stateType := reflect.TypeOf((*S)(nil)).Elem()
		offset := 0
		if d.WithState {
			if ft.NumIn() == 0 || !stateType.AssignableTo(ft.In(0)) {
				return fmt.Errorf("delegate %s: first parameter must accept the state (%s), got %s", d.Name, stateType, ft)
			}
			offset = 1
		}
		arity := ft.NumIn() - offset

		h := delegateHandler[S](d, fi.Value, ft, offset)

		if d.Modes&DeliverCall != 0 {
			if err := b.registerCall(d.Name, arity, h); err != nil {
				return err
			}
		}
		if d.Modes&DeliverCast != 0 {
			if err := b.registerCast(d.Name, arity, h); err != nil {
				return err
			}
		}
		return nil
	}
}

func delegateHandler[S any](d Delegation, fv reflect.Value, ft reflect.Type, offset int) Handler[S] {
	return func(args []any, state S) (Outcome[S], error) {
		in := make([]reflect.Value, 0, ft.NumIn())
		if offset == 1 {
			// Addressable copy keeps the static type S even when the
			// dynamic value is nil.
			in = append(in, reflect.ValueOf(&state).Elem())
		}
		for i, a := range args {
			pt := ft.In(offset + i)
			if a == nil {
				in = append(in, reflect.Zero(pt))
				continue
			}
			av := reflect.ValueOf(a)
			if !av.Type().AssignableTo(pt) {
				return Outcome[S]{}, fmt.Errorf("delegate %s: argument %d: %s is not assignable to %s", d.Name, i, av.Type(), pt)
			}
			in = append(in, av)
		}

		res := fv.Call(in)
		out := res[0].Interface().(Outcome[S])
		if e := res[1].Interface(); e != nil {
			return out, e.(error)
		}
		return out, nil
	}
}
