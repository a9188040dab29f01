package reflector

import (
	"fmt"
	"reflect"
	"runtime"
)

// FuncInfo describes a function value for reflective invocation.
type FuncInfo struct {
	Name  string
	Value reflect.Value
	Type  reflect.Type
}

// FuncInfoOf inspects f, which must be a non-nil func value.
func FuncInfoOf(f any) (FuncInfo, error) {
	v := reflect.ValueOf(f)
	if !v.IsValid() || v.Kind() != reflect.Func {
		return FuncInfo{}, fmt.Errorf("not a function: %T", f)
	}
	if v.IsNil() {
		return FuncInfo{}, fmt.Errorf("nil function")
	}

	name := ""
	if fn := runtime.FuncForPC(v.Pointer()); fn != nil {
		name = fn.Name()
	}

	return FuncInfo{
		Name:  name,
		Value: v,
		Type:  v.Type(),
	}, nil
}
