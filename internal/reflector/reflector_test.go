package reflector

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

type testStruct struct{}

func TestTypeInfo(t *testing.T) {
	ti := TypeInfoOf(testStruct{})
	require.Equal(t, reflect.TypeOf(testStruct{}), ti.Type)
	require.Contains(t, ti.Name, "reflector.testStruct")

	// Pointer collapses to the element type.
	tp := TypeInfoOf(&testStruct{})
	require.Equal(t, ti.Name, tp.Name)
	require.Equal(t, ti.Type, tp.Type)

	require.Equal(t, ti, TypeInfoFor[testStruct]())
}

func TestFuncInfoOf(t *testing.T) {
	fi, err := FuncInfoOf(func(a int, b string) error { return nil })
	require.NoError(t, err)
	require.Equal(t, 2, fi.Type.NumIn())
	require.Equal(t, 1, fi.Type.NumOut())

	_, err = FuncInfoOf(42)
	require.ErrorContains(t, err, "not a function")

	var nilFn func()
	_, err = FuncInfoOf(nilFn)
	require.ErrorContains(t, err, "nil function")
}
