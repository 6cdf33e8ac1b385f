package tinyclj

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestException_ErrorForm(t *testing.T) {
	e := &Exception{Type: "TypeError", Message: "bad operand", File: "core.clj", Line: 3, Col: 7}
	assert.Equal(t, "TypeError: bad operand at core.clj:3:7", e.Error())
}

func TestProtect_NormalExit(t *testing.T) {
	mm := NewMemoryManager(nil)
	s := NewHandlerStack(mm)

	v, err := s.Protect(nil,
		func() (Value, error) { return Fixnum(42), nil },
		func(obj *ExceptionObj) (Value, error) {
			t.Fatal("handler must not run on normal exit")
			return Nil, nil
		})
	require.NoError(t, err)
	assert.Equal(t, int32(42), AsFixnum(v))
	assert.Equal(t, 0, s.Depth())
	assert.Equal(t, 0, mm.PoolDepth())
}

func TestProtect_CatchesThrow(t *testing.T) {
	mm := NewMemoryManager(nil)
	s := NewHandlerStack(mm)

	v, err := s.Protect(nil,
		func() (Value, error) {
			s.Throw("DivisionByZeroError", "divide by zero", "repl", 1, 5)
			return Nil, nil
		},
		func(obj *ExceptionObj) (Value, error) {
			assert.Equal(t, "DivisionByZeroError", obj.Exception.Type)
			assert.Equal(t, "divide by zero", obj.Message)
			assert.Equal(t, 1, obj.Line)
			return HeapValue(NewString(obj.Exception.Type)), nil
		})
	require.NoError(t, err)
	assert.Equal(t, "DivisionByZeroError", ToString(v))
	assert.Equal(t, 0, s.Depth())
	assert.Equal(t, 0, mm.PoolDepth())
}

func TestProtect_PoolDrainsBeforeHandler(t *testing.T) {
	mm := NewMemoryManager(nil)
	hook := newRecordingHook()
	mm.SetHook(hook)
	s := NewHandlerStack(mm)

	_, err := s.Protect(nil,
		func() (Value, error) {
			_, err := mm.Autorelease(HeapValue(NewString("doomed")))
			require.NoError(t, err)
			s.Throw("RuntimeException", "boom", "", 0, 0)
			return Nil, nil
		},
		func(obj *ExceptionObj) (Value, error) {
			// the protected body's pool has already been drained
			assert.Equal(t, 1, hook.counts[EventFree])
			return Nil, nil
		})
	require.NoError(t, err)
}

func TestProtect_TypedCatch(t *testing.T) {
	mm := NewMemoryManager(nil)
	s := NewHandlerStack(mm)

	t.Run("matching type is caught", func(t *testing.T) {
		v, err := s.Protect([]string{"ArithmeticException"},
			func() (Value, error) {
				s.Throw("ArithmeticException", "overflow", "", 0, 0)
				return Nil, nil
			},
			func(obj *ExceptionObj) (Value, error) { return True, nil })
		require.NoError(t, err)
		assert.True(t, IsTruthy(v))
	})

	t.Run("non-matching type unwinds past the frame", func(t *testing.T) {
		v, err := s.Protect(nil, // outer: catches everything
			func() (Value, error) {
				return s.Protect([]string{"ArithmeticException"},
					func() (Value, error) {
						s.Throw("TypeError", "not for you", "", 0, 0)
						return Nil, nil
					},
					func(obj *ExceptionObj) (Value, error) {
						t.Fatal("typed frame must not catch a TypeError")
						return Nil, nil
					})
			},
			func(obj *ExceptionObj) (Value, error) {
				assert.Equal(t, "TypeError", obj.Exception.Type)
				return True, nil
			})
		require.NoError(t, err)
		assert.True(t, IsTruthy(v))
		assert.Equal(t, 0, s.Depth())
		assert.Equal(t, 0, mm.PoolDepth())
	})
}

func TestProtect_NestedRethrow(t *testing.T) {
	mm := NewMemoryManager(nil)
	s := NewHandlerStack(mm)

	var innerSaw, outerSaw string
	v, err := s.Protect(nil,
		func() (Value, error) {
			return s.Protect(nil,
				func() (Value, error) {
					s.Throw("TypeError", "inner", "", 0, 0)
					return Nil, nil
				},
				func(obj *ExceptionObj) (Value, error) {
					innerSaw = obj.Message
					// propagate outward after partial recovery
					s.ThrowObject(NewExceptionObj("RuntimeException", "rethrown", "", 0, 0))
					return Nil, nil
				})
		},
		func(obj *ExceptionObj) (Value, error) {
			outerSaw = obj.Message
			return Fixnum(1), nil
		})
	require.NoError(t, err)
	assert.Equal(t, "inner", innerSaw)
	assert.Equal(t, "rethrown", outerSaw)
	assert.Equal(t, int32(1), AsFixnum(v))
	assert.Equal(t, 0, s.Depth())
	assert.Equal(t, 0, mm.PoolDepth())
}

func TestProtect_ExceptionReleasedExactlyOnce(t *testing.T) {
	mm := NewMemoryManager(nil)
	hook := newRecordingHook()
	mm.SetHook(hook)
	s := NewHandlerStack(mm)

	_, err := s.Protect(nil,
		func() (Value, error) {
			s.Throw("RuntimeException", "boom", "", 0, 0)
			return Nil, nil
		},
		func(obj *ExceptionObj) (Value, error) {
			assert.Equal(t, uint16(1), obj.hdr().Refcount)
			return Nil, nil
		})
	require.NoError(t, err)
	// the caught exception was freed after the handler completed
	assert.Equal(t, 1, hook.counts[EventFree])
}

func TestThrow_UncaughtPropagatesAsPanic(t *testing.T) {
	mm := NewMemoryManager(nil)
	s := NewHandlerStack(mm)

	assert.Panics(t, func() {
		s.Throw("StackOverflowError", "too deep", "", 0, 0)
	})
}
