package tinyclj

import "fmt"

// Exception is the structured error value every throw site produces:
// a short type string, a message, and source position. It also
// implements the plain Go error interface so built-in code paths that
// never need the catch machinery can just `return Nil, err`.
type Exception struct {
	Type    string
	Message string
	File    string
	Line    int
	Col     int
}

// Error renders the user-visible failure form: "Type: message at
// file:line:col".
func (e *Exception) Error() string {
	return fmt.Sprintf("%s: %s at %s:%d:%d", e.Type, e.Message, e.File, e.Line, e.Col)
}

// ExceptionObj is the heap-allocated, reference-counted wrapper around
// an Exception so it can flow through the value runtime like any
// other first-class value.
type ExceptionObj struct {
	Header
	Exception
}

// NewExceptionObj allocates an Exception value with refcount 1, owned
// by its caller.
func NewExceptionObj(typ, message, file string, line, col int) *ExceptionObj {
	return &ExceptionObj{
		Header:    Header{Type: TypeException, Refcount: 1},
		Exception: Exception{Type: typ, Message: message, File: file, Line: line, Col: col},
	}
}

// unwind is the internal control-flow value carried across a Go
// panic/recover boundary to implement throw's non-local unwind: an
// internal signal distinct from the public Exception/error type, so a
// panic crossing a Go function boundary is never mistaken for an
// ordinary returned error.
type unwind struct {
	obj *ExceptionObj
}

// HandlerFrame is one entry of the thread-local handler stack.
// Installed when pushed by Protect, Active while its protected body
// runs, Caught when a throw redirects control to it, Retired when
// popped. types, when non-empty, restricts which Exception.Type
// strings this frame catches; empty means "catch everything" (a bare
// `catch`).
type HandlerFrame struct {
	pool  PoolHandle
	types []string
}

func (f *HandlerFrame) catches(typ string) bool {
	if len(f.types) == 0 {
		return true
	}
	for _, t := range f.types {
		if t == typ {
			return true
		}
	}
	return false
}

// HandlerStack is the thread-local stack of handler frames. One
// HandlerStack (and its paired MemoryManager) is required per
// concurrent worker, since neither is safe to share across goroutines.
type HandlerStack struct {
	frames []HandlerFrame
	mm     *MemoryManager
}

// NewHandlerStack creates an empty handler stack bound to mm; Protect
// drains its frame pools through mm when a throw unwinds to it.
func NewHandlerStack(mm *MemoryManager) *HandlerStack {
	return &HandlerStack{mm: mm}
}

// Depth reports how many handler frames are currently installed.
func (s *HandlerStack) Depth() int { return len(s.frames) }

// Throw allocates an Exception and non-locally unwinds by panicking
// with it wrapped in *unwind. If no Protect frame up the Go call stack
// catches it, the panic propagates out of whatever called Eval; the
// host is expected to recover it at the top level, print
// "Type: message at file:line:col", and terminate.
func (s *HandlerStack) Throw(typ, message, file string, line, col int) {
	panic(&unwind{obj: NewExceptionObj(typ, message, file, line, col)})
}

// ThrowObject re-throws an existing Exception value, used inside a
// handler to propagate outward after partial recovery. Ownership of
// obj transfers to the unwind; the new throw supersedes whatever the
// handler was processing.
func (s *HandlerStack) ThrowObject(obj *ExceptionObj) {
	panic(&unwind{obj: obj})
}

// Protect installs a handler frame around body with its own
// autorelease pool. If body returns normally, the pool is drained and
// the frame retired. If body throws an Exception this frame catches,
// the frame's pool is drained before handle runs, handle executes in a
// fresh pool of its own (drained even if handle re-throws), and the
// caught Exception is released exactly once when handle returns
// normally. A handle that re-throws via ThrowObject keeps ownership of
// the old exception and must release it itself. Exceptions this frame
// doesn't catch, and any panic that isn't an *unwind at all, propagate
// to the caller unchanged.
func (s *HandlerStack) Protect(
	types []string,
	body func() (Value, error),
	handle func(obj *ExceptionObj) (Value, error),
) (result Value, err error) {
	poolHandle := s.mm.PoolPush()
	frame := HandlerFrame{pool: poolHandle, types: types}
	s.frames = append(s.frames, frame)

	popped := false
	popFrame := func() {
		if !popped {
			popped = true
			s.frames = s.frames[:len(s.frames)-1]
		}
	}

	defer func() {
		r := recover()
		if r == nil {
			return
		}
		uw, ok := r.(*unwind)
		if !ok || !frame.catches(uw.obj.Exception.Type) {
			_ = s.mm.PoolPop(poolHandle)
			popFrame()
			panic(r)
		}
		_ = s.mm.PoolPop(poolHandle)
		popFrame()
		handlerPool := s.mm.PoolPush()
		// the handler may re-throw; its pool must drain on that path too
		defer func() { _ = s.mm.PoolPop(handlerPool) }()
		result, err = handle(uw.obj)
		_ = s.mm.Release(HeapValue(uw.obj))
	}()

	result, err = body()
	_ = s.mm.PoolPop(poolHandle)
	popFrame()
	return result, err
}
