package tinyclj

import "strconv"

// NativeFnFunc is the Go function a NativeFnObj dispatches to. It
// receives the memory manager (so it can retain/release/autorelease
// as needed) and the already-evaluated argument list, and returns a
// value or an error (which may be an *Exception to throw).
type NativeFnFunc func(mm *MemoryManager, args []Value) (Value, error)

// NativeFnObj wraps a Go function pointer plus optional closed-over
// state and an optional name (used by pr_str/str and by backtraces).
type NativeFnObj struct {
	Header
	Fn     NativeFnFunc
	Name   string
	Closed Value
}

// NewNativeFn allocates a named native function with no closed-over
// state.
func NewNativeFn(name string, fn NativeFnFunc) *NativeFnObj {
	return &NativeFnObj{
		Header: Header{Type: TypeNativeFn, Refcount: 1},
		Fn:     fn,
		Name:   name,
	}
}

// ClosureObj is a user-defined function: a parameter list, an
// unevaluated body expression, and the environment captured at
// definition time. Evaluating Body is the evaluator's job (out of
// scope here); Invoke takes an evaluator callback to do it.
type ClosureObj struct {
	Header
	Params []*SymbolObj
	Body   Value
	Env    Value
	Name   string
}

// NewClosure allocates a closure, retaining body and env.
func NewClosure(mm *MemoryManager, params []*SymbolObj, body, env Value, name string) *ClosureObj {
	return &ClosureObj{
		Header: Header{Type: TypeClosure, Refcount: 1},
		Params: params,
		Body:   mm.Retain(body),
		Env:    mm.Retain(env),
		Name:   name,
	}
}

// ArityException is raised when a Closure is invoked with the wrong
// number of arguments.
func ArityException(name string, want, got int) *Exception {
	n := name
	if n == "" {
		n = "fn"
	}
	return &Exception{
		Type:    "ArityException",
		Message: "wrong number of args (" + strconv.Itoa(got) + ") passed to " + n + ", expected " + strconv.Itoa(want),
	}
}

// BodyEvaluator evaluates a Closure's body expression in the extended
// environment env and returns its value. The tree-walking evaluator
// that implements this is out of scope for the value runtime; Invoke
// only defines the contract it must satisfy.
type BodyEvaluator func(env Value, body Value) (Value, error)

// Invoke is the single entry point external layers (and the
// evaluator itself, for tail positions — there is no TCO requirement)
// use to call either callable variant.
func Invoke(mm *MemoryManager, eval BodyEvaluator, callable Value, args []Value) (Value, error) {
	if !IsHeap(callable) {
		return Nil, &Exception{Type: "TypeError", Message: "value is not callable"}
	}
	switch fn := AsHeap(callable).(type) {
	case *NativeFnObj:
		return fn.Fn(mm, args)
	case *ClosureObj:
		if len(args) != len(fn.Params) {
			return Nil, ArityException(fn.Name, len(fn.Params), len(args))
		}
		if eval == nil {
			return Nil, &Exception{Type: "RuntimeException", Message: "no evaluator registered for closure invocation"}
		}
		env := EnvExtend(mm, fn.Env, fn.Params, args)
		return eval(env, fn.Body)
	default:
		return Nil, &Exception{Type: "TypeError", Message: "value is not callable"}
	}
}
