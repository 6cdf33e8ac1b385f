package tinyclj

// Runtime bundles everything a host needs to evaluate tinyclj values:
// the shared memory manager, namespace registry, and handler stack,
// plus the State threading current-namespace and call-stack context
// through a single evaluation. Reader and Evaluator are external
// collaborators (out of scope for the value runtime); a host wires
// its own implementations in before calling EvalExpr.
type Runtime struct {
	Mem      *MemoryManager
	Registry *NamespaceRegistry
	Handlers *HandlerStack
	State    *State

	// Eval, when set, lets EvalExpr hand off to a full tree-walking
	// evaluator (special forms, closures with lexical scope, etc).
	// When nil, EvalExpr falls back to the minimal self-eval/resolve/
	// apply loop below, which only understands the Dispatch Glue for
	// Callables contract, not special forms.
	Eval BodyEvaluator

	reader Reader
}

// RuntimeInit creates the namespace registry, installs the built-in
// singletons (already statically allocated), primes "clojure.core",
// and registers the builtins it exposes. cfg may be nil to accept
// NewConfig's defaults.
func RuntimeInit(cfg *Config) *Runtime {
	mm := NewMemoryManager(cfg)
	symbols := NewSymbolTable()
	reg := NewNamespaceRegistry(symbols, mm)
	handlers := NewHandlerStack(mm)
	reg.Core() // prime clojure.core and the core cache pointer

	st := NewState(mm, reg, handlers)
	RegisterCoreBuiltins(st)

	return &Runtime{Mem: mm, Registry: reg, Handlers: handlers, State: st}
}

// EvalString parses src with the reader wired in via
// WithReaderEvaluator and evaluates the result. Hosts that haven't
// wired one in get errNoReader.
func (r *Runtime) EvalString(src string) (Value, error) {
	expr, err := r.Read(src)
	if err != nil {
		return Nil, err
	}
	return r.EvalExpr(expr)
}

var errNoReader = &Exception{Type: "RuntimeException", Message: "no reader registered"}

// EvalExpr evaluates expr in r.State, autoreleasing the result into
// the caller's pool (the caller either transfers ownership out of the
// pool or releases it via a pool drain). Literals and immediates
// self-evaluate; symbols resolve through the namespace registry;
// lists apply their first element to the evaluated rest. Special
// forms (if/do/let/fn, etc.) are the tree-walking evaluator's
// responsibility — when r.Eval is set, list evaluation defers to it
// entirely; otherwise every list is treated as a plain function
// application.
func (r *Runtime) EvalExpr(expr Value) (Value, error) {
	result, err := r.evalExprRaw(expr)
	if err != nil {
		return Nil, err
	}
	// the raw result may be borrowed (a resolved binding); the retain
	// pairs with the pool drain so the binding's own reference survives
	r.Mem.Retain(result)
	return r.Mem.Autorelease(result)
}

func (r *Runtime) evalExprRaw(expr Value) (Value, error) {
	if IsNil(expr) || !IsHeap(expr) {
		return expr, nil
	}
	switch o := AsHeap(expr).(type) {
	case *SymbolObj:
		if o.IsKeyword() {
			return expr, nil
		}
		v := r.Registry.Resolve(r.State, o)
		if IsNil(v) {
			return Nil, &Exception{Type: "RuntimeException", Message: "unable to resolve symbol: " + o.QualifiedName()}
		}
		return v, nil
	case *ListObj:
		if r.Eval != nil {
			return r.Eval(HeapValue(EmptyMap()), expr)
		}
		return r.applyList(expr)
	default:
		return expr, nil
	}
}

func (r *Runtime) applyList(expr Value) (Value, error) {
	head, err := r.evalExprRaw(First(expr))
	if err != nil {
		return Nil, err
	}
	// def and ns bind/switch by name: their name argument reaches the
	// builtin unevaluated, the way the full evaluator would pass it.
	rawName := false
	if sym, ok := objOf(First(expr)).(*SymbolObj); ok {
		rawName = sym.Name == "def" || sym.Name == "ns"
	}
	var args []Value
	for rest := Rest(expr); !IsNil(rest); rest = Rest(rest) {
		v := First(rest)
		if !rawName || len(args) > 0 {
			if v, err = r.evalExprRaw(v); err != nil {
				return Nil, err
			}
		}
		args = append(args, v)
	}
	return Invoke(r.Mem, r.Eval, head, args)
}
