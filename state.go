package tinyclj

// StackFrame is one entry of the evaluation call stack, recorded for
// debugging/backtrace purposes only; it has no effect on control flow.
type StackFrame struct {
	Name string
	File string
	Line int
	Col  int
}

// CallStack is a growable stack of StackFrames. It is unrelated to
// the handler stack in exception.go: that one drives control flow
// (catch dispatch), this one only accumulates debug context.
type CallStack struct {
	frames []StackFrame
}

func (c *CallStack) Push(f StackFrame) { c.frames = append(c.frames, f) }

func (c *CallStack) Pop() {
	if len(c.frames) > 0 {
		c.frames = c.frames[:len(c.frames)-1]
	}
}

func (c *CallStack) Depth() int { return len(c.frames) }

func (c *CallStack) Top() (StackFrame, bool) {
	if len(c.frames) == 0 {
		return StackFrame{}, false
	}
	return c.frames[len(c.frames)-1], true
}

// Frames returns the stack from innermost to outermost.
func (c *CallStack) Frames() []StackFrame {
	out := make([]StackFrame, len(c.frames))
	for i := range c.frames {
		out[i] = c.frames[len(c.frames)-1-i]
	}
	return out
}

// Pos is a source position: file plus 1-based line/column, updated by
// the reader (out of scope here) and consulted by Throw sites.
type Pos struct {
	File string
	Line int
	Col  int
}

// State is one evaluation context: current namespace, debug call
// stack, current source position, and the handles needed to reach the
// shared runtime (memory manager, namespace registry, handler stack).
// No global mutable state exists besides the singletons, the
// namespace registry, the symbol table, and the handler/pool stacks
// already owned by the fields below — a second State sharing none of
// these is a fully independent evaluation context.
type State struct {
	Mem       *MemoryManager
	Registry  *NamespaceRegistry
	Handlers  *HandlerStack
	CurrentNS *NamespaceObj
	Stack     CallStack
	Pos       Pos
}

// NewState creates a State bound to mm/reg/handlers, with CurrentNS
// defaulted to "clojure.core".
func NewState(mm *MemoryManager, reg *NamespaceRegistry, handlers *HandlerStack) *State {
	return &State{
		Mem:       mm,
		Registry:  reg,
		Handlers:  handlers,
		CurrentNS: reg.Core(),
	}
}

// EnvExtend returns a new environment map binding each of params[i] to
// values[i], layered copy-on-write over parent (parent's own bindings
// remain visible for names params doesn't shadow). len(params) must
// equal len(values); the caller (closure invocation) is responsible
// for the arity check before calling this.
func EnvExtend(mm *MemoryManager, parent Value, params []*SymbolObj, values []Value) Value {
	env := parent
	if IsNil(env) {
		env = HeapValue(EmptyMap())
	}
	for i, p := range params {
		updated := MapAssoc(mm, AsHeap(env).(*MapObj), HeapValue(p), values[i])
		if env != parent {
			_ = mm.Release(env)
		}
		env = HeapValue(updated)
	}
	return env
}

// EnvLookup resolves sym within env (a PersistentMap), returning its
// bound value and true, or (Nil, false) if unbound there.
func EnvLookup(env Value, sym *SymbolObj) (Value, bool) {
	if IsNil(env) {
		return Nil, false
	}
	m, ok := AsHeap(env).(*MapObj)
	if !ok {
		return Nil, false
	}
	return MapGet(m, HeapValue(sym))
}
