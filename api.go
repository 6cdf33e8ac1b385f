package tinyclj

// Reader is the seam the out-of-scope reader/parser implements: it
// turns source text into a single Value built from the core's own
// constructors (MakeList, MakeVector, NewString, Intern, ...). The
// value runtime only depends on this interface, never on a concrete
// parser.
type Reader interface {
	Read(src string) (Value, error)
}

// ReaderFunc adapts a plain function to Reader.
type ReaderFunc func(src string) (Value, error)

func (f ReaderFunc) Read(src string) (Value, error) { return f(src) }

// Evaluator is the seam the out-of-scope tree-walking evaluator
// implements: given a State and an expression Value, it returns the
// expression's value, dispatching special forms (if/do/let/fn/loop)
// and ordinary application through Invoke. Runtime.EvalExpr's
// fallback loop is a minimal stand-in for this contract, not a
// substitute for it.
type Evaluator interface {
	Eval(st *State, expr Value) (Value, error)
}

// EvaluatorFunc adapts a plain function to Evaluator.
type EvaluatorFunc func(st *State, expr Value) (Value, error)

func (f EvaluatorFunc) Eval(st *State, expr Value) (Value, error) { return f(st, expr) }

// WithReaderEvaluator wires a full Reader/Evaluator pair into r,
// replacing EvalString's no-reader error and EvalExpr's minimal
// self-eval/apply fallback with the host's own implementations.
func (r *Runtime) WithReaderEvaluator(rd Reader, ev Evaluator) *Runtime {
	if ev != nil {
		r.Eval = func(env, body Value) (Value, error) {
			return ev.Eval(r.State, body)
		}
	}
	if rd != nil {
		r.reader = rd
	}
	return r
}

// Read parses src through the reader wired in by WithReaderEvaluator.
func (r *Runtime) Read(src string) (Value, error) {
	if r.reader == nil {
		return Nil, errNoReader
	}
	return r.reader.Read(src)
}
