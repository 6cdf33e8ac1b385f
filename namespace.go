package tinyclj

// NamespaceObj is a named binding scope: a symbol→value map plus an
// optional source filename and a link to the next namespace in the
// global registry. Bindings are owned by the namespace; the namespace
// registry owns namespaces; neither is freed during normal operation.
type NamespaceObj struct {
	Header
	Name     *SymbolObj
	Bindings Value // a PersistentMap (possibly transient during bulk def)
	File     string
	next     *NamespaceObj
}

const coreNamespaceName = "clojure.core"

// NamespaceRegistry is the process-wide registry: intern table for
// symbols, a singly-linked list of namespaces, and a cached pointer to
// "clojure.core" so resolution against it is O(1).
type NamespaceRegistry struct {
	symbols *SymbolTable
	mm      *MemoryManager
	head    *NamespaceObj
	core    *NamespaceObj
}

// NewNamespaceRegistry creates an empty registry sharing symbols and mm
// with the rest of the runtime.
func NewNamespaceRegistry(symbols *SymbolTable, mm *MemoryManager) *NamespaceRegistry {
	return &NamespaceRegistry{symbols: symbols, mm: mm}
}

// NamespaceOfOrCreate is idempotent: the first call for
// "clojure.core" also installs the process-wide core cache pointer.
func (r *NamespaceRegistry) NamespaceOfOrCreate(name string) *NamespaceObj {
	nameSym := r.symbols.Intern("", name)
	for n := r.head; n != nil; n = n.next {
		if n.Name == nameSym {
			return n
		}
	}
	ns := &NamespaceObj{
		Header:   Header{Type: TypeNamespace, Singleton: true},
		Name:     nameSym,
		Bindings: HeapValue(EmptyMap()),
	}
	ns.next = r.head
	r.head = ns
	if name == coreNamespaceName && r.core == nil {
		r.core = ns
	}
	return ns
}

// Core returns the cached "clojure.core" namespace, creating it first
// if no namespace has primed it yet.
func (r *NamespaceRegistry) Core() *NamespaceObj {
	if r.core == nil {
		return r.NamespaceOfOrCreate(coreNamespaceName)
	}
	return r.core
}

// InternCore interns an unqualified symbol the way a reader would
// when it encounters a bare name: looked up, later, against the
// current namespace first and clojure.core second.
func (r *NamespaceRegistry) InternCore(name string) *SymbolObj {
	return r.symbols.Intern("", name)
}

// Define installs or overwrites a binding in ns. MapAssoc retains the
// value (and releases a replaced one), so the binding holds exactly
// one reference; the caller keeps its own.
func (r *NamespaceRegistry) Define(ns *NamespaceObj, sym *SymbolObj, value Value) {
	sym.NS = ns
	updated := MapAssoc(r.mm, AsHeap(ns.Bindings).(*MapObj), HeapValue(sym), value)
	_ = r.mm.Release(ns.Bindings)
	ns.Bindings = HeapValue(updated)
}

// Resolve searches state's current namespace first, then the core
// cache, then every other namespace in registry order ("current
// first, then core, then the rest"). Returns the bound value
// (borrowed, not retained) or Nil if unbound.
func (r *NamespaceRegistry) Resolve(st *State, sym *SymbolObj) Value {
	if st.CurrentNS != nil {
		if v, ok := r.lookupIn(st.CurrentNS, sym); ok {
			return v
		}
	}
	core := r.Core()
	if st.CurrentNS != core {
		if v, ok := r.lookupIn(core, sym); ok {
			return v
		}
	}
	for n := r.head; n != nil; n = n.next {
		if n == st.CurrentNS || n == core {
			continue
		}
		if v, ok := r.lookupIn(n, sym); ok {
			return v
		}
	}
	return Nil
}

func (r *NamespaceRegistry) lookupIn(ns *NamespaceObj, sym *SymbolObj) (Value, bool) {
	m := AsHeap(ns.Bindings).(*MapObj)
	return MapGet(m, HeapValue(sym))
}
