package tinyclj

import "strings"

// symbolNameCap mirrors the embedded target's fixed-capacity interned
// name bound (short bound, e.g. 32 bytes). The desktop build keeps
// names as Go strings but still enforces the bound so behavior
// matches the embedded build.
const symbolNameCap = 32

// SymbolObj is an interned symbol: a (namespace, name) pair. Interned
// symbols are pointer-equal iff they share both fields; structural
// equality falls back to string compare for symbols that aren't
// interned through the same table.
type SymbolObj struct {
	Header
	Name string
	NS   *NamespaceObj // nil for an unqualified symbol
}

func (s *SymbolObj) QualifiedName() string {
	if s.NS == nil {
		return s.Name
	}
	return s.NS.Name.Name + "/" + s.Name
}

// IsKeyword reports whether this symbol is lexically a keyword: a
// Symbol whose name begins with ':'. Keywords are not a distinct heap
// type; they're a Symbol with a lexical marker.
func (s *SymbolObj) IsKeyword() bool {
	return strings.HasPrefix(s.Name, ":")
}

// symbolKey is the (namespace-name, name) lookup key used by the
// interning table. Using the namespace's own name string (rather than
// a *NamespaceObj pointer) lets symbols be interned before their
// owning namespace exists.
type symbolKey struct {
	ns   string
	name string
}

// SymbolTable is the process-wide interning table. One canonical
// SymbolObj exists per (ns, name) pair for the life of the process;
// entries are never removed.
type SymbolTable struct {
	entries map[symbolKey]*SymbolObj
}

// NewSymbolTable creates an empty interning table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{entries: make(map[symbolKey]*SymbolObj)}
}

// Intern returns the canonical Symbol for (ns, name), allocating it on
// first use. ns may be "" for an unqualified symbol. The namespace
// link (SymbolObj.NS) is attached lazily by NamespaceRegistry once the
// namespace exists; Intern alone only guarantees name-level identity.
func (t *SymbolTable) Intern(ns, name string) *SymbolObj {
	if len(name) > symbolNameCap {
		name = name[:symbolNameCap]
	}
	key := symbolKey{ns: ns, name: name}
	if sym, ok := t.entries[key]; ok {
		return sym
	}
	sym := &SymbolObj{
		Header: Header{Type: TypeSymbol, Singleton: true},
		Name:   name,
	}
	t.entries[key] = sym
	return sym
}

// Lookup reports whether (ns, name) has already been interned,
// without allocating a new entry.
func (t *SymbolTable) Lookup(ns, name string) (*SymbolObj, bool) {
	sym, ok := t.entries[symbolKey{ns: ns, name: name}]
	return sym, ok
}

// SymbolEqual implements identity-first structural equality: pointer
// equality fast path, falling back to (ns, name) string comparison for
// symbols from different tables (e.g. across two independently-
// initialized runtimes).
func SymbolEqual(a, b *SymbolObj) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	ans, bns := "", ""
	if a.NS != nil {
		ans = a.NS.Name.Name
	}
	if b.NS != nil {
		bns = b.NS.Name.Name
	}
	return ans == bns && a.Name == b.Name
}
