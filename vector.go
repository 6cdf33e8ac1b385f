package tinyclj

// VectorObj is an immutable, array-backed PersistentVector.
// TransientVectorObj is its single-writer mutable counterpart; the two
// are distinct Go types (rather than one struct with a mutable flag)
// so a persistent vector can never satisfy the transient-only
// operations at compile time — the static half of the transient
// contract, with the runtime half (conj!/assoc! on a transient after
// persistent!) enforced by FrozenTransientError.
type VectorObj struct {
	Header
	Items []Value
}

// TransientVectorObj is the single-owner mutable view produced by
// Transient and consumed by Persistent.
type TransientVectorObj struct {
	Header
	Items  []Value
	frozen bool
}

var emptyVector = &VectorObj{Header: Header{Type: TypeVector, Singleton: true}}

// EmptyVector returns the statically allocated empty-vector singleton:
// refcount 0, never freed.
func EmptyVector() *VectorObj { return emptyVector }

// MakeVector allocates a fresh persistent vector with capacity
// reserved (but not yet populated) up front.
func MakeVector(capacity int) *VectorObj {
	return &VectorObj{
		Header: Header{Type: TypeVector, Refcount: 1},
		Items:  make([]Value, 0, capacity),
	}
}

// VectorCount returns the element count.
func VectorCount(v *VectorObj) int { return len(v.Items) }

// VectorNth returns the element at i, or Nil if i is out of range.
// Internal invariant callers that need a hard error should check
// VectorCount themselves and raise.
func VectorNth(v *VectorObj, i int) Value {
	if i < 0 || i >= len(v.Items) {
		return Nil
	}
	return v.Items[i]
}

// VectorConj returns a new vector with x appended, retaining x and
// copy-retaining every existing element; the input v is never
// mutated.
func VectorConj(mm *MemoryManager, v *VectorObj, x Value) *VectorObj {
	items := make([]Value, len(v.Items)+1)
	copy(items, v.Items)
	for _, item := range items[:len(v.Items)] {
		mm.Retain(item)
	}
	items[len(v.Items)] = mm.Retain(x)
	return &VectorObj{Header: Header{Type: TypeVector, Refcount: 1}, Items: items}
}

// VectorAssoc returns a new vector with index i replaced by x. i must
// be within range; out-of-range is a caller error.
func VectorAssoc(mm *MemoryManager, v *VectorObj, i int, x Value) (*VectorObj, error) {
	if i < 0 || i >= len(v.Items) {
		return nil, &Exception{Type: "IllegalArgumentException", Message: "vector index out of range"}
	}
	items := make([]Value, len(v.Items))
	copy(items, v.Items)
	for _, item := range items {
		mm.Retain(item)
	}
	_ = mm.Release(items[i])
	items[i] = mm.Retain(x)
	return &VectorObj{Header: Header{Type: TypeVector, Refcount: 1}, Items: items}, nil
}

// Transient produces a fresh, independently-owned mutable vector
// seeded with v's current elements (constant-time toggle of a fresh
// allocation; the copy itself is O(n) in Go since we don't share
// backing arrays between a persistent vector and any transient derived
// from it — sharing would violate "input v is never mutated" the
// moment the transient grows in place).
func (v *VectorObj) Transient(mm *MemoryManager) *TransientVectorObj {
	items := make([]Value, len(v.Items), mm.growCapacity(len(v.Items)))
	copy(items, v.Items)
	for _, item := range items {
		mm.Retain(item)
	}
	return &TransientVectorObj{Header: Header{Type: TypeTransientVector, Refcount: 1}, Items: items}
}

// growCapacity doubles n, seeded by the vector.initial_capacity
// tunable for empty and near-empty vectors.
func (m *MemoryManager) growCapacity(n int) int {
	seed := m.cfg.GetInt("vector.initial_capacity")
	if n < seed {
		return seed
	}
	return n * 2
}

// FrozenTransientError signals a mutation attempt on a transient that
// has already been frozen via Persistent: once frozen, all further
// mutation attempts must error.
type FrozenTransientError struct{}

func (e *FrozenTransientError) Error() string {
	return "IllegalArgumentException: transient used after persistent! at :0:0"
}

// ConjBang appends x in place, growing the backing slice geometrically
// (factor 2) when needed, and returns the same handle.
func (t *TransientVectorObj) ConjBang(mm *MemoryManager, x Value) (*TransientVectorObj, error) {
	if t.frozen {
		return nil, &FrozenTransientError{}
	}
	if cap(t.Items) == len(t.Items) {
		grown := make([]Value, len(t.Items), mm.growCapacity(len(t.Items)))
		copy(grown, t.Items)
		t.Items = grown
	}
	t.Items = append(t.Items, mm.Retain(x))
	return t, nil
}

// AssocBang mutates index i in place.
func (t *TransientVectorObj) AssocBang(mm *MemoryManager, i int, x Value) (*TransientVectorObj, error) {
	if t.frozen {
		return nil, &FrozenTransientError{}
	}
	if i < 0 || i >= len(t.Items) {
		return nil, &Exception{Type: "IllegalArgumentException", Message: "vector index out of range"}
	}
	_ = mm.Release(t.Items[i])
	t.Items[i] = mm.Retain(x)
	return t, nil
}

// Persistent freezes t: further mutation through t becomes an error,
// and a new PersistentVector sharing t's backing storage is returned;
// this invalidates further mutation on the original transient
// handle.
func (t *TransientVectorObj) Persistent() *VectorObj {
	t.frozen = true
	return &VectorObj{Header: Header{Type: TypeVector, Refcount: 1}, Items: t.Items}
}
