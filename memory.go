package tinyclj

import "fmt"

// AllocEvent enumerates the instrumentation points a host can observe
// through an AllocHook without the core's retain/release semantics
// changing in any way.
type AllocEvent int

const (
	EventAlloc AllocEvent = iota
	EventFree
	EventRetain
	EventRelease
	EventAutorelease
)

// AllocHook is the optional instrumentation seam for memory
// profiling/telemetry. It is a hook surface, not a contract: a nil
// hook (the default) means no instrumentation runs.
type AllocHook interface {
	OnMemoryEvent(event AllocEvent, o Object)
}

// MemoryManager owns the retain-count discipline and the stack of
// autorelease pools for one single-threaded evaluation context. The
// runtime is not re-entrant across OS threads sharing a MemoryManager:
// each worker must own one.
type MemoryManager struct {
	pools []*pool
	hook  AllocHook
	cfg   *Config
}

type pool struct {
	// values is a weak growable vector: appending here never
	// retains, and draining releases each non-nil slot exactly
	// once.
	values []Object
}

// NewMemoryManager creates a manager with no active pool. Callers must
// PoolPush before any Autorelease call: it must fail loudly when no
// pool is active.
func NewMemoryManager(cfg *Config) *MemoryManager {
	if cfg == nil {
		cfg = NewConfig()
	}
	return &MemoryManager{cfg: cfg}
}

// SetHook installs (or clears, with nil) the allocation instrumentation hook.
func (m *MemoryManager) SetHook(h AllocHook) { m.hook = h }

func (m *MemoryManager) emit(event AllocEvent, o Object) {
	if m.hook != nil {
		m.hook.OnMemoryEvent(event, o)
	}
}

// Retain increments o's reference count. No-op on immediates (o is
// only ever called with heap Values in practice), nil, and singletons.
func (m *MemoryManager) Retain(v Value) Value {
	if !IsHeap(v) {
		return v
	}
	o := AsHeap(v)
	h := o.hdr()
	if h.Singleton {
		return v
	}
	h.Refcount++
	m.emit(EventRetain, o)
	return v
}

// DoubleFreeError signals a release on an object whose count was
// already zero: a programmer-error invariant violation.
type DoubleFreeError struct {
	Object Object
}

func (e *DoubleFreeError) Error() string {
	return fmt.Sprintf("tinyclj: double free of %s", TypeTag(e.Object))
}

// Release decrements o's reference count, finalizing and freeing it at
// zero. No-op on immediates, nil, and singletons. A release on an
// object whose count is already zero raises DoubleFreeError unless the
// host has disabled that fatality via memory.double_free_fatal.
func (m *MemoryManager) Release(v Value) error {
	if !IsHeap(v) {
		return nil
	}
	o := AsHeap(v)
	h := o.hdr()
	if h.Singleton {
		return nil
	}
	if h.Refcount == 0 {
		m.emit(EventFree, o)
		if m.cfg.GetBool("memory.double_free_fatal") {
			return &DoubleFreeError{Object: o}
		}
		return nil
	}
	h.Refcount--
	m.emit(EventRelease, o)
	if h.Refcount == 0 {
		m.finalize(o)
		m.emit(EventFree, o)
	}
	return nil
}

// finalize runs the typed deep finalizer for o: each heap type
// releases exactly the sub-values it directly owns.
func (m *MemoryManager) finalize(o Object) {
	switch n := o.(type) {
	case *ListObj:
		m.Release(n.First)
		m.Release(n.Rest)
	case *VectorObj:
		for _, item := range n.Items {
			m.Release(item)
		}
	case *TransientVectorObj:
		for _, item := range n.Items {
			m.Release(item)
		}
	case *MapObj:
		for _, item := range n.Pairs {
			m.Release(item)
		}
	case *TransientMapObj:
		for _, item := range n.Pairs {
			m.Release(item)
		}
	case *SeqObj:
		m.Release(n.Container)
	case *ClosureObj:
		for _, p := range n.Params {
			m.Release(HeapValue(p))
		}
		m.Release(n.Body)
		m.Release(n.Env)
	case *NativeFnObj:
		// closed-over state, if any, is owned by the function value.
		if !IsNil(n.Closed) {
			m.Release(n.Closed)
		}
	case *ExceptionObj:
		// strings are Go-native here; nothing heap-owned to release.
	case *StringObj, *SymbolObj, *ByteArrayObj, *NamespaceObj:
		// no owned sub-values.
	}
}

// PoolHandle identifies a pushed autorelease pool so PoolPop can
// assert push/pop order matches push order.
type PoolHandle int

// PoolImbalanceError signals a PoolPop call whose handle does not
// refer to the top pool.
type PoolImbalanceError struct {
	Requested, Top PoolHandle
}

func (e *PoolImbalanceError) Error() string {
	return fmt.Sprintf("tinyclj: pool pop imbalance: requested %d, top is %d", e.Requested, e.Top)
}

// PoolPush pushes a new autorelease pool and returns its handle.
func (m *MemoryManager) PoolPush() PoolHandle {
	m.pools = append(m.pools, &pool{})
	return PoolHandle(len(m.pools) - 1)
}

// PoolPop drains the top pool (releasing every deposited value exactly
// once) and pops it. Pools nest; popping out of order is a structural
// bug the runtime flags via PoolImbalanceError unless
// memory.pool_imbalance_fatal is disabled.
func (m *MemoryManager) PoolPop(h PoolHandle) error {
	top := PoolHandle(len(m.pools) - 1)
	if h != top {
		if m.cfg.GetBool("memory.pool_imbalance_fatal") {
			return &PoolImbalanceError{Requested: h, Top: top}
		}
	}
	if len(m.pools) == 0 {
		return &PoolImbalanceError{Requested: h, Top: -1}
	}
	p := m.pools[len(m.pools)-1]
	m.pools = m.pools[:len(m.pools)-1]
	for _, o := range p.values {
		if o == nil {
			continue
		}
		_ = m.Release(HeapValue(o))
	}
	return nil
}

// NoActivePoolError is raised by Autorelease when no pool has been
// pushed; the evaluator is expected to always establish one before
// running any user code.
type NoActivePoolError struct{}

func (e *NoActivePoolError) Error() string {
	return "tinyclj: autorelease called with no active pool"
}

// Autorelease deposits v into the top pool (a no-op retain: the pool's
// backing store is weak) and returns v unchanged for chaining.
func (m *MemoryManager) Autorelease(v Value) (Value, error) {
	if !IsHeap(v) {
		return v, nil
	}
	if len(m.pools) == 0 {
		return v, &NoActivePoolError{}
	}
	top := m.pools[len(m.pools)-1]
	top.values = append(top.values, AsHeap(v))
	m.emit(EventAutorelease, AsHeap(v))
	return v, nil
}

// PoolDepth reports how many pools are currently on the stack. Mostly
// useful for tests asserting push/pop balance.
func (m *MemoryManager) PoolDepth() int { return len(m.pools) }
