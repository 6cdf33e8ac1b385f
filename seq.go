package tinyclj

import "unicode/utf8"

// IterKind discriminates the container an Iterator is walking.
type IterKind uint8

const (
	IterNil IterKind = iota
	IterVector
	IterList
	IterString
)

// Iterator is a fixed-layout, stack-allocated cursor over a vector,
// list, or string: iter_init fills it without allocation, and
// iter_first/iter_next/iter_empty drive iteration. It is
// single-threaded and non-restartable, but cheap to recreate from the
// original container.
type Iterator struct {
	kind IterKind

	// vector/list state
	items []Value
	idx   int
	list  Value

	// string state: strings iterate as fixnum code points
	bytes []byte
}

// IterInit builds an Iterator over v without allocating, beyond the
// Iterator value itself.
func IterInit(v Value) Iterator {
	if IsNil(v) {
		return Iterator{kind: IterNil}
	}
	switch o := objOf(v).(type) {
	case *VectorObj:
		return Iterator{kind: IterVector, items: o.Items}
	case *TransientVectorObj:
		return Iterator{kind: IterVector, items: o.Items}
	case *ListObj:
		return Iterator{kind: IterList, list: v}
	case *StringObj:
		return Iterator{kind: IterString, bytes: o.Bytes}
	default:
		return Iterator{kind: IterNil}
	}
}

// IterEmpty reports whether the iterator has no more elements.
func (it *Iterator) IterEmpty() bool {
	switch it.kind {
	case IterVector:
		return it.idx >= len(it.items)
	case IterList:
		// an improper rest (any non-list value) ends iteration
		_, ok := objOf(it.list).(*ListObj)
		return !ok
	case IterString:
		return len(it.bytes) == 0
	default:
		return true
	}
}

// IterFirst returns the current element without advancing, or Nil if
// the iterator is exhausted.
func (it *Iterator) IterFirst() Value {
	if it.IterEmpty() {
		return Nil
	}
	switch it.kind {
	case IterVector:
		return it.items[it.idx]
	case IterList:
		return First(it.list)
	case IterString:
		// strings iterate as fixnum code points
		r, _ := utf8.DecodeRune(it.bytes)
		return Fixnum(int32(r))
	default:
		return Nil
	}
}

// IterNext advances the iterator by one element in place.
func (it *Iterator) IterNext() {
	switch it.kind {
	case IterVector:
		if it.idx < len(it.items) {
			it.idx++
		}
	case IterList:
		it.list = Rest(it.list)
	case IterString:
		if len(it.bytes) > 0 {
			_, size := utf8.DecodeRune(it.bytes)
			it.bytes = it.bytes[size:]
		}
	}
}

// SeqObj is a heap-allocated, reference-counted wrapper around an
// Iterator for host APIs that must hand out a first-class sequence
// value (e.g. rest of a vector). It retains the underlying container
// but does not own it by value.
type SeqObj struct {
	Header
	Container Value
	it        Iterator
}

// SeqOf produces a heap-wrapped iterator over v, retaining v for the
// lifetime of the Seq. If v is already exhausted/empty, SeqOf still
// returns a (retained, empty) Seq rather than Nil; callers that want
// "empty seq collapses to nil" semantics should check SeqEmpty first.
func SeqOf(mm *MemoryManager, v Value) *SeqObj {
	return &SeqObj{
		Header:    Header{Type: TypeSeq, Refcount: 1},
		Container: mm.Retain(v),
		it:        IterInit(v),
	}
}

// SeqEmpty reports whether s has no more elements.
func SeqEmpty(s *SeqObj) bool { return s.it.IterEmpty() }

// SeqFirst returns s's current element without advancing.
func SeqFirst(s *SeqObj) Value { return s.it.IterFirst() }

// SeqRest returns a fresh Seq over the same container, advanced by
// one element; recreating the iterator this way is always cheap since
// Iterator carries no heap state of its own.
func SeqRest(mm *MemoryManager, s *SeqObj) *SeqObj {
	next := &SeqObj{
		Header:    Header{Type: TypeSeq, Refcount: 1},
		Container: mm.Retain(s.Container),
		it:        s.it,
	}
	next.it.IterNext()
	return next
}
