package tinyclj

// ListObj is a singly-linked cons cell. Rest may be any value: proper
// lists terminate at Nil, but an improper rest (any non-list value) is
// permitted and simply never iterates further.
type ListObj struct {
	Header
	First Value
	Rest  Value
}

// MakeList allocates a cons cell, retaining both first and rest.
func MakeList(mm *MemoryManager, first, rest Value) *ListObj {
	return &ListObj{
		Header: Header{Type: TypeList, Refcount: 1},
		First:  mm.Retain(first),
		Rest:   mm.Retain(rest),
	}
}

// First returns v's first element: Nil if v is Nil, v.First if v is a
// list, and Nil for any other type (callers that need a hard type
// error should check TypeOf themselves).
func First(v Value) Value {
	if IsNil(v) {
		return Nil
	}
	if l, ok := objOf(v).(*ListObj); ok {
		return l.First
	}
	return Nil
}

// Rest returns v's rest: Nil (the canonical empty list, since proper
// lists terminate there) if v is Nil or not a list, otherwise
// v.Rest.
func Rest(v Value) Value {
	if IsNil(v) {
		return Nil
	}
	if l, ok := objOf(v).(*ListObj); ok {
		return l.Rest
	}
	return Nil
}

// Cons prepends x onto coll, producing a fresh cons cell. coll is
// typically Nil or another ListObj but may be any value, matching the
// Rest field's "any value" freedom.
func Cons(mm *MemoryManager, x, coll Value) *ListObj {
	return MakeList(mm, x, coll)
}

// ListLen walks the proper-list prefix of v, counting cells until it
// reaches Nil or a non-list rest.
func ListLen(v Value) int {
	n := 0
	for !IsNil(v) {
		l, ok := objOf(v).(*ListObj)
		if !ok {
			break
		}
		n++
		v = l.Rest
	}
	return n
}
