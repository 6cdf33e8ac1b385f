package tinyclj

// Equal implements structural equality across every value type:
// reflexive pointer/immediate short-circuit, then a type-directed
// comparison. Functions (NativeFn/Closure) are equal only if
// identical.
func Equal(a, b Value) bool {
	if IsNil(a) || IsNil(b) {
		return IsNil(a) && IsNil(b)
	}
	if IsImmediate(a) || IsImmediate(b) {
		// immediates: tags must match and payloads compare bitwise;
		// a fixnum is never equal to the fixed holding the same
		// quantity (Compare, not Equal, is the normalizing order).
		return a.tag == b.tag && a.imm == b.imm
	}

	oa, ob := AsHeap(a), AsHeap(b)
	if oa == ob {
		return true
	}
	if TypeTag(oa) != TypeTag(ob) {
		return false
	}
	switch x := oa.(type) {
	case *StringObj:
		y := ob.(*StringObj)
		return string(x.Bytes) == string(y.Bytes)
	case *SymbolObj:
		return SymbolEqual(x, ob.(*SymbolObj))
	case *VectorObj:
		return vectorsEqual(x.Items, ob.(*VectorObj).Items)
	case *TransientVectorObj:
		return vectorsEqual(x.Items, ob.(*TransientVectorObj).Items)
	case *ListObj:
		return listsEqual(HeapValue(x), HeapValue(ob.(*ListObj)))
	case *MapObj:
		return mapsEqual(x, ob.(*MapObj))
	case *TransientMapObj:
		return transientMapsEqual(x, ob.(*TransientMapObj))
	case *ByteArrayObj:
		y := ob.(*ByteArrayObj)
		if len(x.Bytes) != len(y.Bytes) {
			return false
		}
		for i := range x.Bytes {
			if x.Bytes[i] != y.Bytes[i] {
				return false
			}
		}
		return true
	case *ExceptionObj:
		y := ob.(*ExceptionObj)
		return x.Exception.Type == y.Exception.Type && x.Message == y.Message
	case *NativeFnObj, *ClosureObj, *SeqObj, *NamespaceObj:
		return false
	default:
		return false
	}
}

func vectorsEqual(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func listsEqual(a, b Value) bool {
	for {
		aNil, bNil := IsNil(a), IsNil(b)
		if aNil || bNil {
			return aNil == bNil
		}
		if !Equal(First(a), First(b)) {
			return false
		}
		a, b = Rest(a), Rest(b)
	}
}

// mapsEqual implements set-wise map equality: for each key of a, b
// must bind it to an Equal value, and the pair counts must match.
func mapsEqual(a, b *MapObj) bool {
	if MapCount(a) != MapCount(b) {
		return false
	}
	eq := true
	MapEach(a, func(k, v Value) {
		if !eq {
			return
		}
		bv, ok := MapGet(b, k)
		if !ok || !Equal(v, bv) {
			eq = false
		}
	})
	return eq
}

func transientMapsEqual(a, b *TransientMapObj) bool {
	pa := &MapObj{Header: a.Header, Pairs: a.Pairs}
	pb := &MapObj{Header: b.Header, Pairs: b.Pairs}
	return mapsEqual(pa, pb)
}
