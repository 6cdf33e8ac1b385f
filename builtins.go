package tinyclj

import (
	"fmt"
	"os"
	"strings"
)

// RegisterCoreBuiltins installs every non-special-form builtin listed
// for clojure.core into reg's core namespace: arithmetic, comparison,
// predicates, collection operations, printing, and the byte-array
// primitives. `if`, `do` (control flow requiring unevaluated
// arguments) and the reader/evaluator itself are out of scope; `def`
// and `ns` are included here because, unlike `if`/`do`, they need no
// special argument-evaluation order and fit the plain NativeFn
// contract.
func RegisterCoreBuiltins(st *State) {
	core := st.Registry.Core()
	def := func(name string, fn NativeFnFunc) {
		sym := st.Registry.symbols.Intern("", name)
		st.Registry.Define(core, sym, HeapValue(NewNativeFn(name, fn)))
	}

	def("+", builtinArith(Add, Fixnum(0)))
	def("-", builtinArithSub)
	def("*", builtinMul)
	def("/", builtinDiv)

	def("<", builtinCompare(func(c int) bool { return c < 0 }))
	def(">", builtinCompare(func(c int) bool { return c > 0 }))
	def("<=", builtinCompare(func(c int) bool { return c <= 0 }))
	def(">=", builtinCompare(func(c int) bool { return c >= 0 }))
	def("=", builtinEquals)

	def("type", builtinType)
	def("nil?", builtinNilQ)

	def("nth", builtinNth)
	def("conj", builtinConj)
	def("first", builtinFirst)
	def("rest", builtinRest)
	def("cons", builtinCons)
	def("count", builtinCount)
	def("get", builtinGet)
	def("keys", builtinKeys)
	def("vals", builtinVals)
	def("assoc", builtinAssoc)
	def("array-map", builtinArrayMap)
	def("transient", builtinTransient)
	def("persistent!", builtinPersistentBang)
	def("conj!", builtinConjBang)

	def("print", builtinPrint(false, false))
	def("println", builtinPrint(false, true))
	def("pr", builtinPrint(true, false))
	def("prn", builtinPrint(true, true))
	def("str", builtinStr)

	def("byte-array", builtinByteArray)
	def("aget", builtinAget)
	def("aset", builtinAset)
	def("alength", builtinAlength)
	def("aclone", builtinAclone)

	def("def", builtinDef(st))
	def("ns", builtinNs(st))
}

// objOf returns the heap object behind v, or nil for immediates and
// nil, so type switches in builtins fall through to their TypeError
// default instead of panicking on a wrong-tag accessor.
func objOf(v Value) Object {
	if !IsHeap(v) {
		return nil
	}
	return AsHeap(v)
}

func typeErr(msg string) error {
	return &Exception{Type: "TypeError", Message: msg}
}

func illegalArg(msg string) error {
	return &Exception{Type: "IllegalArgumentException", Message: msg}
}

// builtinArith folds an operation across a variadic arg list starting
// from its identity.
func builtinArith(op func(a, b Value) (Value, error), identity Value) NativeFnFunc {
	return func(mm *MemoryManager, args []Value) (Value, error) {
		acc := identity
		for _, a := range args {
			v, err := op(acc, a)
			if err != nil {
				return Nil, err
			}
			acc = v
		}
		return acc, nil
	}
}

// builtinMul folds * across the arg list, consulting the configured
// overflow policy: promote to fixed-point (the default) or raise.
func builtinMul(mm *MemoryManager, args []Value) (Value, error) {
	promote := mm.cfg.GetBool("arith.promote_on_multiply_overflow")
	acc := Fixnum(1)
	for _, a := range args {
		v, err := MulChecked(acc, a, promote)
		if err != nil {
			return Nil, err
		}
		acc = v
	}
	return acc, nil
}

func builtinArithSub(mm *MemoryManager, args []Value) (Value, error) {
	switch len(args) {
	case 0:
		return Nil, illegalArg("- needs at least 1 argument")
	case 1:
		return Sub(Fixnum(0), args[0])
	default:
		acc := args[0]
		for _, a := range args[1:] {
			v, err := Sub(acc, a)
			if err != nil {
				return Nil, err
			}
			acc = v
		}
		return acc, nil
	}
}

// builtinDiv resolves the §9 Open Question on arity-1 `/`: it always
// returns a fixed-point value unless the reciprocal is exactly
// representable as a fixnum.
func builtinDiv(mm *MemoryManager, args []Value) (Value, error) {
	switch len(args) {
	case 0:
		return Nil, illegalArg("/ needs at least 1 argument")
	case 1:
		if !isNumeric(args[0]) {
			return Nil, typeErr("/ operand is not a number")
		}
		if IsFixnum(args[0]) && AsFixnum(args[0]) == 1 {
			return Fixnum(1), nil
		}
		return Div(Fixnum(1), args[0])
	default:
		acc := args[0]
		for _, a := range args[1:] {
			v, err := Div(acc, a)
			if err != nil {
				return Nil, err
			}
			acc = v
		}
		return acc, nil
	}
}

func builtinCompare(pred func(int) bool) NativeFnFunc {
	return func(mm *MemoryManager, args []Value) (Value, error) {
		for i := 0; i+1 < len(args); i++ {
			c, err := Compare(args[i], args[i+1])
			if err != nil {
				return Nil, err
			}
			if !pred(c) {
				return False, nil
			}
		}
		return True, nil
	}
}

func builtinEquals(mm *MemoryManager, args []Value) (Value, error) {
	for i := 0; i+1 < len(args); i++ {
		if !Equal(args[i], args[i+1]) {
			return False, nil
		}
	}
	return True, nil
}

func builtinType(mm *MemoryManager, args []Value) (Value, error) {
	if len(args) != 1 {
		return Nil, illegalArg("type takes exactly 1 argument")
	}
	return HeapValue(NewString(TypeOf(args[0]).String())), nil
}

func builtinNilQ(mm *MemoryManager, args []Value) (Value, error) {
	if len(args) != 1 {
		return Nil, illegalArg("nil? takes exactly 1 argument")
	}
	if IsNil(args[0]) {
		return True, nil
	}
	return False, nil
}

func builtinNth(mm *MemoryManager, args []Value) (Value, error) {
	if len(args) != 2 {
		return Nil, illegalArg("nth takes exactly 2 arguments")
	}
	if !IsFixnum(args[1]) {
		return Nil, typeErr("nth index must be a fixnum")
	}
	i := int(AsFixnum(args[1]))
	switch v := objOf(args[0]).(type) {
	case *VectorObj:
		return VectorNth(v, i), nil
	case *TransientVectorObj:
		if i < 0 || i >= len(v.Items) {
			return Nil, nil
		}
		return v.Items[i], nil
	default:
		it := IterInit(args[0])
		for n := 0; !it.IterEmpty(); n++ {
			if n == i {
				return it.IterFirst(), nil
			}
			it.IterNext()
		}
		return Nil, nil
	}
}

func builtinConj(mm *MemoryManager, args []Value) (Value, error) {
	if len(args) == 0 {
		return Nil, illegalArg("conj needs at least 1 argument")
	}
	coll := args[0]
	for _, x := range args[1:] {
		if IsNil(coll) {
			// conj onto nil grows a list, the same way rest of nil
			// (the canonical empty list) does.
			coll = HeapValue(Cons(mm, x, coll))
			continue
		}
		switch v := objOf(coll).(type) {
		case *VectorObj:
			coll = HeapValue(VectorConj(mm, v, x))
		case *ListObj:
			coll = HeapValue(Cons(mm, x, coll))
		default:
			return Nil, typeErr("conj target is not a persistent collection")
		}
	}
	return coll, nil
}

func builtinFirst(mm *MemoryManager, args []Value) (Value, error) {
	if len(args) != 1 {
		return Nil, illegalArg("first takes exactly 1 argument")
	}
	if IsNil(args[0]) {
		return Nil, nil
	}
	if _, ok := objOf(args[0]).(*ListObj); ok {
		return First(args[0]), nil
	}
	it := IterInit(args[0])
	return it.IterFirst(), nil
}

func builtinRest(mm *MemoryManager, args []Value) (Value, error) {
	if len(args) != 1 {
		return Nil, illegalArg("rest takes exactly 1 argument")
	}
	if IsNil(args[0]) {
		return Nil, nil
	}
	if _, ok := objOf(args[0]).(*ListObj); ok {
		return Rest(args[0]), nil
	}
	s := SeqOf(mm, args[0])
	s.it.IterNext()
	return HeapValue(s), nil
}

func builtinCons(mm *MemoryManager, args []Value) (Value, error) {
	if len(args) != 2 {
		return Nil, illegalArg("cons takes exactly 2 arguments")
	}
	return HeapValue(Cons(mm, args[0], args[1])), nil
}

func builtinCount(mm *MemoryManager, args []Value) (Value, error) {
	if len(args) != 1 {
		return Nil, illegalArg("count takes exactly 1 argument")
	}
	if IsNil(args[0]) {
		return Fixnum(0), nil
	}
	switch v := objOf(args[0]).(type) {
	case *VectorObj:
		return Fixnum(int32(len(v.Items))), nil
	case *TransientVectorObj:
		return Fixnum(int32(len(v.Items))), nil
	case *MapObj:
		return Fixnum(int32(MapCount(v))), nil
	case *TransientMapObj:
		return Fixnum(int32(len(v.Pairs) / 2)), nil
	case *StringObj:
		return Fixnum(int32(len(v.Bytes))), nil
	case *ListObj:
		return Fixnum(int32(ListLen(args[0]))), nil
	default:
		return Nil, typeErr("count target has no length")
	}
}

func builtinGet(mm *MemoryManager, args []Value) (Value, error) {
	if len(args) < 2 || len(args) > 3 {
		return Nil, illegalArg("get takes 2 or 3 arguments")
	}
	notFound := Nil
	if len(args) == 3 {
		notFound = args[2]
	}
	if IsNil(args[0]) {
		return notFound, nil
	}
	switch v := objOf(args[0]).(type) {
	case *MapObj:
		if val, ok := MapGet(v, args[1]); ok {
			return val, nil
		}
		return notFound, nil
	case *VectorObj:
		if !IsFixnum(args[1]) {
			return notFound, nil
		}
		i := int(AsFixnum(args[1]))
		if i < 0 || i >= len(v.Items) {
			return notFound, nil
		}
		return v.Items[i], nil
	default:
		return notFound, nil
	}
}

func builtinKeys(mm *MemoryManager, args []Value) (Value, error) {
	if len(args) != 1 {
		return Nil, illegalArg("keys takes exactly 1 argument")
	}
	m, ok := objOf(args[0]).(*MapObj)
	if !ok {
		return Nil, typeErr("keys argument is not a map")
	}
	return HeapValue(MapKeys(mm, m)), nil
}

func builtinVals(mm *MemoryManager, args []Value) (Value, error) {
	if len(args) != 1 {
		return Nil, illegalArg("vals takes exactly 1 argument")
	}
	m, ok := objOf(args[0]).(*MapObj)
	if !ok {
		return Nil, typeErr("vals argument is not a map")
	}
	return HeapValue(MapVals(mm, m)), nil
}

func builtinAssoc(mm *MemoryManager, args []Value) (Value, error) {
	if len(args) < 3 || len(args)%2 != 1 {
		return Nil, illegalArg("assoc takes an odd number of arguments (coll k v k v ...)")
	}
	coll := args[0]
	for i := 1; i+1 < len(args); i += 2 {
		switch v := objOf(coll).(type) {
		case *MapObj:
			coll = HeapValue(MapAssoc(mm, v, args[i], args[i+1]))
		case *VectorObj:
			if !IsFixnum(args[i]) {
				return Nil, typeErr("vector assoc index must be a fixnum")
			}
			updated, err := VectorAssoc(mm, v, int(AsFixnum(args[i])), args[i+1])
			if err != nil {
				return Nil, err
			}
			coll = HeapValue(updated)
		default:
			return Nil, typeErr("assoc target is not a persistent map or vector")
		}
	}
	return coll, nil
}

func builtinArrayMap(mm *MemoryManager, args []Value) (Value, error) {
	if len(args)%2 != 0 {
		return Nil, illegalArg("array-map takes an even number of arguments")
	}
	m := MakeMap(len(args) / 2)
	for i := 0; i+1 < len(args); i += 2 {
		m = MapAssoc(mm, m, args[i], args[i+1])
	}
	return HeapValue(m), nil
}

func builtinTransient(mm *MemoryManager, args []Value) (Value, error) {
	if len(args) != 1 {
		return Nil, illegalArg("transient takes exactly 1 argument")
	}
	switch v := objOf(args[0]).(type) {
	case *VectorObj:
		return HeapValue(v.Transient(mm)), nil
	case *MapObj:
		return HeapValue(v.Transient(mm)), nil
	default:
		return Nil, typeErr("transient target must be a persistent vector or map")
	}
}

func builtinPersistentBang(mm *MemoryManager, args []Value) (Value, error) {
	if len(args) != 1 {
		return Nil, illegalArg("persistent! takes exactly 1 argument")
	}
	switch v := objOf(args[0]).(type) {
	case *TransientVectorObj:
		return HeapValue(v.Persistent()), nil
	case *TransientMapObj:
		return HeapValue(v.Persistent()), nil
	default:
		return Nil, typeErr("persistent! target must be a transient vector or map")
	}
}

func builtinConjBang(mm *MemoryManager, args []Value) (Value, error) {
	if len(args) != 2 {
		return Nil, illegalArg("conj! takes exactly 2 arguments")
	}
	v, ok := objOf(args[0]).(*TransientVectorObj)
	if !ok {
		return Nil, typeErr("conj! target must be a transient vector")
	}
	updated, err := v.ConjBang(mm, args[1])
	if err != nil {
		return Nil, err
	}
	return HeapValue(updated), nil
}

func builtinPrint(quote, newline bool) NativeFnFunc {
	return func(mm *MemoryManager, args []Value) (Value, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			if quote {
				parts[i] = PrStr(a)
			} else {
				parts[i] = ToString(a)
			}
		}
		out := strings.Join(parts, " ")
		if newline {
			fmt.Fprintln(os.Stdout, out)
		} else {
			fmt.Fprint(os.Stdout, out)
		}
		return Nil, nil
	}
}

func builtinStr(mm *MemoryManager, args []Value) (Value, error) {
	var parts []string
	for _, a := range args {
		parts = append(parts, ToString(a))
	}
	return HeapValue(NewString(strings.Join(parts, ""))), nil
}

func builtinByteArray(mm *MemoryManager, args []Value) (Value, error) {
	if len(args) != 1 || !IsFixnum(args[0]) {
		return Nil, illegalArg("byte-array takes exactly 1 fixnum argument")
	}
	return HeapValue(NewByteArray(int(AsFixnum(args[0])))), nil
}

func builtinAget(mm *MemoryManager, args []Value) (Value, error) {
	if len(args) != 2 || !IsFixnum(args[1]) {
		return Nil, illegalArg("aget takes (array index)")
	}
	b, ok := objOf(args[0]).(*ByteArrayObj)
	if !ok {
		return Nil, typeErr("aget target is not a byte-array")
	}
	return ByteArrayGet(b, int(AsFixnum(args[1])))
}

func builtinAset(mm *MemoryManager, args []Value) (Value, error) {
	if len(args) != 3 || !IsFixnum(args[1]) || !IsFixnum(args[2]) {
		return Nil, illegalArg("aset takes (array index value)")
	}
	b, ok := objOf(args[0]).(*ByteArrayObj)
	if !ok {
		return Nil, typeErr("aset target is not a byte-array")
	}
	if err := ByteArraySet(b, int(AsFixnum(args[1])), AsFixnum(args[2])); err != nil {
		return Nil, err
	}
	return args[2], nil
}

func builtinAlength(mm *MemoryManager, args []Value) (Value, error) {
	if len(args) != 1 {
		return Nil, illegalArg("alength takes exactly 1 argument")
	}
	b, ok := objOf(args[0]).(*ByteArrayObj)
	if !ok {
		return Nil, typeErr("alength target is not a byte-array")
	}
	return Fixnum(int32(ByteArrayLen(b))), nil
}

func builtinAclone(mm *MemoryManager, args []Value) (Value, error) {
	if len(args) != 1 {
		return Nil, illegalArg("aclone takes exactly 1 argument")
	}
	b, ok := objOf(args[0]).(*ByteArrayObj)
	if !ok {
		return Nil, typeErr("aclone target is not a byte-array")
	}
	return HeapValue(ByteArrayClone(b)), nil
}

// builtinDef binds st's current namespace: (def name value).
func builtinDef(st *State) NativeFnFunc {
	return func(mm *MemoryManager, args []Value) (Value, error) {
		if len(args) != 2 {
			return Nil, illegalArg("def takes exactly 2 arguments (name value)")
		}
		sym, ok := objOf(args[0]).(*SymbolObj)
		if !ok {
			return Nil, typeErr("def name must be a symbol")
		}
		st.Registry.Define(st.CurrentNS, sym, args[1])
		return args[1], nil
	}
}

// builtinNs switches st's current namespace, creating it if needed:
// (ns name).
func builtinNs(st *State) NativeFnFunc {
	return func(mm *MemoryManager, args []Value) (Value, error) {
		if len(args) != 1 {
			return Nil, illegalArg("ns takes exactly 1 argument")
		}
		sym, ok := objOf(args[0]).(*SymbolObj)
		if !ok {
			return Nil, typeErr("ns name must be a symbol")
		}
		st.CurrentNS = st.Registry.NamespaceOfOrCreate(sym.Name)
		return Nil, nil
	}
}
