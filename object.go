package tinyclj

// HeapType is the 16-bit type tag stored in every heap object's
// Header, plus the handful of immediate logical types TypeOf reports
// for tagged-immediate values so callers have one enumeration to
// switch on regardless of representation.
type HeapType uint16

const (
	TypeNil HeapType = iota
	TypeFixnum
	TypeChar
	TypeFixed
	TypeSpecialValue

	TypeString
	TypeSymbol
	TypeList
	TypeVector
	TypeTransientVector
	TypeMap
	TypeTransientMap
	TypeSeq
	TypeNativeFn
	TypeClosure
	TypeException
	TypeByteArray
	TypeNamespace
)

var heapTypeNames = map[HeapType]string{
	TypeNil:             "nil",
	TypeFixnum:          "fixnum",
	TypeChar:            "char",
	TypeFixed:           "fixed",
	TypeSpecialValue:    "special",
	TypeString:          "string",
	TypeSymbol:          "symbol",
	TypeList:            "list",
	TypeVector:          "vector",
	TypeTransientVector: "transient-vector",
	TypeMap:             "map",
	TypeTransientMap:    "transient-map",
	TypeSeq:             "seq",
	TypeNativeFn:        "native-fn",
	TypeClosure:         "closure",
	TypeException:       "exception",
	TypeByteArray:       "byte-array",
	TypeNamespace:       "namespace",
}

func (t HeapType) String() string {
	if s, ok := heapTypeNames[t]; ok {
		return s
	}
	return "unknown"
}

// Header is the 4-byte-equivalent prefix every heap allocation
// carries: a type tag plus a reference count. Singleton objects (the
// empty string/vector/map) set Singleton so retain and release become
// permanent no-ops.
type Header struct {
	Type      HeapType
	Refcount  uint16
	Singleton bool
}

func (h *Header) hdr() *Header { return h }

// Object is satisfied by every heap-allocated subtype (always via a
// pointer receiver, so that Retain/Release mutate the shared Header in
// place). The embedded subtype struct follows a common header: the
// header becomes an embedded field, and dispatch on type happens
// through Go's own interface/type-switch machinery instead of a
// hand-rolled tag switch.
type Object interface {
	hdr() *Header
}

// TypeTag returns the header's type tag for any heap Object.
func TypeTag(o Object) HeapType { return o.hdr().Type }
