package tinyclj

// ByteArrayObj is a mutable fixed-length byte buffer backing the
// byte-array builtins (byte-array, aget, aset, alength, aclone). It
// has no owned sub-values since bytes aren't retained/released.
type ByteArrayObj struct {
	Header
	Bytes []byte
}

// NewByteArray allocates a zero-filled byte array of length n.
func NewByteArray(n int) *ByteArrayObj {
	return &ByteArrayObj{
		Header: Header{Type: TypeByteArray, Refcount: 1},
		Bytes:  make([]byte, n),
	}
}

// ByteArrayLen returns the array's length.
func ByteArrayLen(b *ByteArrayObj) int { return len(b.Bytes) }

// ByteArrayGet returns the byte at i as a fixnum, or an error if i is
// out of range.
func ByteArrayGet(b *ByteArrayObj, i int) (Value, error) {
	if i < 0 || i >= len(b.Bytes) {
		return Nil, &Exception{Type: "IllegalArgumentException", Message: "byte-array index out of range"}
	}
	return Fixnum(int32(b.Bytes[i])), nil
}

// ByteArraySet mutates index i in place to the low 8 bits of x.
func ByteArraySet(b *ByteArrayObj, i int, x int32) error {
	if i < 0 || i >= len(b.Bytes) {
		return &Exception{Type: "IllegalArgumentException", Message: "byte-array index out of range"}
	}
	b.Bytes[i] = byte(x)
	return nil
}

// ByteArrayClone returns an independent copy of b.
func ByteArrayClone(b *ByteArrayObj) *ByteArrayObj {
	out := NewByteArray(len(b.Bytes))
	copy(out.Bytes, b.Bytes)
	return out
}
