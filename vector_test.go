package tinyclj

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vectorOf(mm *MemoryManager, items ...Value) *VectorObj {
	v := EmptyVector()
	for _, item := range items {
		v = VectorConj(mm, v, item)
	}
	return v
}

func TestVector_ConjIsPersistent(t *testing.T) {
	mm := NewMemoryManager(nil)

	original := vectorOf(mm, Fixnum(1), Fixnum(2))
	grown := VectorConj(mm, original, Fixnum(3))

	assert.Equal(t, 2, VectorCount(original))
	assert.Equal(t, 3, VectorCount(grown))
	assert.Equal(t, "[1 2]", PrStr(HeapValue(original)))
	assert.Equal(t, "[1 2 3]", PrStr(HeapValue(grown)))
	assert.Equal(t, int32(3), AsFixnum(VectorNth(grown, 2)))
}

func TestVector_Nth(t *testing.T) {
	mm := NewMemoryManager(nil)
	v := vectorOf(mm, Fixnum(10), Fixnum(20))

	tests := []struct {
		name     string
		index    int
		expected Value
	}{
		{name: "first", index: 0, expected: Fixnum(10)},
		{name: "last", index: 1, expected: Fixnum(20)},
		{name: "past the end", index: 2, expected: Nil},
		{name: "negative", index: -1, expected: Nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, Equal(tt.expected, VectorNth(v, tt.index)))
		})
	}
}

func TestVector_Assoc(t *testing.T) {
	mm := NewMemoryManager(nil)
	v := vectorOf(mm, Fixnum(1), Fixnum(2), Fixnum(3))

	updated, err := VectorAssoc(mm, v, 1, Fixnum(99))
	require.NoError(t, err)
	assert.Equal(t, "[1 99 3]", PrStr(HeapValue(updated)))
	assert.Equal(t, "[1 2 3]", PrStr(HeapValue(v)))

	t.Run("out of range fails", func(t *testing.T) {
		_, err := VectorAssoc(mm, v, 3, Fixnum(0))
		require.Error(t, err)
		ex, ok := err.(*Exception)
		require.True(t, ok)
		assert.Equal(t, "IllegalArgumentException", ex.Type)
	})
}

func TestVector_EmptySingleton(t *testing.T) {
	assert.Same(t, EmptyVector(), EmptyVector())
	assert.Equal(t, uint16(0), EmptyVector().hdr().Refcount)
	assert.True(t, EmptyVector().Singleton)
}

func TestTransientVector_ConjBangMutatesInPlace(t *testing.T) {
	mm := NewMemoryManager(nil)
	tr := EmptyVector().Transient(mm)

	for i := int32(0); i < 10; i++ {
		got, err := tr.ConjBang(mm, Fixnum(i))
		require.NoError(t, err)
		assert.Same(t, tr, got)
	}

	// growth past the seed capacity preserves identity and ordering
	assert.Equal(t, 10, len(tr.Items))
	for i := int32(0); i < 10; i++ {
		assert.Equal(t, i, AsFixnum(tr.Items[i]))
	}
}

func TestTransientVector_AssocBang(t *testing.T) {
	mm := NewMemoryManager(nil)
	tr := vectorOf(mm, Fixnum(1), Fixnum(2)).Transient(mm)

	_, err := tr.AssocBang(mm, 0, Fixnum(7))
	require.NoError(t, err)
	assert.Equal(t, int32(7), AsFixnum(tr.Items[0]))

	_, err = tr.AssocBang(mm, 5, Fixnum(0))
	require.Error(t, err)
}

func TestTransientVector_FreezeInvalidatesHandle(t *testing.T) {
	mm := NewMemoryManager(nil)
	tr := EmptyVector().Transient(mm)

	_, err := tr.ConjBang(mm, Fixnum(1))
	require.NoError(t, err)
	_, err = tr.ConjBang(mm, Fixnum(2))
	require.NoError(t, err)

	frozen := tr.Persistent()
	assert.Equal(t, "[1 2]", PrStr(HeapValue(frozen)))

	_, err = tr.ConjBang(mm, Fixnum(3))
	require.Error(t, err)
	assert.IsType(t, &FrozenTransientError{}, err)

	_, err = tr.AssocBang(mm, 0, Fixnum(0))
	require.Error(t, err)
	assert.IsType(t, &FrozenTransientError{}, err)
}

func TestTransientVector_DoesNotDisturbSource(t *testing.T) {
	mm := NewMemoryManager(nil)
	source := vectorOf(mm, Fixnum(1), Fixnum(2))

	tr := source.Transient(mm)
	_, err := tr.ConjBang(mm, Fixnum(3))
	require.NoError(t, err)

	assert.Equal(t, "[1 2]", PrStr(HeapValue(source)))
	assert.Equal(t, "[1 2 3]", PrStr(HeapValue(tr.Persistent())))
}

func TestVector_GrowthSeedComesFromConfig(t *testing.T) {
	cfg := NewConfig()
	cfg.SetInt("vector.initial_capacity", 16)
	mm := NewMemoryManager(cfg)

	tr := EmptyVector().Transient(mm)
	assert.Equal(t, 16, cap(tr.Items))
}
