package tinyclj

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingHook counts memory events per kind so tests can assert the
// retain/release balance invariant through the hook surface.
type recordingHook struct {
	counts map[AllocEvent]int
}

func newRecordingHook() *recordingHook {
	return &recordingHook{counts: make(map[AllocEvent]int)}
}

func (h *recordingHook) OnMemoryEvent(event AllocEvent, o Object) {
	h.counts[event]++
}

func TestMemory_RetainReleaseBalance(t *testing.T) {
	mm := NewMemoryManager(nil)
	hook := newRecordingHook()
	mm.SetHook(hook)

	v := HeapValue(NewString("balanced"))
	mm.Retain(v)
	mm.Retain(v)
	require.NoError(t, mm.Release(v))
	require.NoError(t, mm.Release(v))
	require.NoError(t, mm.Release(v))

	assert.Equal(t, 2, hook.counts[EventRetain])
	assert.Equal(t, 3, hook.counts[EventRelease])
	assert.Equal(t, 1, hook.counts[EventFree])
}

func TestMemory_DoubleFree(t *testing.T) {
	t.Run("fatal by default", func(t *testing.T) {
		mm := NewMemoryManager(nil)
		v := HeapValue(NewString("once"))
		require.NoError(t, mm.Release(v))

		err := mm.Release(v)
		require.Error(t, err)
		assert.IsType(t, &DoubleFreeError{}, err)
	})

	t.Run("recorded only when disabled", func(t *testing.T) {
		cfg := NewConfig()
		cfg.SetBool("memory.double_free_fatal", false)
		mm := NewMemoryManager(cfg)
		hook := newRecordingHook()
		mm.SetHook(hook)

		v := HeapValue(NewString("twice"))
		require.NoError(t, mm.Release(v))
		require.NoError(t, mm.Release(v))
		assert.Equal(t, 2, hook.counts[EventFree])
	})
}

func TestMemory_ImmediatesAndSingletonsAreExempt(t *testing.T) {
	mm := NewMemoryManager(nil)

	tests := []struct {
		name  string
		value Value
	}{
		{name: "nil", value: Nil},
		{name: "fixnum", value: Fixnum(5)},
		{name: "char", value: Character('a')},
		{name: "true", value: True},
		{name: "empty vector", value: HeapValue(EmptyVector())},
		{name: "empty map", value: HeapValue(EmptyMap())},
		{name: "empty string", value: HeapValue(EmptyString())},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 100; i++ {
				mm.Retain(tt.value)
			}
			for i := 0; i < 200; i++ {
				require.NoError(t, mm.Release(tt.value))
			}
			if IsHeap(tt.value) {
				assert.Equal(t, uint16(0), AsHeap(tt.value).hdr().Refcount)
			}
		})
	}
}

func TestMemory_AutoreleasePool(t *testing.T) {
	t.Run("pop drains every deposited value once", func(t *testing.T) {
		mm := NewMemoryManager(nil)
		hook := newRecordingHook()
		mm.SetHook(hook)

		pool := mm.PoolPush()
		for i := 0; i < 3; i++ {
			_, err := mm.Autorelease(HeapValue(NewString("pooled")))
			require.NoError(t, err)
		}
		assert.Equal(t, 3, hook.counts[EventAutorelease])
		assert.Equal(t, 0, hook.counts[EventFree])

		require.NoError(t, mm.PoolPop(pool))
		assert.Equal(t, 3, hook.counts[EventFree])
		assert.Equal(t, 0, mm.PoolDepth())
	})

	t.Run("pools nest LIFO", func(t *testing.T) {
		mm := NewMemoryManager(nil)
		hook := newRecordingHook()
		mm.SetHook(hook)

		outer := mm.PoolPush()
		outerVal, err := mm.Autorelease(HeapValue(NewString("outer")))
		require.NoError(t, err)

		inner := mm.PoolPush()
		_, err = mm.Autorelease(HeapValue(NewString("inner")))
		require.NoError(t, err)

		require.NoError(t, mm.PoolPop(inner))
		assert.Equal(t, 1, hook.counts[EventFree])
		// the outer deposit survives the inner drain
		assert.Equal(t, uint16(1), AsHeap(outerVal).hdr().Refcount)

		require.NoError(t, mm.PoolPop(outer))
		assert.Equal(t, 2, hook.counts[EventFree])
	})

	t.Run("autorelease without a pool fails loudly", func(t *testing.T) {
		mm := NewMemoryManager(nil)
		_, err := mm.Autorelease(HeapValue(NewString("homeless")))
		require.Error(t, err)
		assert.IsType(t, &NoActivePoolError{}, err)
	})

	t.Run("autorelease of an immediate needs no pool", func(t *testing.T) {
		mm := NewMemoryManager(nil)
		v, err := mm.Autorelease(Fixnum(7))
		require.NoError(t, err)
		assert.Equal(t, int32(7), AsFixnum(v))
	})

	t.Run("popping out of order is an imbalance", func(t *testing.T) {
		mm := NewMemoryManager(nil)
		bottom := mm.PoolPush()
		mm.PoolPush()

		err := mm.PoolPop(bottom)
		require.Error(t, err)
		assert.IsType(t, &PoolImbalanceError{}, err)
	})
}

func TestMemory_DeepFinalizers(t *testing.T) {
	t.Run("vector releases its elements", func(t *testing.T) {
		mm := NewMemoryManager(nil)
		elem := HeapValue(NewString("elem"))
		v := VectorConj(mm, EmptyVector(), elem)
		// the constructor's +1 is ours; the vector holds its own
		require.NoError(t, mm.Release(elem))
		assert.Equal(t, uint16(1), AsHeap(elem).hdr().Refcount)

		hook := newRecordingHook()
		mm.SetHook(hook)
		require.NoError(t, mm.Release(HeapValue(v)))
		// vector freed plus its element freed
		assert.Equal(t, 2, hook.counts[EventFree])
	})

	t.Run("list releases first and rest", func(t *testing.T) {
		mm := NewMemoryManager(nil)
		head := HeapValue(NewString("head"))
		cell := MakeList(mm, head, Nil)
		require.NoError(t, mm.Release(head))

		hook := newRecordingHook()
		mm.SetHook(hook)
		require.NoError(t, mm.Release(HeapValue(cell)))
		assert.Equal(t, 2, hook.counts[EventFree])
	})

	t.Run("map releases both keys and values", func(t *testing.T) {
		mm := NewMemoryManager(nil)
		k := HeapValue(NewString("k"))
		v := HeapValue(NewString("v"))
		m := MapAssoc(mm, EmptyMap(), k, v)
		require.NoError(t, mm.Release(k))
		require.NoError(t, mm.Release(v))

		hook := newRecordingHook()
		mm.SetHook(hook)
		require.NoError(t, mm.Release(HeapValue(m)))
		assert.Equal(t, 3, hook.counts[EventFree])
	})

	t.Run("seq releases its container", func(t *testing.T) {
		mm := NewMemoryManager(nil)
		container := HeapValue(VectorConj(mm, EmptyVector(), Fixnum(1)))
		s := SeqOf(mm, container)
		require.NoError(t, mm.Release(container))

		hook := newRecordingHook()
		mm.SetHook(hook)
		require.NoError(t, mm.Release(HeapValue(s)))
		assert.Equal(t, 2, hook.counts[EventFree])
	})
}
