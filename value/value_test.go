package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/hivekit/heap"
)

func TestTruthiness(t *testing.T) {
	assert.False(t, Nil.Truthy())
	assert.False(t, Bool(false).Truthy())
	assert.True(t, Bool(true).Truthy())
	assert.True(t, Number(0).Truthy())
}

func TestNumberEquality(t *testing.T) {
	assert.True(t, Equal(Number(1.5), Number(1.5)))
	assert.False(t, Equal(Number(1), Number(2)))
	assert.False(t, Equal(Number(1), Bool(true)))
}

func TestInternedStringIdentity(t *testing.T) {
	h := heap.New(nil)
	a := Intern(h, "hello")
	b := Intern(h, "hello")

	assert.True(t, Equal(FromObj(a.Obj()), FromObj(b.Obj())))
	assert.Equal(t, 1, h.LiveObjects())
}

func TestListGrowAccounting(t *testing.T) {
	h := heap.New(nil)
	l := NewList()
	heap.Manage(h, l)
	before := h.BytesAllocated()

	l.Push(h, Number(1))
	l.Push(h, Number(2))

	assert.Greater(t, h.BytesAllocated(), before)
	assert.Equal(t, 2, l.Len())

	v, ok := l.Get(1)
	require.True(t, ok)
	assert.True(t, Equal(Number(2), v))
}

func TestMapSetGetDelete(t *testing.T) {
	h := heap.New(nil)
	m := NewMap()
	heap.Manage(h, m)

	m.Set(h, Number(1), Bool(true))
	v, ok := m.Get(Number(1))
	require.True(t, ok)
	assert.True(t, v.AsBool())

	assert.True(t, m.Delete(h, Number(1)))
	_, ok = m.Get(Number(1))
	assert.False(t, ok)
}

func TestFormatDepthSentinelOnCycle(t *testing.T) {
	a := NewList()
	a.items = append(a.items, FromObj(a)) // cyclic list
	assert.Contains(t, a.Format(1), heap.FormatDepthSentinel)
}

func TestClassInheritanceCopiesMethods(t *testing.T) {
	h := heap.New(nil)
	base := NewClass("A", nil)
	base.AddMethod("m", Number(1))
	baseHandle := heap.Manage(h, base)

	sub := NewClass("B", nil)
	sub.SetSuper(baseHandle)

	v, ok := sub.Method("m")
	require.True(t, ok)
	assert.True(t, Equal(Number(1), v))
}

func TestInstanceFieldAccessByClassIndex(t *testing.T) {
	h := heap.New(nil)
	class := NewClass("Point", []string{"x", "y"})
	classHandle := heap.Manage(h, class)

	inst := NewInstance(classHandle)
	require.True(t, inst.SetField("x", Number(3)))

	v, ok := inst.Field("x")
	require.True(t, ok)
	assert.True(t, Equal(Number(3), v))

	_, ok = inst.Field("z")
	assert.False(t, ok)
}

func TestUpvalueOpenCloseTransition(t *testing.T) {
	stack := []Value{Number(10), Number(20)}
	uv := NewOpenUpvalue(1)
	assert.True(t, uv.IsOpen())
	assert.True(t, Equal(Number(20), uv.Get(stack)))

	uv.Close(uv.Get(stack))
	assert.False(t, uv.IsOpen())
	assert.True(t, Equal(Number(20), uv.Get(nil)))
}
