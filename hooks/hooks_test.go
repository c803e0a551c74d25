package hooks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/hivekit/heap"
	"github.com/joshuapare/hivekit/module"
	"github.com/joshuapare/hivekit/value"
)

type noopTracer struct{}

func (noopTracer) TraceRoots(heap.Marker) {}

type stubCaller struct {
	called bool
}

func (s *stubCaller) Call(callee value.Value, args []value.Value) (value.Value, error) {
	s.called = true
	return value.Number(float64(len(args))), nil
}

func TestManageStringInterns(t *testing.T) {
	h := heap.New(noopTracer{})
	hk := New(h, module.NewRegistry())

	a := hk.ManageString("hello")
	b := hk.ManageString("hello")
	assert.True(t, a.Equal(b))
}

func TestCallDelegatesToInstalledCaller(t *testing.T) {
	h := heap.New(noopTracer{})
	hk := New(h, module.NewRegistry())
	caller := &stubCaller{}
	hk.SetCaller(caller)

	out, err := hk.Call(value.Nil, []value.Value{value.Number(1), value.Number(2)})
	require.NoError(t, err)
	assert.True(t, caller.called)
	assert.True(t, value.Equal(value.Number(2), out))
}

func TestManageAllocatesOntoHeap(t *testing.T) {
	h := heap.New(noopTracer{})
	hk := New(h, module.NewRegistry())

	lst := Manage(hk, value.NewList(value.Number(1), value.Number(2)))
	assert.Equal(t, 2, lst.Deref().Len())
}

func TestPushPopRootTracksPinnedObjects(t *testing.T) {
	h := heap.New(noopTracer{})
	hk := New(h, module.NewRegistry())

	obj := value.NewList()
	hk.PushRoot(obj)
	assert.Len(t, hk.roots, 1)
	hk.PopRoot()
	assert.Len(t, hk.roots, 0)
}

func TestPopRootOnEmptyStackIsNoop(t *testing.T) {
	h := heap.New(noopTracer{})
	hk := New(h, module.NewRegistry())
	hk.PopRoot()
	assert.Len(t, hk.roots, 0)
}
