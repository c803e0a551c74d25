package fiber

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/hivekit/heap"
	"github.com/joshuapare/hivekit/value"
)

func TestStackPushPopPeek(t *testing.T) {
	f, err := New(8, 4)
	require.NoError(t, err)
	defer f.Close()

	require.True(t, f.Push(value.Number(1)))
	require.True(t, f.Push(value.Number(2)))

	v, ok := f.Peek(0)
	require.True(t, ok)
	assert.True(t, value.Equal(value.Number(2), v))

	v, ok = f.Pop()
	require.True(t, ok)
	assert.True(t, value.Equal(value.Number(2), v))
	assert.Equal(t, 1, f.StackLen())
}

func TestStackOverflowReturnsFalse(t *testing.T) {
	f, err := New(2, 4)
	require.NoError(t, err)
	defer f.Close()

	assert.True(t, f.Push(value.Number(1)))
	assert.True(t, f.Push(value.Number(2)))
	assert.False(t, f.Push(value.Number(3)))
}

func TestFramePushPopTracksIPAndBase(t *testing.T) {
	f, err := New(16, 4)
	require.NoError(t, err)
	defer f.Close()

	h := heap.Handle[*value.Closure]{}
	require.True(t, f.PushFrame(h, 3))
	f.SetCurrentIP(42)

	frame, ok := f.CurrentFrame()
	require.True(t, ok)
	assert.Equal(t, uint32(3), frame.Base)
	assert.Equal(t, uint32(42), frame.IP)

	assert.True(t, f.PopFrame())
	assert.Equal(t, 0, f.FrameCount())
}

func TestMaxFrameDepthRejected(t *testing.T) {
	f, err := New(16, 2)
	require.NoError(t, err)
	defer f.Close()

	h := heap.Handle[*value.Closure]{}
	require.True(t, f.PushFrame(h, 0))
	require.True(t, f.PushFrame(h, 0))
	assert.False(t, f.PushFrame(h, 0))
}

func TestOpenUpvalueInsertFindClose(t *testing.T) {
	f, err := New(16, 4)
	require.NoError(t, err)
	defer f.Close()

	f.Push(value.Number(10))
	f.Push(value.Number(20))

	uv := heap.NewHandle(value.NewOpenUpvalue(1))
	f.InsertOpenUpvalue(uv)

	found, ok := f.FindOpenUpvalue(1)
	require.True(t, ok)
	assert.True(t, found.Equal(uv))

	f.CloseUpvaluesFrom(0)
	assert.Equal(t, 0, f.OpenUpvalueCount())
	assert.False(t, uv.Deref().IsOpen())
	assert.True(t, value.Equal(value.Number(20), uv.Deref().Get(nil)))
}

func TestFiberStateTransitions(t *testing.T) {
	f, err := New(16, 4)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, Ready, f.State())
	f.SetRunning()
	assert.Equal(t, Running, f.State())
	f.SetErrored(value.Number(1))
	assert.Equal(t, Errored, f.State())
}
