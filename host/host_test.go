package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/hivekit/heap"
	"github.com/joshuapare/hivekit/value"
)

func TestDecodeLegacyTextASCIIFastPath(t *testing.T) {
	out, err := DecodeLegacyText([]byte("hello world"))
	require.NoError(t, err)
	assert.Equal(t, "hello world", out)
}

func TestDecodeLegacyTextWindows1252SlowPath(t *testing.T) {
	// 0x93/0x94 are Windows-1252 curly quotes with no ASCII equivalent.
	out, err := DecodeLegacyText([]byte{0x93, 'h', 'i', 0x94})
	require.NoError(t, err)
	assert.Equal(t, "“hi”", out)
}

func TestMapLoaderResolvesRegisteredPath(t *testing.T) {
	mod := heap.Manage(heap.New(noopTracer{}), value.NewModule("main.lay", 0))
	loader := MapLoader{"main.lay": mod}
	got, err := loader.Resolve("main.lay")
	require.NoError(t, err)
	assert.True(t, got.Equal(mod))
}

func TestMapLoaderMissingPathWrapsNotFound(t *testing.T) {
	loader := MapLoader{}
	_, err := loader.Resolve("missing.lay")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrModuleNotFound)
}

func TestChainLoaderFallsThroughToSecond(t *testing.T) {
	h := heap.New(noopTracer{})
	mod := heap.Manage(h, value.NewModule("a.lay", 0))
	first := MapLoader{}
	second := MapLoader{"a.lay": mod}
	chain := ChainLoader{first, second}

	got, err := chain.Resolve("a.lay")
	require.NoError(t, err)
	assert.True(t, got.Equal(mod))
}

func TestChainLoaderExhaustedReturnsNotFound(t *testing.T) {
	chain := ChainLoader{MapLoader{}, MapLoader{}}
	_, err := chain.Resolve("nowhere.lay")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrModuleNotFound)
}

type stubModule struct {
	symbols map[string]value.Value
}

func (s *stubModule) Define(name string, v value.Value) {
	if s.symbols == nil {
		s.symbols = map[string]value.Value{}
	}
	s.symbols[name] = v
}

func TestStandardLibraryInstallsDecodeLegacyText(t *testing.T) {
	lib := StandardLibrary()
	mod := &stubModule{}
	lib.Install(mod)

	got, ok := mod.symbols["decodeLegacyText"]
	require.True(t, ok)
	assert.True(t, got.IsObj())
}

type stubHooks struct {
	h *heap.Heap
}

func (s stubHooks) ManageString(str string) heap.Handle[*value.String] {
	return value.Intern(s.h, str)
}

func (stubHooks) Call(value.Value, []value.Value) (value.Value, error) {
	return value.Nil, nil
}

func TestStandardLibraryDecodeLegacyTextNative(t *testing.T) {
	h := heap.New(noopTracer{})
	hooks := stubHooks{h: h}

	lib := StandardLibrary()
	var fn *value.Native
	for _, f := range lib.Functions {
		if f.Name() == "decodeLegacyText" {
			fn = f
		}
	}
	require.NotNil(t, fn)

	arg := value.FromObj(value.NewString("hello"))
	out, err := fn.Call(hooks, value.Nil, []value.Value{arg})
	require.NoError(t, err)
	require.True(t, out.IsObj())
	str, ok := out.AsObj().(*value.String)
	require.True(t, ok)
	assert.Equal(t, "hello", str.Go())
}

type noopTracer struct{}

func (noopTracer) TraceRoots(heap.Marker) {}
