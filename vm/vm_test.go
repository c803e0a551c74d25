package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/hivekit/bytecode"
	"github.com/joshuapare/hivekit/channel"
	"github.com/joshuapare/hivekit/errs"
	"github.com/joshuapare/hivekit/heap"
	"github.com/joshuapare/hivekit/value"
)

// fixture bundles the pieces every hand-assembled test program needs:
// the VM it will run against and the module every Fun it builds
// belongs to. There is no compiler in this project (spec.md's Non-
// goals), so every test below assembles bytecode.ChunkBuilder output
// directly, the way bytecode_test.go exercises Decode/Disassemble
// against hand-built instruction streams.
type fixture struct {
	vm  *VM
	mod heap.Handle[*value.Module]
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	vmi := New(opts...)
	mod := heap.Manage(vmi.Heap, value.NewModule("test", 0))
	return &fixture{vm: vmi, mod: mod}
}

// constString interns name as a Fun's/Class's constant-pool operand.
func (fx *fixture) constString(b *value.ChunkBuilder, name string) int {
	h := heap.Manage(fx.vm.Heap, value.NewString(name))
	return b.AddConstant(value.FromObj(h.Deref()))
}

// closureOf finalizes a FunBuilder with no captured upvalues and
// returns a ready-to-run Closure handle.
func (fx *fixture) closureOf(fb *value.FunBuilder) heap.Handle[*value.Closure] {
	fun := fb.Build()
	funHandle := heap.Manage(fx.vm.Heap, fun)
	return heap.Manage(fx.vm.Heap, value.NewClosure(funHandle, nil))
}

func TestArithmeticExpression(t *testing.T) {
	fx := newFixture(t)
	fb := value.NewFunBuilder("", value.Fixed(0), fx.mod)
	b := fb.Code()
	two := b.AddConstant(value.Number(2))
	three := b.AddConstant(value.Number(3))
	four := b.AddConstant(value.Number(4))
	b.Emit(bytecode.Constant, 1, uint16(two))
	b.Emit(bytecode.Constant, 1, uint16(three))
	b.Emit(bytecode.Add, 1)
	b.Emit(bytecode.Constant, 1, uint16(four))
	b.Emit(bytecode.Mul, 1)
	b.Emit(bytecode.Return, 1)

	result, err := fx.vm.Run(fx.closureOf(fb))
	require.NoError(t, err)
	require.True(t, result.IsNumber())
	assert.Equal(t, float64(20), result.AsNumber())
}

func TestStringConcatenation(t *testing.T) {
	fx := newFixture(t)
	fb := value.NewFunBuilder("", value.Fixed(0), fx.mod)
	b := fb.Code()
	hello := b.AddConstant(value.FromObj(value.NewString("hello, ")))
	world := b.AddConstant(value.FromObj(value.NewString("world")))
	b.Emit(bytecode.Constant, 1, uint16(hello))
	b.Emit(bytecode.Constant, 1, uint16(world))
	b.Emit(bytecode.Add, 1)
	b.Emit(bytecode.Return, 1)

	result, err := fx.vm.Run(fx.closureOf(fb))
	require.NoError(t, err)
	require.True(t, result.IsObj())
	s, ok := result.AsObj().(*value.String)
	require.True(t, ok)
	assert.Equal(t, "hello, world", s.Go())
}

// buildCounter assembles a top-level script that declares a local n=0,
// closes an "increment" function over it by reference (CaptureLocal),
// and calls that same closure twice by re-fetching it out of its local
// slot (GetLocal doubles as the "duplicate this value for another use"
// the instruction set has no dedicated opcode for). Each call mutates
// the shared upvalue, so the script's final result is 2.
func buildCounter(fx *fixture) heap.Handle[*value.Closure] {
	incBuilder := value.NewFunBuilder("increment", value.Fixed(0), fx.mod)
	inc := incBuilder.Code()
	one := inc.AddConstant(value.Number(1))
	inc.Emit(bytecode.GetUpvalue, 1, 0)
	inc.Emit(bytecode.Constant, 1, uint16(one))
	inc.Emit(bytecode.Add, 1)
	inc.Emit(bytecode.SetUpvalue, 1, 0)
	inc.Emit(bytecode.Return, 1)
	incBuilder.SetUpvalueCount(1)
	incFun := incBuilder.Build()
	incFunHandle := heap.Manage(fx.vm.Heap, incFun)

	scriptBuilder := value.NewFunBuilder("", value.Fixed(0), fx.mod)
	sc := scriptBuilder.Code()
	zero := sc.AddConstant(value.Number(0))
	incConst := sc.AddConstant(value.FromObj(incFunHandle.Deref()))
	sc.Emit(bytecode.Constant, 1, uint16(zero))
	sc.Emit(bytecode.Closure, 2, uint16(incConst))
	sc.Emit(bytecode.UpvalueIndex, 2, uint16(bytecode.CaptureLocal), 0)
	sc.Emit(bytecode.GetLocal, 3, 1)
	sc.Emit(bytecode.Call, 3, 0)
	sc.Emit(bytecode.GetLocal, 4, 1)
	sc.Emit(bytecode.Call, 4, 0)
	sc.Emit(bytecode.Return, 5)

	return fx.closureOf(scriptBuilder)
}

func TestClosureCapturesAndMutatesUpvalue(t *testing.T) {
	fx := newFixture(t)
	result, err := fx.vm.Run(buildCounter(fx))
	require.NoError(t, err)
	require.True(t, result.IsNumber())
	assert.Equal(t, float64(2), result.AsNumber())
}

// TestClosureSurvivesGCStress runs the same program with the heap
// collecting on every single allocation, so any root the VM forgets to
// trace (the open upvalue, the closure, the fiber's frame stack) would
// surface as a panic or a wrong result rather than silently slipping
// through on a heap that rarely collects.
func TestClosureSurvivesGCStress(t *testing.T) {
	fx := newFixture(t, WithHeapOptions(heap.WithStressMode(true)))
	result, err := fx.vm.Run(buildCounter(fx))
	require.NoError(t, err)
	assert.Equal(t, float64(2), result.AsNumber())
	assert.Greater(t, fx.vm.Heap.Collections(), 0)
}

// TestTryCatchUnwindsToHandler raises a RuntimeError (negating Nil)
// inside a try block and confirms the script's own result is the
// caught error instance rather than an Errored fiber — spec.md §7's
// unwind protocol, exercised without a compiler by hand-placing the
// try range around the raising instruction and the handler immediately
// past it.
func TestTryCatchUnwindsToHandler(t *testing.T) {
	fx := newFixture(t)
	fb := value.NewFunBuilder("", value.Fixed(0), fx.mod)
	b := fb.Code()

	nilOff := b.Emit(bytecode.Nil, 1)
	b.Emit(bytecode.Negate, 1) // always raises: Nil has no numeric value
	b.Emit(bytecode.Drop, 1)   // dead filler, padding the try range past the raise point
	handlerOff := b.Offset()
	b.Emit(bytecode.Return, 2) // handler: pops the caught error value, returns it
	b.AddTry(nilOff, handlerOff)

	result, err := fx.vm.Run(fx.closureOf(fb))
	require.NoError(t, err)
	require.True(t, result.IsObj())
	inst, ok := result.AsObj().(*value.Instance)
	require.True(t, ok)
	assert.Equal(t, errs.RuntimeError.String(), inst.Class().Deref().Name())
}

// TestClassInheritanceSuperInvoke builds an Animal class with a speak
// method and a Dog subclass whose own speak delegates wholesale to
// Animal's via SuperInvoke, confirming Inherit's method-table copy,
// Invoke's receiver-in-place dispatch, and SuperInvoke's explicit-
// superclass dispatch all compose correctly.
func TestClassInheritanceSuperInvoke(t *testing.T) {
	fx := newFixture(t)

	animalSpeak := value.NewFunBuilder("speak", value.Fixed(0), fx.mod)
	as := animalSpeak.Code()
	generic := as.AddConstant(value.FromObj(value.NewString("generic")))
	as.Emit(bytecode.Constant, 1, uint16(generic))
	as.Emit(bytecode.Return, 1)
	animalSpeakFun := animalSpeak.Build()
	animalSpeakHandle := heap.Manage(fx.vm.Heap, animalSpeakFun)

	dogSpeak := value.NewFunBuilder("speak", value.Fixed(0), fx.mod)
	ds := dogSpeak.Code()
	animalNameForGlobal := fx.constString(ds, "Animal")
	speakName := fx.constString(ds, "speak")
	ds.Emit(bytecode.GetGlobal, 1, uint16(animalNameForGlobal))
	ds.Emit(bytecode.SuperInvoke, 1, uint16(speakName), 0)
	ds.Emit(bytecode.Return, 1)
	dogSpeakFun := dogSpeak.Build()
	dogSpeakHandle := heap.Manage(fx.vm.Heap, dogSpeakFun)

	scriptBuilder := value.NewFunBuilder("", value.Fixed(0), fx.mod)
	sc := scriptBuilder.Code()
	animalTmplIdx := sc.AddConstant(value.FromObj(value.NewClass("Animal", nil)))
	dogTmplIdx := sc.AddConstant(value.FromObj(value.NewClass("Dog", nil)))
	animalSpeakClosureIdx := sc.AddConstant(value.FromObj(animalSpeakHandle.Deref()))
	dogSpeakClosureIdx := sc.AddConstant(value.FromObj(dogSpeakHandle.Deref()))
	animalName := fx.constString(sc, "Animal")
	dogName := fx.constString(sc, "Dog")
	speakMethodName := fx.constString(sc, "speak")

	sc.Emit(bytecode.Class, 1, uint16(animalTmplIdx))
	sc.Emit(bytecode.Closure, 1, uint16(animalSpeakClosureIdx))
	sc.Emit(bytecode.Method, 1, uint16(speakMethodName))
	sc.Emit(bytecode.DefineGlobal, 1, uint16(animalName))

	sc.Emit(bytecode.GetGlobal, 2, uint16(animalName))
	sc.Emit(bytecode.Class, 2, uint16(dogTmplIdx))
	sc.Emit(bytecode.Inherit, 2)
	sc.Emit(bytecode.Closure, 2, uint16(dogSpeakClosureIdx))
	sc.Emit(bytecode.Method, 2, uint16(speakMethodName))
	sc.Emit(bytecode.DefineGlobal, 2, uint16(dogName))

	sc.Emit(bytecode.GetGlobal, 3, uint16(dogName))
	sc.Emit(bytecode.Call, 3, 0)
	sc.Emit(bytecode.Invoke, 3, uint16(speakMethodName), 0)
	sc.Emit(bytecode.Return, 3)

	result, err := fx.vm.Run(fx.closureOf(scriptBuilder))
	require.NoError(t, err)
	require.True(t, result.IsObj())
	s, ok := result.AsObj().(*value.String)
	require.True(t, ok)
	assert.Equal(t, "generic", s.Go())
}

// TestChannelHandoffAcrossSpawnedFiber spawns a child fiber that sends
// a value on a channel the main fiber is (or will be) receiving from,
// exercising the full asymmetric wake path: the main fiber blocks on
// receive before anything has been sent, the child's send resolves via
// direct handoff and wakes it, and the main fiber's own retried
// Channel.Receive is what actually dequeues the value (scheduler.go's
// resolveChannelOp).
func TestChannelHandoffAcrossSpawnedFiber(t *testing.T) {
	fx := newFixture(t)
	ch := heap.Manage(fx.vm.Heap, channel.NewChannel(1))

	childBuilder := value.NewFunBuilder("sender", value.Fixed(1), fx.mod)
	cb := childBuilder.Code()
	sendName := fx.constString(cb, "send")
	payload := cb.AddConstant(value.Number(42))
	cb.Emit(bytecode.GetGlobal, 1, uint16(sendName))
	cb.Emit(bytecode.GetLocal, 1, 1) // slot 0 is the callee; the channel argument is slot 1
	cb.Emit(bytecode.Constant, 1, uint16(payload))
	cb.Emit(bytecode.Call, 1, 2)
	cb.Emit(bytecode.Return, 1)
	childFun := childBuilder.Build()
	childFunHandle := heap.Manage(fx.vm.Heap, childFun)

	scriptBuilder := value.NewFunBuilder("", value.Fixed(0), fx.mod)
	sc := scriptBuilder.Code()
	spawnName := fx.constString(sc, "spawn")
	receiveName := fx.constString(sc, "receive")
	chConst := sc.AddConstant(value.FromObj(ch.Deref()))
	childConst := sc.AddConstant(value.FromObj(childFunHandle.Deref()))

	sc.Emit(bytecode.GetGlobal, 1, uint16(spawnName))
	sc.Emit(bytecode.Closure, 1, uint16(childConst))
	sc.Emit(bytecode.Constant, 1, uint16(chConst))
	sc.Emit(bytecode.Call, 1, 2)
	sc.Emit(bytecode.Drop, 1) // discard the spawned fiber handle

	sc.Emit(bytecode.GetGlobal, 2, uint16(receiveName))
	sc.Emit(bytecode.Constant, 2, uint16(chConst))
	sc.Emit(bytecode.Call, 2, 1)
	sc.Emit(bytecode.Return, 2)

	result, err := fx.vm.Run(fx.closureOf(scriptBuilder))
	require.NoError(t, err)
	require.True(t, result.IsNumber())
	assert.Equal(t, float64(42), result.AsNumber())
}

// TestSendOnClosedChannelRaises confirms a blocked sender woken by
// Close observes an error rather than having its value silently
// dropped or its Send call replayed a second time.
func TestSendOnClosedChannelRaises(t *testing.T) {
	fx := newFixture(t)
	ch := heap.Manage(fx.vm.Heap, channel.NewChannel(0))

	fb := value.NewFunBuilder("", value.Fixed(0), fx.mod)
	b := fb.Code()
	sendName := fx.constString(b, "send")
	chConst := b.AddConstant(value.FromObj(ch.Deref()))
	payload := b.AddConstant(value.Number(1))
	b.Emit(bytecode.GetGlobal, 1, uint16(sendName))
	b.Emit(bytecode.Constant, 1, uint16(chConst))
	b.Emit(bytecode.Constant, 1, uint16(payload))
	b.Emit(bytecode.Call, 1, 2)
	b.Emit(bytecode.Return, 1)

	main, err := fx.vm.NewFiber()
	require.NoError(t, err)
	closure := fx.closureOf(fb)
	require.True(t, main.Deref().PushFrame(closure, 0))
	main.Deref().SetRunning()
	fx.vm.current = main

	fx.vm.runFiber(main)
	require.Equal(t, "Blocked", main.Deref().State().String())

	fx.vm.channelClose(ch.Deref())
	assert.Equal(t, "Errored", main.Deref().State().String())
}
