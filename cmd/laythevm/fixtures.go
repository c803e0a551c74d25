package main

import (
	"fmt"

	"github.com/joshuapare/hivekit/bytecode"
	"github.com/joshuapare/hivekit/heap"
	"github.com/joshuapare/hivekit/value"
	"github.com/joshuapare/hivekit/vm"
)

// fixtures lists the built-in programs disasm/run/gcstress can operate
// on. There is no lexer/parser/compiler in scope (spec.md's
// Non-goals), so every fixture here is assembled directly against
// value.FunBuilder/bytecode.ChunkBuilder, the same construction path
// vm/vm_test.go's scenarios use.
var fixtures = map[string]func(mod heap.Handle[*value.Module]) *value.FunBuilder{
	"arithmetic": buildArithmeticFixture,
	"counter":    buildCounterFixture,
}

func fixtureNames() []string {
	names := make([]string, 0, len(fixtures))
	for name := range fixtures {
		names = append(names, name)
	}
	return names
}

// buildArithmeticFixture computes (2 + 3) * 4.
func buildArithmeticFixture(mod heap.Handle[*value.Module]) *value.FunBuilder {
	fb := value.NewFunBuilder("arithmetic", value.Fixed(0), mod)
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
	return fb
}

// buildCounterFixture closes an "increment" function over a local
// upvalue and calls it twice, exercising closure/upvalue capture —
// the same shape gcstress repeatedly runs under heap.WithStressMode to
// surface a missed GC root.
func buildCounterFixture(mod heap.Handle[*value.Module]) *value.FunBuilder {
	incBuilder := value.NewFunBuilder("increment", value.Fixed(0), mod)
	inc := incBuilder.Code()
	one := inc.AddConstant(value.Number(1))
	inc.Emit(bytecode.GetUpvalue, 1, 0)
	inc.Emit(bytecode.Constant, 1, uint16(one))
	inc.Emit(bytecode.Add, 1)
	inc.Emit(bytecode.SetUpvalue, 1, 0)
	inc.Emit(bytecode.Return, 1)
	incBuilder.SetUpvalueCount(1)

	scriptBuilder := value.NewFunBuilder("counter", value.Fixed(0), mod)
	sc := scriptBuilder.Code()
	zero := sc.AddConstant(value.Number(0))
	incConst := sc.AddConstant(value.FromObj(incBuilder.Build()))
	sc.Emit(bytecode.Constant, 1, uint16(zero))
	sc.Emit(bytecode.Closure, 2, uint16(incConst))
	sc.Emit(bytecode.UpvalueIndex, 2, uint16(bytecode.CaptureLocal), 0)
	sc.Emit(bytecode.GetLocal, 3, 1)
	sc.Emit(bytecode.Call, 3, 0)
	sc.Emit(bytecode.GetLocal, 4, 1)
	sc.Emit(bytecode.Call, 4, 0)
	sc.Emit(bytecode.Return, 5)
	return scriptBuilder
}

// loadFixture resolves name against fixtures and builds it into a
// runnable Closure on v's own heap.
func loadFixture(v *vm.VM, name string) (heap.Handle[*value.Closure], error) {
	build, ok := fixtures[name]
	if !ok {
		return heap.Handle[*value.Closure]{}, fmt.Errorf("unknown fixture %q (available: %v)", name, fixtureNames())
	}
	mod := heap.Manage(v.Heap, value.NewModule("laythevm", 0))
	fb := build(mod)
	fun := heap.Manage(v.Heap, fb.Build())
	return heap.Manage(v.Heap, value.NewClosure(fun, nil)), nil
}

// fmtConstant renders a chunk's constant pool entry for disasm.
func fmtConstant(chunk *value.Chunk) func(int) string {
	return func(idx int) string {
		c, ok := chunk.Constant(idx)
		if !ok {
			return "?"
		}
		return c.Format(2)
	}
}
