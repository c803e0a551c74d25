package vm

import (
	"errors"

	"github.com/joshuapare/hivekit/errs"
	"github.com/joshuapare/hivekit/fiber"
	"github.com/joshuapare/hivekit/heap"
	"github.com/joshuapare/hivekit/host"
	"github.com/joshuapare/hivekit/value"
)

// execImport implements Import pathIdx symIdx (spec.md §4.4, §6):
// pathIdx names the import path constant; symIdx names either a
// symbol to pull out of the resolved module's export table, or the
// Nil constant the compiler emits to request the whole module (bound
// as a Map of its exports). Resolution goes through vm.Loader, with
// the module registry deduplicating repeated imports of the same path
// the way module.Registry.GetOrCreate and ModuleLoader both already
// key on path.
func (vm *VM) execImport(fh heap.Handle[*fiber.Fiber], f *fiber.Fiber, chunk *value.Chunk, pathIdx, symIdx int) {
	pathVal, ok := chunk.Constant(pathIdx)
	if !ok || !pathVal.IsObj() {
		panic("vm: Import path constant index out of range")
	}
	pathStr, ok := pathVal.AsObj().(*value.String)
	if !ok {
		panic("vm: Import path constant is not a string")
	}
	path := pathStr.Go()

	if vm.Loader == nil {
		vm.raiseInstance(fh, errs.ImportError, "no module loader installed")
		return
	}

	mod, err := vm.Loader.Resolve(path)
	if err != nil {
		if errors.Is(err, host.ErrModuleNotFound) {
			vm.raiseInstance(fh, errs.ImportError, "module not found: "+path)
			return
		}
		vm.raiseInstance(fh, errs.ImportError, "resolving module "+path+": "+err.Error())
		return
	}
	if regErr := vm.Modules.Register(path, mod); regErr != nil {
		vm.raiseInstance(fh, errs.ImportError, regErr.Error())
		return
	}

	symVal, ok := chunk.Constant(symIdx)
	if !ok {
		panic("vm: Import symbol constant index out of range")
	}
	if symVal.IsNil() {
		m := heap.Manage(vm.Heap, value.NewMap())
		for k, v := range mod.Deref().Exports() {
			keyHandle := vm.Hooks.ManageString(k)
			m.Deref().Set(vm.Heap, value.FromObj(keyHandle.Deref()), v)
		}
		f.Push(value.FromObj(m.Deref()))
		return
	}

	symStr, ok := symVal.AsObj().(*value.String)
	if !ok {
		panic("vm: Import symbol constant is not a string")
	}
	sym, ok := mod.Deref().ExportedSymbol(symStr.Go())
	if !ok {
		vm.raiseInstance(fh, errs.ImportError, "module "+path+" does not export '"+symStr.Go()+"'")
		return
	}
	f.Push(sym)
}

// execExport implements Export nameIdx (spec.md §4.4): marks a symbol
// already declared in the executing function's owning module as part
// of its public surface. Re-exporting the same name, or exporting an
// undeclared one, is an ExportError (value.Module.Export already
// enforces both).
func (vm *VM) execExport(fh heap.Handle[*fiber.Fiber], f *fiber.Fiber, frame fiber.CallFrame, chunk *value.Chunk, nameIdx int) {
	name := vm.constString(chunk, uint16(nameIdx))
	mod := vm.currentModule(frame)
	if err := mod.Export(name); err != nil {
		vm.raiseInstance(fh, errs.ExportError, err.Error())
	}
}
