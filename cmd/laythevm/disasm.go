package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/hivekit/bytecode"
	"github.com/joshuapare/hivekit/config"
	"github.com/joshuapare/hivekit/vm"
)

func init() {
	cmd := newDisasmCmd()
	rootCmd.AddCommand(cmd)
}

func newDisasmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "disasm <fixture>",
		Short: "Disassemble a built-in bytecode fixture",
		Long: fmt.Sprintf(`The disasm command prints a named built-in fixture's bytecode in
human-readable form, one instruction per line with source line numbers
and decoded operands.

Available fixtures: %v

Example:
  laythevm disasm arithmetic
  laythevm disasm counter`, fixtureNames()),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDisasm(args)
		},
	}
	return cmd
}

func runDisasm(args []string) error {
	if err := checkArgs(args, 1, "laythevm disasm <fixture>"); err != nil {
		return err
	}
	name := args[0]

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	v := vm.New(cfg.VMOptions()...)

	closure, err := loadFixture(v, name)
	if err != nil {
		return err
	}
	fun := closure.Deref().Fun().Deref()
	chunk := fun.ChunkRef()

	printVerbose("Disassembling fixture %q (%d constants, %d bytes of code)\n",
		name, len(chunk.Constants()), len(chunk.Code()))
	printInfo("%s", bytecode.Disassemble(chunk, fun.Name(), fmtConstant(chunk)))
	return nil
}
