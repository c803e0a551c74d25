package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/hivekit/config"
	"github.com/joshuapare/hivekit/vm"
)

func init() {
	cmd := newRunCmd()
	rootCmd.AddCommand(cmd)
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <fixture>",
		Short: "Run a built-in bytecode fixture to completion",
		Long: fmt.Sprintf(`The run command executes a named built-in fixture on a fresh VM
and prints its final value, or its uncaught error.

Available fixtures: %v

Example:
  laythevm run arithmetic
  laythevm run counter --config tuning.yaml`, fixtureNames()),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(args)
		},
	}
	return cmd
}

func runRun(args []string) error {
	if err := checkArgs(args, 1, "laythevm run <fixture>"); err != nil {
		return err
	}
	name := args[0]

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	printVerbose("Loaded config: %+v\n", cfg)

	v := vm.New(cfg.VMOptions()...)
	closure, err := loadFixture(v, name)
	if err != nil {
		return err
	}

	result, err := v.Run(closure)
	if err != nil {
		printError("%s\n", err)
		return err
	}

	if jsonOut {
		return printJSON(map[string]any{
			"fixture": name,
			"result":  result.Format(0),
		})
	}
	printInfo("%s => %s\n", name, result.Format(0))
	return nil
}
