package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/hivekit/config"
	"github.com/joshuapare/hivekit/vm"
)

var gcstressIterations int

func init() {
	cmd := newGCStressCmd()
	cmd.Flags().IntVar(&gcstressIterations, "iterations", 100,
		"Number of times to re-run the fixture under forced collection")
	rootCmd.AddCommand(cmd)
}

func newGCStressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gcstress <fixture>",
		Short: "Run a fixture repeatedly under heap.WithStressMode",
		Long: fmt.Sprintf(`The gcstress command forces heap.WithStressMode regardless of the
loaded config, then runs the named fixture repeatedly on a fresh VM
each iteration, the way vm_test.go's TestClosureSurvivesGCStress
exercises a single run — to catch a missed GC root that a single
pass wouldn't surface, this repeats the program across many
allocations.

Available fixtures: %v

Example:
  laythevm gcstress counter --iterations 500`, fixtureNames()),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGCStress(args)
		},
	}
	return cmd
}

func runGCStress(args []string) error {
	if err := checkArgs(args, 1, "laythevm gcstress <fixture>"); err != nil {
		return err
	}
	name := args[0]

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg.StressMode = true

	var totalCollections int
	for i := 0; i < gcstressIterations; i++ {
		v := vm.New(cfg.VMOptions()...)
		closure, err := loadFixture(v, name)
		if err != nil {
			return err
		}
		if _, err := v.Run(closure); err != nil {
			return fmt.Errorf("iteration %d: %w", i, err)
		}
		totalCollections += v.Heap.Collections()
	}

	printInfo("%s: %d iterations, %d total collections\n", name, gcstressIterations, totalCollections)
	return nil
}
