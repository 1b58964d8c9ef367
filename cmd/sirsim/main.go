package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "sirsim",
		Short: "Four-community SIRS epidemic simulator",
		Long: `sirsim - SIRS epidemic spread across four migrating communities.

Each community holds a random contact graph that is regenerated every
timestep. Infected individuals recover, recovered individuals relapse, and
anyone may migrate to a sibling or cousin community in a fixed binary tree.

Available commands:
  run      - Run headless and print one line (or JSON object) per timestep
  tui      - Run interactively in the terminal
  validate - Check a YAML config file

Examples:
  sirsim run --contact 40 --infection 30 --population 25 --iterations 100
  sirsim run --config run.yaml --json
  sirsim tui --seed 7
  sirsim validate run.yaml`,
		SilenceUsage: true,
	}

	root.AddCommand(newRunCmd())
	root.AddCommand(newTUICmd())
	root.AddCommand(newValidateCmd())

	return root
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
