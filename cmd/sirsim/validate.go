package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-sirs/pkg/config"
	"github.com/dd0wney/cluso-sirs/pkg/validation"
)

func newValidateCmd() *cobra.Command {
	var printEffective bool

	cmd := &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a YAML config file",
		Long:  `Load a config file, report every invalid field, and optionally print the effective config with defaults filled in.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg, err := config.Load(args[0])
			if err != nil {
				var verr *validation.Error
				if errors.As(err, &verr) {
					for _, f := range verr.Fields {
						fmt.Fprintln(out, errorStyle.Render("✗ "+f.Error()))
					}
				}
				return err
			}

			fmt.Fprintf(out, "✓ %s is valid\n", args[0])
			if printEffective {
				data, err := cfg.Marshal()
				if err != nil {
					return err
				}
				fmt.Fprint(out, string(data))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&printEffective, "print", "p", false, "print the effective config")
	return cmd
}
