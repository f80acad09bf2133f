// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"log/slog"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/rla/backend"
)

const timeFormat = "15:04:05"

// newRootCmd wires the command tree. The tint handler writes to the
// command's stderr and is installed as the slog default before any
// subcommand runs.
func newRootCmd() *cobra.Command {
	var (
		level   string
		noColor bool
	)
	root := &cobra.Command{
		Use:          "rla",
		Short:        "Randomized least-squares drivers on synthetic problems",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var lvl slog.Level
			if err := lvl.UnmarshalText([]byte(level)); err != nil {
				return fmt.Errorf("--log-level: %w", err)
			}
			slog.SetDefault(slog.New(tint.NewHandler(cmd.ErrOrStderr(), &tint.Options{
				Level:      lvl,
				TimeFormat: timeFormat,
				NoColor:    noColor,
			})))

			return nil
		},
	}
	root.PersistentFlags().StringVar(&level, "log-level", "info", "debug, info, warn or error")
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored log output")

	root.AddCommand(newBackendCmd(), newSolveCmd(), newSaddleCmd(), newUnderCmd())

	return root
}

func newBackendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backend",
		Short: "Print the active BLAS provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), backend.CurrentInfo())

			return err
		},
	}
}
