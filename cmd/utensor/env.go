package main

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/hunglethanh9/uTensor/internal/config"
)

func newEnvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Print configuration read from the environment",
		Args:  cobra.NoArgs,
		RunE:  EnvHandler,
	}
}

// EnvHandler prints every setting as KEY=value, sorted by key.
func EnvHandler(cmd *cobra.Command, _ []string) error {
	vals := config.Values()
	for _, k := range slices.Sorted(maps.Keys(vals)) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s=%q\n", k, vals[k])
	}
	return nil
}
