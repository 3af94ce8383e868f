package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/hunglethanh9/uTensor/internal/config"
	"github.com/hunglethanh9/uTensor/internal/fixture"
	"github.com/hunglethanh9/uTensor/internal/ops"
	"github.com/hunglethanh9/uTensor/internal/tensor"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run FILE...",
		Short: "Evaluate fully-connected fixtures",
		Args:  cobra.MinimumNArgs(1),
		RunE:  RunHandler,
	}
	cmd.Flags().Bool("check-shapes", false, "Validate tensor shapes before each kernel call (default from UTENSOR_CHECK_SHAPES)")
	cmd.Flags().Uint("arena", 0, "Arena size in bytes (default from UTENSOR_ARENA_SIZE)")
	return cmd
}

// RunHandler evaluates every case in the given fixture files and fails when
// any case does not match its expected output.
func RunHandler(cmd *cobra.Command, args []string) error {
	checkShapes := config.CheckShapes()
	if cmd.Flags().Changed("check-shapes") {
		checkShapes, _ = cmd.Flags().GetBool("check-shapes")
	}
	arenaSize := config.ArenaSize()
	if n, _ := cmd.Flags().GetUint("arena"); n > 0 {
		arenaSize = n
	}

	var data [][]string
	var failed, total int
	for _, path := range args {
		cases, err := fixture.Load(path)
		if err != nil {
			return err
		}

		for _, c := range cases {
			total++
			arena := tensor.NewArena(int(arenaSize))
			got, err := c.Run(cmd.Context(), arena, ops.WithShapeChecks(checkShapes))
			result := "-"
			switch {
			case err != nil:
				result = "ERROR"
				failed++
				slog.Error("case failed", "file", path, "case", c.Name, "error", err)
			case c.Expect != nil:
				if err := c.Check(got); err != nil {
					result = "FAIL"
					failed++
					slog.Debug("case mismatch", "file", path, "case", c.Name, "error", err)
				} else {
					result = "PASS"
				}
			}
			slog.Debug("case done", "file", path, "case", c.Name, "arena_used", arena.Used())
			data = append(data, []string{path, c.Name, c.OpName(), formatValues(got), result})
		}
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"FILE", "CASE", "OP", "OUTPUT", "RESULT"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()

	if failed > 0 {
		return fmt.Errorf("%d of %d cases failed", failed, total)
	}
	return nil
}

func formatValues(vals []int32) string {
	if vals == nil {
		return "-"
	}
	const limit = 8
	parts := make([]string, 0, min(len(vals), limit)+1)
	for i, v := range vals {
		if i == limit {
			parts = append(parts, fmt.Sprintf("... (%d more)", len(vals)-limit))
			break
		}
		parts = append(parts, fmt.Sprint(v))
	}
	return "[" + strings.Join(parts, " ") + "]"
}
