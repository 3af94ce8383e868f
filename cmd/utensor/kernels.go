package main

import (
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/hunglethanh9/uTensor/internal/ops"
)

func newKernelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "kernels",
		Aliases: []string{"ls"},
		Short:   "List supported element-type combinations and their kernels",
		Args:    cobra.NoArgs,
		RunE:    KernelsHandler,
	}
}

// KernelsHandler prints one row per combination and layout.
func KernelsHandler(cmd *cobra.Command, _ []string) error {
	reg := ops.NewRegistry()

	var data [][]string
	for _, v := range ops.Variants() {
		in, w, b := v.Types()
		for _, l := range []ops.Layout{ops.Standard, ops.Optimized} {
			name := ops.OpName(v, l)
			if _, ok := reg.Get(name); !ok {
				continue
			}
			data = append(data, []string{name, in.String(), w.String(), b.String(), l.String(), v.KernelName(l)})
		}
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"OP", "INPUT", "WEIGHTS", "BIAS", "LAYOUT", "KERNEL"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()
	return nil
}
