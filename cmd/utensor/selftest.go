package main

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/hunglethanh9/uTensor/internal/config"
	"github.com/hunglethanh9/uTensor/internal/fixture"
	"github.com/hunglethanh9/uTensor/internal/ops"
	"github.com/hunglethanh9/uTensor/internal/tensor"
)

// selftestShifts are the bias and output shifts used for random layers.
var selftestShifts = map[ops.Variant][2]uint16{
	ops.VariantQ7:    {0, 7},
	ops.VariantQ15:   {0, 15},
	ops.VariantQ15Q7: {0, 7},
}

func newSelftestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "selftest",
		Short: "Check that optimized kernels agree with standard kernels on random layers",
		Args:  cobra.NoArgs,
		RunE:  SelftestHandler,
	}
	cmd.Flags().Int("rows", 37, "Output rows")
	cmd.Flags().Int("cols", 29, "Input vector length")
	cmd.Flags().Uint64("seed", 1, "Random seed")
	return cmd
}

type selftestResult struct {
	variant  ops.Variant
	std, opt []int32
}

// SelftestHandler runs every variant concurrently, each on its own arena.
func SelftestHandler(cmd *cobra.Command, _ []string) error {
	rows, _ := cmd.Flags().GetInt("rows")
	cols, _ := cmd.Flags().GetInt("cols")
	seed, _ := cmd.Flags().GetUint64("seed")
	if rows <= 0 || cols <= 0 {
		return fmt.Errorf("rows and cols must be positive, got %dx%d", rows, cols)
	}

	variants := ops.Variants()
	results := make([]selftestResult, len(variants))

	g, ctx := errgroup.WithContext(cmd.Context())
	for i, v := range variants {
		g.Go(func() error {
			std := randomCase(v, rows, cols, rand.New(rand.NewPCG(seed, uint64(v))))
			opt := *std
			opt.Name, opt.Layout = v.String()+"-opt", "opt"

			res := selftestResult{variant: v}
			var err error
			opts := ops.WithShapeChecks(config.CheckShapes())
			if res.std, err = std.Run(ctx, tensor.NewArena(int(config.ArenaSize())), opts); err != nil {
				return err
			}
			if res.opt, err = opt.Run(ctx, tensor.NewArena(int(config.ArenaSize())), opts); err != nil {
				return err
			}
			slog.Debug("selftest variant done", "variant", v, "rows", rows, "cols", cols)
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var data [][]string
	var failed int
	for _, r := range results {
		result := "PASS"
		if !slices.Equal(r.std, r.opt) {
			result = "FAIL"
			failed++
		}
		data = append(data, []string{
			r.variant.String(),
			fmt.Sprintf("%dx%d", rows, cols),
			r.variant.KernelName(ops.Standard),
			r.variant.KernelName(ops.Optimized),
			result,
		})
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"VARIANT", "SHAPE", "STANDARD", "OPTIMIZED", "RESULT"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()

	if failed > 0 {
		return fmt.Errorf("%d of %d variants disagree", failed, len(results))
	}
	return nil
}

// randomCase fills a standard-layout case with values spanning each
// element type's full range.
func randomCase(v ops.Variant, rows, cols int, r *rand.Rand) *fixture.Case {
	inType, wType, bType := v.Types()
	shifts := selftestShifts[v]

	weights := make([][]int32, rows)
	for i := range weights {
		weights[i] = randomValues(r, wType, cols)
	}
	return &fixture.Case{
		Name:      v.String() + "-std",
		Variant:   v.String(),
		Layout:    "std",
		Input:     randomValues(r, inType, cols),
		Weights:   weights,
		Bias:      randomValues(r, bType, rows),
		BiasShift: shifts[0],
		OutShift:  shifts[1],
	}
}

func randomValues(r *rand.Rand, dt tensor.DataType, n int) []int32 {
	bits := dt.Size() * 8
	lo := -int32(1) << (bits - 1)
	span := int32(1) << bits
	vals := make([]int32, n)
	for i := range vals {
		vals[i] = lo + r.Int32N(span)
	}
	return vals
}
