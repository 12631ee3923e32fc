package main

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/arloliu/pcdio"
	"github.com/arloliu/pcdio/format"
	"github.com/arloliu/pcdio/storage"
)

func newStatsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <file>",
		Short: "Decode a PCD file and print per-field minimum, maximum and mean",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			useMmap, _ := cmd.Flags().GetBool("mmap")
			return a.stats(cmd.OutOrStdout(), args[0], useMmap)
		},
	}
	cmd.Flags().Bool("mmap", true, "read the file through a memory mapping")

	return cmd
}

// summary describes the elements of one column. NaN elements are counted, not summarized.
type summary struct {
	min, max, mean float64
	nan            int
}

func summarize[T storage.Element](s []T) summary {
	sum := summary{min: math.Inf(1), max: math.Inf(-1)}
	n := 0
	for _, v := range s {
		f := float64(v)
		if math.IsNaN(f) {
			sum.nan++
			continue
		}
		sum.min = min(sum.min, f)
		sum.max = max(sum.max, f)
		sum.mean += f
		n++
	}
	if n == 0 {
		return summary{min: math.NaN(), max: math.NaN(), mean: math.NaN(), nan: sum.nan}
	}
	sum.mean /= float64(n)

	return sum
}

func summarizeColumn(c *storage.Column) summary {
	switch c.Type() {
	case format.U8:
		s, _ := c.Uint8()
		return summarize(s)
	case format.U16:
		s, _ := c.Uint16()
		return summarize(s)
	case format.U32:
		s, _ := c.Uint32()
		return summarize(s)
	case format.I8:
		s, _ := c.Int8()
		return summarize(s)
	case format.I16:
		s, _ := c.Int16()
		return summarize(s)
	case format.I32:
		s, _ := c.Int32()
		return summarize(s)
	case format.F32:
		s, _ := c.Float32()
		return summarize(s)
	case format.F64:
		s, _ := c.Float64()
		return summarize(s)
	default:
		panic(fmt.Sprintf("pcdtool: unsupported value type %s", c.Type()))
	}
}

func (a *app) stats(out io.Writer, path string, useMmap bool) error {
	read := pcdio.ReadFile
	if useMmap {
		read = pcdio.ReadFileMmap
	}

	start := time.Now()
	h, block, err := read(path, a.options()...)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	a.logger.Info("decoded point cloud", "path", path, "points", block.Len(), "data", h.Data.String(), "duration", time.Since(start))

	fmt.Fprintf(out, "%d points, %s\n\n", block.Len(), h.Data)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FIELD\tTYPE\tCOUNT\tMIN\tMAX\tMEAN\tNAN")
	for _, c := range block.Columns() {
		s := summarizeColumn(c)
		fmt.Fprintf(w, "%s\t%s\t%d\t%g\t%g\t%g\t%d\n", c.Name(), c.Type(), c.Count(), s.min, s.max, s.mean, s.nan)
	}

	return w.Flush()
}
