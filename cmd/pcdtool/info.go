package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/arloliu/pcdio"
	"github.com/arloliu/pcdio/decoder"
	"github.com/arloliu/pcdio/format"
)

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Print the header and record layout of a PCD file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.info(cmd.OutOrStdout(), args[0])
		},
	}
}

func (a *app) info(out io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	br := bufio.NewReader(f)
	r, err := pcdio.NewReader(br, a.options()...)
	if err != nil {
		return fmt.Errorf("failed to read header of %s: %w", path, err)
	}
	h, l := r.Header(), r.Layout()

	fmt.Fprintf(out, "version:     %s\n", h.Version)
	fmt.Fprintf(out, "points:      %d (%d x %d)\n", h.Points, h.Width, h.Height)
	fmt.Fprintf(out, "data:        %s\n", h.Data)
	fmt.Fprintf(out, "stride:      %d bytes\n", l.Stride)
	fmt.Fprintf(out, "viewpoint:   %v\n", h.Viewpoint)
	fmt.Fprintf(out, "fingerprint: %016x\n", l.Fingerprint())

	if h.Data == format.BinaryCompressed {
		var prefix [decoder.CompressedPrefixSize]byte
		if _, err := io.ReadFull(br, prefix[:]); err != nil {
			return fmt.Errorf("failed to read compressed body sizes: %w", err)
		}
		compressed, uncompressed := decoder.CompressedSizes(prefix[:])
		fmt.Fprintf(out, "compressed:  %d of %d bytes\n", compressed, uncompressed)
	}

	fmt.Fprintln(out)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FIELD\tTYPE\tCOUNT\tOFFSET\tSIZE")
	for _, fl := range l.Fields {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\n", fl.Name, fl.Type, fl.Count, fl.Offset, fl.Size)
	}

	return w.Flush()
}
