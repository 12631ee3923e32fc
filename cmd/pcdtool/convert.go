package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/arloliu/pcdio"
	"github.com/arloliu/pcdio/format"
)

func newConvertCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Rewrite a PCD file in another body encoding",
		Long: `Convert decodes the input file and writes the same points with the same header
fields to the output file, in the encoding given by --data (default from config).`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("data") {
				a.cfg.Output.Data, _ = cmd.Flags().GetString("data")
			}
			data, err := a.cfg.DataFormat()
			if err != nil {
				return err
			}

			return a.convert(cmd.OutOrStdout(), args[0], args[1], data)
		},
	}
	cmd.Flags().String("data", "", "output encoding: ascii, binary or binary_compressed")

	return cmd
}

func (a *app) convert(out io.Writer, in, outPath string, data format.DataFormat) error {
	opts := a.options()

	h, block, err := pcdio.ReadFileMmap(in, opts...)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", in, err)
	}

	h = h.Clone()
	h.Data = data

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	w, err := pcdio.NewWriter(f, opts...)
	if err != nil {
		f.Close()
		return err
	}
	if err := w.Write(h, block); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", outPath, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	fi, err := os.Stat(outPath)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "wrote %d points to %s (%s, %d bytes)\n", h.Points, outPath, data, fi.Size())
	if data == format.BinaryCompressed {
		s := w.Stats()
		fmt.Fprintf(out, "body: %s, %d -> %d bytes (%.1f%% saved, stored=%t)\n",
			s.Algorithm, s.OriginalSize, s.CompressedSize, s.SpaceSavings(), s.Stored)
	}

	return nil
}
