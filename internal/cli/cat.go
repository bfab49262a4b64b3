package cli

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ttyrew/ttyrew/internal/charset"
	"github.com/ttyrew/ttyrew/internal/source"
	"github.com/ttyrew/ttyrew/internal/ttyrec"
)

var catCmd = &cobra.Command{
	Use:   "cat <recording>",
	Short: "Dump a recording's terminal output without timing",
	Long: `Cat strips the ttyrec framing and writes the raw terminal output to
stdout in record order. Pass --encoding to transcode legacy recordings to
UTF-8 on the way out.`,
	Args: cobra.ExactArgs(1),
	RunE: runCat,
}

func init() {
	rootCmd.AddCommand(catCmd)
}

func runCat(cmd *cobra.Command, args []string) error {
	rc, err := source.Open(context.Background(), args[0])
	if err != nil {
		return err
	}
	defer rc.Close()

	out := bufio.NewWriter(os.Stdout)
	var dst io.Writer = out
	closeDst := func() error { return nil }
	if cmd.Flags().Changed("encoding") {
		enc, err := charset.Parse(encodingFlag)
		if err != nil {
			return err
		}
		w := charset.NewWriter(out, enc)
		dst = w
		closeDst = w.Close
	}

	r := ttyrec.NewReader(rc)
	for {
		f, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Emit the intact prefix before reporting the cut.
			_ = closeDst()
			_ = out.Flush()
			return err
		}
		if _, err := dst.Write(f.Data); err != nil {
			return err
		}
	}
	if err := closeDst(); err != nil {
		return err
	}
	return out.Flush()
}
