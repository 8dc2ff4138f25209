package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/happyhackingspace/cooc"
	"github.com/happyhackingspace/cooc/internal/vectorizer"
)

func (c *CLI) newInspectCommand() *cobra.Command {
	var rows, column string
	var top int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect <features-dir>",
		Short: "Summarize a stored feature matrix",
		Args:  cobra.ExactArgs(1),
		Example: `  cooc inspect features
  cooc inspect features --top 5 --rows 0:20
  cooc inspect features --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := cooc.Load(args[0])
			if err != nil {
				return err
			}
			stats := f.Stats()
			if asJSON {
				output, err := json.MarshalIndent(struct {
					RunID  string `json:"run_id"`
					Window int    `json:"window"`
					cooc.Stats
				}{f.RunID, f.Window, stats}, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(c.stdout, string(output))
				return nil
			}

			printStats(c.stdout, f, stats, top)
			if column != "" {
				if err := printColumn(c.stdout, f, column); err != nil {
					return err
				}
			}
			if rows != "" {
				lo, hi, err := parseRowRange(rows, f.Rows())
				if err != nil {
					return err
				}
				return printRows(c.stdout, f, lo, hi)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&rows, "rows", "", "Print rows lo:hi as a dense table")
	cmd.Flags().StringVar(&column, "column", "", `Print the non-zero positions of one column, e.g. "earlier=debt"`)
	cmd.Flags().IntVar(&top, "top", 10, "Number of column totals to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print statistics as JSON")
	return cmd
}

func printStats(w io.Writer, f *cooc.Features, s cooc.Stats, top int) {
	fmt.Fprintf(w, "Run:        %s (%s)\n", f.RunID, humanize.Time(f.CreatedAt))
	fmt.Fprintf(w, "Shape:      %s tokens x %d columns (%d categories, window %d)\n",
		humanize.Comma(int64(s.Rows)), s.Cols, f.Vocab.Size(), f.Window)
	fmt.Fprintf(w, "Groups:     %s\n", humanize.Comma(int64(f.Groups)))
	fmt.Fprintf(w, "Entries:    %s (density %.4f%%)\n", humanize.Comma(int64(s.Nnz)), s.Density*100)
	fmt.Fprintf(w, "Total:      %s (max cell %d)\n", humanize.Comma(s.Total), s.MaxCount)
	fmt.Fprintf(w, "Empty rows: %s\n", humanize.Comma(int64(s.EmptyRows)))
	fmt.Fprintf(w, "Row nnz:    mean %.2f, stddev %.2f\n", s.RowNnzMean, s.RowNnzStdDev)

	if top <= 0 || len(s.Columns) == 0 {
		return
	}
	fmt.Fprintf(w, "\nTop columns:\n")
	for _, col := range s.Columns[:min(top, len(s.Columns))] {
		fmt.Fprintf(w, "  %-24s %12s\n", col.Name, humanize.Comma(col.Total))
	}
}

func printRows(w io.Writer, f *cooc.Features, lo, hi int) error {
	part, err := f.Matrix.Slice(lo, hi)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\nRows %d:%d, columns %s\n", lo, hi, strings.Join(f.Columns(), " "))
	if part.Rows() == 0 || part.Cols() == 0 {
		return nil
	}
	fmt.Fprintf(w, "%v\n", mat.Formatted(part.ToDense(), mat.Squeeze()))
	return nil
}

func printColumn(w io.Writer, f *cooc.Features, name string) error {
	dir, label, err := vectorizer.ParseFeatureName(name)
	if err != nil {
		return err
	}
	col := f.Column(dir, label)
	if col < 0 {
		return fmt.Errorf("label %q is not in the vocabulary", label)
	}
	fmt.Fprintf(w, "\nColumn %s (%d):\n", name, col)
	shown := 0
	for i := range f.Rows() {
		if v := f.Matrix.At(i, col); v != 0 {
			fmt.Fprintf(w, "  %8d %6d\n", i, v)
			shown++
		}
	}
	if shown == 0 {
		fmt.Fprintln(w, "  (all zero)")
	}
	return nil
}

// parseRowRange parses "lo:hi" (either side optional) against n rows.
func parseRowRange(s string, n int) (int, int, error) {
	loStr, hiStr, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid row range %q: want lo:hi", s)
	}
	lo, hi := 0, n
	var err error
	if loStr != "" {
		if lo, err = strconv.Atoi(loStr); err != nil {
			return 0, 0, fmt.Errorf("invalid row range %q: %w", s, err)
		}
	}
	if hiStr != "" {
		if hi, err = strconv.Atoi(hiStr); err != nil {
			return 0, 0, fmt.Errorf("invalid row range %q: %w", s, err)
		}
	}
	if lo < 0 || hi > n || lo > hi {
		return 0, 0, fmt.Errorf("row range %d:%d outside 0:%d", lo, hi, n)
	}
	return lo, hi, nil
}
