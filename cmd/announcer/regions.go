package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newRegionsCmd() *cobra.Command {
	var namesOnly bool

	cmd := &cobra.Command{
		Use:   "regions",
		Short: "List the regions of the source manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			idx, err := loadIndex(cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if namesOnly {
				for _, name := range idx.Names() {
					_, _ = fmt.Fprintf(out, "%s\t%d\n", name, len(idx.Find(name)))
				}
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "NAME\tSOURCE\tSTART\tEND\tNOTE")
			for _, h := range idx.Regions() {
				note := ""
				if n := len(idx.Find(h.Name())); n > 1 {
					note = fmt.Sprintf("ambiguous (%d)", n)
				}
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", h.Name(), h.Source.Name, h.Start, h.End, note)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(out, "%d regions, %d distinct names\n", len(idx.Regions()), len(idx.Names()))

			return nil
		},
	}

	cmd.Flags().BoolVar(&namesOnly, "names", false, "Print each distinct region name with its match count")

	return cmd
}
