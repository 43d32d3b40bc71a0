package main

import (
	"fmt"
	"strings"

	"github.com/example/vocaloid-announcer/internal/component"
	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse DEFINITION",
		Short: "Print the components of a sound definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			comps, err := component.ParseDefinition(args[0])
			if err != nil {
				return err
			}

			parts := make([]string, 0, len(comps))
			for _, c := range comps {
				parts = append(parts, c.String())
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), strings.Join(parts, " "))
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "regions: %s\n", strings.Join(component.RequiredNames(comps), ", "))

			return nil
		},
	}

	return cmd
}
