package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newMonumentsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "monuments [key]",
		Short: "List catalog monuments, or show one by key",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.ensureApp(cmd.Context())
			if err != nil {
				return err
			}

			if len(args) == 1 {
				monument, err := a.Service.Monument(normalizeKey(args[0]))
				if err != nil {
					return fmt.Errorf("%s: %w", args[0], err)
				}
				return writeJSON(cmd, monument)
			}

			monuments := a.Service.Monuments()
			if asJSON {
				return writeJSON(cmd, monuments)
			}

			rows := make([][]string, 0, len(monuments))
			for _, m := range monuments {
				rows = append(rows, []string{m.Key, m.Name, m.Location, strconv.Itoa(len(m.Keywords))})
			}
			table := renderTable(
				[]string{"Key", "Name", "Location", "Keywords"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
			)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), table)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output the full catalog as JSON")
	return cmd
}
