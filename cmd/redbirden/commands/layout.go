package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"redbirden/internal/guest"
)

func (c *CLI) newLayoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "layout",
		Short: "Print the guest memory layout and check it for overlaps",
		RunE: func(cmd *cobra.Command, _ []string) error {
			layout := guest.DefaultLayout()
			for _, s := range layout.Slots() {
				fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return layout.Validate()
		},
	}
}
