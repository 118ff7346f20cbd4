package cmd

import (
	"fmt"

	"github.com/TFMV/pathlength/internal/style"
	"github.com/spf13/cobra"
)

func newStylesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "styles",
		Short: "List the available output styles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := style.NewRegistry()
			def := registry.Default()
			for _, name := range registry.Names() {
				marker := " "
				if def != nil && def.Name() == name {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, name)
			}
			return nil
		},
	}
}
