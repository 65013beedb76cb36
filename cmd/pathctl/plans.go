package main

import (
	"github.com/spf13/cobra"

	"github.com/yungbote/pathwise-backend/internal/services"
)

func newPlansCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "plans",
		Short: "Print the subscription plan catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := services.LoadPlanCatalog()
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), catalog.List())
		},
	}
}
