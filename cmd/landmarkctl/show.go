package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one landmark",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid landmark id %q: %w", args[0], err)
		}
		landmark, err := newClient().GetLandmark(commandContext(cmd), id)
		if err != nil {
			return err
		}
		return newPrinter(cmd).PrintLandmark(landmark)
	},
}
