package main

import (
	"landmark-service/internal/core/usecase"

	"github.com/spf13/cobra"
)

var homeCmd = &cobra.Command{
	Use:   "home",
	Short: "Show the newest small and large landmarks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := usecase.NewGetHomeLandmarksUseCase(newClient()).Execute(commandContext(cmd))
		if err != nil {
			return err
		}
		return newPrinter(cmd).PrintHome(home)
	},
}
