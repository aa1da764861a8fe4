package main

import (
	"errors"
	"fmt"
	"landmark-service/internal/core/domain"
	"landmark-service/internal/core/usecase"
	"strings"

	"github.com/spf13/cobra"
)

var (
	browseSize  string
	browseType  string
	browseSort  string
	browsePages int
)

func init() {
	browseCmd.Flags().StringVar(&browseSize, "size", "", "category to page through: small or large")
	browseCmd.Flags().StringVar(&browseType, "type", "", "show only landmarks of this type")
	browseCmd.Flags().StringVar(&browseSort, "sort", "", "ordering of the fetched landmarks: size-asc, size-desc or likes-desc")
	browseCmd.Flags().IntVar(&browsePages, "pages", 1, "number of pages to fetch")
}

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Page through landmarks, newest first",
	Long: `Fetch one or more pages of landmarks and print them after the type filter and the
sort order are applied to everything fetched.

Examples:
  landmarkctl browse --pages 2
  landmarkctl browse --size small --sort likes-desc`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func runBrowse(cmd *cobra.Command, args []string) error {
	if browsePages < 1 {
		return fmt.Errorf("--pages must be at least 1")
	}

	var category *domain.Size
	if browseSize != "" {
		size, err := domain.ParseSize(browseSize)
		if err != nil {
			return err
		}
		category = &size
	}
	sortKey, err := domain.ParseSortKey(browseSort)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	session := usecase.NewListingSession(newClient(), category)
	defer session.Close()

	if t := strings.TrimSpace(browseType); t != "" {
		session.SetPredicate(domain.Predicate{Type: &t})
	}
	session.SetSortKey(sortKey)

	state, err := session.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrCategoryEmpty) {
			fmt.Fprintf(cmd.OutOrStdout(), "No %s landmarks yet.\n", browseSize)
			return nil
		}
		return err
	}
	for page := 1; page < browsePages && state.HasMore; page++ {
		if state, err = session.LoadMore(ctx); err != nil {
			return err
		}
	}

	printer := newPrinter(cmd)
	if err := printer.PrintLandmarks(session.Items(), state); err != nil {
		return err
	}
	return printer.PrintTypes(session.Types())
}
