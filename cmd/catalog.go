package main

import (
	"fmt"
	"io"

	"github.com/okian/engage/internal/domain/catalog"
	"github.com/spf13/cobra"
)

func catalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect catalogs",
	}
	cmd.AddCommand(catalogValidateCommand())
	return cmd
}

func catalogValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [path]",
		Short: "Validate a catalog file, or the embedded catalog when no path is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				c   *catalog.Catalog
				err error
			)
			source := "embedded catalog"
			if len(args) == 1 {
				source = args[0]
				c, err = catalog.Load(source)
			} else {
				c, err = catalog.Default()
			}
			if err != nil {
				return err
			}
			printCatalogSummary(cmd.OutOrStdout(), source, c)
			return nil
		},
	}
}

func printCatalogSummary(w io.Writer, source string, c *catalog.Catalog) {
	fmt.Fprintf(w, "%s is valid\n", source)
	fmt.Fprintf(w, "  events:     %d\n", len(c.Events()))
	fmt.Fprintf(w, "  surveys:    %d\n", len(c.Surveys()))
	fmt.Fprintf(w, "  polls:      %d\n", len(c.Polls()))
	fmt.Fprintf(w, "  sponsors:   %d\n", len(c.Sponsors()))
	fmt.Fprintf(w, "  challenges: %d\n", len(c.Challenges()))
	fmt.Fprintf(w, "  sessions:   %d\n", len(c.Sessions()))
}
