package main

import (
	"context"
	"fmt"

	svc "pagetree/internal/domain/services/content"
	serviceContent "pagetree/internal/service/content"

	"github.com/spf13/cobra"
)

func archiveCmd(flags *storeFlags) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "archive <kind>",
		Short: "Count publications per year, month and day",
		Example: `  treectl archive news --fixtures fixtures/sample.yaml
  treectl archive news --from 2024-01-01 --to 2024-03-31 --timezone Europe/Rome`,
		Args: cobra.ExactArgs(1),
		RunE: withApp(flags, func(ctx context.Context, a *app, args []string) error {
			archive := serviceContent.NewArchiveService(a.registry, a.records, a.opts, a.logger)
			years, err := archive.Archive(ctx, &svc.ArchiveRequest{Kind: args[0], From: from, To: to})
			if err != nil {
				return err
			}
			if a.json {
				return a.printJSON(years)
			}
			for _, y := range years {
				fmt.Fprintf(a.out, "%d: %d\n", y.Year, y.Count)
				for _, m := range y.Months {
					fmt.Fprintf(a.out, "  %02d: %d\n", m.Month, m.Count)
				}
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&from, "from", "", "Lower bound, RFC3339 or YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "Upper bound, RFC3339 or YYYY-MM-DD (whole day)")

	return cmd
}
