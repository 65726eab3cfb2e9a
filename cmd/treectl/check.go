package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	serviceContent "pagetree/internal/service/content"

	"github.com/spf13/cobra"
)

// errUnhealthy makes check exit non-zero after printing its report
var errUnhealthy = errors.New("hierarchy has problems")

func checkCmd(flags *storeFlags) *cobra.Command {
	var parentField string

	cmd := &cobra.Command{
		Use:   "check <kind>",
		Short: "Report dangling parents, draft parents and cycles",
		Long: `check reads every record of a kind, drafts included, and reports
references to missing parents, published records under a draft parent and
parent cycles. It exits with status 1 when any problem is found.`,
		Args: cobra.ExactArgs(1),
		RunE: withApp(flags, func(ctx context.Context, a *app, args []string) error {
			checker := serviceContent.NewHierarchyChecker(a.registry, a.records, a.logger)
			report, err := checker.Check(ctx, args[0], parentField)
			if err != nil {
				return err
			}

			if a.json {
				if err := a.printJSON(report); err != nil {
					return err
				}
			} else {
				fmt.Fprintf(a.out, "%s via %s: %d records, %d roots\n",
					report.ContentType, report.ParentField, report.Records, report.Roots)
				printList(a, "dangling", report.Dangling)
				printList(a, "draft parents", report.DraftParents)
				for _, cycle := range report.Cycles {
					fmt.Fprintf(a.out, "cycle: %s\n", strings.Join(cycle, " -> "))
				}
			}

			if !report.Healthy() {
				return errUnhealthy
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&parentField, "parent-field", "", "Relation holding the parent (default: detected)")

	return cmd
}

func printList(a *app, name string, keys []string) {
	if len(keys) > 0 {
		fmt.Fprintf(a.out, "%s: %s\n", name, strings.Join(keys, ", "))
	}
}
