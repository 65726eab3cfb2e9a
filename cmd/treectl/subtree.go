package main

import (
	"context"
	"fmt"
	"strings"

	models "pagetree/internal/domain/models/content"
	svc "pagetree/internal/domain/services/content"
	serviceContent "pagetree/internal/service/content"

	"github.com/spf13/cobra"
)

func subtreeCmd(flags *storeFlags) *cobra.Command {
	var maxDepth int

	cmd := &cobra.Command{
		Use:     "subtree <kind> <slug>",
		Short:   "Print the published descendants of a record",
		Example: `  treectl subtree pagina home --max-depth 1 --fixtures fixtures/sample.yaml`,
		Args:    cobra.ExactArgs(2),
		RunE: withApp(flags, func(ctx context.Context, a *app, args []string) error {
			tree := serviceContent.NewTreeService(a.registry, a.records, a.opts, a.logger)
			root, err := tree.Subtree(ctx, &svc.SubtreeRequest{Kind: args[0], Slug: args[1], MaxDepth: maxDepth})
			if err != nil {
				return err
			}
			if a.json {
				return a.printJSON(root)
			}
			printSubtree(a, root, 0)
			return nil
		}),
	}

	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "Levels below the record to include (0: all)")

	return cmd
}

func printSubtree(a *app, n *models.SubtreeNode, depth int) {
	fmt.Fprintf(a.out, "%s%s (%s)\n", strings.Repeat("  ", depth), n.Title, n.Slug)
	for _, c := range n.Children {
		printSubtree(a, c, depth+1)
	}
}
