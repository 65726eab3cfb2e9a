package main

import (
	"context"
	"fmt"
	"strings"

	serviceContent "pagetree/internal/service/content"

	"github.com/spf13/cobra"
)

func chainCmd(flags *storeFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "chain <kind> <slug>",
		Short:   "Print the ancestors of a record, root first",
		Example: `  treectl chain pagina team --fixtures fixtures/sample.yaml`,
		Args:    cobra.ExactArgs(2),
		RunE: withApp(flags, func(ctx context.Context, a *app, args []string) error {
			tree := serviceContent.NewTreeService(a.registry, a.records, a.opts, a.logger)
			chain, err := tree.AncestorChain(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			if a.json {
				return a.printJSON(chain)
			}
			slugs := make([]string, len(chain))
			for i, rec := range chain {
				slugs[i] = rec.Slug
			}
			fmt.Fprintln(a.out, strings.Join(slugs, " / "))
			return nil
		}),
	}
}
