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

func forestCmd(flags *storeFlags) *cobra.Command {
	var parentField, labelField string
	var lazy bool

	cmd := &cobra.Command{
		Use:   "forest <content-type>",
		Short: "Print every published root and its descendants",
		Example: `  treectl forest pagina --fixtures fixtures/sample.yaml
  treectl forest api::categoria.categoria --parent-field genitore --json`,
		Args: cobra.ExactArgs(1),
		RunE: withApp(flags, func(ctx context.Context, a *app, args []string) error {
			forest := serviceContent.NewForestService(a.registry, a.records, a.opts, a.logger)
			roots, err := forest.Forest(ctx, &svc.ForestRequest{
				ContentType: args[0],
				ParentField: parentField,
				LabelField:  labelField,
				Lazy:        lazy,
			})
			if err != nil {
				return err
			}
			if a.json {
				return a.printJSON(roots)
			}
			printForest(a, roots, 0)
			return nil
		}),
	}

	cmd.Flags().StringVar(&parentField, "parent-field", "", "Relation holding the parent (default: detected)")
	cmd.Flags().StringVar(&labelField, "label-field", "", "Attribute used as label (default: detected)")
	cmd.Flags().BoolVar(&lazy, "lazy", false, "Only print roots")

	return cmd
}

func printForest(a *app, nodes []*models.TreeNode, depth int) {
	for _, n := range nodes {
		marker := ""
		if n.HasChildren != nil && *n.HasChildren {
			marker = " +"
		}
		fmt.Fprintf(a.out, "%s%s [%d %s]%s\n", strings.Repeat("  ", depth), n.Label, n.ID, n.DocumentID, marker)
		printForest(a, n.Children, depth+1)
	}
}
