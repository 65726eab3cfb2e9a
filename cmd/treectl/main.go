// Package main is treectl, a command line view of content hierarchies. It
// reads either a YAML fixtures file or the Postgres tables the server uses.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var flags storeFlags

	cmd := &cobra.Command{
		Use:   "treectl",
		Short: "Inspect content hierarchies",
		Long: `treectl walks the parent relations of a content kind.

Records come from --fixtures (a YAML file keyed by content kind) or from
--database-url. Without either flag DATABASE_URL and TABLE_PREFIX are read
from the environment or a .env file.`,
		SilenceUsage: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.fixtures, "fixtures", "", "YAML fixtures to load into an in-memory store")
	pf.StringVar(&flags.databaseURL, "database-url", "", "Postgres connection string (default: $DATABASE_URL)")
	pf.StringVar(&flags.tablePrefix, "table-prefix", "", "Table prefix (default: from ENVIRONMENT)")
	pf.StringVar(&flags.schemaDir, "schema-dir", "", "Extra content-type schemas")
	pf.StringVar(&flags.locale, "locale", "", "Collation locale for labels (default: $COLLATION_LOCALE)")
	pf.StringVar(&flags.timezone, "timezone", "", "Archive bucketing timezone (default: $ARCHIVE_TIMEZONE)")
	pf.IntVar(&flags.maxDepth, "max-depth-cap", 0, "Hierarchy depth cap (default: $MAX_TREE_DEPTH)")
	pf.BoolVar(&flags.json, "json", false, "Print JSON instead of text")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Log warnings such as broken links to stderr")

	cmd.AddCommand(forestCmd(&flags))
	cmd.AddCommand(chainCmd(&flags))
	cmd.AddCommand(subtreeCmd(&flags))
	cmd.AddCommand(archiveCmd(&flags))
	cmd.AddCommand(checkCmd(&flags))

	return cmd
}
