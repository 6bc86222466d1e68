// Command helixctl is a thin demonstration client for the embedded
// pkg/engine library: enough to create nodes and edges, inspect
// adjacency, and run a shortest-path query against a database file
// without writing any Go. It is not the HTTP/MCP gateway spec.md
// describes (that transport is out of scope here) — it exists to
// exercise the library the way a caller embedding it would.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/helixdb/helix-core/pkg/config"
	"github.com/helixdb/helix-core/pkg/engine"
)

var dbPath string

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "helixctl",
		Short: "Inspect and mutate a HelixDB core database file",
	}
	root.PersistentFlags().StringVar(&dbPath, "db", getEnv("HELIX_DB_PATH", "helix.db"), "path to the database file")
	root.AddCommand(nodeCmd(), edgeCmd(), neighborsCmd(), pathCmd())
	return root
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func openEngine() (*engine.Engine, error) {
	return engine.Open(config.Default(dbPath), nil)
}
