package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/helixdb/helix-core/pkg/ids"
	"github.com/helixdb/helix-core/pkg/traversal"
)

func pathCmd() *cobra.Command {
	var label string
	var dijkstra bool
	cmd := &cobra.Command{
		Use:   "path <from-id> <to-id>",
		Short: "Find the shortest path between two nodes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fromID, err := ids.Parse(args[0])
			if err != nil {
				return fmt.Errorf("from: %w", err)
			}
			toID, err := ids.Parse(args[1])
			if err != nil {
				return fmt.Errorf("to: %w", err)
			}
			eng, err := openEngine()
			if err != nil {
				return err
			}
			defer eng.Close()

			return eng.View(func(ctx *traversal.Context) error {
				fromItems, err := traversal.FromNodeID(ctx, fromID).Collect()
				if err != nil {
					return err
				}
				toItems, err := traversal.FromNodeID(ctx, toID).Collect()
				if err != nil {
					return err
				}
				algo := traversal.AlgorithmBFS
				if dijkstra {
					algo = traversal.AlgorithmDijkstra
				}
				items, err := traversal.ShortestPath(ctx, fromItems[0], toItems[0], label, algo).Collect()
				if err != nil {
					return err
				}
				p := items[0].Path
				for i, n := range p.Nodes {
					if i > 0 {
						fmt.Print(" -> ")
					}
					fmt.Print(n)
				}
				fmt.Println()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&label, "label", "", "restrict to this edge label (empty means any)")
	cmd.Flags().BoolVar(&dijkstra, "dijkstra", false, "use weighted Dijkstra instead of unweighted BFS")
	return cmd
}
