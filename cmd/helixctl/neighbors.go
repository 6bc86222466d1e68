package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/helixdb/helix-core/pkg/codec"
	"github.com/helixdb/helix-core/pkg/ids"
	"github.com/helixdb/helix-core/pkg/traversal"
)

func neighborsCmd() *cobra.Command {
	var label string
	var in bool
	cmd := &cobra.Command{
		Use:   "neighbors <node-id>",
		Short: "List a node's outbound (or inbound) neighbors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := ids.Parse(args[0])
			if err != nil {
				return err
			}
			eng, err := openEngine()
			if err != nil {
				return err
			}
			defer eng.Close()

			return eng.View(func(ctx *traversal.Context) error {
				start := traversal.FromNodeID(ctx, id)
				var walked *traversal.Traversal
				if in {
					walked = start.In_(label, codec.EdgeTypeNode)
				} else {
					walked = start.Out(label, codec.EdgeTypeNode)
				}
				items, err := walked.Collect()
				if err != nil {
					return err
				}
				for _, it := range items {
					if it.Node == nil {
						continue
					}
					fmt.Printf("%s  label=%s\n", it.Node.ID, it.Node.Label)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&label, "label", "", "restrict to this edge label (empty means any)")
	cmd.Flags().BoolVar(&in, "in", false, "walk inbound edges instead of outbound")
	return cmd
}
