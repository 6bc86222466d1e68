package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/helixdb/helix-core/pkg/codec"
	"github.com/helixdb/helix-core/pkg/ids"
	"github.com/helixdb/helix-core/pkg/traversal"
)

func edgeCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "edge", Short: "Create edges"}
	cmd.AddCommand(edgeAddCmd())
	return cmd
}

func edgeAddCmd() *cobra.Command {
	var label, from, to string
	var props []string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an edge between two existing nodes",
		RunE: func(cmd *cobra.Command, args []string) error {
			fromID, err := ids.Parse(from)
			if err != nil {
				return fmt.Errorf("--from: %w", err)
			}
			toID, err := ids.Parse(to)
			if err != nil {
				return fmt.Errorf("--to: %w", err)
			}
			obj, err := parseProps(props)
			if err != nil {
				return err
			}
			eng, err := openEngine()
			if err != nil {
				return err
			}
			defer eng.Close()

			var created ids.ID
			err = eng.Update(func(ctx *traversal.Context) error {
				items, err := traversal.AddE(ctx, label, codec.EdgeTypeNode, fromID, toID, obj, true).Collect()
				if err != nil {
					return err
				}
				created = items[0].Edge.ID
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Println(created)
			return nil
		},
	}
	cmd.Flags().StringVar(&label, "label", "", "edge label")
	cmd.Flags().StringVar(&from, "from", "", "source node id")
	cmd.Flags().StringVar(&to, "to", "", "destination node id")
	cmd.Flags().StringArrayVar(&props, "prop", nil, "key=value property, repeatable")
	cmd.MarkFlagRequired("label")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")
	return cmd
}
