package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/helixdb/helix-core/pkg/ids"
	"github.com/helixdb/helix-core/pkg/traversal"
)

func nodeCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "node", Short: "Inspect or create nodes"}
	cmd.AddCommand(nodeAddCmd(), nodeGetCmd())
	return cmd
}

func nodeAddCmd() *cobra.Command {
	var label string
	var props []string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a node",
		RunE: func(cmd *cobra.Command, args []string) error {
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
				items, err := traversal.AddN(ctx, label, obj).Collect()
				if err != nil {
					return err
				}
				created = items[0].Node.ID
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Println(created)
			return nil
		},
	}
	cmd.Flags().StringVar(&label, "label", "", "node label")
	cmd.Flags().StringArrayVar(&props, "prop", nil, "key=value property, repeatable")
	cmd.MarkFlagRequired("label")
	return cmd
}

func nodeGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Fetch a node by id",
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
				items, err := traversal.FromNodeID(ctx, id).Collect()
				if err != nil {
					return err
				}
				n := items[0].Node
				fmt.Printf("%s  label=%s\n", n.ID, n.Label)
				printProps(n.Properties)
				return nil
			})
		},
	}
	return cmd
}
