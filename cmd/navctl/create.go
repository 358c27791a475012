package main

import (
	"fmt"

	"consolenav/internal/domain/app"

	"github.com/spf13/cobra"
)

func newCreateCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an app or dataset",
	}

	var mode string
	createApp := &cobra.Command{
		Use:   "app NAME",
		Short: "Create an app",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.console.CreateApp(cmd.Context(), args[0], app.Mode(mode))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created app %s (%s)\n", a.ID, a.Name)
			return nil
		},
	}
	createApp.Flags().StringVar(&mode, "mode", string(app.ModeChat), "app mode: chat or completion")

	var description string
	createDataset := &cobra.Command{
		Use:   "dataset NAME",
		Short: "Create a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := g.console.CreateDataset(cmd.Context(), args[0], description)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created dataset %s (%s)\n", d.ID, d.Name)
			return nil
		},
	}
	createDataset.Flags().StringVar(&description, "description", "", "dataset description")

	cmd.AddCommand(createApp, createDataset)
	return cmd
}
