package main

import (
	"bytes"

	"consolenav/internal/domain/app"
	"consolenav/internal/domain/dataset"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newNavCmd(g *globals) *cobra.Command {
	var appOpts, datasetOpts browseOpts
	cmd := &cobra.Command{
		Use:   "nav",
		Short: "Load the app and dataset navigation lists side by side",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var appsOut, datasetsOut bytes.Buffer

			eg, ctx := errgroup.WithContext(cmd.Context())
			eg.Go(func() error {
				l, err := browse[app.App](ctx, g, resourceApps, g.console.Apps(), appOpts)
				if err != nil {
					return err
				}
				defer l.Close()
				render(&appsOut, resourceApps, l, appOpts.current, appRow)
				return nil
			})
			eg.Go(func() error {
				l, err := browse[dataset.Dataset](ctx, g, resourceDatasets, g.console.Datasets(), datasetOpts)
				if err != nil {
					return err
				}
				defer l.Close()
				render(&datasetsOut, resourceDatasets, l, datasetOpts.current, datasetRow)
				return nil
			})
			if err := eg.Wait(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = appsOut.WriteTo(out)
			_, _ = datasetsOut.WriteTo(out)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&appOpts.current, "app", "", "id of the current app")
	f.StringVar(&datasetOpts.current, "dataset", "", "id of the current dataset")
	f.IntVar(&appOpts.pages, "pages", 1, "load-more actions per list (0 = all)")
	f.BoolVar(&appOpts.dedupe, "dedupe", false, "drop repeated ids across pages")
	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		datasetOpts.pages = appOpts.pages
		datasetOpts.dedupe = appOpts.dedupe
	}
	return cmd
}
