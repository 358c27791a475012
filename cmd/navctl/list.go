package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"consolenav/internal/domain/app"
	"consolenav/internal/domain/dataset"
	"consolenav/internal/pager"

	"github.com/spf13/cobra"
)

const (
	resourceApps     = "apps"
	resourceDatasets = "datasets"
)

type browseOpts struct {
	current string
	pages   int // 0 loads until has_more is false
	dedupe  bool
}

func (o *browseOpts) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.current, "current", "", "id of the current item; nothing is fetched without it")
	cmd.Flags().IntVar(&o.pages, "pages", 1, "number of load-more actions (0 = all)")
	cmd.Flags().BoolVar(&o.dedupe, "dedupe", false, "drop repeated ids across pages")
}

func newListCmd(g *globals, resource string) *cobra.Command {
	var o browseOpts
	cmd := &cobra.Command{
		Use:   resource,
		Short: "List " + resource + " in the navigation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			switch resource {
			case resourceApps:
				l, err := browse[app.App](ctx, g, resource, g.console.Apps(), o)
				if err != nil {
					return err
				}
				defer l.Close()
				render(out, resource, l, o.current, appRow)
			default:
				l, err := browse[dataset.Dataset](ctx, g, resource, g.console.Datasets(), o)
				if err != nil {
					return err
				}
				defer l.Close()
				render(out, resource, l, o.current, datasetRow)
			}
			return nil
		},
	}
	o.bind(cmd)
	return cmd
}

// browse drives a loader through o.pages load-more actions.
func browse[T pager.Item](ctx context.Context, g *globals, resource string, f pager.Fetcher[T], o browseOpts) (*pager.Loader[T], error) {
	if ctx == nil {
		ctx = context.Background()
	}
	opts := []pager.Option{pager.WithPageSize(g.pageSize), pager.WithLogger(g.logger)}
	if o.dedupe {
		opts = append(opts, pager.WithDedupeByID())
	}
	l := pager.New[T](ctx, resource, o.current, f, opts...)
	for i := 0; o.pages == 0 || i < o.pages; i++ {
		issued, err := l.LoadNext(ctx)
		if err != nil {
			l.Close()
			return nil, fmt.Errorf("load %s page %d: %w", resource, l.RequestedPageCount()+1, err)
		}
		if !issued {
			break
		}
	}
	return l, nil
}

func render[T pager.Item](w io.Writer, title string, l *pager.Loader[T], current string, row func(T) string) {
	snap := l.Snapshot()
	fmt.Fprintf(w, "%s: %d items, %d pages, has_more=%t\n", title, len(snap.Items), snap.Pages, snap.HasMore)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, it := range snap.Items {
		mark := " "
		if current != "" && it.ItemID() == current {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", mark, it.ItemID(), row(it))
	}
	_ = tw.Flush()

	if current == "" {
		return
	}
	if _, ok := l.CurrentItem(current); !ok {
		fmt.Fprintf(w, "current %s is not in the loaded pages\n", current)
	}
}

func appRow(a app.App) string {
	return fmt.Sprintf("%s %s\t%s", a.Icon, a.Name, a.Mode)
}

func datasetRow(d dataset.Dataset) string {
	return fmt.Sprintf("%s %s\t%s docs", d.Icon, d.Name, strconv.Itoa(d.DocumentCount))
}
