package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ytget/yt-studio/internal/catalog"
	"github.com/ytget/yt-studio/internal/model"
)

func newScanCommand(e *env) *cobra.Command {
	var query, kind string

	cmd := &cobra.Command{
		Use:   "scan [dir]",
		Short: "List downloaded files the way the studio shows them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := parseFilter(kind)
			if err != nil {
				return err
			}

			dir := downloadDir(e, homeDownloads)
			if len(args) == 1 {
				dir = args[0]
			}

			svc := newServices(e)
			defer svc.close(e)

			c := catalog.NewController(svc.urlResolver())
			if err := c.Rescan(dir); err != nil {
				return err
			}
			c.Filter(query, filter)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KIND\tSIZE\tMODIFIED\tNAME\tURL")
			for _, r := range c.Visible() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.Kind, r.SizeLabel(), r.AgeLabel(), r.DisplayName(), r.URL)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "case-insensitive name filter")
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "video, music or text")
	return cmd
}

// parseFilter maps a case-insensitive kind name to a filter; "" means all
func parseFilter(kind string) (model.KindFilter, error) {
	if kind == "" {
		return model.FilterAll, nil
	}
	for _, known := range model.KindFilters() {
		if strings.EqualFold(string(known), kind) {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown kind %q", kind)
}
