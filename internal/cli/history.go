package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newHistoryCommand(e *env) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent downloads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := newServices(e)
			defer svc.close(e)
			if svc.history == nil {
				return errors.New("history is not available")
			}

			entries, err := svc.history.Recent(limit)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "WHEN\tQUALITY\tPATH\tURL")
			for _, entry := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", humanize.Time(entry.CreatedAt), entry.Quality, entry.Path, entry.URL)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries")
	return cmd
}
