package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"snapsort/internal/index"
)

func newIndexCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "index <index-file>",
		Short: "Inspect the contents of an organization index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := index.Load(args[0])
			if err != nil {
				return err
			}

			entries := idx.Entries()
			total := len(entries)
			if limit > 0 && limit < total {
				entries = entries[:limit]
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				fingerprint := entry.Fingerprint
				if len(fingerprint) > 16 {
					fingerprint = fingerprint[:16]
				}
				rows = append(rows, []string{
					fingerprint,
					entry.TargetPath,
					entry.RecordedAt.Local().Format(time.DateTime),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderListing([]string{"Fingerprint", "Target", "Recorded"}, rows))
			if len(entries) < total {
				fmt.Fprintf(cmd.OutOrStdout(), "showing %d of %d entries\n", len(entries), total)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Show at most this many entries (0 = all)")
	return cmd
}
