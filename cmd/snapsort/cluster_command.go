package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"snapsort/internal/analyze"
	"snapsort/internal/cluster"
	"snapsort/internal/config"
	"snapsort/internal/gazetteer"
	"snapsort/internal/walker"
)

func newClusterCommand(ctx *commandContext) *cobra.Command {
	var details bool

	cmd := &cobra.Command{
		Use:   "cluster <source>",
		Short: "Preview location clusters for a source tree without organizing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.newLogger()
			if err != nil {
				return err
			}

			paths, err := walker.New(logger).Scan(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			analyzer := analyze.New(cfg.Organize.Jobs, logger)
			records, failures, err := analyzer.Analyze(cmd.Context(), paths)
			if err != nil {
				return err
			}

			clusters := cluster.New(cfg.Cluster.EpsilonKM, cfg.Cluster.MinPoints, logger).Assign(records)
			if len(clusters) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no location clusters found")
				return nil
			}

			gazetteerPath, err := config.ExpandPath(cfg.Cluster.GazetteerPath)
			if err != nil {
				return err
			}
			store, err := gazetteer.Open(gazetteerPath, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			rows := make([][]string, 0, len(clusters))
			for _, c := range clusters {
				name, err := store.ResolveName(cmd.Context(), c.Centroid.Lat, c.Centroid.Lon, cfg.Cluster.MaxPlaceDistanceKM)
				if err != nil {
					return err
				}
				rows = append(rows, []string{
					strconv.Itoa(c.ID),
					name,
					strconv.Itoa(len(c.Members)),
					fmt.Sprintf("%.4f, %.4f", c.Centroid.Lat, c.Centroid.Lon),
				})
				if details {
					for _, idx := range c.Members {
						rows = append(rows, []string{"", "", "", records[idx].SourcePath})
					}
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderListing([]string{"Cluster", "Location", "Photos", "Centroid"}, rows))

			noise := 0
			for i := range records {
				if records[i].Coordinate != nil && records[i].ClusterID == cluster.Noise {
					noise++
				}
			}
			if noise > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%d geotagged photos outside any cluster\n", noise)
			}
			if len(failures) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%d files could not be analyzed\n", len(failures))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&details, "details", false, "List member files under each cluster")
	return cmd
}
