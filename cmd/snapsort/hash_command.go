package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"snapsort/internal/fileutil"
	"snapsort/internal/walker"
)

func newHashCommand(ctx *commandContext) *cobra.Command {
	var recursive bool

	cmd := &cobra.Command{
		Use:   "hash <path>...",
		Short: "Print content fingerprints for files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.newLogger()
			if err != nil {
				return err
			}

			for _, arg := range args {
				var paths []string
				if recursive {
					paths, err = walker.New(logger).Scan(cmd.Context(), arg)
					if err != nil {
						return err
					}
				} else {
					info, err := os.Stat(arg)
					if err != nil {
						return err
					}
					if info.IsDir() {
						return fmt.Errorf("%s is a directory (use --recursive)", arg)
					}
					paths = []string{arg}
				}

				for _, path := range paths {
					sum, err := fileutil.HashFile(path)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", sum, path)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Walk directories and hash every photo inside")
	return cmd
}
