package cmd

import (
	"fmt"

	"github.com/lehigh-university-libraries/collager/internal/config"
	"github.com/lehigh-university-libraries/collager/internal/pool"
	"github.com/spf13/cobra"
)

func newIndexCmd() *cobra.Command {
	var (
		configPath string
		export     string
		strict     bool
	)

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Scan image directories and report the pool",
		Example: `  # Print a summary of the pool
  collager index --config config.json

  # Save the pool for collager serve --snapshot
  collager index --config config.json --export pool.parquet`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			ix := pool.NewIndexer()
			ix.Strict = strict
			p, err := ix.Build(cmd.Context(), cfg.ImageDirectories)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, e := range p.Entries {
				fmt.Fprintf(w, "%6d  %6d  %s\n", e.StartIndex, len(e.Files), e.Dir)
			}
			fmt.Fprintf(w, "%d images in %d directories\n", p.Total, len(p.Entries))

			if export != "" {
				if err := pool.Export(export, p); err != nil {
					return err
				}
				fmt.Fprintf(w, "Snapshot written to %s\n", export)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (.json, .yaml or .toml)")
	cmd.Flags().StringVar(&export, "export", "", "Write the pool to a .parquet or .jsonl snapshot")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when a directory cannot be read")

	return cmd
}
