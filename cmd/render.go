package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lehigh-university-libraries/collager/internal/canvas"
	"github.com/lehigh-university-libraries/collager/internal/config"
	"github.com/lehigh-university-libraries/collager/internal/images"
	"github.com/lehigh-university-libraries/collager/internal/pool"
	"github.com/lehigh-university-libraries/collager/internal/render"
	"github.com/lehigh-university-libraries/collager/internal/storage"
	"github.com/spf13/cobra"
)

func newRenderCmd() *cobra.Command {
	var (
		configPath string
		out        string
		seed       uint64
		remote     string
		repack     bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one collage to a file",
		Long: `Selects three random images and writes the resulting collage as PNG or JPEG.

Images come from the configured directories, or from a running collager
server when --remote is given. The canvas size then follows the remote
configuration unless --config is set.`,
		Example: `  # Render from local directories
  collager render --config config.json --out collage.png

  # Reproduce a collage
  collager render --config config.json --seed 42 --out collage.jpg

  # Render using images from a running server
  collager render --remote http://localhost:3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			format, err := canvas.Format(filepath.Ext(out))
			if err != nil {
				return err
			}

			if seed == 0 {
				seed = render.NewRand(0).Uint64()
			}

			var src images.Source
			if remote != "" {
				fetcher := images.NewFetcher(remote)
				if configPath == "" {
					rc, err := fetcher.Config(ctx)
					if err != nil {
						return err
					}
					cfg.Width, cfg.Height = rc.Width, rc.Height
					if err := cfg.Validate(); err != nil {
						return err
					}
				}
				src = fetcher
			} else {
				p, err := pool.NewIndexer().Build(ctx, cfg.ImageDirectories)
				if err != nil {
					return fmt.Errorf("failed to build image pool: %w", err)
				}
				src = images.NewLocalSource(storage.New(p), render.NewRand(seed))
			}

			bg, err := canvas.ParseColor(cfg.Background)
			if err != nil {
				return err
			}
			r := &render.Renderer{
				Width:      cfg.Width,
				Height:     cfg.Height,
				Background: bg,
				Loader:     images.NewLoader(),
			}
			r.Options.Repack = repack

			res, err := r.Render(ctx, src, render.NewRand(seed))
			if err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer f.Close()
			if err := res.Surface.Encode(f, format); err != nil {
				return fmt.Errorf("failed to encode collage: %w", err)
			}

			for _, p := range res.Painted {
				slog.Debug("Layer painted", "layer", p.Layer, "image", res.Refs[p.Slot].Path(), "left", p.IsLeft)
			}
			slog.Info("Collage written", "out", out, "seed", seed, "width", cfg.Width, "height", cfg.Height)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (.json, .yaml or .toml)")
	cmd.Flags().StringVarP(&out, "out", "o", "collage.png", "Output file (.png or .jpg)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed (0 picks one)")
	cmd.Flags().StringVar(&remote, "remote", "", "Base URL of a collager server to fetch images from")
	cmd.Flags().BoolVar(&repack, "repack", false, "Shift layers onto the images that loaded when some fail")

	return cmd
}
