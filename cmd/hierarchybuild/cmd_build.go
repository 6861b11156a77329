package main

import (
	"context"
	"fmt"
	"log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/lintang-b-s/hierarchybuilder/pkg/config"
	"github.com/lintang-b-s/hierarchybuilder/pkg/elevation"
	"github.com/lintang-b-s/hierarchybuilder/pkg/hierarchy"
	"github.com/lintang-b-s/hierarchybuilder/pkg/reader"
	"github.com/lintang-b-s/hierarchybuilder/pkg/tile"
	"github.com/lintang-b-s/hierarchybuilder/pkg/tilecodec"
	"github.com/lintang-b-s/hierarchybuilder/pkg/tilehierarchy"
	"github.com/lintang-b-s/hierarchybuilder/pkg/transit"
)

func buildCmd() *cobra.Command {
	var transitFeed bool
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Run the hierarchy build over every base tile currently in the tile store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			var cfg config.Config
			var err error
			if cfgPath != "" {
				cfg, err = config.Load(cfgPath)
				if err != nil {
					return err
				}
			} else {
				cfg = config.Default()
			}
			return runBuild(cfg, transitFeed)
		},
	}
	cmd.Flags().BoolVar(&transitFeed, "transit", false, "run the transit-stop annotation pre-pass before the hierarchy build")
	return cmd
}

func runBuild(cfg config.Config, withTransit bool) error {
	store, err := tilecodec.Open(cfg.Hierarchy.TileDir)
	if err != nil {
		return err
	}
	defer store.Close()

	h := tilehierarchy.DefaultHierarchy()

	baseKeys, err := store.ListTileKeys(h.Base().Level)
	if err != nil {
		return err
	}
	if len(baseKeys) == 0 {
		return fmt.Errorf("no base tiles found under %s", cfg.Hierarchy.TileDir)
	}
	log.Printf("hierarchybuild: found %d base tiles", len(baseKeys))

	if withTransit {
		if err := runTransitPrePass(store, baseKeys); err != nil {
			return err
		}
	}

	r, err := reader.New(store, h, cfg.Hierarchy.CacheTiles)
	if err != nil {
		return err
	}

	var sampler elevation.Sampler
	if cfg.AdditionalData.Elevation != "" {
		grid, err := elevation.LoadGridSampler(cfg.AdditionalData.Elevation)
		if err != nil {
			return err
		}
		sampler = grid
	}

	reg := prometheus.NewRegistry()
	metrics := hierarchy.NewMetrics(reg)

	builder := hierarchy.NewBuilder(r, store, sampler, metrics)
	if err := builder.Build(baseKeys); err != nil {
		return err
	}

	log.Printf("hierarchybuild: build complete")
	return nil
}

func runTransitPrePass(store *tilecodec.Store, baseKeys []tile.TileKey) error {
	fetcher := transit.NoopFetcher{}
	ctx := context.Background()
	total := 0
	for _, key := range baseKeys {
		t, ok, err := store.Load(key)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		changed, err := transit.AnnotateBaseTile(ctx, fetcher, t)
		if err != nil {
			return err
		}
		if changed > 0 {
			if err := store.Save(t); err != nil {
				return err
			}
		}
		total += changed
	}
	log.Printf("hierarchybuild: transit pre-pass marked %d nodes as transit stops", total)
	return nil
}
