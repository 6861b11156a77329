package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "hierarchybuild",
		Short: "Builds a multi-level routing graph hierarchy from a base level of tiles",
	}
	root.PersistentFlags().String("config", "", "path to a YAML config file")
	root.AddCommand(buildCmd(), levelsCmd(), serveCmd())

	if v := os.Getenv("HIERARCHYBUILD_CONFIG"); v != "" {
		_ = root.PersistentFlags().Set("config", v)
	}
	return root
}
