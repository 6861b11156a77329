package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lintang-b-s/hierarchybuilder/pkg/tilehierarchy"
)

func levelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "levels",
		Short: "Print the configured hierarchy levels, finest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			h := tilehierarchy.DefaultHierarchy()
			for _, l := range h.Levels {
				fmt.Printf("%d\t%s\tcutoff=%s\th3res=%d\n", l.Level, l.Name, l.ClassificationCutoff, l.TilingResolution)
			}
			return nil
		},
	}
}
