package main

import (
	"fmt"

	"github.com/aria-lang/bioalign-go/internal/alignment"
	"github.com/aria-lang/bioalign-go/pkg/bioflow"
	"github.com/spf13/cobra"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List scoring presets",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%-14s %6s %9s %9s %11s\n", "preset", "match", "mismatch", "gap-open", "gap-extend")
		for _, name := range alignment.PresetNames() {
			s, err := alignment.Preset(name)
			checkError(err)
			fmt.Printf("%-14s %6d %9d %9d %11d\n", name,
				s.MatchScore, s.MismatchPenalty, s.GapOpenPenalty, s.GapExtendPenalty)
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(bioflow.Info())
	},
}

func init() {
	rootCmd.AddCommand(presetsCmd)
	rootCmd.AddCommand(versionCmd)
}
