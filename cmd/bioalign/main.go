// Command bioalign aligns DNA sequences from the command line.
//
// Usage:
//
//	bioalign [command] [flags]
//
// Commands:
//
//	align       Pairwise alignment of a query against one or more targets
//	msa         Reference-star multiple alignment
//	presets     List scoring presets
//	version     Show version information
package main

import (
	"github.com/aria-lang/bioalign-go/internal/logutil"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bioalign",
	Short: "DNA sequence alignment",
	Long: `bioalign - DNA sequence alignment

Global, local and semi-global pairwise alignment with affine-style
boundary gaps, score-only alignment, reverse-complement search, SAM
output and reference-star multiple alignment.

Settings are read from an optional TOML file (--config); flags given on
the command line override it.
`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logutil.SetVerbosity(getFlagBool(cmd, "verbose"), getFlagBool(cmd, "quiet"))
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logutil.Log.Error(err)
		exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "print debug information and progress bars")
	rootCmd.PersistentFlags().BoolP("quiet", "", false, "only print errors")
	rootCmd.PersistentFlags().StringP("config", "c", "", "TOML config file")
	rootCmd.PersistentFlags().IntP("threads", "j", 0, "number of pairwise alignments to run at once (default from config, or 1)")

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
