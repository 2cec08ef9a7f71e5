package main

import (
	"os"

	"github.com/aria-lang/bioalign-go/internal/config"
	"github.com/aria-lang/bioalign-go/internal/logutil"
	"github.com/aria-lang/bioalign-go/pkg/bioflow"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var exit = os.Exit

func checkError(err error) {
	if err != nil {
		logutil.Log.Error(err)
		exit(-1)
	}
}

func getFlagString(cmd *cobra.Command, flag string) string {
	value, err := cmd.Flags().GetString(flag)
	checkError(err)
	return value
}

func getFlagInt(cmd *cobra.Command, flag string) int {
	value, err := cmd.Flags().GetInt(flag)
	checkError(err)
	return value
}

func getFlagBool(cmd *cobra.Command, flag string) bool {
	value, err := cmd.Flags().GetBool(flag)
	checkError(err)
	return value
}

// addScoringFlags registers the flags that override the [scoring] and
// [align] config tables.
func addScoringFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("preset", "p", "", `scoring preset: "dna", "blast" or "high-identity"`)
	cmd.Flags().IntP("match", "", 0, "match score (overrides preset)")
	cmd.Flags().IntP("mismatch", "", 0, "mismatch penalty (overrides preset)")
	cmd.Flags().IntP("gap-open", "", 0, "gap open penalty (overrides preset)")
	cmd.Flags().IntP("gap-extend", "", 0, "gap extend penalty (overrides preset)")
	cmd.Flags().IntP("line-width", "w", 0, "alignment display width (default from config, or 60)")
}

// getConfig loads --config and applies the flags the user actually set.
func getConfig(cmd *cobra.Command) *config.Config {
	cfg := config.Default()
	if file := getFlagString(cmd, "config"); file != "" {
		var err error
		cfg, err = config.Load(file)
		checkError(err)
		logutil.Log.Debugf("config loaded from %s", file)
	}

	flags := cmd.Flags()
	if flags.Lookup("mode") != nil && flags.Changed("mode") {
		cfg.Align.Mode = getFlagString(cmd, "mode")
	}
	if flags.Changed("preset") {
		cfg.Scoring.Preset = getFlagString(cmd, "preset")
	}
	override := func(flag string, dst **int) {
		if flags.Changed(flag) {
			v := getFlagInt(cmd, flag)
			*dst = &v
		}
	}
	override("match", &cfg.Scoring.Match)
	override("mismatch", &cfg.Scoring.Mismatch)
	override("gap-open", &cfg.Scoring.GapOpen)
	override("gap-extend", &cfg.Scoring.GapExtend)

	if flags.Changed("line-width") {
		cfg.Align.LineWidth = getFlagInt(cmd, "line-width")
		if cfg.Align.LineWidth < 0 {
			checkError(errors.Errorf("line width must not be negative: %d", cfg.Align.LineWidth))
		}
	}
	if flags.Changed("threads") {
		cfg.Align.Threads = getFlagInt(cmd, "threads")
	}
	if cfg.Align.Threads < 1 {
		cfg.Align.Threads = config.DefaultThreads
	}

	return cfg
}

// readSequences returns the literal sequence if given, otherwise every
// record of file. A literal sequence is named after the flag.
func readSequences(literal, name, file string) []*bioflow.Sequence {
	if literal != "" {
		seq, err := bioflow.NewSequenceWithID(literal, name)
		checkError(err)
		return []*bioflow.Sequence{seq}
	}
	if file == "" {
		checkError(errors.Errorf("either --%s or an input file is required", name))
	}

	seqs, err := bioflow.ReadFASTA(file)
	checkError(err)
	if len(seqs) == 0 {
		checkError(errors.Errorf("no sequences in %s", file))
	}
	logutil.Log.Debugf("%d sequence(s) read from %s", len(seqs), file)
	return seqs
}
