package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/aria-lang/bioalign-go/internal/alignment"
	"github.com/aria-lang/bioalign-go/internal/logutil"
	"github.com/aria-lang/bioalign-go/pkg/bioflow"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var msaCmd = &cobra.Command{
	Use:   "msa [flags] <seqs.fasta> [more.fasta ...]",
	Short: "Reference-star multiple alignment",
	Long: `Reference-star multiple alignment

The first record of the first file is the reference. Every other sequence
is aligned globally to it, and the aligned copies are padded with gaps to a
common width. Gap columns of different rows are not reconciled, so this is
a fast approximation rather than a progressive alignment.

The consensus is a per-column majority vote over A, C, G and T (ties go to
the earlier letter; columns with no vote are gaps).
`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := getConfig(cmd)
		scoring, err := cfg.ScoringMatrix()
		checkError(err)

		var seqs []*bioflow.Sequence
		for _, file := range args {
			s, err := bioflow.ReadFASTA(file)
			checkError(err)
			seqs = append(seqs, s...)
		}
		if len(seqs) == 0 {
			checkError(errors.Wrap(alignment.ErrNoSequences, "input files"))
		}
		logutil.Log.Debugf("%d sequences, reference: %s", len(seqs), seqs[0].Name("seq1"))

		bases := make([]string, len(seqs))
		for i, s := range seqs {
			bases[i] = s.Bases
		}

		bar := newProgressBar(getFlagBool(cmd, "verbose"), "aligned sequences: ")
		al, err := alignment.NewAligner(scoring,
			alignment.WithThreads(cfg.Align.Threads),
			alignment.WithProgress(bar.Func(0, 1)))
		checkError(err)

		ma, err := al.MultipleAlign(context.Background(), bases)
		bar.Wait()
		checkError(err)

		outfh := bufio.NewWriter(os.Stdout)
		defer outfh.Flush()

		names := make([]string, len(seqs))
		width := len("consensus")
		for i, s := range seqs {
			names[i] = s.Name(fmt.Sprintf("seq%d", i+1))
			if len(names[i]) > width {
				width = len(names[i])
			}
		}

		if getFlagBool(cmd, "fasta") {
			for i, row := range ma.Rows {
				fmt.Fprintf(outfh, ">%s\n%s\n", names[i], row)
			}
			fmt.Fprintf(outfh, ">consensus\n%s\n", ma.Consensus)
			return
		}

		ids := ma.RowIdentities()
		for i, row := range ma.Rows {
			fmt.Fprintf(outfh, "%-*s  %s  %6.2f%%\n", width, names[i], row, ids[i]*100)
		}
		fmt.Fprintf(outfh, "%-*s  %s\n", width, "consensus", ma.Consensus)
		fmt.Fprintf(outfh, "\nscore: %d  columns: %d  mean identity to consensus: %.2f%%\n",
			ma.Score, ma.Len(), ma.MeanIdentityToConsensus()*100)
	},
}

func init() {
	rootCmd.AddCommand(msaCmd)

	msaCmd.Flags().BoolP("fasta", "", false, "output aligned rows and the consensus as FASTA")
	addScoringFlags(msaCmd)
}
