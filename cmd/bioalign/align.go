package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/aria-lang/bioalign-go/internal/alignment"
	"github.com/aria-lang/bioalign-go/internal/logutil"
	"github.com/aria-lang/bioalign-go/pkg/bioflow"
	"github.com/biogo/hts/sam"
	"github.com/spf13/cobra"
)

var alignCmd = &cobra.Command{
	Use:   "align",
	Short: "Align a query against one or more target sequences",
	Long: `Align a query against one or more target sequences

Input:
  - Query: --seq1 or every record of --query (FASTA/FASTQ, gzip ok, "-" for stdin).
  - Targets: --seq2 or every record of --target.

Modes (--mode):
  local        best-scoring pair of substrings (default)
  global       end-to-end alignment of both sequences
  semi-global  the whole query inside the target, target overhangs free

Output:
  - Match display with statistics and CIGAR, or
  - SAM records with the targets as references (--sam), or
  - tab-delimited scores only (--score-only).

With --both-strands the reverse complement of the query is aligned too and
the higher-scoring strand is reported.
`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := getConfig(cmd)
		scoring, err := cfg.ScoringMatrix()
		checkError(err)
		alignType, err := cfg.AlignmentType()
		checkError(err)

		queries := readSequences(getFlagString(cmd, "seq1"), "seq1", getFlagString(cmd, "query"))
		targets := readSequences(getFlagString(cmd, "seq2"), "seq2", getFlagString(cmd, "target"))

		opt := &alignOptions{
			alignType:   alignType,
			scoring:     scoring,
			threads:     cfg.Align.Threads,
			bothStrands: getFlagBool(cmd, "both-strands"),
			best:        getFlagBool(cmd, "best"),
			verbose:     getFlagBool(cmd, "verbose"),
		}
		logutil.Log.Debugf("%s alignment, scoring: %s, threads: %d", alignType, scoring, opt.threads)

		outfh := bufio.NewWriter(os.Stdout)
		defer outfh.Flush()

		if getFlagBool(cmd, "score-only") {
			for _, q := range queries {
				writeScores(outfh, opt, q, targets)
			}
			return
		}

		var out hitWriter
		if getFlagBool(cmd, "sam") {
			out = newSAMHitWriter(outfh, targets)
		} else {
			out = &textHitWriter{w: outfh, lineWidth: cfg.Align.LineWidth}
		}

		ctx := context.Background()
		for _, q := range queries {
			for _, h := range alignQuery(ctx, opt, q, targets) {
				checkError(out.Write(q, targets[h.target], h))
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(alignCmd)

	alignCmd.Flags().StringP("seq1", "", "", "query sequence")
	alignCmd.Flags().StringP("seq2", "", "", "target sequence")
	alignCmd.Flags().StringP("query", "q", "", "query sequence file")
	alignCmd.Flags().StringP("target", "t", "", "target sequence file")
	alignCmd.Flags().StringP("mode", "m", "", `alignment mode: "local", "global" or "semi-global" (default from config, or local)`)
	alignCmd.Flags().BoolP("both-strands", "b", false, "also align the reverse complement of the query")
	alignCmd.Flags().BoolP("best", "", false, "only report the best-scoring target for each query")
	alignCmd.Flags().BoolP("score-only", "s", false, "only compute scores, in linear memory")
	alignCmd.Flags().BoolP("sam", "", false, "output SAM")
	addScoringFlags(alignCmd)
}

type alignOptions struct {
	alignType   alignment.AlignmentType
	scoring     *alignment.ScoringMatrix
	threads     int
	bothStrands bool
	best        bool
	verbose     bool
}

type hit struct {
	target    int
	alignment *alignment.Alignment
	reverse   bool
}

func (opt *alignOptions) strands(q *bioflow.Sequence) []string {
	if opt.bothStrands {
		return []string{q.Bases, q.ReverseComplement().Bases}
	}
	return []string{q.Bases}
}

// alignQuery aligns every strand of q against all targets and keeps, per
// target, the higher-scoring strand. The forward strand wins ties.
func alignQuery(ctx context.Context, opt *alignOptions, q *bioflow.Sequence, targets []*bioflow.Sequence) []hit {
	bases := make([]string, len(targets))
	for i, t := range targets {
		bases[i] = t.Bases
	}

	strands := opt.strands(q)
	bar := newProgressBar(opt.verbose, fmt.Sprintf("aligning %s: ", q.Name("query")))
	defer bar.Wait()

	hits := make([]hit, len(targets))
	for s, query := range strands {
		al, err := alignment.NewAligner(opt.scoring,
			alignment.WithThreads(opt.threads),
			alignment.WithProgress(bar.Func(s, len(strands))))
		checkError(err)

		if opt.best && len(strands) == 1 && len(targets) > 1 {
			best, err := al.FindBestAlignment(ctx, opt.alignType, query, bases)
			checkError(err)
			return []hit{{target: best.Index, alignment: best.Alignment}}
		}

		var results []alignment.IndexedAlignment
		if len(targets) == 1 {
			// a single pair reports progress per DP row
			a, err := al.Align(ctx, opt.alignType, query, bases[0])
			checkError(err)
			results = []alignment.IndexedAlignment{{Index: 0, Alignment: a}}
		} else {
			results, err = al.AlignAgainstMultiple(ctx, opt.alignType, query, bases)
			checkError(err)
		}

		for _, r := range results {
			if s == 0 || r.Alignment.Score > hits[r.Index].alignment.Score {
				hits[r.Index] = hit{target: r.Index, alignment: r.Alignment, reverse: s == 1}
			}
		}
	}

	if opt.best {
		b := 0
		for i := range hits {
			if hits[i].alignment.Score > hits[b].alignment.Score {
				b = i
			}
		}
		return hits[b : b+1]
	}
	return hits
}

func writeScores(w *bufio.Writer, opt *alignOptions, q *bioflow.Sequence, targets []*bioflow.Sequence) {
	for _, t := range targets {
		strand, best := "+", 0
		for s, query := range opt.strands(q) {
			score, err := alignment.ScoreOnly(opt.alignType, query, t.Bases, opt.scoring)
			checkError(err)
			if s == 0 || score > best {
				best = score
				if s == 1 {
					strand = "-"
				}
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", q.Name("query"), t.Name("target"), strand, best)
	}
}

type hitWriter interface {
	Write(q, t *bioflow.Sequence, h hit) error
}

type textHitWriter struct {
	w         *bufio.Writer
	lineWidth int
}

func (tw *textHitWriter) Write(q, t *bioflow.Sequence, h hit) error {
	a := h.alignment
	display, err := alignment.FormatAlignment(a, tw.lineWidth)
	if err != nil {
		return err
	}
	stats, err := alignment.CalculateStatistics(a)
	if err != nil {
		return err
	}

	strand := "+"
	if h.reverse {
		strand = "-"
	}
	fmt.Fprintf(tw.w, "# %s vs %s, strand %s\n", q.Name("query"), t.Name("target"), strand)
	tw.w.WriteString(display)
	fmt.Fprintf(tw.w, "type: %s  score: %d  query: %d-%d  target: %d-%d\n",
		a.AlignmentType, a.Score, a.Start1, a.End1, a.Start2, a.End2)
	fmt.Fprintf(tw.w, "matches: %d  mismatches: %d  gaps: %d (%d opened)  identity: %.2f%%  similarity: %.2f%%  gap: %.2f%%\n",
		stats.Matches, stats.Mismatches, stats.Gaps, stats.GapOpenings, stats.Identity, stats.Similarity, stats.GapPercent)
	fmt.Fprintf(tw.w, "cigar: %s\n\n", a.ToCIGAR())
	return nil
}

type samHitWriter struct {
	w    *sam.Writer
	refs []*sam.Reference
}

func newSAMHitWriter(w *bufio.Writer, targets []*bioflow.Sequence) *samHitWriter {
	refs := make([]*sam.Reference, len(targets))
	for i, t := range targets {
		ref, err := sam.NewReference(t.Name(fmt.Sprintf("target%d", i+1)), "", "", t.Len(), nil, nil)
		checkError(err)
		refs[i] = ref
	}

	header, err := sam.NewHeader(nil, refs)
	checkError(err)
	sw, err := sam.NewWriter(w, header, sam.FlagDecimal)
	checkError(err)
	return &samHitWriter{w: sw, refs: header.Refs()}
}

func (sw *samHitWriter) Write(q, t *bioflow.Sequence, h hit) error {
	query := q
	if h.reverse {
		query = q.ReverseComplement()
	}

	rec, err := h.alignment.SAMRecord(q.Name("query"), sw.refs[h.target], []byte(query.Bases))
	if err != nil {
		return err
	}
	if h.reverse {
		rec.Flags |= sam.Reverse
	}
	return sw.w.Write(rec)
}
