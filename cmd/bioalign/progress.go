package main

import (
	"os"

	"github.com/aria-lang/bioalign-go/internal/alignment"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

const progressSteps = 1000

// progressBar renders an alignment.ProgressFunc on stderr. A nil
// *progressBar is valid and does nothing.
type progressBar struct {
	pbs *mpb.Progress
	bar *mpb.Bar
}

func newProgressBar(verbose bool, name string) *progressBar {
	if !verbose {
		return nil
	}

	pbs := mpb.New(mpb.WithWidth(40), mpb.WithOutput(os.Stderr))
	bar := pbs.AddBar(progressSteps,
		mpb.PrependDecorators(
			decor.Name(name, decor.WC{W: len(name), C: decor.DindentRight}),
			decor.Name("", decor.WCSyncSpaceR),
			decor.Percentage(decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.Name("ETA: ", decor.WC{W: len("ETA: ")}),
			decor.AverageETA(decor.ET_STYLE_GO),
			decor.OnComplete(decor.Name(""), ". done"),
		),
	)
	return &progressBar{pbs: pbs, bar: bar}
}

// Func maps the fraction of work done onto the bar, scaled into the
// slice [part/parts, (part+1)/parts) when one bar covers several runs.
func (p *progressBar) Func(part, parts int) alignment.ProgressFunc {
	if p == nil {
		return nil
	}
	return func(done float64) {
		p.bar.SetCurrent(int64((float64(part) + done) / float64(parts) * progressSteps))
	}
}

// Wait drops an unfinished bar and waits for rendering to stop.
func (p *progressBar) Wait() {
	if p == nil {
		return
	}
	if !p.bar.Completed() {
		p.bar.Abort(false)
	}
	p.pbs.Wait()
}
