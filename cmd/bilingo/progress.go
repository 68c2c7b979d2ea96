package main

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"bilingo/internal/timeline"
)

const progressScale = 1000

type progressReporter interface {
	Update(ev timeline.Event)
	Finish()
}

// newProgressReporter draws a bar on terminals and plain lines elsewhere.
func newProgressReporter(out io.Writer, interactive bool) progressReporter {
	if interactive {
		return &barReporter{
			out: out,
			bar: progressbar.NewOptions(progressScale,
				progressbar.OptionSetWriter(out),
				progressbar.OptionSetDescription("Preparing"),
				progressbar.OptionSetWidth(30),
				progressbar.OptionSetPredictTime(true),
				progressbar.OptionThrottle(100*time.Millisecond),
				progressbar.OptionClearOnFinish(),
			),
		}
	}
	return &lineReporter{out: out}
}

type barReporter struct {
	out io.Writer
	bar *progressbar.ProgressBar
}

func (b *barReporter) Update(ev timeline.Event) {
	b.bar.Describe(ev.Message)
	_ = b.bar.Set(int(ev.Fraction * progressScale))
}

func (b *barReporter) Finish() {
	_ = b.bar.Finish()
}

type lineReporter struct {
	out io.Writer
}

func (l *lineReporter) Update(ev timeline.Event) {
	fmt.Fprintf(l.out, "[%3.0f%%] %s\n", ev.Fraction*100, ev.Message)
}

func (l *lineReporter) Finish() {}
