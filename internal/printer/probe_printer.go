package printer

import (
	"fmt"
	"io"
	"time"

	"github.com/devstrap/devstrap/internal/cmd/output"
	"github.com/devstrap/devstrap/internal/mirror"
)

var _ output.Printer[mirror.ProbeResult] = (*ProbePrinter)(nil)

func DefaultProbeHeader() output.WriteFunc[mirror.ProbeResult] {
	return func(w io.Writer, count int) {
		_, _ = fmt.Fprintf(w, "Probed %d endpoints:\n\n", count)
	}
}

func DefaultProbeFooter() output.WriteFunc[mirror.ProbeResult] {
	return nil
}

// ProbePrinter renders endpoint probe results as text.
type ProbePrinter struct {
	headerFunc output.WriteFunc[mirror.ProbeResult]
	footerFunc output.WriteFunc[mirror.ProbeResult]
}

func NewProbePrinter() *ProbePrinter {
	return &ProbePrinter{
		headerFunc: DefaultProbeHeader(),
		footerFunc: DefaultProbeFooter(),
	}
}

func (p *ProbePrinter) Header(w io.Writer, count int) {
	if p.headerFunc != nil {
		p.headerFunc(w, count)
	}
}

func (p *ProbePrinter) SetHeader(fn output.WriteFunc[mirror.ProbeResult]) {
	p.headerFunc = fn
}

func (p *ProbePrinter) Item(w io.Writer, result mirror.ProbeResult) error {
	if !result.OK {
		_, _ = fmt.Fprintf(w, "  %-8s ❌ %s (%s)\n", result.Target, result.Endpoint, result.Error)
		return nil
	}

	_, _ = fmt.Fprintf(w, "  %-8s ✅ %s (%s)\n", result.Target, result.Endpoint, result.Latency.Round(time.Millisecond))

	return nil
}

func (p *ProbePrinter) Footer(w io.Writer, count int) {
	if p.footerFunc != nil {
		p.footerFunc(w, count)
	}
}

func (p *ProbePrinter) SetFooter(fn output.WriteFunc[mirror.ProbeResult]) {
	p.footerFunc = fn
}
