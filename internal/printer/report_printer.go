package printer

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/devstrap/devstrap/internal/cmd/output"
	"github.com/devstrap/devstrap/internal/provider"
)

var _ output.Printer[provider.TestReport] = (*ReportPrinter)(nil)

func DefaultReportHeader() output.WriteFunc[provider.TestReport] {
	return nil
}

func DefaultReportFooter() output.WriteFunc[provider.TestReport] {
	return nil
}

// ReportPrinter renders connectivity test reports as text.
type ReportPrinter struct {
	headerFunc output.WriteFunc[provider.TestReport]
	footerFunc output.WriteFunc[provider.TestReport]
}

func NewReportPrinter() *ReportPrinter {
	return &ReportPrinter{
		headerFunc: DefaultReportHeader(),
		footerFunc: DefaultReportFooter(),
	}
}

func (p *ReportPrinter) Header(w io.Writer, count int) {
	if p.headerFunc != nil {
		p.headerFunc(w, count)
	}
}

func (p *ReportPrinter) SetHeader(fn output.WriteFunc[provider.TestReport]) {
	p.headerFunc = fn
}

func (p *ReportPrinter) Item(w io.Writer, report provider.TestReport) error {
	_, _ = fmt.Fprintf(
		w,
		"✅ %s connection successful (model: %s, latency: %s)\n",
		report.Provider, report.Model, report.Latency.Round(time.Millisecond),
	)

	if len(report.Models) > 0 {
		_, _ = fmt.Fprintf(w, "Available models: %s\n", strings.Join(report.Models, ", "))
	}

	if report.Sample != "" {
		_, _ = fmt.Fprintln(w, "Sample response:")
		_, _ = fmt.Fprintln(w, strings.Repeat("-", 40))
		_, _ = fmt.Fprintln(w, report.Sample)
		_, _ = fmt.Fprintln(w, strings.Repeat("-", 40))
	}

	return nil
}

func (p *ReportPrinter) Footer(w io.Writer, count int) {
	if p.footerFunc != nil {
		p.footerFunc(w, count)
	}
}

func (p *ReportPrinter) SetFooter(fn output.WriteFunc[provider.TestReport]) {
	p.footerFunc = fn
}
