package printer

import (
	"fmt"
	"io"

	"github.com/devstrap/devstrap/internal/cmd/output"
	"github.com/devstrap/devstrap/internal/mirror"
)

var _ output.Printer[mirror.StatusEntry] = (*StatusPrinter)(nil)

func DefaultStatusHeader() output.WriteFunc[mirror.StatusEntry] {
	return func(w io.Writer, count int) {
		_, _ = fmt.Fprintf(w, "Mirror status (%d targets):\n\n", count)
	}
}

func DefaultStatusFooter() output.WriteFunc[mirror.StatusEntry] {
	return nil
}

// StatusPrinter renders mirror status entries as text.
type StatusPrinter struct {
	headerFunc output.WriteFunc[mirror.StatusEntry]
	footerFunc output.WriteFunc[mirror.StatusEntry]
}

func NewStatusPrinter() *StatusPrinter {
	return &StatusPrinter{
		headerFunc: DefaultStatusHeader(),
		footerFunc: DefaultStatusFooter(),
	}
}

func (p *StatusPrinter) Header(w io.Writer, count int) {
	if p.headerFunc != nil {
		p.headerFunc(w, count)
	}
}

func (p *StatusPrinter) SetHeader(fn output.WriteFunc[mirror.StatusEntry]) {
	p.headerFunc = fn
}

func (p *StatusPrinter) Item(w io.Writer, entry mirror.StatusEntry) error {
	if entry.Error != "" {
		_, _ = fmt.Fprintf(w, "  %-8s ⚠️  %s (%s)\n", entry.Target, entry.Error, entry.Path)
		return nil
	}

	_, _ = fmt.Fprintf(w, "  %-8s %s (%s)\n", entry.Target, entry.Preset, entry.Path)

	return nil
}

func (p *StatusPrinter) Footer(w io.Writer, count int) {
	if p.footerFunc != nil {
		p.footerFunc(w, count)
	}
}

func (p *StatusPrinter) SetFooter(fn output.WriteFunc[mirror.StatusEntry]) {
	p.footerFunc = fn
}
