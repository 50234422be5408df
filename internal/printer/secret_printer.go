package printer

import (
	"fmt"
	"io"

	"github.com/devstrap/devstrap/internal/cmd/output"
	"github.com/devstrap/devstrap/internal/secrets"
)

var _ output.Printer[secrets.ListEntry] = (*SecretPrinter)(nil)

func DefaultSecretHeader() output.WriteFunc[secrets.ListEntry] {
	return func(w io.Writer, count int) {
		_, _ = fmt.Fprintf(w, "Configured providers (%d):\n\n", count)
	}
}

func DefaultSecretFooter() output.WriteFunc[secrets.ListEntry] {
	return nil
}

// SecretPrinter renders stored provider entries as text.
// Entries are redacted; key material is never printed, only its presence.
type SecretPrinter struct {
	headerFunc output.WriteFunc[secrets.ListEntry]
	footerFunc output.WriteFunc[secrets.ListEntry]
}

func NewSecretPrinter() *SecretPrinter {
	return &SecretPrinter{
		headerFunc: DefaultSecretHeader(),
		footerFunc: DefaultSecretFooter(),
	}
}

func (p *SecretPrinter) Header(w io.Writer, count int) {
	if p.headerFunc != nil {
		p.headerFunc(w, count)
	}
}

func (p *SecretPrinter) SetHeader(fn output.WriteFunc[secrets.ListEntry]) {
	p.headerFunc = fn
}

func (p *SecretPrinter) Item(w io.Writer, entry secrets.ListEntry) error {
	key := "not set"
	if entry.APIKeySet {
		key = "set"
	}

	_, _ = fmt.Fprintf(w, "  %-12s api_key: %s", entry.Name, key)
	if entry.BaseURL != "" {
		_, _ = fmt.Fprintf(w, ", base_url: %s", entry.BaseURL)
	}
	if entry.Model != "" {
		_, _ = fmt.Fprintf(w, ", model: %s", entry.Model)
	}
	_, _ = fmt.Fprintln(w)

	return nil
}

func (p *SecretPrinter) Footer(w io.Writer, count int) {
	if p.footerFunc != nil {
		p.footerFunc(w, count)
	}
}

func (p *SecretPrinter) SetFooter(fn output.WriteFunc[secrets.ListEntry]) {
	p.footerFunc = fn
}
