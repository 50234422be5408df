package cmd

import (
	"fmt"
	"io"

	"github.com/devstrap/devstrap/internal/cmd/output"
)

// outputIndent is the indentation used for structured output formats.
const outputIndent = 2

// NewOutputHandler builds the output handler for the requested format.
// Text output renders through the supplied printer; structured formats
// marshal the items directly.
func NewOutputHandler[T any](format OutputFormat, w io.Writer, p output.Printer[T]) (output.Handler[T], error) {
	switch format {
	case FormatJSON:
		return output.NewJSONHandler[T](w, outputIndent), nil
	case FormatYAML:
		return output.NewYAMLHandler[T](w, outputIndent), nil
	case FormatText:
		return output.NewTextHandler[T](w, p), nil
	default:
		allowed := AllowedOutputFormats()
		return nil, fmt.Errorf("invalid format '%s', must be one of %v", format.String(), allowed.String())
	}
}
