package export

import (
	"errors"
	"strings"
)

var ErrUnknownFormat = errors.New("unknown export format")

// Exporter turns a merged document string into downloadable bytes. The
// merge engine's flat output feeds this; implementations decide the file
// format.
type Exporter interface {
	ContentType() string
	Extension() string
	Render(title, text string) ([]byte, error)
}

// For returns the exporter for a format name. "text" is the default.
func For(format string) (Exporter, error) {
	switch format {
	case "", "text", "txt":
		return TextExporter{}, nil
	default:
		return nil, ErrUnknownFormat
	}
}

// TextExporter writes the merged document as a plain UTF-8 text file,
// with line endings normalized to \n and a single trailing newline.
type TextExporter struct{}

func (TextExporter) ContentType() string { return "text/plain; charset=utf-8" }

func (TextExporter) Extension() string { return "txt" }

func (TextExporter) Render(title, text string) ([]byte, error) {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	if normalized != "" && !strings.HasSuffix(normalized, "\n") {
		normalized += "\n"
	}
	return []byte(normalized), nil
}
