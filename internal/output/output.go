package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"gopkg.in/yaml.v3"
)

// Format selects how results are written.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatText Format = "text"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatYAML, FormatText:
		return f, nil
	case "":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown format %q (want json, yaml or text)", s)
	}
}

// Texter is implemented by values with a human readable rendering.
// Values without one fall back to JSON in text mode.
type Texter interface {
	WriteText(w *Writer) error
}

// Writer handles formatted output for commands.
type Writer struct {
	w      io.Writer
	format Format
}

// NewWriter creates a new Writer.
func NewWriter(w io.Writer, format Format) *Writer {
	return &Writer{w: w, format: format}
}

func (o *Writer) Format() Format { return o.format }

// Write writes data in the configured format.
func (o *Writer) Write(data interface{}) error {
	switch o.format {
	case FormatYAML:
		return o.WriteYAML(data)
	case FormatText:
		if t, ok := data.(Texter); ok {
			return t.WriteText(o)
		}
	}
	return o.WriteJSON(data)
}

// Marshal encodes v as compact JSON without escaping HTML characters.
func Marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// WriteJSON writes data as indented JSON. HTML characters are not escaped.
func (o *Writer) WriteJSON(data interface{}) error {
	enc := json.NewEncoder(o.w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// WriteYAML writes data as a YAML document.
func (o *Writer) WriteYAML(data interface{}) error {
	enc := yaml.NewEncoder(o.w)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return err
	}
	return enc.Close()
}

// WriteTable writes rows under upper-cased headers, padding columns by
// display width.
func (o *Writer) WriteTable(headers []string, rows [][]string) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				if w := runewidth.StringWidth(cell); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}

	for i, h := range headers {
		fmt.Fprint(o.w, runewidth.FillRight(strings.ToUpper(h), widths[i]), "  ")
	}
	fmt.Fprintln(o.w)
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				fmt.Fprint(o.w, runewidth.FillRight(cell, widths[i]), "  ")
			}
		}
		fmt.Fprintln(o.w)
	}
}

// PrintSection prints a section header.
func (o *Writer) PrintSection(title string) {
	fmt.Fprintf(o.w, "\n%s\n", title)
	fmt.Fprintln(o.w, strings.Repeat("-", len(title)))
}

// PrintKeyValue prints a key-value pair.
func (o *Writer) PrintKeyValue(key, value string) {
	fmt.Fprintf(o.w, "%-20s %s\n", key+":", value)
}

// PrintLine prints a line of text.
func (o *Writer) PrintLine(format string, args ...interface{}) {
	fmt.Fprintf(o.w, format+"\n", args...)
}

// FormatNumber formats a number with comma separators.
func FormatNumber(n int) string {
	s := fmt.Sprintf("%d", n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	if len(s) <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteRune(',')
		}
		b.WriteRune(c)
	}
	return b.String()
}
