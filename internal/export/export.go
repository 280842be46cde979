// Package export writes snapshots of the element store as JSON, a static
// HTML page, a PNG image or a plain-text drawing.
package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"

	"easel/internal/element"
)

// Fallback styles for elements that carry none.
const (
	RectangleBackground = "#4f46e5"
	TextColor           = "#111827"
)

// ErrEmpty is returned by exports that have nothing to draw.
var ErrEmpty = errors.New("nothing to export")

type Format string

const (
	FormatJSON Format = "json"
	FormatHTML Format = "html"
	FormatPNG  Format = "png"
	FormatTXT  Format = "txt"
)

func ParseFormat(s string) (Format, bool) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(s, "."))); f {
	case FormatJSON, FormatHTML, FormatPNG, FormatTXT:
		return f, true
	}
	return "", false
}

// JSON writes elems pretty-printed in the persisted shape, so the output can
// be loaded back.
func JSON(w io.Writer, elems []element.Element) error {
	if elems == nil {
		elems = []element.Element{}
	}
	data, err := json.MarshalIndent(elems, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

// Clipboard copies the JSON export to the system clipboard.
func Clipboard(elems []element.Element) error {
	if clipboard.Unsupported {
		return errors.New("clipboard unavailable")
	}
	var buf bytes.Buffer
	if err := JSON(&buf, elems); err != nil {
		return err
	}
	if err := clipboard.WriteAll(buf.String()); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	return nil
}

// Exporter writes export files named Name.<format> into Dir.
type Exporter struct {
	Dir  string
	Name string
}

func New(dir, name string) *Exporter {
	if name == "" {
		name = "canvas"
	}
	return &Exporter{Dir: ExpandPath(dir), Name: name}
}

// Path is where format f is written. An empty Dir means the working
// directory.
func (x *Exporter) Path(f Format) string {
	file := x.Name + "." + string(f)
	if x.Dir == "" {
		return file
	}
	return filepath.Join(x.Dir, file)
}

// Write exports elems in format f and returns the file written.
func (x *Exporter) Write(f Format, elems []element.Element) (string, error) {
	var buf bytes.Buffer
	var err error
	switch f {
	case FormatJSON:
		err = JSON(&buf, elems)
	case FormatHTML:
		err = HTML(&buf, elems)
	case FormatPNG:
		err = PNG(&buf, elems)
	case FormatTXT:
		err = TXT(&buf, elems)
	default:
		return "", fmt.Errorf("unknown export format %q", f)
	}
	if err != nil {
		return "", err
	}

	if x.Dir != "" {
		if err := os.MkdirAll(x.Dir, 0o755); err != nil {
			return "", fmt.Errorf("create export dir: %w", err)
		}
	}
	path := x.Path(f)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// ExpandPath resolves a leading ~ and makes p absolute.
func ExpandPath(p string) string {
	if p == "" {
		return ""
	}
	if strings.HasPrefix(p, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	return p
}
