package export

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"

	"easel/internal/element"
	"easel/internal/geom"
)

// pngPadding is the margin around the drawing, in pixels. One canvas unit is
// one pixel.
const pngPadding = 20

// gomono advances 0.6em per glyph, so this size fills one CharWidth column.
const fontSize = element.CharWidth / 0.6

// PNG draws elems bottom to top, cropped to their bounds plus padding.
func PNG(w io.Writer, elems []element.Element) error {
	if len(elems) == 0 {
		return ErrEmpty
	}
	bounds := boundsOf(elems)
	minX := bounds.X - pngPadding
	minY := bounds.Y - pngPadding
	width := int(math.Ceil(bounds.Width)) + 2*pngPadding
	height := int(math.Ceil(bounds.Height)) + 2*pngPadding

	faces, err := loadFaces()
	if err != nil {
		return err
	}

	dc := gg.NewContext(width, height)
	dc.SetColor(color.White)
	dc.Clear()

	for _, el := range elems {
		dc.Push()
		x, y := el.X-minX, el.Y-minY
		if el.Rotation != 0 {
			dc.RotateAbout(gg.Radians(el.Rotation), x+el.Width/2, y+el.Height/2)
		}
		switch el.Kind {
		case element.Text:
			drawTextPNG(dc, el, x, y, faces)
		default:
			drawRectPNG(dc, el, x, y)
		}
		dc.Pop()
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func drawRectPNG(dc *gg.Context, el element.Element, x, y float64) {
	dc.SetColor(parseColor(el.Background, RectangleBackground))
	dc.DrawRectangle(x, y, el.Width, el.Height)
	dc.Fill()
}

func drawTextPNG(dc *gg.Context, el element.Element, x, y float64, faces fontSet) {
	if el.Background != "" {
		dc.SetColor(parseColor(el.Background, "#ffffff"))
		dc.DrawRectangle(x, y, el.Width, el.Height)
		dc.Fill()
	}
	dc.SetFontFace(faces.pick(el.FontWeight == element.WeightBold, el.FontStyle == element.StyleItalic))
	dc.SetColor(parseColor(el.Color, TextColor))
	dc.SetLineWidth(1)

	pad := float64(element.TextPadding) / 2
	for i, line := range strings.Split(el.Text, "\n") {
		base := y + pad + float64(i+1)*element.LineHeight - element.LineHeight*0.25
		dc.DrawString(line, x+pad, base)
		if el.TextDecoration == element.DecorationUnderline && line != "" {
			lw, _ := dc.MeasureString(line)
			dc.DrawLine(x+pad, base+2, x+pad+lw, base+2)
			dc.Stroke()
		}
	}
}

// parseColor reads a hex color, falling back when s is empty or not hex.
func parseColor(s, fallback string) color.Color {
	if c, err := colorful.Hex(strings.TrimSpace(s)); err == nil {
		return c
	}
	c, _ := colorful.Hex(fallback)
	return c
}

// boundsOf is the union of the elements' rotated bounding boxes.
func boundsOf(elems []element.Element) geom.Rect {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, el := range elems {
		r := el.Rect().Bounds(el.Rotation)
		minX = math.Min(minX, r.X)
		minY = math.Min(minY, r.Y)
		maxX = math.Max(maxX, r.Right())
		maxY = math.Max(maxY, r.Bottom())
	}
	return geom.Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

type fontSet struct {
	regular, bold, italic, boldItalic font.Face
}

func (f fontSet) pick(bold, italic bool) font.Face {
	switch {
	case bold && italic:
		return f.boldItalic
	case bold:
		return f.bold
	case italic:
		return f.italic
	}
	return f.regular
}

func loadFaces() (fontSet, error) {
	var fs fontSet
	for _, v := range []struct {
		dst  *font.Face
		data []byte
	}{
		{&fs.regular, gomono.TTF},
		{&fs.bold, gomonobold.TTF},
		{&fs.italic, gomonoitalic.TTF},
		{&fs.boldItalic, gomonobolditalic.TTF},
	} {
		f, err := truetype.Parse(v.data)
		if err != nil {
			return fontSet{}, fmt.Errorf("parse font: %w", err)
		}
		*v.dst = truetype.NewFace(f, &truetype.Options{
			Size:    fontSize,
			DPI:     72,
			Hinting: font.HintingFull,
		})
	}
	return fs, nil
}
