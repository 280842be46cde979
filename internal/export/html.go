package export

import (
	"fmt"
	"html/template"
	"io"
	"regexp"
	"strconv"
	"strings"

	"easel/internal/element"
	"easel/internal/geom"
)

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body style="margin:0">
<div id="canvas" style="{{.Container}}">
{{- range .Nodes}}
<div id="{{.ID}}" style="{{.Style}}">{{.Text}}</div>
{{- end}}
</div>
</body>
</html>
`))

type htmlPage struct {
	Title     string
	Container template.CSS
	Nodes     []htmlNode
}

type htmlNode struct {
	ID    string
	Style template.CSS
	Text  string
}

// cssValue accepts hex, named and functional colors and keywords, nothing
// that could close the declaration.
var cssValue = regexp.MustCompile(`^[#a-zA-Z0-9(),.%\s-]+$`)

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" || !cssValue.MatchString(v) {
		return fallback
	}
	return v
}

// HTML writes a static page that places every element absolutely inside a
// fixed-size container. The page is for display and is not re-imported.
func HTML(w io.Writer, elems []element.Element) error {
	p := htmlPage{
		Title: "canvas",
		Container: template.CSS(fmt.Sprintf("position:relative;width:%dpx;height:%dpx;overflow:hidden",
			geom.DefaultCanvasWidth, geom.DefaultCanvasHeight)),
	}
	for i, el := range elems {
		p.Nodes = append(p.Nodes, htmlNode{
			ID:    el.ID,
			Style: template.CSS(nodeStyle(el, i+1)),
			Text:  el.Text,
		})
	}
	if err := page.Execute(w, p); err != nil {
		return fmt.Errorf("write html: %w", err)
	}
	return nil
}

func nodeStyle(el element.Element, z int) string {
	var b strings.Builder
	decl := func(k, v string) {
		b.WriteString(k)
		b.WriteByte(':')
		b.WriteString(v)
		b.WriteByte(';')
	}
	decl("position", "absolute")
	decl("left", px(el.X))
	decl("top", px(el.Y))
	decl("width", px(el.Width))
	decl("height", px(el.Height))
	decl("z-index", strconv.Itoa(z))
	decl("box-sizing", "border-box")
	if el.Rotation != 0 {
		decl("transform", "rotate("+strconv.FormatFloat(el.Rotation, 'f', -1, 64)+"deg)")
	}

	if el.Kind == element.Text {
		decl("background", safe(el.Background, "transparent"))
		decl("color", safe(el.Color, TextColor))
		decl("white-space", "pre-wrap")
		decl("font-family", "monospace")
		decl("font-size", px(element.LineHeight*0.8))
		decl("line-height", px(element.LineHeight))
		decl("padding", px(element.TextPadding/2))
	} else {
		decl("background", safe(el.Background, RectangleBackground))
		if el.Color != "" {
			decl("color", safe(el.Color, TextColor))
		}
	}
	if el.FontWeight != "" {
		decl("font-weight", safe(el.FontWeight, element.WeightNormal))
	}
	if el.FontStyle != "" {
		decl("font-style", safe(el.FontStyle, element.StyleNormal))
	}
	if el.TextDecoration != "" {
		decl("text-decoration", safe(el.TextDecoration, element.DecorationNone))
	}
	return b.String()
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}
