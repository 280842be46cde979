package element

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	X        *float64
	Y        *float64
	Width    *float64
	Height   *float64
	Rotation *float64

	Background     *string
	Color          *string
	FontWeight     *string
	FontStyle      *string
	TextDecoration *string

	Text *string
}

// Apply writes the set fields of p onto e. Text is ignored for rectangles.
func (p Patch) Apply(e *Element) {
	setF(&e.X, p.X)
	setF(&e.Y, p.Y)
	setF(&e.Width, p.Width)
	setF(&e.Height, p.Height)
	setF(&e.Rotation, p.Rotation)
	setS(&e.Background, p.Background)
	setS(&e.Color, p.Color)
	setS(&e.FontWeight, p.FontWeight)
	setS(&e.FontStyle, p.FontStyle)
	setS(&e.TextDecoration, p.TextDecoration)
	if e.Kind == Text {
		setS(&e.Text, p.Text)
	}
}

// Empty reports whether p changes nothing.
func (p Patch) Empty() bool {
	return p == Patch{}
}

// Geometry builds a patch that overwrites position and size.
func Geometry(x, y, w, h float64) Patch {
	return Patch{X: &x, Y: &y, Width: &w, Height: &h}
}

func Position(x, y float64) Patch {
	return Patch{X: &x, Y: &y}
}

func Rotation(deg float64) Patch {
	return Patch{Rotation: &deg}
}

func Content(text string) Patch {
	return Patch{Text: &text}
}

func setF(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setS(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
