package vm

const (
	ScreenWidth  = 64
	ScreenHeight = 32

	// Host pixel values in ARGB8888.
	LitColor   = uint32(0xFFFFFFFF)
	UnlitColor = uint32(0x00000000)
)

// Display is the monochrome frame buffer written by the clear and draw
// instructions.
type Display struct {
	pixels [ScreenWidth * ScreenHeight]bool
	dirty  bool // Indicates a draw has occurred
}

func NewDisplay() *Display {
	return &Display{dirty: true}
}

func (d *Display) Clear() {
	for i := range d.pixels {
		d.pixels[i] = false
	}
	d.dirty = true
}

func (d *Display) Pixel(x, y int) (bool, error) {
	i, err := pixelIndex(x, y)
	if err != nil {
		return false, err
	}
	return d.pixels[i], nil
}

func (d *Display) SetPixel(x, y int, lit bool) error {
	i, err := pixelIndex(x, y)
	if err != nil {
		return err
	}
	d.pixels[i] = lit
	d.dirty = true
	return nil
}

// flip toggles an in-range pixel and reports whether it was lit before.
func (d *Display) flip(x, y int) bool {
	i := y*ScreenWidth + x
	wasLit := d.pixels[i]
	d.pixels[i] = !wasLit
	d.dirty = true
	return wasLit
}

// Dirty reports whether the buffer changed since the last ClearDirty.
func (d *Display) Dirty() bool {
	return d.dirty
}

func (d *Display) ClearDirty() {
	d.dirty = false
}

// Render writes the buffer into dst, one ARGB8888 value per pixel in row
// major order.
func (d *Display) Render(dst []uint32) error {
	if len(dst) < len(d.pixels) {
		return &BoundsError{What: "render buffer length", Addr: len(dst), Limit: len(d.pixels)}
	}

	for i, lit := range d.pixels {
		color := UnlitColor
		if lit {
			color = LitColor
		}
		dst[i] = color
	}

	return nil
}

func pixelIndex(x, y int) (int, error) {
	if x < 0 || x >= ScreenWidth {
		return 0, &BoundsError{What: "screen x", Addr: x, Limit: ScreenWidth}
	}
	if y < 0 || y >= ScreenHeight {
		return 0, &BoundsError{What: "screen y", Addr: y, Limit: ScreenHeight}
	}
	return y*ScreenWidth + x, nil
}
