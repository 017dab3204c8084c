package art

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"treasuregate/internal/board"
)

// Decode reads a PNG, JPEG, GIF, BMP or WebP background image.
func Decode(b []byte) (image.Image, error) {
	img, format, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("decode image: empty %s", format)
	}
	return img, nil
}

// Scale stretches src onto a px x px canvas, like a background sized to the
// whole board.
func Scale(src image.Image, px int) *image.RGBA {
	if px < 1 {
		px = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, px, px))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// Sheet is the scaled background cut into the tiles of a board geometry.
type Sheet struct {
	img *image.RGBA
	geo board.Geometry
}

func NewSheet(src image.Image, geo board.Geometry) *Sheet {
	return &Sheet{img: Scale(src, geo.BoardPx), geo: geo}
}

func (s *Sheet) Geometry() board.Geometry { return s.geo }

// Pixel returns the color at (x, y) inside tile id.
func (s *Sheet) Pixel(id, x, y int) color.RGBA {
	o := s.geo.Origin(id)
	return s.img.RGBAAt(o.X+x, o.Y+y)
}

// Blend mixes c toward with by amount in [0,1].
func Blend(c, with color.RGBA, amount float64) color.RGBA {
	if amount <= 0 {
		return c
	}
	if amount > 1 {
		amount = 1
	}
	mix := func(a, b uint8) uint8 {
		return uint8(float64(a)*(1-amount) + float64(b)*amount + 0.5)
	}
	return color.RGBA{R: mix(c.R, with.R), G: mix(c.G, with.G), B: mix(c.B, with.B), A: 0xff}
}

// Luma is the perceived brightness of c in [0,1].
func Luma(c color.RGBA) float64 {
	return (0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)) / 255
}

// ToRGBA converts any color to opaque RGBA.
func ToRGBA(c color.Color) color.RGBA {
	r, g, b, _ := c.RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 0xff}
}
