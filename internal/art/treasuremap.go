package art

import (
	"image"
	"image/color"
	"math"
	"math/rand/v2"
)

// MapPx is the resolution of generated maps before they are scaled to a board.
const MapPx = 256

var (
	sea       = color.RGBA{R: 0x1d, G: 0x4e, B: 0x6b, A: 0xff}
	shallows  = color.RGBA{R: 0x3f, G: 0x8f, B: 0x9c, A: 0xff}
	sand      = color.RGBA{R: 0xe2, G: 0xc9, B: 0x8f, A: 0xff}
	jungle    = color.RGBA{R: 0x3b, G: 0x6b, B: 0x35, A: 0xff}
	peak      = color.RGBA{R: 0x7a, G: 0x5c, B: 0x3a, A: 0xff}
	inkRed    = color.RGBA{R: 0xb3, G: 0x1b, B: 0x1b, A: 0xff}
	inkBrown  = color.RGBA{R: 0x4a, G: 0x2c, B: 0x17, A: 0xff}
	parchment = color.RGBA{R: 0xd8, G: 0xbf, B: 0x8a, A: 0xff}
)

type island struct {
	x, y, r float64
}

// TreasureMap paints a deterministic treasure map for seed: islands on open
// sea, a dotted trail between them ending in a red X, a compass rose, and a
// parchment frame.
func TreasureMap(seed int64) *image.RGBA {
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)*0x9e3779b97f4a7c15+1))
	img := image.NewRGBA(image.Rect(0, 0, MapPx, MapPx))

	islands := make([]island, 3+rng.IntN(3))
	for i := range islands {
		islands[i] = island{
			x: 40 + rng.Float64()*(MapPx-80),
			y: 40 + rng.Float64()*(MapPx-80),
			r: 18 + rng.Float64()*26,
		}
	}
	phase := rng.Float64() * 2 * math.Pi

	for y := 0; y < MapPx; y++ {
		for x := 0; x < MapPx; x++ {
			img.SetRGBA(x, y, terrainAt(float64(x), float64(y), islands, phase))
		}
	}

	drawGrid(img)
	drawTrail(img, islands, rng)
	drawCompass(img, MapPx-36, 36, 22)
	drawFrame(img, 6)
	return img
}

func terrainAt(x, y float64, islands []island, phase float64) color.RGBA {
	h := -1.0
	for _, is := range islands {
		dx, dy := x-is.x, y-is.y
		d := math.Hypot(dx, dy)
		angle := math.Atan2(dy, dx)
		wobble := 1 + 0.18*math.Sin(3*angle+phase) + 0.09*math.Sin(7*angle-phase*1.7)
		v := 1 - d/(is.r*wobble)
		if v > h {
			h = v
		}
	}
	wave := 0.04 * math.Sin(x*0.21+phase) * math.Cos(y*0.17-phase)
	switch {
	case h > 0.62:
		return peak
	case h > 0.22:
		return Blend(jungle, peak, (h-0.22)*0.6)
	case h > 0:
		return sand
	case h > -0.25:
		return Blend(shallows, sea, -h*3+wave)
	default:
		return Blend(sea, shallows, 0.08+wave)
	}
}

func drawGrid(img *image.RGBA) {
	step := MapPx / 8
	for i := step; i < MapPx; i += step {
		for j := 0; j < MapPx; j += 3 {
			img.SetRGBA(i, j, Blend(img.RGBAAt(i, j), inkBrown, 0.25))
			img.SetRGBA(j, i, Blend(img.RGBAAt(j, i), inkBrown, 0.25))
		}
	}
}

func drawTrail(img *image.RGBA, islands []island, rng *rand.Rand) {
	for i := 1; i < len(islands); i++ {
		a, b := islands[i-1], islands[i]
		steps := int(math.Hypot(b.x-a.x, b.y-a.y))
		bend := (rng.Float64() - 0.5) * 40
		for s := 0; s < steps; s += 6 {
			t := float64(s) / float64(steps)
			x := a.x + (b.x-a.x)*t + bend*math.Sin(t*math.Pi)
			y := a.y + (b.y-a.y)*t
			dot(img, int(x), int(y), 1, inkBrown)
		}
	}
	last := islands[len(islands)-1]
	cross(img, int(last.x), int(last.y), 9, inkRed)
}

func drawCompass(img *image.RGBA, cx, cy, r int) {
	for a := 0.0; a < 2*math.Pi; a += 0.02 {
		x := cx + int(float64(r)*math.Cos(a))
		y := cy + int(float64(r)*math.Sin(a))
		dot(img, x, y, 0, inkBrown)
	}
	for d := -r; d <= r; d++ {
		img.SetRGBA(cx, cy+d, inkBrown)
		img.SetRGBA(cx+d, cy, inkBrown)
	}
	for d := 0; d < r/2; d++ {
		dot(img, cx, cy-r+d, 1, inkRed)
	}
}

func drawFrame(img *image.RGBA, width int) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			edge := min(x-b.Min.X, y-b.Min.Y, b.Max.X-1-x, b.Max.Y-1-y)
			if edge < width {
				img.SetRGBA(x, y, Blend(parchment, inkBrown, float64(width-edge)/float64(width*2)))
			}
		}
	}
}

func dot(img *image.RGBA, x, y, r int, c color.RGBA) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if image.Pt(x+dx, y+dy).In(img.Bounds()) {
				img.SetRGBA(x+dx, y+dy, c)
			}
		}
	}
}

func cross(img *image.RGBA, x, y, r int, c color.RGBA) {
	for d := -r; d <= r; d++ {
		dot(img, x+d, y+d, 1, c)
		dot(img, x+d, y-d, 1, c)
	}
}
