package export

import (
	"errors"
	"image"
	"image/color"
	"image/gif"
	"io"

	"github.com/san-kum/algoviz/internal/trace"
)

var gifPalette = color.Palette{
	color.Black,
	color.RGBA{0x4e, 0xa3, 0xff, 0xff}, // default
	color.RGBA{0x1a, 0x3a, 0x5c, 0xff}, // region
	color.RGBA{0xff, 0xd7, 0x00, 0xff}, // compare, read left, probe
	color.RGBA{0xff, 0x8c, 0x00, 0xff}, // read right
	color.RGBA{0xff, 0x30, 0x30, 0xff}, // swap, write, exchange
	color.RGBA{0xc6, 0x78, 0xdd, 0xff}, // pivot
	color.RGBA{0x3c, 0xd0, 0x70, 0xff}, // sorted
}

func gifIndex(r trace.Role) uint8 {
	switch r {
	case trace.RoleRegion:
		return 2
	case trace.RoleCompare, trace.RoleReadLeft, trace.RoleProbe:
		return 3
	case trace.RoleReadRight:
		return 4
	case trace.RoleSwap, trace.RoleWrite, trace.RoleExchange:
		return 5
	case trace.RolePivot:
		return 6
	case trace.RoleSorted:
		return 7
	}
	return 1
}

// FrameToImage rasterizes a frame as coloured bars on a black background.
func FrameToImage(f trace.Frame, width, height int) *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, width, height), gifPalette)
	n := len(f.Array)
	if n == 0 {
		return img
	}

	lo, hi := f.Array[0], f.Array[0]
	for _, v := range f.Array {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	base := min(0, lo)
	span := hi - base
	if span == 0 {
		span = 1
	}

	barW := max(1, width/n)
	gap := 0
	if barW > 3 {
		gap = 1
	}
	for i, v := range f.Array {
		barH := max(1, int((v-base)/span*float64(height)))
		idx := gifIndex(trace.RoleOf(f.Highlight, i))
		x0 := i * barW
		for y := height - barH; y < height; y++ {
			for x := x0; x < x0+barW-gap && x < width; x++ {
				img.SetColorIndex(x, y, idx)
			}
		}
	}
	return img
}

// WriteGIF encodes frames as a looping animation, delay in hundredths of a
// second per frame. The last frame holds for a second.
func WriteGIF(w io.Writer, frames []trace.Frame, width, height, delay int) error {
	if len(frames) == 0 {
		return errors.New("export: no frames")
	}
	if width <= 0 || height <= 0 {
		return errors.New("export: invalid image size")
	}

	anim := gif.GIF{LoopCount: 0}
	for _, f := range frames {
		anim.Image = append(anim.Image, FrameToImage(f, width, height))
		anim.Delay = append(anim.Delay, delay)
	}
	anim.Delay[len(anim.Delay)-1] = max(delay, 100)
	return gif.EncodeAll(w, &anim)
}
