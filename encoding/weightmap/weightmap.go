// Package weightmap renders weight matrices as grayscale tile grids,
// one tile per node, and can accumulate the frames of a training run
// into an animated GIF.
package weightmap

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/png"
	"io"
	"math"

	"github.com/chewxy/math32"
	"github.com/golang/freetype/truetype"
	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/math/fixed"
	"gorgonia.org/tensor"

	"github.com/gorgonia/uesmann"
	"github.com/gorgonia/uesmann/mlp"
)

var tt font.Face
var regular *truetype.Font
var grayPalette color.Palette

const (
	dpi        = 144.0
	fontsize   = 12.0
	lineheight = 1.2
	pad        = 4

	frameDelay = 10 // hundredths of a second per frame
	bestDelay  = 50 // linger on frames where the best net improved
)

func init() {
	var err error
	if regular, err = truetype.Parse(gomono.TTF); err != nil {
		panic(err)
	}

	tt = truetype.NewFace(regular, &truetype.Options{
		Size:    fontsize,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})

	for i := 0; i < 256; i++ {
		grayPalette = append(grayPalette, color.Gray{Y: uint8(i)})
	}
}

// Grid renders w, a nodes x incoming weight matrix, as a tile grid:
// one tile per node, that node's incoming weights laid out as tileH
// rows of tileW pixels, zoomed by zoom. Zero maps to mid-gray and the
// largest magnitude in the matrix to full black or white, so shades
// are comparable only within one call.
func Grid(w *tensor.Dense, tileH, tileW, zoom int) (*image.Gray, error) {
	shp := w.Shape()
	if len(shp) != 2 {
		return nil, errors.Errorf("want a rank-2 weight tensor, got shape %v", shp)
	}
	nodes, incoming := shp[0], shp[1]
	if tileH*tileW != incoming {
		return nil, errors.Errorf("%dx%d tiles cannot hold %d incoming weights", tileH, tileW, incoming)
	}
	if zoom < 1 {
		return nil, errors.Errorf("zoom must be at least 1, got %d", zoom)
	}
	data := w.Data().([]float32)

	var maxAbs float32
	for _, v := range data {
		if a := math32.Abs(v); a > maxAbs {
			maxAbs = a
		}
	}

	across := int(math.Ceil(math.Sqrt(float64(nodes))))
	down := (nodes + across - 1) / across
	tw, th := tileW*zoom, tileH*zoom

	img := image.NewGray(image.Rect(0, 0, across*(tw+1)+1, down*(th+1)+1))
	draw.Draw(img, img.Bounds(), image.White, image.ZP, draw.Src)

	for n := 0; n < nodes; n++ {
		ox := 1 + (n%across)*(tw+1)
		oy := 1 + (n/across)*(th+1)
		for p := 0; p < incoming; p++ {
			g := uint8(127)
			if maxAbs > 0 {
				g = uint8(127.5 + float64(data[n*incoming+p]/maxAbs)*127.5)
			}
			px := ox + (p%tileW)*zoom
			py := oy + (p/tileW)*zoom
			for dy := 0; dy < zoom; dy++ {
				for dx := 0; dx < zoom; dx++ {
					img.SetGray(px+dx, py+dy, color.Gray{Y: g})
				}
			}
		}
	}
	return img, nil
}

// Frame renders a captioned weight map: the tile grid with a line of
// monospace text under it.
func Frame(w *tensor.Dense, tileH, tileW, zoom int, caption string) (*image.Gray, error) {
	grid, err := Grid(w, tileH, tileW, zoom)
	if err != nil {
		return nil, err
	}
	return captioned(grid, caption), nil
}

func captioned(grid *image.Gray, caption string) *image.Gray {
	dy := int(math.Ceil(fontsize * lineheight * dpi / 72))
	w := maxInt(grid.Bounds().Dx(), font.MeasureString(tt, caption).Ceil()+2*pad)
	h := grid.Bounds().Dy() + dy + pad

	img := image.NewGray(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.ZP, draw.Src)
	draw.Draw(img, grid.Bounds(), grid, image.ZP, draw.Src)

	d := font.Drawer{Dst: img, Src: image.Black, Face: tt}
	d.Dot = fixed.P(pad, h-pad)
	d.DrawString(caption)
	return img
}

// WritePNG encodes img to w.
func WritePNG(w io.Writer, img image.Image) error {
	return errors.Wrap(png.Encode(w, img), "failed to encode weight map")
}

// Encoder renders one GIF frame per training checkpoint, showing the
// chosen layer's weights evolving, and writes the animation on Flush.
// It implements the uesmann.Observer interface.
type Encoder struct {
	Layer        int // layer to render; 1 is the first hidden layer
	TileH, TileW int
	Zoom         int

	out *gif.GIF
	io.Writer
}

// NewGifEncoder renders layer as tileH x tileW tiles zoomed by zoom,
// writing the animation to w on Flush.
func NewGifEncoder(w io.Writer, layer, tileH, tileW, zoom int) *Encoder {
	return &Encoder{
		Layer:  layer,
		TileH:  tileH,
		TileW:  tileW,
		Zoom:   zoom,
		Writer: w,
		out:    &gif.GIF{LoopCount: -1},
	}
}

// Encode renders one checkpoint as a GIF frame.
func (enc *Encoder) Encode(c uesmann.Checkpoint) error {
	lw, err := mlp.LayerWeights(c.Net, enc.Layer)
	if err != nil {
		return err
	}
	frame, err := Frame(lw, enc.TileH, enc.TileW, enc.Zoom,
		fmt.Sprintf("iter %d cv %.5f", c.Iteration, c.CVError))
	if err != nil {
		return err
	}

	im := image.NewPaletted(frame.Bounds(), grayPalette)
	draw.Draw(im, im.Bounds(), frame, image.ZP, draw.Src)

	delay := frameDelay
	if c.Best {
		delay = bestDelay
	}
	enc.out.Image = append(enc.out.Image, im)
	enc.out.Delay = append(enc.out.Delay, delay)
	return nil
}

// Flush writes the gif into the writer
func (enc *Encoder) Flush() error { return gif.EncodeAll(enc.Writer, enc.out) }

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
