// Package plot draws residue depths as a bar chart in a png file.
// Bars are residue depth, a dot on top of a bar is the alpha carbon.
package plot

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/andrew-torda/resdepth/depth"
)

// Options control the picture. Zero values get defaults.
type Options struct {
	Width, Height int
	BarWidth      int // pixels per residue, used if Width is 0
	Title         string
	FontSize      float64
}

const (
	margin      = 40
	dfltHeight  = 300
	dfltBar     = 4
	dfltFont    = 10.0
	caDot       = 2 // half size of the alpha carbon marker
	yTicksWant  = 5
	minPlotSize = 2 * margin
)

var ErrNoData = errors.New("nothing to plot")

var (
	bg     = color.White
	fg     = color.Black
	barCol = color.RGBA{R: 0x40, G: 0x70, B: 0xb0, A: 0xff}
	caCol  = color.RGBA{R: 0xc0, G: 0x30, B: 0x30, A: 0xff}
)

var font *truetype.Font

func init() {
	var err error
	if font, err = freetype.ParseFont(goregular.TTF); err != nil {
		panic("plot: cannot parse built in font: " + err.Error())
	}
}

func (o *Options) fill(n int) {
	if o.BarWidth <= 0 {
		o.BarWidth = dfltBar
	}
	if o.Width <= 0 {
		o.Width = 2*margin + n*o.BarWidth
	}
	if o.Height <= 0 {
		o.Height = dfltHeight
	}
	if o.FontSize <= 0 {
		o.FontSize = dfltFont
	}
}

// maxDepth is the top of the y axis, rounded up to a whole number.
func maxDepth(entries []depth.Entry) float32 {
	var mx float32 = 1
	for _, e := range entries {
		if e.Res > mx {
			mx = e.Res
		}
		if e.CA > mx {
			mx = e.CA
		}
	}
	return float32(math.Ceil(float64(mx)))
}

// fillRect paints [x0,x1) x [y0,y1).
func fillRect(img draw.Image, x0, y0, x1, y1 int, c color.Color) {
	draw.Draw(img, image.Rect(x0, y0, x1, y1), image.NewUniform(c), image.Point{}, draw.Src)
}

// Profile writes a png with one bar per residue, in the order given.
func Profile(w io.Writer, entries []depth.Entry, opts Options) error {
	if len(entries) == 0 {
		return ErrNoData
	}
	opts.fill(len(entries))
	if opts.Width < minPlotSize || opts.Height < minPlotSize {
		return fmt.Errorf("plot size %d x %d too small", opts.Width, opts.Height)
	}
	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	fillRect(img, 0, 0, opts.Width, opts.Height, bg)

	x0, y0 := margin, opts.Height-margin // origin of the axes
	plotW, plotH := opts.Width-2*margin, opts.Height-2*margin
	top := maxDepth(entries)
	yPix := func(d float32) int { return y0 - int(d/top*float32(plotH)) }

	fillRect(img, x0, margin, x0+1, y0+1, fg) // y axis
	fillRect(img, x0, y0, x0+plotW, y0+1, fg) // x axis
	barW := plotW / len(entries)
	if barW < 1 {
		barW = 1
	}
	for i, e := range entries {
		bx := x0 + 1 + i*plotW/len(entries)
		fillRect(img, bx, yPix(e.Res), bx+barW, y0, barCol)
		if e.HasCA() {
			cx, cy := bx+barW/2, yPix(e.CA)
			fillRect(img, cx-caDot, cy-caDot, cx+caDot+1, cy+caDot+1, caCol)
		}
	}

	if err := labels(img, entries, opts, top, yPix); err != nil {
		return err
	}
	return png.Encode(w, img)
}

// labels puts numbers on the y axis, the first and last residue under
// the x axis and the title on top.
func labels(img draw.Image, entries []depth.Entry, opts Options, top float32, yPix func(float32) int) error {
	c := freetype.NewContext()
	c.SetDPI(72)
	c.SetFont(font)
	c.SetFontSize(opts.FontSize)
	c.SetClip(img.Bounds())
	c.SetDst(img)
	c.SetSrc(image.NewUniform(fg))

	step := top / yTicksWant
	if step < 1 {
		step = 1
	}
	step = float32(int(step))
	for d := float32(0); d <= top; d += step {
		s := fmt.Sprintf("%g", d)
		if _, err := c.DrawString(s, freetype.Pt(4, yPix(d)+int(opts.FontSize/2))); err != nil {
			return err
		}
	}
	y := opts.Height - margin + int(opts.FontSize) + 6
	first, last := entries[0].Residue, entries[len(entries)-1].Residue
	if _, err := c.DrawString(first.Key.String(), freetype.Pt(margin, y)); err != nil {
		return err
	}
	if _, err := c.DrawString(last.Key.String(), freetype.Pt(opts.Width-margin-6*int(opts.FontSize), y)); err != nil {
		return err
	}
	if opts.Title != "" {
		if _, err := c.DrawString(opts.Title, freetype.Pt(margin, margin/2+int(opts.FontSize/2))); err != nil {
			return err
		}
	}
	return nil
}
