// Package preview renders a small raster map of a feature collection.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"math"

	"github.com/woozymasta/geotweak/internal/geo"

	"github.com/chai2010/webp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
	"golang.org/x/image/vector"
)

const (
	// ContentType of rendered previews.
	ContentType = "image/webp"

	strokeWidth = 2
	pointRadius = 3
	minPadding  = pointRadius + 1
)

var (
	backgroundColor = color.NRGBA{0xf4, 0xf1, 0xea, 0xff}
	fillColor       = color.NRGBA{0x2b, 0x6c, 0xb0, 0x60}
	strokeColor     = color.NRGBA{0x1f, 0x4e, 0x79, 0xff}
	pointColor      = color.NRGBA{0xc0, 0x39, 0x2b, 0xff}
)

// Options sets the canvas and encoder parameters.
type Options struct {
	Width   int     `yaml:"width"`
	Height  int     `yaml:"height"`
	Padding int     `yaml:"padding"`
	Quality float32 `yaml:"quality"`
}

// DefaultOptions returns the preview settings used when none are configured.
func DefaultOptions() Options {
	return Options{Width: 512, Height: 512, Padding: 16, Quality: 85}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.Padding < minPadding {
		o.Padding = minPadding
	}
	if o.Quality <= 0 || o.Quality > 100 {
		o.Quality = d.Quality
	}
	return o
}

// Render draws fc and writes it to w as WebP.
func Render(w io.Writer, fc *geo.FeatureCollection, opts Options) error {
	opts = opts.withDefaults()

	img, err := Draw(fc, opts)
	if err != nil {
		return err
	}

	if err := webp.Encode(w, img, &webp.Options{Lossless: false, Quality: opts.Quality}); err != nil {
		return fmt.Errorf("encode webp: %w", err)
	}
	return nil
}

// Draw rasterizes fc in Web Mercator, fitted to the canvas. Polygons are filled
// and outlined, lines stroked and points drawn as squares.
func Draw(fc *geo.FeatureCollection, opts Options) (*image.RGBA, error) {
	features, err := fc.FeatureList()
	if err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, draw.Src)

	var (
		projected = make([]orb.Geometry, 0, len(features))
		bound     orb.Bound
	)
	for _, f := range features {
		og := geo.ToOrb(f.Geometry)
		if og == nil || !geo.HasPositions(og) {
			continue
		}
		og = project.Geometry(og, geo.ToWebMercator)

		if len(projected) == 0 {
			bound = og.Bound()
		} else {
			bound = bound.Union(og.Bound())
		}
		projected = append(projected, og)
	}

	if len(projected) == 0 {
		return img, nil
	}

	r := &renderer{
		img:    img,
		vp:     newViewport(bound, opts.Width, opts.Height, opts.Padding),
		fill:   vector.NewRasterizer(opts.Width, opts.Height),
		stroke: vector.NewRasterizer(opts.Width, opts.Height),
		points: vector.NewRasterizer(opts.Width, opts.Height),
	}
	for _, g := range projected {
		r.geometry(g)
	}
	r.stroke.Draw(img, img.Bounds(), image.NewUniform(strokeColor), image.Point{})
	r.points.Draw(img, img.Bounds(), image.NewUniform(pointColor), image.Point{})

	return img, nil
}

// viewport maps projected coordinates to pixels, y axis pointing down.
type viewport struct {
	minX, minY float64
	scale      float64
	offX, offY float64
	height     float64
}

func newViewport(b orb.Bound, width, height, padding int) viewport {
	dx, dy := b.Max[0]-b.Min[0], b.Max[1]-b.Min[1]
	aw, ah := float64(width-2*padding), float64(height-2*padding)

	scale := 1.0
	switch {
	case dx > 0 && dy > 0:
		scale = math.Min(aw/dx, ah/dy)
	case dx > 0:
		scale = aw / dx
	case dy > 0:
		scale = ah / dy
	}

	return viewport{
		minX:   b.Min[0],
		minY:   b.Min[1],
		scale:  scale,
		offX:   float64(padding) + (aw-dx*scale)/2,
		offY:   float64(padding) + (ah-dy*scale)/2,
		height: float64(height),
	}
}

func (v viewport) pixel(p orb.Point) (float32, float32) {
	x := v.offX + (p[0]-v.minX)*v.scale
	y := v.height - (v.offY + (p[1]-v.minY)*v.scale)
	return float32(x), float32(y)
}

type renderer struct {
	img    *image.RGBA
	vp     viewport
	fill   *vector.Rasterizer
	stroke *vector.Rasterizer
	points *vector.Rasterizer
}

func (r *renderer) geometry(g orb.Geometry) {
	switch g := g.(type) {
	case orb.Point:
		r.point(g)
	case orb.MultiPoint:
		for _, p := range g {
			r.point(p)
		}
	case orb.LineString:
		r.line(g)
	case orb.MultiLineString:
		for _, ls := range g {
			r.line(ls)
		}
	case orb.Ring:
		r.polygon(orb.Polygon{g})
	case orb.Polygon:
		r.polygon(g)
	case orb.MultiPolygon:
		for _, p := range g {
			r.polygon(p)
		}
	case orb.Collection:
		for _, member := range g {
			r.geometry(member)
		}
	}
}

// polygon fills each polygon on its own so neighbouring shapes never cancel out.
func (r *renderer) polygon(p orb.Polygon) {
	r.fill.Reset(r.img.Bounds().Dx(), r.img.Bounds().Dy())

	drawn := false
	for _, ring := range p {
		if len(ring) < 3 {
			continue
		}
		r.fill.MoveTo(r.vp.pixel(ring[0]))
		for _, pt := range ring[1:] {
			r.fill.LineTo(r.vp.pixel(pt))
		}
		r.fill.ClosePath()
		drawn = true
	}
	if drawn {
		r.fill.Draw(r.img, r.img.Bounds(), image.NewUniform(fillColor), image.Point{})
	}

	for _, ring := range p {
		r.line(orb.LineString(ring))
	}
}

// line strokes every segment as a quad of strokeWidth.
func (r *renderer) line(ls orb.LineString) {
	const half = strokeWidth / 2.0

	for i := 1; i < len(ls); i++ {
		ax, ay := r.vp.pixel(ls[i-1])
		bx, by := r.vp.pixel(ls[i])

		dx, dy := bx-ax, by-ay
		length := float32(math.Hypot(float64(dx), float64(dy)))
		if length == 0 {
			continue
		}
		nx, ny := -dy/length*half, dx/length*half

		r.stroke.MoveTo(ax+nx, ay+ny)
		r.stroke.LineTo(bx+nx, by+ny)
		r.stroke.LineTo(bx-nx, by-ny)
		r.stroke.LineTo(ax-nx, ay-ny)
		r.stroke.ClosePath()
	}
}

func (r *renderer) point(p orb.Point) {
	x, y := r.vp.pixel(p)
	r.points.MoveTo(x-pointRadius, y-pointRadius)
	r.points.LineTo(x+pointRadius, y-pointRadius)
	r.points.LineTo(x+pointRadius, y+pointRadius)
	r.points.LineTo(x-pointRadius, y+pointRadius)
	r.points.ClosePath()
}
