package collage

import (
	"math"
	"math/rand/v2"
)

// Op is a path command.
type Op int

const (
	OpMove Op = iota
	OpLine
	OpCubic
	OpClose
)

// Point is a position in canvas coordinates.
type Point struct {
	X, Y float64
}

// Command is one path step. Cubic commands carry two control points and the
// end point, move and line commands one point, close none.
type Command struct {
	Op  Op
	Pts []Point
}

// ClipPath is a single closed contour.
type ClipPath []Command

func (p *ClipPath) moveTo(x, y float64) {
	*p = append(*p, Command{Op: OpMove, Pts: []Point{{x, y}}})
}

func (p *ClipPath) lineTo(x, y float64) {
	*p = append(*p, Command{Op: OpLine, Pts: []Point{{x, y}}})
}

func (p *ClipPath) cubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	*p = append(*p, Command{Op: OpCubic, Pts: []Point{{c1x, c1y}, {c2x, c2y}, {x, y}}})
}

func (p *ClipPath) close() {
	*p = append(*p, Command{Op: OpClose})
}

// Points returns every point of the path, control points included.
func (p ClipPath) Points() []Point {
	var pts []Point
	for _, c := range p {
		pts = append(pts, c.Pts...)
	}
	return pts
}

// Bounds is the axis-aligned box around all points of the path.
func (p ClipPath) Bounds() Rect {
	pts := p.Points()
	if len(pts) == 0 {
		return Rect{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, pt := range pts {
		minX, maxX = math.Min(minX, pt.X), math.Max(maxX, pt.X)
		minY, maxY = math.Min(minY, pt.Y), math.Max(maxY, pt.Y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Replay issues the path on s.
func (p ClipPath) Replay(s Surface) {
	for _, c := range p {
		switch c.Op {
		case OpMove:
			s.MoveTo(c.Pts[0].X, c.Pts[0].Y)
		case OpLine:
			s.LineTo(c.Pts[0].X, c.Pts[0].Y)
		case OpCubic:
			s.CubicTo(c.Pts[0].X, c.Pts[0].Y, c.Pts[1].X, c.Pts[1].Y, c.Pts[2].X, c.Pts[2].Y)
		case OpClose:
			s.ClosePath()
		}
	}
}

// coin returns true with probability p.
func coin(rng *rand.Rand, p float64) bool {
	return rng.Float64() < p
}

// uniform draws from [lo, hi).
func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// NewClipPath builds the jagged boundary of a layer that spans the full
// canvas height and clipWidth pixels from the left or right canvas edge.
// The edge facing the canvas interior is broken at its top, middle and
// bottom by insets of up to maxInset*clipWidth, joined by straight or
// curved segments.
func NewClipPath(rng *rand.Rand, canvasW, canvasH, clipWidth float64, isLeft bool, maxInset float64) ClipPath {
	maxInset = math.Max(0, math.Min(1, maxInset))

	x, y := 0.0, 0.0
	if !isLeft {
		x = canvasW - clipWidth
	}
	w, h := clipWidth, canvasH

	hasMidPoint := coin(rng, 0.7)
	inset := uniform(rng, 0, maxInset) * w
	topInset := pick(rng, inset)
	midInset := pick(rng, inset)
	btmInset := pick(rng, inset)
	hasCurve := coin(rng, 0.3)
	hasCurve2 := coin(rng, 0.3)

	var path ClipPath
	segment := func(curved bool, x1, y1, x2, y2 float64) {
		if curved {
			curveTo(rng, &path, x1, y1, x2, y2)
			return
		}
		path.lineTo(x2, y2)
	}

	if isLeft {
		x1, y1 := x+w-topInset, y
		x2, y2 := x+w-midInset, y+h/2
		x3, y3 := x+w-btmInset, y+h
		path.moveTo(x1, y1)
		if hasMidPoint {
			segment(hasCurve, x1, y1, x2, y2)
			segment(hasCurve2, x2, y2, x3, y3)
		} else {
			segment(hasCurve, x1, y1, x3, y3)
		}
		path.lineTo(x, y+h)
		path.lineTo(x, y)
	} else {
		x1, y1 := x+topInset, y
		x2, y2 := x+midInset, y+h/2
		x3, y3 := x+btmInset, y+h
		path.moveTo(x1, y1)
		path.lineTo(x+w, y)
		path.lineTo(x+w, y+h)
		path.lineTo(x3, y3)
		if hasMidPoint {
			segment(hasCurve2, x3, y3, x2, y2)
			segment(hasCurve, x2, y2, x1, y1)
		} else {
			segment(hasCurve, x3, y3, x1, y1)
		}
	}
	path.close()
	return path
}

// pick keeps v or drops it to zero on a coin flip.
func pick(rng *rand.Rand, v float64) float64 {
	if coin(rng, 0.5) {
		return v
	}
	return 0
}

// curveTo appends a cubic from (x1, y1) to (x2, y2) bowing convex or concave.
// Control points stay inside the box spanned by the end points.
func curveTo(rng *rand.Rand, path *ClipPath, x1, y1, x2, y2 float64) {
	isConvex := coin(rng, 0.5)
	strength := uniform(rng, 0.3, 0.8)
	if isConvex {
		path.cubicTo(x1+(x2-x1)*strength, y1, x2, y2-(y2-y1)*strength, x2, y2)
		return
	}
	path.cubicTo(x1, y1+(y2-y1)*strength, x2-(x2-x1)*strength, y2, x2, y2)
}
