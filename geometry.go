package maputl

import (
	"golang.org/x/exp/constraints"
)

// DividingLine is a point and direction used for side classification.
type DividingLine struct {
	X, Y   float64
	DX, DY float64
}

const epsilon = 1e-6

func nearZero(v float64) bool {
	return abs(v) < epsilon
}

func abs[T constraints.Signed | constraints.Float](v T) T {
	if v < 0 {
		return -v
	}
	return v
}

func clamp[T constraints.Ordered](v, lo, hi T) T {
	return max(lo, min(v, hi))
}

// approxFold combines two non-negative lengths as the larger plus half the
// smaller.
func approxFold(a, b float64) float64 {
	if b > a {
		return b + a/2
	}
	return a + b/2
}

// ApproximateDistance gives an estimation of distance (not exact).
func ApproximateDistance(dx, dy float64) float64 {
	return approxFold(abs(dx), abs(dy))
}

// ApproximateDistance3 folds dz into the 2D estimate the same way.
func ApproximateDistance3(dx, dy, dz float64) float64 {
	return approxFold(ApproximateDistance(dx, dy), abs(dz))
}

// ApproximateSlope gives an estimation of slope (not exact).
func ApproximateSlope(dx, dy, dz float64) float64 {
	// Prevent overflow or division by zero
	dist := max(ApproximateDistance(dx, dy), 1.0/32.0)
	return dz / dist
}

// ComputeIntersection returns where the segment (x1,y1)-(x2,y2) crosses the
// infinite line div.
func ComputeIntersection(div *DividingLine, x1, y1, x2, y2 float64) (ix, iy float64) {
	if nearZero(div.DX) {
		return div.X, y1 + (y2-y1)*(div.X-x1)/(x2-x1)
	}
	if nearZero(div.DY) {
		return x1 + (x2-x1)*(div.Y-y1)/(y2-y1), div.Y
	}

	// perpendicular distances (unnormalised)
	p1 := (x1-div.X)*div.DY - (y1-div.Y)*div.DX
	p2 := (x2-div.X)*div.DY - (y2-div.Y)*div.DX

	return x1 + (x2-x1)*p1/(p1-p2), y1 + (y2-y1)*p1/(p1-p2)
}

// PointOnDividingLineSide returns 0 (front/right) or 1 (back/left). A point
// directly on the line may yield either.
func PointOnDividingLineSide(x, y float64, div *DividingLine) int {
	if nearZero(div.DX) {
		return boolSide((x <= div.X) != (div.DY > 0))
	}
	if nearZero(div.DY) {
		return boolSide((y <= div.Y) != (div.DX < 0))
	}

	dx := x - div.X
	dy := y - div.Y

	// Quick decision from the sign bits
	if (div.DY < 0) != (div.DX < 0) != (dx < 0) != (dy < 0) {
		if (div.DY < 0) != (dx < 0) {
			return 1
		}
		return 0
	}

	left := dx * div.DY
	right := dy * div.DX
	if right < left {
		return 0
	}
	return 1
}

// boolSide maps a "front" condition to side 0, otherwise 1.
func boolSide(front bool) int {
	if front {
		return 0
	}
	return 1
}

// PointOnDividingLineThick is PointOnDividingLineSide with an "on the line"
// band: it returns 2 when the point is within thickness of div. divLen must
// be the length of div's direction vector.
func PointOnDividingLineThick(x, y float64, div *DividingLine, divLen, thickness float64) int {
	if nearZero(div.DX) {
		if abs(x-div.X) <= thickness {
			return 2
		}
		return boolSide((x < div.X) != (div.DY > 0))
	}
	if nearZero(div.DY) {
		if abs(y-div.Y) <= thickness {
			return 2
		}
		return boolSide((y < div.Y) != (div.DX < 0))
	}

	dx := x - div.X
	dy := y - div.Y

	left := (dx * div.DY) / divLen
	right := (dy * div.DX) / divLen

	if abs(left-right) <= thickness {
		return 2
	}
	if right < left {
		return 0
	}
	return 1
}

// BoxOnLineSide considers the line to be infinite. It returns side 0 or 1,
// or -1 if the box crosses the line.
func BoxOnLineSide(box *BoundBox, ld *Line) int {
	var p1, p2 int

	switch ld.SlopeType {
	case SlopeTypeHorizontal:
		p1, p2 = horizontalSides(box, ld.V1.Y, ld.DX)
	case SlopeTypeVertical:
		p1, p2 = verticalSides(box, ld.V1.X, ld.DY)
	case SlopeTypePositive:
		div := ld.Div()
		p1 = PointOnDividingLineSide(box.Left, box.Top, &div)
		p2 = PointOnDividingLineSide(box.Right, box.Bottom, &div)
	case SlopeTypeNegative:
		div := ld.Div()
		p1 = PointOnDividingLineSide(box.Right, box.Top, &div)
		p2 = PointOnDividingLineSide(box.Left, box.Bottom, &div)
	}

	if p1 == p2 {
		return p1
	}
	return -1
}

// BoxOnDividingLineSide is BoxOnLineSide for a bare dividing line, deriving
// the slope class from its direction.
func BoxOnDividingLineSide(box *BoundBox, div *DividingLine) int {
	var p1, p2 int

	switch {
	case nearZero(div.DY):
		p1, p2 = horizontalSides(box, div.Y, div.DX)
	case nearZero(div.DX):
		p1, p2 = verticalSides(box, div.X, div.DY)
	case div.DY/div.DX > 0:
		p1 = PointOnDividingLineSide(box.Left, box.Top, div)
		p2 = PointOnDividingLineSide(box.Right, box.Bottom, div)
	default:
		p1 = PointOnDividingLineSide(box.Right, box.Top, div)
		p2 = PointOnDividingLineSide(box.Left, box.Bottom, div)
	}

	if p1 == p2 {
		return p1
	}
	return -1
}

// horizontalSides classifies the box's top and bottom against a horizontal
// line at y running in direction dx.
func horizontalSides(box *BoundBox, y, dx float64) (p1, p2 int) {
	p1 = boolInt(box.Top > y)
	p2 = boolInt(box.Bottom > y)
	if dx < 0 {
		p1 ^= 1
		p2 ^= 1
	}
	return p1, p2
}

// verticalSides classifies the box's right and left against a vertical line
// at x running in direction dy.
func verticalSides(box *BoundBox, x, dy float64) (p1, p2 int) {
	p1 = boolInt(box.Right < x)
	p2 = boolInt(box.Left < x)
	if dy < 0 {
		p1 ^= 1
		p2 ^= 1
	}
	return p1, p2
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// ThingOnLineSide classifies the thing's bounding box against ld.
func ThingOnLineSide(mo *MapObject, ld *Line) int {
	box := mo.Box()
	return BoxOnLineSide(&box, ld)
}
