package maputl

import "testing"

// newTestLine builds a line between two fresh vertexes with its derived
// fields filled in, the way Build does.
func newTestLine(x1, y1, x2, y2 float64) *Line {
	ld := &Line{V1: &Vertex{x1, y1}, V2: &Vertex{x2, y2}}
	ld.DX = x2 - x1
	ld.DY = y2 - y1
	ld.SlopeType = classifySlope(ld.DX, ld.DY)
	ld.BoundingBox = BoundBox{
		Left:   min(x1, x2),
		Right:  max(x1, x2),
		Bottom: min(y1, y2),
		Top:    max(y1, y2),
	}
	return ld
}

func newTestSector(floor, ceiling float64) *Sector {
	return &Sector{FloorHeight: floor, CeilingHeight: ceiling}
}

// quadLevel returns a level of four quadrant subsectors around the origin,
// each 99 units square with a one unit gutter along both axes.
//
//	sub3 NW | sub1 NE
//	--------+--------
//	sub2 SW | sub0 SE
func quadLevel() *Level {
	sec := Sector{FloorHeight: 0, CeilingHeight: 128}
	l := &Level{
		Sectors: []Sector{sec},
	}
	l.SubSectors = make([]SubSector, 4)
	for i := range l.SubSectors {
		l.SubSectors[i] = SubSector{Index: i, Sector: &l.Sectors[0]}
	}

	se := BoundBox{Top: -1, Bottom: -100, Left: 1, Right: 100}
	ne := BoundBox{Top: 100, Bottom: 1, Left: 1, Right: 100}
	sw := BoundBox{Top: -1, Bottom: -100, Left: -100, Right: -1}
	nw := BoundBox{Top: 100, Bottom: 1, Left: -100, Right: -1}
	east := BoundBox{Top: 100, Bottom: -100, Left: 1, Right: 100}
	west := BoundBox{Top: 100, Bottom: -100, Left: -100, Right: -1}

	// Horizontal partitions heading east have y <= 0 in front
	horizontal := DividingLine{X: 0, Y: 0, DX: 1, DY: 0}
	// The vertical partition heads north and has x > 0 in front
	vertical := DividingLine{X: 0, Y: 0, DX: 0, DY: 1}

	l.Nodes = []Node{
		{
			Div:      horizontal,
			BBox:     [2]BoundBox{se, ne},
			Children: [2]ChildRef{{BSPSubSector, 0}, {BSPSubSector, 1}},
		},
		{
			Div:      horizontal,
			BBox:     [2]BoundBox{sw, nw},
			Children: [2]ChildRef{{BSPSubSector, 2}, {BSPSubSector, 3}},
		},
		{
			Div:      vertical,
			BBox:     [2]BoundBox{east, west},
			Children: [2]ChildRef{{BSPNode, 0}, {BSPNode, 1}},
		},
	}
	l.Root = ChildRef{BSPNode, 2}
	return l
}

// place links a solid thing with the given radius at (x, y).
func place(t *testing.T, l *Level, x, y, r float64, flags MapObjectFlag) *MapObject {
	t.Helper()
	mo := &MapObject{X: x, Y: y, Radius: r, Height: 56, Flags: flags}
	l.LinkThing(mo)
	return mo
}
