package maputl

import (
	"errors"
	"testing"

	"github.com/stuarthighley/maputl/wad"
)

// twoRooms is a 128 unit square split at x = 64 by a two-sided line. The
// west room is sector 0, the east room sector 1 with a raised floor and a
// lowered ceiling.
func twoRooms() *wad.Level {
	line := func(v1, v2, r, l int) wad.Line {
		return wad.Line{V1Num: v1, V2Num: v2, SideRNum: r, SideLNum: l, BlockPlayerAndMonsters: l == wad.NoSide}
	}

	return &wad.Level{
		Name: "MAP01",
		Vertexes: []wad.Vertex{
			{X: 0, Y: 0}, {X: 128, Y: 0}, {X: 128, Y: 128}, {X: 0, Y: 128},
			{X: 64, Y: 0}, {X: 64, Y: 128},
		},
		Sectors: []wad.Sector{
			{FloorHeight: 0, CeilingHeight: 128},
			{FloorHeight: 16, CeilingHeight: 96},
		},
		Sides: []wad.Side{
			{SectorNum: 0}, {SectorNum: 1}, {SectorNum: 0}, {SectorNum: 1},
		},
		Lines: []wad.Line{
			line(0, 3, 0, wad.NoSide),
			line(3, 5, 0, wad.NoSide),
			line(4, 0, 0, wad.NoSide),
			{V1Num: 5, V2Num: 4, SideRNum: 2, SideLNum: 3, TwoSided: true},
			line(5, 2, 1, wad.NoSide),
			line(2, 1, 1, wad.NoSide),
			line(1, 4, 1, wad.NoSide),
		},
		LineSegments: []wad.LineSegment{
			{V1Num: 0, V2Num: 3, LineNum: 0},
			{V1Num: 5, V2Num: 2, LineNum: 4},
		},
		SubSectors: []wad.SubSector{
			{NumLineSegments: 1, StartLineSegment: 0},
			{NumLineSegments: 1, StartLineSegment: 1},
		},
		Nodes: []wad.Node{{
			X: 64, Y: 128, DX: 0, DY: -128,
			BBoxR:     wad.BoundBox{Top: 128, Bottom: 0, Left: 0, Right: 64},
			BBoxL:     wad.BoundBox{Top: 128, Bottom: 0, Left: 64, Right: 128},
			ChildNumR: wad.LeafFlag,
			ChildNumL: wad.LeafFlag | 1,
		}},
	}
}

func TestBuild(t *testing.T) {
	l, err := Build(twoRooms())
	if err != nil {
		t.Fatal(err)
	}
	if l.Name != "MAP01" {
		t.Errorf("name %q", l.Name)
	}

	west, east := &l.Sectors[0], &l.Sectors[1]

	door := &l.Lines[3]
	if door.FrontSector != west || door.BackSector != east {
		t.Error("two-sided line has the wrong sectors")
	}
	if door.Blocked || !door.HasGap || door.Gap != (VerticalGap{16, 96}) {
		t.Errorf("two-sided line: blocked %v gap %v %+v", door.Blocked, door.HasGap, door.Gap)
	}
	if door.Flags&LineFlagTwoSided == 0 || door.Flags&LineFlagBlocking != 0 {
		t.Errorf("two-sided line flags %b", door.Flags)
	}

	wall := &l.Lines[0]
	if !wall.Blocked || wall.HasGap || wall.BackSector != nil {
		t.Errorf("wall: blocked %v gap %v", wall.Blocked, wall.HasGap)
	}
	if wall.Flags&LineFlagBlocking == 0 {
		t.Error("wall lost its blocking flag")
	}

	if wall.SlopeType != SlopeTypeVertical || l.Lines[1].SlopeType != SlopeTypeHorizontal {
		t.Errorf("slope types %v %v", wall.SlopeType, l.Lines[1].SlopeType)
	}
	if want := (BoundBox{Top: 128, Bottom: 0, Left: 64, Right: 64}); door.BoundingBox != want {
		t.Errorf("door box %+v, want %+v", door.BoundingBox, want)
	}
	if door.DX != 0 || door.DY != -128 {
		t.Errorf("door delta (%v, %v)", door.DX, door.DY)
	}

	if len(west.Lines) != 4 || len(east.Lines) != 4 {
		t.Errorf("sector line counts %v %v, want 4 4", len(west.Lines), len(east.Lines))
	}
	if west.Lines[3] != door || east.Lines[0] != door {
		t.Error("shared line missing from a sector")
	}

	if l.SubSectors[0].Sector != west || l.SubSectors[1].Sector != east {
		t.Error("subsectors resolved to the wrong sectors")
	}
	if l.Root != (ChildRef{BSPNode, 0}) {
		t.Errorf("root %+v", l.Root)
	}
	if got := l.PointInSubsector(10, 10); got != &l.SubSectors[0] {
		t.Errorf("(10, 10) in subsector %v, want 0", got.Index)
	}
	if got := l.PointInSubsector(100, 10); got != &l.SubSectors[1] {
		t.Errorf("(100, 10) in subsector %v, want 1", got.Index)
	}

	if !west.HasSightGap || west.SightGap != (VerticalGap{0, 128}) {
		t.Errorf("west sight gap %v %+v", west.HasSightGap, west.SightGap)
	}
	if !east.HasGap || east.Gap != (VerticalGap{16, 96}) {
		t.Errorf("east gap %v %+v", east.HasGap, east.Gap)
	}
}

func TestBuildHeightSectors(t *testing.T) {
	wl := twoRooms()
	wl.Lines[3].Type = 242
	wl.Lines[3].SectorTagNum = 7
	wl.Sectors[1].TagNum = 7

	l, err := Build(wl)
	if err != nil {
		t.Fatal(err)
	}
	if l.Sectors[1].HeightSector != &l.Sectors[0] {
		t.Error("tagged sector did not get the control sector")
	}
	if l.Sectors[0].HeightSector != nil {
		t.Error("untagged sector got a control sector")
	}
	if !l.Sectors[1].HasSlopeOrHeightSector() {
		t.Error("HasSlopeOrHeightSector false with a height sector")
	}
}

func TestBuildSingleSubsector(t *testing.T) {
	wl := twoRooms()
	wl.Nodes = nil
	wl.SubSectors = wl.SubSectors[:1]

	l, err := Build(wl)
	if err != nil {
		t.Fatal(err)
	}
	if l.Root != (ChildRef{BSPSubSector, 0}) {
		t.Errorf("root %+v, want subsector 0", l.Root)
	}
	if got := l.PointInSubsector(100, 100); got != &l.SubSectors[0] {
		t.Error("point did not fall in the only subsector")
	}
}

func TestBuildBadReferences(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(wl *wad.Level)
	}{
		{"vertex", func(wl *wad.Level) { wl.Lines[0].V1Num = 99 }},
		{"side", func(wl *wad.Level) { wl.Lines[2].SideRNum = 42 }},
		{"side sector", func(wl *wad.Level) { wl.Sides[3].SectorNum = 9 }},
		{"seg", func(wl *wad.Level) { wl.SubSectors[1].StartLineSegment = 5 }},
		{"seg line", func(wl *wad.Level) { wl.LineSegments[0].LineNum = 70 }},
		{"seg on missing side", func(wl *wad.Level) { wl.LineSegments[0].IsSideL = true }},
		{"node child", func(wl *wad.Level) { wl.Nodes[0].ChildNumL = wad.LeafFlag | 5 }},
		{"node index", func(wl *wad.Level) { wl.Nodes[0].ChildNumR = 3 }},
		{"cycle", func(wl *wad.Level) { wl.Nodes[0].ChildNumR = 0 }},
	}
	for _, tc := range tests {
		wl := twoRooms()
		tc.mutate(wl)
		if _, err := Build(wl); !errors.Is(err, ErrBadReference) {
			t.Errorf("%s: got %v, want ErrBadReference", tc.name, err)
		}
	}
}
