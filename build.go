package maputl

import (
	"errors"
	"fmt"

	"github.com/stuarthighley/maputl/wad"
)

var ErrBadReference = errors.New("maputl: bad reference")

// Boom line special that makes tagged sectors take their heights from the
// line's front sector.
const lineSpecialTransferHeights = 242

// Build converts raw level lumps into linked geometry, validates it, and
// computes the initial gaps of every line and sector.
func Build(wl *wad.Level) (*Level, error) {
	logger.Printf("Building level %v ...", wl.Name)

	l := &Level{Name: wl.Name}

	l.Vertexes = make([]Vertex, len(wl.Vertexes))
	for i, v := range wl.Vertexes {
		l.Vertexes[i] = Vertex{X: v.X, Y: v.Y}
	}

	l.Sectors = make([]Sector, len(wl.Sectors))
	for i, s := range wl.Sectors {
		l.Sectors[i] = Sector{
			Index:         i,
			FloorHeight:   s.FloorHeight,
			CeilingHeight: s.CeilingHeight,
			Tag:           s.TagNum,
			Special:       s.Type,
		}
	}

	if err := l.buildLines(wl); err != nil {
		return nil, err
	}
	if err := l.buildSubSectors(wl); err != nil {
		return nil, err
	}
	l.buildNodes(wl)
	l.applyHeightSectors()

	if err := l.Validate(); err != nil {
		return nil, err
	}

	l.RecomputeAllGaps()

	logger.Printf("Built %v: %v lines, %v sectors, %v subsectors, %v nodes",
		l.Name, len(l.Lines), len(l.Sectors), len(l.SubSectors), len(l.Nodes))
	return l, nil
}

func (l *Level) sideSector(wl *wad.Level, sideNum int) (*Sector, error) {
	if sideNum == wad.NoSide {
		return nil, nil
	}
	if sideNum < 0 || sideNum >= len(wl.Sides) {
		return nil, fmt.Errorf("%w: side %v", ErrBadReference, sideNum)
	}
	secNum := wl.Sides[sideNum].SectorNum
	if secNum < 0 || secNum >= len(l.Sectors) {
		return nil, fmt.Errorf("%w: side %v sector %v", ErrBadReference, sideNum, secNum)
	}
	return &l.Sectors[secNum], nil
}

func (l *Level) vertex(n int) (*Vertex, error) {
	if n < 0 || n >= len(l.Vertexes) {
		return nil, fmt.Errorf("%w: vertex %v", ErrBadReference, n)
	}
	return &l.Vertexes[n], nil
}

func (l *Level) buildLines(wl *wad.Level) error {
	l.Lines = make([]Line, len(wl.Lines))
	for i := range wl.Lines {
		wline := &wl.Lines[i]
		li := &l.Lines[i] // Point to element
		li.Index = i

		var err error
		if li.V1, err = l.vertex(wline.V1Num); err != nil {
			return fmt.Errorf("line %v: %w", i, err)
		}
		if li.V2, err = l.vertex(wline.V2Num); err != nil {
			return fmt.Errorf("line %v: %w", i, err)
		}
		if li.FrontSector, err = l.sideSector(wl, wline.SideRNum); err != nil {
			return fmt.Errorf("line %v: %w", i, err)
		}
		if li.BackSector, err = l.sideSector(wl, wline.SideLNum); err != nil {
			return fmt.Errorf("line %v: %w", i, err)
		}

		if wline.BlockPlayerAndMonsters {
			li.Flags |= LineFlagBlocking
		}
		if wline.BlockMonsters {
			li.Flags |= LineFlagBlockMonsters
		}
		if wline.TwoSided {
			li.Flags |= LineFlagTwoSided
		}
		li.Special = wline.Type
		li.SectorTag = wline.SectorTagNum

		li.DX = li.V2.X - li.V1.X
		li.DY = li.V2.Y - li.V1.Y
		li.SlopeType = classifySlope(li.DX, li.DY)
		li.BoundingBox = BoundBox{
			Left:   min(li.V1.X, li.V2.X),
			Right:  max(li.V1.X, li.V2.X),
			Bottom: min(li.V1.Y, li.V2.Y),
			Top:    max(li.V1.Y, li.V2.Y),
		}

		if li.FrontSector != nil {
			li.FrontSector.Lines = append(li.FrontSector.Lines, li)
		}
		if li.BackSector != nil && li.BackSector != li.FrontSector {
			li.BackSector.Lines = append(li.BackSector.Lines, li)
		}
	}
	return nil
}

// buildSubSectors takes each subsector's sector from the side of its first
// seg.
func (l *Level) buildSubSectors(wl *wad.Level) error {
	l.SubSectors = make([]SubSector, len(wl.SubSectors))
	for i, ws := range wl.SubSectors {
		s := &l.SubSectors[i]
		s.Index = i

		if ws.NumLineSegments == 0 || ws.StartLineSegment >= len(wl.LineSegments) {
			return fmt.Errorf("subsector %v: %w: seg %v", i, ErrBadReference, ws.StartLineSegment)
		}
		seg := &wl.LineSegments[ws.StartLineSegment]
		if seg.LineNum >= len(wl.Lines) {
			return fmt.Errorf("subsector %v: %w: line %v", i, ErrBadReference, seg.LineNum)
		}
		wline := &wl.Lines[seg.LineNum]
		sideNum := wline.SideRNum
		if seg.IsSideL {
			sideNum = wline.SideLNum
		}
		sec, err := l.sideSector(wl, sideNum)
		if err != nil {
			return fmt.Errorf("subsector %v: %w", i, err)
		}
		if sec == nil {
			return fmt.Errorf("subsector %v: %w: seg on missing side", i, ErrBadReference)
		}
		s.Sector = sec
	}
	return nil
}

func (l *Level) buildNodes(wl *wad.Level) {
	l.Nodes = make([]Node, len(wl.Nodes))
	for i, wn := range wl.Nodes {
		l.Nodes[i] = Node{
			Div:  DividingLine{X: wn.X, Y: wn.Y, DX: wn.DX, DY: wn.DY},
			BBox: [2]BoundBox{BoundBox(wn.BBoxR), BoundBox(wn.BBoxL)},
			Children: [2]ChildRef{
				DecodeChild(wn.ChildNumR, wad.LeafFlag),
				DecodeChild(wn.ChildNumL, wad.LeafFlag),
			},
		}
	}

	// The root is the last node; a map with a single subsector has none
	if len(l.Nodes) == 0 {
		l.Root = ChildRef{Type: BSPSubSector, Index: 0}
	} else {
		l.Root = ChildRef{Type: BSPNode, Index: len(l.Nodes) - 1}
	}
}

func (l *Level) applyHeightSectors() {
	for i := range l.Lines {
		li := &l.Lines[i]
		if li.Special != lineSpecialTransferHeights || li.SectorTag == 0 || li.FrontSector == nil {
			continue
		}
		for j := range l.Sectors {
			if l.Sectors[j].Tag == li.SectorTag {
				l.Sectors[j].HeightSector = li.FrontSector
			}
		}
	}
}

// Validate checks that every BSP reference resolves. Queries assume a valid
// level and do not check again.
func (l *Level) Validate() error {
	if err := l.checkRef(l.Root); err != nil {
		return fmt.Errorf("root: %w", err)
	}
	for i := range l.Nodes {
		for side, ref := range l.Nodes[i].Children {
			if err := l.checkRef(ref); err != nil {
				return fmt.Errorf("node %v child %v: %w", i, side, err)
			}
		}
	}
	if err := l.checkTree(); err != nil {
		return err
	}
	for i := range l.SubSectors {
		if l.SubSectors[i].Sector == nil {
			return fmt.Errorf("%w: subsector %v has no sector", ErrBadReference, i)
		}
	}
	return nil
}

func (l *Level) checkRef(ref ChildRef) error {
	switch ref.Type {
	case BSPSubSector:
		if ref.Index < 0 || ref.Index >= len(l.SubSectors) {
			return fmt.Errorf("%w: subsector %v of %v", ErrBadReference, ref.Index, len(l.SubSectors))
		}
	case BSPNode:
		if ref.Index < 0 || ref.Index >= len(l.Nodes) {
			return fmt.Errorf("%w: node %v of %v", ErrBadReference, ref.Index, len(l.Nodes))
		}
	default:
		return fmt.Errorf("%w: child type %v", ErrBadReference, ref.Type)
	}
	return nil
}

// checkTree walks the tree from the root and rejects nodes reachable more
// than once, which would make traversal revisit or never terminate.
func (l *Level) checkTree() error {
	if l.Root.Type != BSPNode {
		return nil
	}
	seen := make([]bool, len(l.Nodes))
	stack := []int{l.Root.Index}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[n] {
			return fmt.Errorf("%w: node %v reached twice", ErrBadReference, n)
		}
		seen[n] = true
		for _, ref := range l.Nodes[n].Children {
			if ref.Type == BSPNode {
				stack = append(stack, ref.Index)
			}
		}
	}
	return nil
}

// RecomputeAllGaps refreshes the gaps of every line and sector.
func (l *Level) RecomputeAllGaps() {
	for i := range l.Lines {
		ComputeLineGaps(&l.Lines[i])
	}
	for i := range l.Sectors {
		s := &l.Sectors[i]
		s.Gap, s.HasGap = ConstructGap(s, 0, 0)
		s.SightGap, s.HasSightGap = ConstructSightGap(s)
	}
}
