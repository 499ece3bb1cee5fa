// Package maputl holds the map geometry of a Doom level and the collision
// and spatial-query utilities built on it: side classification, vertical
// gaps between sectors, and thing iteration through the BSP tree.
//
// Every query runs synchronously on the caller's goroutine. Geometry must not
// be mutated while a query is in progress.
package maputl

type Vertex struct {
	X, Y float64
}

type BoundBox struct {
	Top, Bottom, Left, Right float64
}

// Overlaps reports whether b and o share any point. Touching edges overlap.
func (b *BoundBox) Overlaps(o *BoundBox) bool {
	return !(o.Right < b.Left || o.Left > b.Right || o.Top < b.Bottom || o.Bottom > b.Top)
}

// Grow expands b by d on all four sides.
func (b *BoundBox) Grow(d float64) {
	b.Left -= d
	b.Right += d
	b.Bottom -= d
	b.Top += d
}

// BoxAround returns the square of half-width r centred on (x, y).
func BoxAround(x, y, r float64) BoundBox {
	return BoundBox{Top: y + r, Bottom: y - r, Left: x - r, Right: x + r}
}

type SlopeType int

const (
	SlopeTypeHorizontal SlopeType = iota
	SlopeTypeVertical
	SlopeTypePositive
	SlopeTypeNegative
)

func (s SlopeType) String() string {
	switch s {
	case SlopeTypeHorizontal:
		return "horizontal"
	case SlopeTypeVertical:
		return "vertical"
	case SlopeTypePositive:
		return "positive"
	case SlopeTypeNegative:
		return "negative"
	}
	return "unknown"
}

// classifySlope returns the slope type matching the sign pattern of dx, dy.
func classifySlope(dx, dy float64) SlopeType {
	switch {
	case dx == 0:
		return SlopeTypeVertical
	case dy == 0:
		return SlopeTypeHorizontal
	case (dy > 0) == (dx > 0):
		return SlopeTypePositive
	default:
		return SlopeTypeNegative
	}
}

// VerticalGap is the passable space between a floor and a ceiling.
// Ceiling <= Floor means the gap is closed.
type VerticalGap struct {
	Floor, Ceiling float64
}

// Empty reports whether the gap has no passable space.
func (g VerticalGap) Empty() bool {
	return g.Ceiling <= g.Floor
}

// SlidingDoorMover is the animation state of a horizontally sliding door.
type SlidingDoorMover struct {
	Direction int // > 0 opening, < 0 closing, 0 waiting
	Opening   float64
	Target    float64
}

type Line struct {
	Index int
	V1    *Vertex
	V2    *Vertex

	// Precalculated V2-V1 for side checking
	DX, DY float64

	SlopeType               SlopeType // To aid move clipping
	BoundingBox             BoundBox  // For the extent of the line
	FrontSector, BackSector *Sector   // BackSector is nil for one-sided lines

	Flags     LineFlag
	Special   int
	SectorTag int

	// Gap state, maintained by ComputeLineGaps
	Blocked bool
	HasGap  bool
	Gap     VerticalGap

	SlideDoor  bool
	SliderMove *SlidingDoorMover
}

type LineFlag int

const (
	LineFlagBlocking LineFlag = 1 << iota
	LineFlagBlockMonsters
	LineFlagTwoSided
)

// Div returns the line as a dividing line from V1 towards V2.
func (l *Line) Div() DividingLine {
	return DividingLine{X: l.V1.X, Y: l.V1.Y, DX: l.DX, DY: l.DY}
}

// SlopePlane describes a sloped floor or ceiling. Z values are offsets from
// the sector's nominal height at the two reference points.
type SlopePlane struct {
	X1, Y1, Z1 float64
	X2, Y2, Z2 float64
}

// ZAt returns the plane's offset at (x, y), interpolated along the line
// through the two reference points and clamped to their range.
func (p *SlopePlane) ZAt(x, y float64) float64 {
	dx, dy := p.X2-p.X1, p.Y2-p.Y1
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return p.Z1
	}
	t := clamp(((x-p.X1)*dx+(y-p.Y1)*dy)/lenSq, 0, 1)
	return p.Z1 + (p.Z2-p.Z1)*t
}

type Sector struct {
	Index         int
	FloorHeight   float64
	CeilingHeight float64
	FloorSlope    *SlopePlane
	CeilingSlope  *SlopePlane
	HeightSector  *Sector // Boom deep-water control sector, if any
	Tag           int
	Special       int

	Lines []*Line // Bounding lines, not owned

	// Movement and sight openings, maintained by RecomputeGapsAroundSector
	HasGap      bool
	Gap         VerticalGap
	HasSightGap bool
	SightGap    VerticalGap
}

// HasSlopeOrHeightSector reports whether any of the features exempting
// closed two-sided lines from blocking are present.
func (s *Sector) HasSlopeOrHeightSector() bool {
	return s.FloorSlope != nil || s.CeilingSlope != nil || s.HeightSector != nil
}

type BSPType int

const (
	BSPNode BSPType = iota
	BSPSubSector
)

func (t BSPType) String() string {
	if t == BSPSubSector {
		return "subsector"
	}
	return "node"
}

// ChildRef names a BSP child: either an interior node or a leaf subsector.
type ChildRef struct {
	Type  BSPType
	Index int
}

// Leaf flags used by the on-disk node formats.
const (
	LeafSubsector16 uint32 = 0x8000
	LeafSubsector32 uint32 = 0x80000000
)

// DecodeChild splits a raw bit-tagged child number. leafFlag selects the
// encoding, LeafSubsector16 for vanilla nodes.
func DecodeChild(raw, leafFlag uint32) ChildRef {
	if raw&leafFlag != 0 {
		return ChildRef{Type: BSPSubSector, Index: int(raw &^ leafFlag)}
	}
	return ChildRef{Type: BSPNode, Index: int(raw)}
}

type Node struct {
	Div      DividingLine
	BBox     [2]BoundBox // Index 0 is the front (right) child
	Children [2]ChildRef
}

// Child returns the child reference on side.
func (n *Node) Child(side int) ChildRef {
	return n.Children[side&1]
}

// BoundBox returns the bounding box of the child on side.
func (n *Node) BoundBox(side int) *BoundBox {
	return &n.BBox[side&1]
}

type SubSector struct {
	Index  int
	Sector *Sector

	// Head of the things located here, threaded through SubsectorNext
	Things *MapObject
}

type MapObjectFlag int

const (
	FlagSolid MapObjectFlag = 1 << iota
	FlagCorpse
	FlagSpecial // Pickup
)

// MapObject is a thing on the map. Its storage belongs to the caller; this
// package only reads it and maintains its subsector link.
type MapObject struct {
	X, Y, Z float64
	Radius  float64
	Height  float64
	Flags   MapObjectFlag
	Type    int

	SubsectorNext *MapObject
	subsector     *SubSector
}

// Box returns the thing's horizontal bounding box.
func (mo *MapObject) Box() BoundBox {
	return BoxAround(mo.X, mo.Y, mo.Radius)
}

// SubSector returns the subsector the thing is linked into, or nil.
func (mo *MapObject) SubSector() *SubSector {
	return mo.subsector
}

// ignorable reports whether the thing never blocks emptiness checks:
// non-solid corpses and pickups.
func (mo *MapObject) ignorable() bool {
	if mo.Flags&FlagSolid == 0 && mo.Flags&FlagCorpse != 0 {
		return true
	}
	return mo.Flags&FlagSpecial != 0
}

// Level is the built geometry of one map. The tables own every vertex,
// line, sector, subsector and node; cross references point into them.
type Level struct {
	Name       string
	Vertexes   []Vertex
	Lines      []Line
	Sectors    []Sector
	SubSectors []SubSector
	Nodes      []Node
	Root       ChildRef
}
