package wad

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"golang.org/x/exp/constraints"
)

// NoSide marks an absent sidedef reference in a LINEDEFS entry.
const NoSide = -1

type binThing struct {
	X       int16
	Y       int16
	Angle   int16
	Type    int16
	Options int16
}

type Thing struct {
	X, Y            float64
	Angle           float64 // Radians
	Type            int
	Skill1and2      bool
	Skill3          bool
	Skill4and5      bool
	Ambush          bool
	MultiplayerOnly bool
}

type binLine struct {
	VertexStart, VertexEnd uint16
	Flags                  uint16
	Type                   uint16
	SectorTag              int16
	SideR, SideL           uint16
}

type Line struct {
	V1Num                  int
	V2Num                  int
	BlockPlayerAndMonsters bool
	BlockMonsters          bool
	TwoSided               bool
	UpperTextureUnpegged   bool
	LowerTextureUnpegged   bool
	Secret                 bool
	BlocksSound            bool
	NeverMap               bool
	AlwaysMap              bool
	Type                   int
	SectorTagNum           int
	SideRNum, SideLNum     int // NoSide if absent
}

type binSide struct {
	XOffset       int16
	YOffset       int16
	UpperTexture  String8
	LowerTexture  String8
	MiddleTexture String8
	SectorNum     uint16
}

type Side struct {
	XOffset           float64
	YOffset           float64
	UpperTextureName  string
	LowerTextureName  string
	MiddleTextureName string
	SectorNum         int
}

type binVertex struct {
	X, Y int16
}

type Vertex struct {
	X, Y float64
}

type binLineSegment struct {
	V1        uint16
	V2        uint16
	Angle     int16 // Full circle is -32768 to 32767.
	LineNum   uint16
	Direction int16 // 0 - same as linedef, 1 - opposite to linedef
	Offset    int16 // Distance along line to start of segment
}

type LineSegment struct {
	V1Num   int
	V2Num   int
	Angle   float64 // Radians
	LineNum int
	IsSideL bool    // false - same as linedef, true - opposite to linedef
	Offset  float64 // Distance along line to start of segment
}

type binSubSector struct {
	NumSegments      uint16
	StartLineSegment uint16
}

type SubSector struct {
	NumLineSegments  int
	StartLineSegment int
}

type binBBox struct {
	Top    int16
	Bottom int16
	Left   int16
	Right  int16
}

type BoundBox struct {
	Top, Bottom, Left, Right float64
}

func (b binBBox) canonical() BoundBox {
	return BoundBox{
		Top:    float64(b.Top),
		Bottom: float64(b.Bottom),
		Left:   float64(b.Left),
		Right:  float64(b.Right),
	}
}

type binNode struct {
	X, Y                 int16
	DX, DY               int16
	BBoxR, BBoxL         binBBox
	ChildNumR, ChildNumL uint16
}

// Node is a NODES entry. Child numbers keep their raw encoding: the
// LeafFlag bit marks a subsector index.
type Node struct {
	X, Y                 float64
	DX, DY               float64
	BBoxR, BBoxL         BoundBox
	ChildNumR, ChildNumL uint32
}

// LeafFlag tags a vanilla 16-bit node child as a subsector index.
const LeafFlag uint32 = 0x8000

type binSector struct {
	FloorHeight    int16
	CeilingHeight  int16
	FloorTexture   String8
	CeilingTexture String8
	LightLevel     int16
	Type           int16
	TagNum         int16
}

type Sector struct {
	FloorHeight        float64
	CeilingHeight      float64
	FloorTextureName   string
	CeilingTextureName string
	LightLevel         int
	Type               int
	TagNum             int
}

// Level holds the raw geometry lumps of one map.
type Level struct {
	Name         string
	Things       []Thing
	Lines        []Line
	Sides        []Side
	Vertexes     []Vertex
	LineSegments []LineSegment
	SubSectors   []SubSector
	Nodes        []Node
	Sectors      []Sector
}

// ReadLevel reads the geometry lumps that follow the level marker name.
func (w *WAD) ReadLevel(name string) (*Level, error) {
	name = strings.ToUpper(name)
	logger.Printf("Reading Level %v ...", name)

	levelIdx, ok := w.levels[name]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrLevelNotFound, name)
	}

	level := &Level{Name: name}
	last := min(levelIdx+11, len(w.lumpInfos))
	for i := levelIdx + 1; i < last; i++ {
		lumpInfo := w.lumpInfos[i]
		if _, isLevel := w.levels[lumpInfo.Name]; isLevel {
			break
		}
		lump, err := w.readLump(&lumpInfo)
		if err != nil {
			return nil, err
		}
		switch lumpInfo.Name {
		case "THINGS":
			level.Things, err = readThings(lump)
		case "LINEDEFS":
			level.Lines, err = readLines(lump)
		case "SIDEDEFS":
			level.Sides, err = readSides(lump)
		case "VERTEXES":
			level.Vertexes, err = readVertexes(lump)
		case "SEGS":
			level.LineSegments, err = readLineSegments(lump)
		case "SSECTORS":
			level.SubSectors, err = readSubSectors(lump)
		case "NODES":
			level.Nodes, err = readNodes(lump)
		case "SECTORS":
			level.Sectors, err = readSectors(lump)
		default:
			logger.Printf("Unhandled lump %s", lumpInfo.Name)
		}
		if err != nil {
			return nil, fmt.Errorf("%v %v: %w", name, lumpInfo.Name, err)
		}
	}
	return level, nil
}

// decodeLump splits lump into fixed-size little-endian records.
func decodeLump[T any](lump []byte) ([]T, error) {
	var zero T
	size := binary.Size(zero)
	if size <= 0 {
		return nil, fmt.Errorf("invalid record type %T", zero)
	}
	records := make([]T, len(lump)/size)
	if err := binary.Read(bytes.NewReader(lump), binary.LittleEndian, records); err != nil {
		return nil, err
	}
	return records, nil
}

func sideNum(n uint16) int {
	if n == math.MaxUint16 {
		return NoSide
	}
	return int(n)
}

func readThings(lump []byte) ([]Thing, error) {
	logger.Println("Reading Things ...")
	binThings, err := decodeLump[binThing](lump)
	if err != nil {
		return nil, err
	}
	things := make([]Thing, len(binThings))
	for i, t := range binThings {
		things[i] = Thing{
			X:               float64(t.X),
			Y:               float64(t.Y),
			Angle:           degreesToRadians(t.Angle),
			Type:            int(t.Type),
			Skill1and2:      t.Options&1 != 0,
			Skill3:          t.Options&2 != 0,
			Skill4and5:      t.Options&4 != 0,
			Ambush:          t.Options&8 != 0,
			MultiplayerOnly: t.Options&0x10 != 0,
		}
	}
	logger.Printf("Read %v things", len(things))
	return things, nil
}

func readLines(lump []byte) ([]Line, error) {
	logger.Println("Reading Lines ...")
	binLines, err := decodeLump[binLine](lump)
	if err != nil {
		return nil, err
	}
	lines := make([]Line, len(binLines))
	for i, line := range binLines {
		lines[i] = Line{
			V1Num:                  int(line.VertexStart),
			V2Num:                  int(line.VertexEnd),
			BlockPlayerAndMonsters: line.Flags&1 != 0,
			BlockMonsters:          line.Flags&2 != 0,
			TwoSided:               line.Flags&4 != 0,
			UpperTextureUnpegged:   line.Flags&8 != 0,
			LowerTextureUnpegged:   line.Flags&0x10 != 0,
			Secret:                 line.Flags&0x20 != 0,
			BlocksSound:            line.Flags&0x40 != 0,
			NeverMap:               line.Flags&0x80 != 0,
			AlwaysMap:              line.Flags&0x100 != 0,
			Type:                   int(line.Type),
			SectorTagNum:           int(line.SectorTag),
			SideRNum:               sideNum(line.SideR),
			SideLNum:               sideNum(line.SideL),
		}
	}
	logger.Printf("Read %v lines", len(lines))
	return lines, nil
}

func readSides(lump []byte) ([]Side, error) {
	logger.Println("Reading Sides ...")
	binSides, err := decodeLump[binSide](lump)
	if err != nil {
		return nil, err
	}
	sides := make([]Side, len(binSides))
	for i, s := range binSides {
		sides[i] = Side{
			XOffset:           float64(s.XOffset),
			YOffset:           float64(s.YOffset),
			UpperTextureName:  s.UpperTexture.String(),
			MiddleTextureName: s.MiddleTexture.String(),
			LowerTextureName:  s.LowerTexture.String(),
			SectorNum:         int(s.SectorNum),
		}
	}
	logger.Printf("Read %v sides", len(sides))
	return sides, nil
}

func readVertexes(lump []byte) ([]Vertex, error) {
	logger.Println("Reading Vertexes ...")
	binVertexes, err := decodeLump[binVertex](lump)
	if err != nil {
		return nil, err
	}
	vertexes := make([]Vertex, len(binVertexes))
	for i, v := range binVertexes {
		vertexes[i] = Vertex{X: float64(v.X), Y: float64(v.Y)}
	}
	logger.Printf("Read %v vertexes", len(vertexes))
	return vertexes, nil
}

func readLineSegments(lump []byte) ([]LineSegment, error) {
	logger.Println("Reading Line Segments ...")
	binSegments, err := decodeLump[binLineSegment](lump)
	if err != nil {
		return nil, err
	}
	segments := make([]LineSegment, len(binSegments))
	for i, s := range binSegments {
		segments[i] = LineSegment{
			V1Num:   int(s.V1),
			V2Num:   int(s.V2),
			Angle:   bamToRadians(s.Angle),
			LineNum: int(s.LineNum),
			IsSideL: s.Direction == 1,
			Offset:  float64(s.Offset),
		}
	}
	logger.Printf("Read %v line segments", len(segments))
	return segments, nil
}

func readSubSectors(lump []byte) ([]SubSector, error) {
	logger.Println("Reading Sub Sectors ...")
	binSubSectors, err := decodeLump[binSubSector](lump)
	if err != nil {
		return nil, err
	}
	subSectors := make([]SubSector, len(binSubSectors))
	for i, s := range binSubSectors {
		subSectors[i] = SubSector{
			NumLineSegments:  int(s.NumSegments),
			StartLineSegment: int(s.StartLineSegment),
		}
	}
	logger.Printf("Read %v sub sectors", len(subSectors))
	return subSectors, nil
}

func readNodes(lump []byte) ([]Node, error) {
	logger.Println("Reading Nodes ...")
	binNodes, err := decodeLump[binNode](lump)
	if err != nil {
		return nil, err
	}
	nodes := make([]Node, len(binNodes))
	for i, n := range binNodes {
		nodes[i] = Node{
			X:         float64(n.X),
			Y:         float64(n.Y),
			DX:        float64(n.DX),
			DY:        float64(n.DY),
			BBoxR:     n.BBoxR.canonical(),
			BBoxL:     n.BBoxL.canonical(),
			ChildNumR: uint32(n.ChildNumR),
			ChildNumL: uint32(n.ChildNumL),
		}
	}
	logger.Printf("Read %v nodes", len(nodes))
	return nodes, nil
}

func readSectors(lump []byte) ([]Sector, error) {
	logger.Println("Reading Sectors ...")
	binSectors, err := decodeLump[binSector](lump)
	if err != nil {
		return nil, err
	}
	sectors := make([]Sector, len(binSectors))
	for i, s := range binSectors {
		sectors[i] = Sector{
			FloorHeight:        float64(s.FloorHeight),
			CeilingHeight:      float64(s.CeilingHeight),
			FloorTextureName:   s.FloorTexture.String(),
			CeilingTextureName: s.CeilingTexture.String(),
			LightLevel:         int(s.LightLevel),
			Type:               int(s.Type),
			TagNum:             int(s.TagNum),
		}
	}
	logger.Printf("Read %v Sectors", len(sectors))
	return sectors, nil
}

// degreesToRadians
func degreesToRadians[T constraints.Integer | constraints.Float](n T) float64 {
	return float64(n) * (math.Pi / 180)
}

const halfScale = 1 << 15

func bamToRadians[T constraints.Signed](n T) float64 {
	return ((float64(n) + halfScale) * math.Pi) / halfScale
}
