package maputl

import "math"

// Sentinel z values for ComputeThingGap.
const (
	OnFloorZ   = float64(math.MinInt32)
	OnCeilingZ = float64(math.MaxInt32)
)

// ConstructGap returns the movement gap of sec with the slope offsets
// applied. It reports false for closed or inverted sectors.
func ConstructGap(sec *Sector, floorSlopeZ, ceilingSlopeZ float64) (VerticalGap, bool) {
	if sec.FloorHeight >= sec.CeilingHeight {
		return VerticalGap{}, false
	}
	return VerticalGap{
		Floor:   sec.FloorHeight + floorSlopeZ,
		Ceiling: sec.CeilingHeight - ceilingSlopeZ,
	}, true
}

// ConstructSightGap returns the line-of-sight gap of sec. A sector flush
// from floor to ceiling has none.
func ConstructSightGap(sec *Sector) (VerticalGap, bool) {
	if sec.CeilingHeight <= sec.FloorHeight {
		return VerticalGap{}, false
	}
	return VerticalGap{Floor: sec.FloorHeight, Ceiling: sec.CeilingHeight}, true
}

// RestrictGap intersects dest with src. Invalid or empty inputs, and an
// empty intersection, yield false with dest returned unchanged.
func RestrictGap(dest VerticalGap, destOK bool, src VerticalGap, srcOK bool) (VerticalGap, bool) {
	if !srcOK || !destOK || src.Empty() || dest.Empty() {
		return dest, false
	}

	f := max(src.Floor, dest.Floor)
	c := min(src.Ceiling, dest.Ceiling)
	if f >= c {
		return dest, false
	}
	return VerticalGap{Floor: f, Ceiling: c}, true
}

// ComputeLineGaps determines the opening between the front and back sectors
// of ld and updates its Blocked, HasGap and Gap fields.
func ComputeLineGaps(ld *Line) {
	front, back := ld.FrontSector, ld.BackSector

	ld.Blocked = true
	ld.HasGap = false

	if front == nil || back == nil {
		return
	}

	// Matches the renderer's test, so Blocked can be clear even when one
	// side is closed.
	if back.CeilingHeight <= front.FloorHeight || front.CeilingHeight <= back.FloorHeight {
		// Closed door. Slopes and 242 height sectors waive the blocking.
		if front.HasSlopeOrHeightSector() || back.HasSlopeOrHeightSector() {
			ld.Blocked = false
		}
		return
	}

	ld.Blocked = false

	if ld.SlideDoor && !sliderPassable(ld.SliderMove) {
		return
	}

	frontGap, frontOK := ConstructGap(front, 0, 0)
	backGap, backOK := ConstructGap(back, 0, 0)
	ld.Gap, ld.HasGap = RestrictGap(frontGap, frontOK, backGap, backOK)
}

// sliderPassable reports whether a sliding door has opened far enough to
// have a gap: half way while opening, three quarters while closing.
func sliderPassable(smov *SlidingDoorMover) bool {
	if smov == nil {
		return false
	}
	if smov.Direction > 0 && smov.Opening < smov.Target*0.5 {
		return false
	}
	if smov.Direction < 0 && smov.Opening < smov.Target*0.75 {
		return false
	}
	return true
}

// RecomputeGapsAroundSector refreshes every line bounding sec, then the
// sector's own movement and sight gaps. Call it after any height or slope
// change.
func RecomputeGapsAroundSector(sec *Sector) {
	for _, ld := range sec.Lines {
		ComputeLineGaps(ld)
	}

	sec.Gap, sec.HasGap = ConstructGap(sec, 0, 0)
	sec.SightGap, sec.HasSightGap = ConstructSightGap(sec)
}

// ComputeThingGap determines the initial floor and ceiling a thing placed at
// z in sec would have, and returns the nominal z. OnFloorZ and OnCeilingZ
// resolve against the sector. A thing in a closed sector is stuck: floor,
// ceiling and z all collapse to the sector's floor height.
func ComputeThingGap(mo *MapObject, sec *Sector, z, floorSlopeZ, ceilingSlopeZ float64) (nz, floor, ceiling float64) {
	gap, ok := ConstructGap(sec, floorSlopeZ, ceilingSlopeZ)

	switch {
	case nearEqual(z, OnFloorZ):
		z = sec.FloorHeight + floorSlopeZ
	case nearEqual(z, OnCeilingZ):
		z = sec.CeilingHeight - mo.Height - ceilingSlopeZ
	}

	if !ok {
		return sec.FloorHeight, sec.FloorHeight, sec.FloorHeight
	}
	return z, gap.Floor, gap.Ceiling
}

func nearEqual(a, b float64) bool {
	return nearZero(a - b)
}
