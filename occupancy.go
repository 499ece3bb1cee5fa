package maputl

// SliderPathMargin is how far the slider path check grows a line's box.
const SliderPathMargin = 32

// CheckAreaForThings reports whether box is free of blocking things. Pickups
// and non-solid corpses do not count.
func (l *Level) CheckAreaForThings(box *BoundBox) bool {
	area := *box
	return l.SubsectorThingIterator(&area, func(mo *MapObject) bool {
		thingBox := mo.Box()
		if !area.Overlaps(&thingBox) {
			// keep looking
			return true
		}
		return mo.ignorable()
	})
}

// CheckSliderPathForThings reports whether no blocking thing touches or
// straddles ld, searching a box around the line grown by SliderPathMargin.
// ld is not modified.
func (l *Level) CheckSliderPathForThings(ld *Line) bool {
	probe := *ld
	probe.BoundingBox.Grow(SliderPathMargin)

	return l.SubsectorThingIterator(&probe.BoundingBox, func(mo *MapObject) bool {
		thingBox := mo.Box()
		if BoxOnLineSide(&thingBox, &probe) != -1 {
			return true
		}
		return mo.ignorable()
	})
}
