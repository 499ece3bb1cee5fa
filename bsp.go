package maputl

// ThingFunc is called for each thing found by a BSP query. Returning false
// stops the query. It must not modify the level.
type ThingFunc func(mo *MapObject) bool

// SubsectorThingIterator calls fn for every thing in every subsector whose
// BSP bounding box touches box. Front children are visited before back
// children and things in list order. If fn returns false the traversal stops
// at once and false is returned; otherwise true.
func (l *Level) SubsectorThingIterator(box *BoundBox, fn ThingFunc) bool {
	return l.traverse(l.Root, box, fn)
}

func (l *Level) traverse(ref ChildRef, box *BoundBox, fn ThingFunc) bool {
	if ref.Type == BSPSubSector {
		sub := &l.SubSectors[ref.Index]
		for mo := sub.Things; mo != nil; mo = mo.SubsectorNext {
			if !fn(mo) {
				return false
			}
		}
		return true
	}

	node := &l.Nodes[ref.Index]

	// TODO: test the query box against the partition line rather than both
	// child boxes, which would skip a second overlap test per node.
	for side := 0; side < 2; side++ {
		if node.BoundBox(side).Overlaps(box) {
			if !l.traverse(node.Child(side), box, fn) {
				return false
			}
		}
	}
	return true
}

// PointInSubsector returns the subsector containing (x, y).
func (l *Level) PointInSubsector(x, y float64) *SubSector {
	ref := l.Root
	for ref.Type == BSPNode {
		node := &l.Nodes[ref.Index]
		ref = node.Child(PointOnDividingLineSide(x, y, &node.Div))
	}
	return &l.SubSectors[ref.Index]
}

// LinkThing pushes mo onto the thing list of the subsector under its
// position. A thing that is already linked is moved.
func (l *Level) LinkThing(mo *MapObject) *SubSector {
	if mo.subsector != nil {
		UnlinkThing(mo)
	}
	sub := l.PointInSubsector(mo.X, mo.Y)
	mo.SubsectorNext = sub.Things
	sub.Things = mo
	mo.subsector = sub
	return sub
}

// UnlinkThing removes mo from its subsector's list. It is a no-op for things
// that are not linked.
func UnlinkThing(mo *MapObject) {
	sub := mo.subsector
	if sub == nil {
		return
	}
	for link := &sub.Things; *link != nil; link = &(*link).SubsectorNext {
		if *link == mo {
			*link = mo.SubsectorNext
			break
		}
	}
	mo.SubsectorNext = nil
	mo.subsector = nil
}
