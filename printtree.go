package maputl

import (
	"fmt"
	"io"
)

// PrintTree writes the level's BSP tree to w, one member per line, children
// indented under their node in front-then-back order.
func PrintTree(w io.Writer, l *Level) error {
	var printRecursive func(ChildRef, string) error
	printRecursive = func(ref ChildRef, prefix string) error {
		if ref.Type == BSPSubSector {
			sub := &l.SubSectors[ref.Index]
			things := 0
			for mo := sub.Things; mo != nil; mo = mo.SubsectorNext {
				things++
			}
			_, err := fmt.Fprintf(w, "%s- subsector %d sector %d things %d\n", prefix, ref.Index, sub.Sector.Index, things)
			return err
		}

		n := &l.Nodes[ref.Index]
		if _, err := fmt.Fprintf(w, "%s- node %d (%g,%g)+(%g,%g)\n", prefix, ref.Index, n.Div.X, n.Div.Y, n.Div.DX, n.Div.DY); err != nil {
			return err
		}
		for _, child := range n.Children {
			if err := printRecursive(child, prefix+"   "); err != nil {
				return err
			}
		}
		return nil
	}

	return printRecursive(l.Root, "")
}
