// Distances between points and from a point to a set of points.

package geom

import (
	"math"

	"github.com/andrew-torda/resdepth/pdb/cmmn"
)

// Points is anything that can hand out coordinates by index. A surface
// and a plain coordinate slice both qualify.
type Points interface {
	Len() int
	At(i int) cmmn.Xyz
}

// Dist2 is the squared distance. We go to float64 before squaring, so
// big coordinates do not lose much.
func Dist2(a, b cmmn.Xyz) float64 {
	dx := float64(a.X) - float64(b.X)
	dy := float64(a.Y) - float64(b.Y)
	dz := float64(a.Z) - float64(b.Z)
	return dx*dx + dy*dy + dz*dz
}

// MinDist returns the distance from p to the closest of the points in s.
// Every point is looked at. s should not be empty. If it is, the answer
// is +Inf.
func MinDist(p cmmn.Xyz, s Points) float32 {
	min2 := math.Inf(1)
	for i, n := 0, s.Len(); i < n; i++ {
		if d2 := Dist2(p, s.At(i)); d2 < min2 {
			min2 = d2
		}
	}
	return float32(math.Sqrt(min2))
}
