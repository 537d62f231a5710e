package paint

import (
	"github.com/Faultbox/splinepaint/internal/terrain"
	"github.com/Faultbox/splinepaint/pkg/math"
)

// cullTrees returns the trees farther than radius from every paint point,
// measured in the horizontal (X, Z) plane. Points off the terrain still count.
func cullTrees(trees []terrain.TreeInstance, bounds terrain.Bounds, points []math.Vec3, radius float64) []terrain.TreeInstance {
	kept := make([]terrain.TreeInstance, 0, len(trees))
	for _, tree := range trees {
		if !nearAny(bounds.World(tree.Position).XZ(), points, radius) {
			kept = append(kept, tree)
		}
	}
	return kept
}

func nearAny(pos math.Vec2, points []math.Vec3, radius float64) bool {
	for _, p := range points {
		if pos.Distance(p.XZ()) <= radius {
			return true
		}
	}
	return false
}
