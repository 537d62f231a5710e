package paint

import "github.com/Faultbox/splinepaint/internal/terrain"

// clearDetails zeroes every prototype's density inside the brush footprint
// around (u, v). Clearing is binary; the falloff only shapes texture painting.
// It returns the number of cells cleared that held any density.
func clearDetails(layers []*terrain.DetailLayer, b brush, u, v float64) int {
	cx, cy := b.center(u, v)
	cleared := 0
	b.visit(cx, cy, func(x, y int, _ float64) {
		had := false
		for _, d := range layers {
			if d.At(x, y) != 0 {
				had = true
				d.Set(x, y, 0)
			}
		}
		if had {
			cleared++
		}
	})
	return cleared
}
