package gtfs

import (
	"math"

	"github.com/theoremus-urban-solutions/transit-catalogue/utils"
)

// legDistances returns the meters between each pair of consecutive stops.
// With a usable shape each stop is snapped to its nearest shape point,
// searching forward from the previous stop, and the leg is the shape length
// between the two snapped points. Legs that snap to a single point, and all
// legs without a shape, use the great-circle distance.
func legDistances(stops, shape []utils.Coordinates) []float64 {
	out := make([]float64, 0, len(stops))
	if len(stops) < 2 {
		return out
	}

	var snapped []int
	var cum []float64
	if len(shape) >= 2 {
		cum = cumulativeMeters(shape)
		snapped = snapStops(stops, shape)
	}

	for i := 0; i+1 < len(stops); i++ {
		if snapped != nil {
			if d := cum[snapped[i+1]] - cum[snapped[i]]; d > 0 {
				out = append(out, math.Round(d))
				continue
			}
		}
		out = append(out, math.Round(utils.GreatCircleDistance(stops[i], stops[i+1])))
	}
	return out
}

// cumulativeMeters returns the shape length up to each point
func cumulativeMeters(pts []utils.Coordinates) []float64 {
	cum := make([]float64, len(pts))
	for i := 1; i < len(pts); i++ {
		cum[i] = cum[i-1] + utils.GreatCircleDistance(pts[i-1], pts[i])
	}
	return cum
}

// snapStops finds, for each stop in order, the nearest shape point at or
// after the point chosen for the previous stop
func snapStops(stops, shape []utils.Coordinates) []int {
	idx := make([]int, len(stops))
	from := 0
	for i, s := range stops {
		bestIdx, bestDist := from, math.Inf(1)
		for j := from; j < len(shape); j++ {
			if d := utils.GreatCircleDistance(s, shape[j]); d < bestDist {
				bestIdx, bestDist = j, d
			}
		}
		idx[i] = bestIdx
		from = bestIdx
	}
	return idx
}
