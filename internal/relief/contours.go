package relief

// Contour extraction is a greedy nearest-point chain, not true iso-line
// tracing (marching squares). Cells near a level are strung together by
// repeatedly appending the closest unconsumed point, which is good enough
// for the demo overlay but can stitch separate ridges into one line. Treat
// the output as approximate.

const (
	// defaultContourLevels evenly span the surface's elevation range.
	defaultContourLevels = 5

	// levelTolerance selects cells within this many meters of a level.
	levelTolerance = 1.0

	// chainProximitySq ends a line when the nearest remaining point is
	// farther than this squared lat/lon distance.
	chainProximitySq = 0.01

	// minLinePoints discards chained lines at or below this length.
	minLinePoints = 5
)

// ContourPoint is a polyline vertex serialized as [lat, lon].
type ContourPoint [2]float64

// ContourGroup is one traced polyline at a fixed elevation.
type ContourGroup struct {
	Elevation float64        `json:"elevation"`
	Points    []ContourPoint `json:"points"`
}

// Contours traces polylines for the requested elevation levels. With nil
// levels, five levels evenly spanning the surface's min/max are used. Each
// level contributes at most one line (the first chain that grows past
// minLinePoints); levels whose cells never form a long enough chain yield
// nothing, so the result has at most len(levels) groups.
func (s *Surface) Contours(levels []float64) []ContourGroup {
	if levels == nil {
		levels = s.defaultLevels()
	}

	groups := []ContourGroup{}
	for _, level := range levels {
		points := s.cellsNearLevel(level)
		if line := chainLine(points); line != nil {
			groups = append(groups, ContourGroup{Elevation: level, Points: line})
		}
	}
	return groups
}

func (s *Surface) defaultLevels() []float64 {
	levels := make([]float64, defaultContourLevels)
	step := (s.maxElev - s.minElev) / float64(defaultContourLevels-1)
	for i := range levels {
		levels[i] = s.minElev + float64(i)*step
	}
	return levels
}

// cellsNearLevel collects every cell within levelTolerance of the level, in
// scan order.
func (s *Surface) cellsNearLevel(level float64) []ContourPoint {
	var points []ContourPoint
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			e := s.at(x, y)
			if diff := e - level; diff < levelTolerance && diff > -levelTolerance {
				lat, lon := s.proj.GridToGeo(x, y)
				points = append(points, ContourPoint{lat, lon})
			}
		}
	}
	return points
}

// chainLine greedily strings points into a polyline: the line grows by the
// unconsumed point nearest its tail. When the nearest point is too far, a
// line that already exceeds minLinePoints is finished and returned; a
// shorter one is discarded and the chain restarts from the next unconsumed
// point. Returns nil when no chain ever grows past minLinePoints.
func chainLine(points []ContourPoint) []ContourPoint {
	if len(points) <= minLinePoints {
		return nil
	}

	remaining := make([]ContourPoint, len(points))
	copy(remaining, points)

	line := []ContourPoint{remaining[0]}
	remaining = remaining[1:]

	for len(remaining) > 0 {
		last := line[len(line)-1]

		nearest := 0
		nearestDist := distSq(remaining[0], last)
		for i := 1; i < len(remaining); i++ {
			if d := distSq(remaining[i], last); d < nearestDist {
				nearest = i
				nearestDist = d
			}
		}

		if nearestDist < chainProximitySq {
			line = append(line, remaining[nearest])
			remaining = append(remaining[:nearest], remaining[nearest+1:]...)
			continue
		}

		if len(line) > minLinePoints {
			break
		}
		line = []ContourPoint{remaining[0]}
		remaining = remaining[1:]
	}

	if len(line) > minLinePoints {
		return line
	}
	return nil
}

func distSq(a, b ContourPoint) float64 {
	dLat := a[0] - b[0]
	dLon := a[1] - b[1]
	return dLat*dLat + dLon*dLon
}
