package planner

import (
	"math"
	"slices"

	"github.com/samirrijal/waypath/internal/core/domain"
	"github.com/samirrijal/waypath/internal/pkg/geospatial"
)

// Average speeds in km/h and the minimum estimate per mode, in minutes.
const (
	walkingSpeedKmh = 5.0
	drivingSpeedKmh = 30.0
	walkingFloorMin = 5
	drivingFloorMin = 10
)

// Distance returns the great-circle distance between a and b in km.
func Distance(a, b domain.GeoPoint) float64 {
	return geospatial.Haversine(a, b)
}

// Cluster groups pois by proximity. The first remaining POI seeds a cluster
// and pulls in its nearest neighbours within maxDistanceKm until the cluster
// holds maxSize POIs. Every input POI ends up in exactly one cluster.
func Cluster(pois []domain.POI, maxSize int, maxDistanceKm float64) [][]domain.POI {
	maxSize = max(maxSize, 1)
	remaining := slices.Clone(pois)
	var clusters [][]domain.POI

	type candidate struct {
		idx  int
		dist float64
	}

	for len(remaining) > 0 {
		seed := remaining[0]
		var candidates []candidate
		for i := 1; i < len(remaining); i++ {
			d := Distance(seed.Location, remaining[i].Location)
			if d <= maxDistanceKm {
				candidates = append(candidates, candidate{idx: i, dist: d})
			}
		}
		slices.SortStableFunc(candidates, func(a, b candidate) int {
			switch {
			case a.dist < b.dist:
				return -1
			case a.dist > b.dist:
				return 1
			}
			return 0
		})

		taken := map[int]bool{0: true}
		group := []domain.POI{seed}
		for _, c := range candidates {
			if len(group) >= maxSize {
				break
			}
			group = append(group, remaining[c.idx])
			taken[c.idx] = true
		}
		clusters = append(clusters, group)

		next := make([]domain.POI, 0, len(remaining)-len(group))
		for i, p := range remaining {
			if !taken[i] {
				next = append(next, p)
			}
		}
		remaining = next
	}
	return clusters
}

// EstimateTravelTime returns the travel time in whole minutes between a and b.
// Unusable coordinates yield a flat fallback instead of an error.
func EstimateTravelTime(a, b domain.GeoPoint, mode domain.TravelMode) int {
	if !a.Valid() || !b.Valid() {
		return fallbackTravelMinutes
	}
	speed, floor := drivingSpeedKmh, drivingFloorMin
	if travelModeOrDefault(mode) == domain.TravelWalking {
		speed, floor = walkingSpeedKmh, walkingFloorMin
	}
	minutes := int(math.Ceil(Distance(a, b) / speed * 60))
	return max(minutes, floor)
}

// OptimizeRoute orders pois by the nearest-neighbour heuristic starting from
// the first POI. Ties go to the earliest input.
func OptimizeRoute(pois []domain.POI) []domain.POI {
	order := routeOrder(pois)
	out := make([]domain.POI, len(order))
	for i, idx := range order {
		out[i] = pois[idx]
	}
	return out
}

// routeOrder returns the nearest-neighbour visiting order as input indices.
func routeOrder(pois []domain.POI) []int {
	n := len(pois)
	order := make([]int, 0, n)
	if n == 0 {
		return order
	}
	visited := make([]bool, n)
	cur := 0
	visited[0] = true
	order = append(order, 0)
	for len(order) < n {
		next, best := -1, math.Inf(1)
		for i := range pois {
			if visited[i] {
				continue
			}
			if next < 0 {
				next = i
			}
			if d := Distance(pois[cur].Location, pois[i].Location); d < best {
				next, best = i, d
			}
		}
		visited[next] = true
		order = append(order, next)
		cur = next
	}
	return order
}
