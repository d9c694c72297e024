package detection

import (
	"image"
	"math"
	"sort"
)

// ConvexHull returns the convex hull of points in counter-clockwise order
// (in image coordinates, where y grows downward) using Andrew's monotone
// chain. Collinear points on the hull edges are dropped. Fewer than three
// distinct points are returned as-is.
func ConvexHull(points []image.Point) []image.Point {
	pts := make([]image.Point, len(points))
	copy(pts, points)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})

	// dedupe
	uniq := pts[:0]
	for i, p := range pts {
		if i == 0 || p != pts[i-1] {
			uniq = append(uniq, p)
		}
	}
	pts = uniq
	if len(pts) < 3 {
		return pts
	}

	cross := func(o, a, b image.Point) int {
		return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
	}

	hull := make([]image.Point, 0, 2*len(pts))
	for _, p := range pts {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(pts) - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

// BoundingBox returns the inclusive min and max corners of points.
func BoundingBox(points []image.Point) (image.Point, image.Point) {
	if len(points) == 0 {
		return image.Point{}, image.Point{}
	}
	lo, hi := points[0], points[0]
	for _, p := range points[1:] {
		lo.X, lo.Y = min(lo.X, p.X), min(lo.Y, p.Y)
		hi.X, hi.Y = max(hi.X, p.X), max(hi.Y, p.Y)
	}
	return lo, hi
}

// KMeans1D partitions values into k clusters with Lloyd's algorithm.
//
// Centres are seeded evenly between the minimum and maximum value, so the
// result depends only on the input. Iteration stops when no assignment
// changes or after maxIter rounds.
//
// Returns the cluster label of every value and the final centres. A cluster
// may end up empty; its centre then stays where it was seeded.
func KMeans1D(values []float64, k, maxIter int) ([]int, []float64) {
	labels := make([]int, len(values))
	if len(values) == 0 || k < 1 {
		return labels, nil
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}

	centers := make([]float64, k)
	for i := range centers {
		if k == 1 {
			centers[i] = (lo + hi) / 2
			continue
		}
		centers[i] = lo + float64(i)*(hi-lo)/float64(k-1)
	}

	for iter := 0; iter < maxIter; iter++ {
		changed := iter == 0
		for i, v := range values {
			best := 0
			for c := 1; c < k; c++ {
				if math.Abs(v-centers[c]) < math.Abs(v-centers[best]) {
					best = c
				}
			}
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}
		if !changed {
			break
		}

		sums := make([]float64, k)
		counts := make([]int, k)
		for i, v := range values {
			sums[labels[i]] += v
			counts[labels[i]]++
		}
		for c := range centers {
			if counts[c] > 0 {
				centers[c] = sums[c] / float64(counts[c])
			}
		}
	}

	return labels, centers
}
