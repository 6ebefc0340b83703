package cull

import "math"

// ClusterSlicing partitions [Near, Far] into Count slices whose thickness
// grows geometrically by Base: slice i spans
// [Boundary(i), Boundary(i+1)) with
//
//	Boundary(i) = Scale·(Base^i − 1)/(Base − 1) + Near
//	Scale       = (Far − Near) / Σ_{k<Count} Base^k
//
// so Boundary(0) = Near and Boundary(Count) = Far.
type ClusterSlicing struct {
	Near  float32
	Far   float32
	Base  float32
	Scale float32
	Count int
}

// NewClusterSlicing creates a slicing of [near, far].
//
// Parameters:
//   - near, far: the depth range, near < far
//   - base: thickness ratio between consecutive slices, >= 1
//   - count: number of slices
//
// Returns:
//   - ClusterSlicing: the slicing
func NewClusterSlicing(near, far, base float32, count int) ClusterSlicing {
	return ClusterSlicing{
		Near:  near,
		Far:   far,
		Base:  base,
		Scale: float32(float64(far-near) / geometricSeries(float64(base), count)),
		Count: count,
	}
}

// geometricSeries returns Σ_{k<n} base^k.
func geometricSeries(base float64, n int) float64 {
	if base == 1 {
		return float64(n)
	}
	return (math.Pow(base, float64(n)) - 1) / (base - 1)
}

// Boundary returns the near depth of slice i; Boundary(Count) is Far.
func (s ClusterSlicing) Boundary(i int) float32 {
	if i >= s.Count {
		return s.Far
	}
	return float32(float64(s.Scale)*geometricSeries(float64(s.Base), i)) + s.Near
}

// SliceOf returns the slice containing depth z, clamped to [0, Count).
func (s ClusterSlicing) SliceOf(z float32) int {
	d := float64(z - s.Near)
	if d <= 0 {
		return 0
	}
	var i float64
	if s.Base == 1 {
		i = d / float64(s.Scale)
	} else {
		b := float64(s.Base)
		i = math.Log(d/float64(s.Scale)*(b-1)+1) / math.Log(b)
	}
	return min(int(i), s.Count-1)
}

// SuggestLogBase returns the log base that places half of the slices in
// front of half the occupied depth of a tile, so tiles whose geometry ends
// close to the camera get finer near slices.
//
// Parameters:
//   - tileFar: the farthest occupied depth of the tile
//   - near, far: the camera depth range
//   - count: number of slices
//
// Returns:
//   - float32: the suggested base, at least 1
func SuggestLogBase(tileFar, near, far float32, count int) float32 {
	// With x = base^(count/2), Boundary(count/2) - near = (far - near) / (x + 1);
	// solving for half the tile's normalized depth gives x = 2/d - 1.
	d := float64((tileFar - near) / (far - near))
	d = min(max(d, 1e-6), 1)
	x := 2/d - 1
	return float32(math.Pow(x, 2/float64(count)))
}
