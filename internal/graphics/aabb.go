package graphics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// AxisAlignedBoundingBox is the minimal box enclosing a geometry.
// The empty box (Min=+Inf, Max=-Inf) marks a geometry with no extent yet.
type AxisAlignedBoundingBox struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

var (
	posInf = float32(math.Inf(1))
	negInf = float32(math.Inf(-1))

	// EmptyAABB contains nothing; expanding it by a point yields that point.
	EmptyAABB = AxisAlignedBoundingBox{
		Min: mgl32.Vec3{posInf, posInf, posInf},
		Max: mgl32.Vec3{negInf, negInf, negInf},
	}
	// InfiniteAABB contains everything. Used by geometries that are never culled.
	InfiniteAABB = AxisAlignedBoundingBox{
		Min: mgl32.Vec3{negInf, negInf, negInf},
		Max: mgl32.Vec3{posInf, posInf, posInf},
	}
)

// NewAABB returns the box enclosing the given positions.
func NewAABB(positions []mgl32.Vec3) AxisAlignedBoundingBox {
	b := EmptyAABB
	for _, p := range positions {
		b.Expand(p)
	}
	return b
}

// IsEmpty reports whether min > max on any axis
func (b AxisAlignedBoundingBox) IsEmpty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// IsInfinite reports whether the box is unbounded on any axis
func (b AxisAlignedBoundingBox) IsInfinite() bool {
	for i := 0; i < 3; i++ {
		if math.IsInf(float64(b.Min[i]), -1) || math.IsInf(float64(b.Max[i]), 1) {
			return true
		}
	}
	return false
}

// Expand grows the box to contain p
func (b *AxisAlignedBoundingBox) Expand(p mgl32.Vec3) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}

// ExpandWithAABB grows the box to contain o. Empty boxes are ignored.
func (b *AxisAlignedBoundingBox) ExpandWithAABB(o AxisAlignedBoundingBox) {
	if o.IsEmpty() {
		return
	}
	b.Expand(o.Min)
	b.Expand(o.Max)
}

// Contains reports whether p lies inside the box (inclusive).
func (b AxisAlignedBoundingBox) Contains(p mgl32.Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// Center returns the midpoint. Undefined for empty or infinite boxes.
func (b AxisAlignedBoundingBox) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the extent along each axis, zero for an empty box.
func (b AxisAlignedBoundingBox) Size() mgl32.Vec3 {
	if b.IsEmpty() {
		return mgl32.Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// Transform returns the box enclosing the eight transformed corners.
func (b AxisAlignedBoundingBox) Transform(m mgl32.Mat4) AxisAlignedBoundingBox {
	if b.IsEmpty() || b.IsInfinite() {
		return b
	}
	out := EmptyAABB
	for i := 0; i < 8; i++ {
		corner := mgl32.Vec3{b.Min[0], b.Min[1], b.Min[2]}
		if i&1 != 0 {
			corner[0] = b.Max[0]
		}
		if i&2 != 0 {
			corner[1] = b.Max[1]
		}
		if i&4 != 0 {
			corner[2] = b.Max[2]
		}
		out.Expand(mgl32.TransformCoordinate(corner, m))
	}
	return out
}
