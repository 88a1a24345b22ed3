package renderer

import (
	"sort"

	"dust/internal/graphics"
	"dust/internal/light"
	"dust/internal/profiling"
)

// SortObjects splits objects into opaque and transparent ones. Opaque keep
// their order; transparent are sorted back to front by the distance of
// their AABB centre to the camera. Objects with an infinite or empty box
// sort as farthest.
func SortObjects(cam *graphics.Camera, objects []Object) (opaque, transparent []Object) {
	o, t := sortIndices(cam, objects, allIndices(len(objects)))
	return pick(objects, o), pick(objects, t)
}

func sortIndices(cam *graphics.Camera, objects []Object, idx []int) (opaque, transparent []int) {
	for _, i := range idx {
		if objects[i].IsTransparent() {
			transparent = append(transparent, i)
		} else {
			opaque = append(opaque, i)
		}
	}
	eye := cam.Position()
	distance := func(i int) float32 {
		b := objects[i].AABB()
		if b.IsEmpty() || b.IsInfinite() {
			return float32(1e30)
		}
		return b.Center().Sub(eye).Len()
	}
	sort.SliceStable(transparent, func(a, b int) bool {
		return distance(transparent[a]) > distance(transparent[b])
	})
	return opaque, transparent
}

// RenderForward renders every object with its own material. A failing
// object does not stop the others; failures are returned in object order.
func RenderForward(cam *graphics.Camera, lights *light.Lights, objects ...Object) []ObjectError {
	defer profiling.Track("renderer.RenderForward")()
	var failed []ObjectError
	for i, o := range objects {
		if err := o.Render(cam, lights); err != nil {
			failed = append(failed, ObjectError{Index: i, Object: o, Err: err})
		}
	}
	return failed
}

// CullObjects drops objects whose AABB lies outside the camera frustum.
// Infinite boxes are always kept; empty boxes are always dropped.
func CullObjects(cam *graphics.Camera, objects []Object) []Object {
	return pick(objects, cullIndices(cam, objects, allIndices(len(objects))))
}

func cullIndices(cam *graphics.Camera, objects []Object, idx []int) []int {
	frustum := cam.Frustum()
	visible := make([]int, 0, len(idx))
	for _, i := range idx {
		if frustum.IntersectsAABB(objects[i].AABB()) {
			visible = append(visible, i)
		}
	}
	profiling.CountCulled(len(idx) - len(visible))
	return visible
}

func allIndices(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

func pick(objects []Object, idx []int) []Object {
	out := make([]Object, len(idx))
	for k, i := range idx {
		out[k] = objects[i]
	}
	return out
}

// remap rewrites failure indices from positions in idx to scene indices
func remap(failed []ObjectError, idx []int) []ObjectError {
	for k := range failed {
		failed[k].Index = idx[failed[k].Index]
	}
	return failed
}
