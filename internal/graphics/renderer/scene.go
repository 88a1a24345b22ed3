package renderer

import (
	"reflect"

	"dust/internal/light"
	"dust/internal/material"
)

// Overlay is a 2D shape drawn in window pixels on top of the 3D scene
type Overlay struct {
	Shape    Shadable2D
	Material material.ForwardMaterial
}

// Scene is the ordered content of a frame: objects, 2D overlays and the
// lights they are shaded with.
type Scene struct {
	Lights   *light.Lights
	objects  []Object
	overlays []Overlay
}

// NewScene returns an empty scene lit by lights
func NewScene(lights *light.Lights) *Scene {
	return &Scene{Lights: lights}
}

// Add appends objects in draw order
func (s *Scene) Add(objects ...Object) {
	s.objects = append(s.objects, objects...)
}

// Remove removes the first occurrence of o and reports whether it was found.
// Objects of a type that cannot be compared, such as a struct holding a
// slice, are never matched.
func (s *Scene) Remove(o Object) bool {
	if o == nil || !reflect.TypeOf(o).Comparable() {
		return false
	}
	for i, cur := range s.objects {
		if reflect.TypeOf(cur) == reflect.TypeOf(o) && cur == o {
			s.objects = append(s.objects[:i], s.objects[i+1:]...)
			return true
		}
	}
	return false
}

// Objects returns the objects in draw order. The slice must not be modified.
func (s *Scene) Objects() []Object { return s.objects }

// AddOverlay appends a 2D shape drawn with m
func (s *Scene) AddOverlay(shape Shadable2D, m material.ForwardMaterial) {
	s.overlays = append(s.overlays, Overlay{Shape: shape, Material: m})
}

// Overlays returns the 2D shapes in draw order
func (s *Scene) Overlays() []Overlay { return s.overlays }
