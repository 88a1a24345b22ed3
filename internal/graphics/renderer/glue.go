package renderer

import (
	"dust/internal/graphics"
	"dust/internal/light"
	"dust/internal/material"
)

// Glue pairs a geometry with the material it is normally drawn with,
// making an Object out of two independent halves.
//
// Render and IsTransparent use the glued material. RenderForward and
// RenderDeferred forward the material given by the caller, so a glued
// object can still be drawn with any other material (the deferred pipeline
// does exactly that).
type Glue[G Geometry, M material.ForwardMaterial] struct {
	Geometry G
	Material M
}

// NewGlue returns a new object from geometry and material
func NewGlue[G Geometry, M material.ForwardMaterial](geometry G, m M) *Glue[G, M] {
	return &Glue[G, M]{Geometry: geometry, Material: m}
}

// Render draws the geometry with the glued material
func (g *Glue[G, M]) Render(cam *graphics.Camera, lights *light.Lights) error {
	return g.Geometry.RenderForward(g.Material, cam, lights)
}

// IsTransparent reports the transparency of the glued material
func (g *Glue[G, M]) IsTransparent() bool {
	return g.Material.IsTransparent()
}

// AABB returns the bounding box of the geometry
func (g *Glue[G, M]) AABB() graphics.AxisAlignedBoundingBox {
	return g.Geometry.AABB()
}

// Surface returns the surface of the glued material
func (g *Glue[G, M]) Surface() material.Surface {
	return g.Material.Surface()
}

// RenderForward draws the geometry with m instead of the glued material
func (g *Glue[G, M]) RenderForward(m material.ForwardMaterial, cam *graphics.Camera, lights *light.Lights) error {
	return g.Geometry.RenderForward(m, cam, lights)
}

// RenderDeferred draws the geometry into the G-buffer with m
func (g *Glue[G, M]) RenderDeferred(m material.DeferredMaterial, cam *graphics.Camera, vp graphics.Viewport) error {
	return g.Geometry.RenderDeferred(m, cam, vp)
}
