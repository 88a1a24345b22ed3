package object

import (
	"dust/internal/graphics"
	"dust/internal/material"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Line is a segment between two points drawn as GL lines
type Line struct {
	shape
}

// NewLine returns a line from a to b. Passing two colours adds a colour
// attribute, one per endpoint.
func NewLine(d *graphics.Device, a, b mgl32.Vec3, colors ...mgl32.Vec4) (*Line, error) {
	data := &graphics.MeshData{Positions: []mgl32.Vec3{a, b}}
	if len(colors) == 2 {
		data.Colors = colors
	}
	s, err := newShape(d, data, graphics.Lines)
	if err != nil {
		return nil, err
	}
	return &Line{shape: s}, nil
}

// SetEndpoints moves the line and updates its AABB
func (l *Line) SetEndpoints(a, b mgl32.Vec3) error {
	positions := []mgl32.Vec3{a, b}
	if err := l.mesh.UpdateAttribute(graphics.Position, graphics.Flatten3(positions)); err != nil {
		return err
	}
	l.local = graphics.NewAABB(positions)
	l.aabb = l.local.Transform(l.transformation)
	return nil
}

// Rectangle is a quad in the XY plane facing +Z, centred at the origin
type Rectangle struct {
	shape
}

// NewRectangle returns a width x height quad with UVs spanning [0,1]
func NewRectangle(d *graphics.Device, width, height float32) (*Rectangle, error) {
	w, h := width/2, height/2
	data := &graphics.MeshData{
		Positions: []mgl32.Vec3{{-w, -h, 0}, {w, -h, 0}, {w, h, 0}, {-w, h, 0}},
		Normals:   []mgl32.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
		UVs:       []mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		Indices:   []uint32{0, 1, 2, 0, 2, 3},
	}
	s, err := newShape(d, data, graphics.Triangles)
	if err != nil {
		return nil, err
	}
	return &Rectangle{shape: s}, nil
}

// RenderForward2D draws the rectangle in window pixels
func (r *Rectangle) RenderForward2D(m material.ForwardMaterial, vp graphics.Viewport) error {
	return r.render2D(m, vp)
}

// Circle is a disc in the XY plane facing +Z, drawn as a triangle fan
type Circle struct {
	shape
}

// NewCircle returns a disc of the given radius. Fewer than three segments
// are raised to three.
func NewCircle(d *graphics.Device, radius float32, segments int) (*Circle, error) {
	if segments < 3 {
		segments = 3
	}
	data := &graphics.MeshData{
		Positions: []mgl32.Vec3{{0, 0, 0}},
		Normals:   []mgl32.Vec3{{0, 0, 1}},
		UVs:       []mgl32.Vec2{{0.5, 0.5}},
	}
	for i := 0; i <= segments; i++ {
		angle := 2 * math32.Pi * float32(i) / float32(segments)
		x, y := math32.Cos(angle), math32.Sin(angle)
		data.Positions = append(data.Positions, mgl32.Vec3{x * radius, y * radius, 0})
		data.Normals = append(data.Normals, mgl32.Vec3{0, 0, 1})
		data.UVs = append(data.UVs, mgl32.Vec2{0.5 + x/2, 0.5 + y/2})
	}
	s, err := newShape(d, data, graphics.TriangleFan)
	if err != nil {
		return nil, err
	}
	return &Circle{shape: s}, nil
}

// RenderForward2D draws the circle in window pixels
func (c *Circle) RenderForward2D(m material.ForwardMaterial, vp graphics.Viewport) error {
	return c.render2D(m, vp)
}

// Sphere is a UV sphere centred at the origin
type Sphere struct {
	shape
}

// NewSphere returns a sphere tessellated into stacks x slices quads
func NewSphere(d *graphics.Device, radius float32, stacks, slices int) (*Sphere, error) {
	return newSphere(d, SphereData(radius, stacks, slices))
}

func newSphere(d *graphics.Device, data *graphics.MeshData) (*Sphere, error) {
	s, err := newShape(d, data, graphics.Triangles)
	if err != nil {
		return nil, err
	}
	return &Sphere{shape: s}, nil
}

// SphereData generates the vertices of a UV sphere
func SphereData(radius float32, stacks, slices int) *graphics.MeshData {
	stacks = max(stacks, 2)
	slices = max(slices, 3)
	data := &graphics.MeshData{}
	for i := 0; i <= stacks; i++ {
		phi := math32.Pi * float32(i) / float32(stacks)
		for j := 0; j <= slices; j++ {
			theta := 2 * math32.Pi * float32(j) / float32(slices)
			n := mgl32.Vec3{
				math32.Sin(phi) * math32.Cos(theta),
				math32.Cos(phi),
				math32.Sin(phi) * math32.Sin(theta),
			}
			data.Positions = append(data.Positions, n.Mul(radius))
			data.Normals = append(data.Normals, n)
			data.UVs = append(data.UVs, mgl32.Vec2{float32(j) / float32(slices), 1 - float32(i)/float32(stacks)})
		}
	}
	row := uint32(slices + 1)
	for i := uint32(0); i < uint32(stacks); i++ {
		for j := uint32(0); j < uint32(slices); j++ {
			a := i*row + j
			b := a + row
			data.Indices = append(data.Indices, a, a+1, b, b, a+1, b+1)
		}
	}
	return data
}

// Axes shows the coordinate axes as three coloured boxes along +X (red),
// +Y (green) and +Z (blue).
type Axes struct {
	shape
}

// NewAxes returns axes of the given length and shaft thickness
func NewAxes(d *graphics.Device, length, thickness float32) (*Axes, error) {
	data := &graphics.MeshData{}
	t := thickness / 2
	shafts := []struct {
		min, max mgl32.Vec3
		color    mgl32.Vec4
	}{
		{mgl32.Vec3{0, -t, -t}, mgl32.Vec3{length, t, t}, mgl32.Vec4{1, 0, 0, 1}},
		{mgl32.Vec3{-t, 0, -t}, mgl32.Vec3{t, length, t}, mgl32.Vec4{0, 1, 0, 1}},
		{mgl32.Vec3{-t, -t, 0}, mgl32.Vec3{t, t, length}, mgl32.Vec4{0, 0, 1, 1}},
	}
	for _, s := range shafts {
		appendBox(data, s.min, s.max, s.color)
	}
	s, err := newShape(d, data, graphics.Triangles)
	if err != nil {
		return nil, err
	}
	return &Axes{shape: s}, nil
}

// boxFaces lists each face as a normal and its four corners (CCW seen from
// outside), as indices into the 8 box corners (bit 0 = x, 1 = y, 2 = z).
var boxFaces = [6]struct {
	normal  mgl32.Vec3
	corners [4]int
}{
	{mgl32.Vec3{1, 0, 0}, [4]int{1, 3, 7, 5}},
	{mgl32.Vec3{-1, 0, 0}, [4]int{0, 4, 6, 2}},
	{mgl32.Vec3{0, 1, 0}, [4]int{2, 6, 7, 3}},
	{mgl32.Vec3{0, -1, 0}, [4]int{0, 1, 5, 4}},
	{mgl32.Vec3{0, 0, 1}, [4]int{4, 5, 7, 6}},
	{mgl32.Vec3{0, 0, -1}, [4]int{0, 2, 3, 1}},
}

// BoxData returns an axis-aligned box from lo to hi with flat normals and
// one vertex colour
func BoxData(lo, hi mgl32.Vec3, color mgl32.Vec4) *graphics.MeshData {
	data := &graphics.MeshData{}
	appendBox(data, lo, hi, color)
	return data
}

// appendBox adds an axis-aligned box with flat normals to data
func appendBox(data *graphics.MeshData, lo, hi mgl32.Vec3, color mgl32.Vec4) {
	corner := func(i int) mgl32.Vec3 {
		c := lo
		if i&1 != 0 {
			c[0] = hi[0]
		}
		if i&2 != 0 {
			c[1] = hi[1]
		}
		if i&4 != 0 {
			c[2] = hi[2]
		}
		return c
	}
	for _, f := range boxFaces {
		base := uint32(len(data.Positions))
		for _, i := range f.corners {
			data.Positions = append(data.Positions, corner(i))
			data.Normals = append(data.Normals, f.normal)
			data.Colors = append(data.Colors, color)
		}
		data.Indices = append(data.Indices, base, base+1, base+2, base, base+2, base+3)
	}
}
