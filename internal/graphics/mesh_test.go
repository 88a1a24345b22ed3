package graphics_test

import (
	"testing"

	"dust/internal/graphics"
	"dust/internal/graphics/gltest"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triangleData() *graphics.MeshData {
	return &graphics.MeshData{
		Positions: []mgl32.Vec3{{-0.5, -0.5, 0}, {0.5, -0.5, 0}, {0, 0.5, 0}},
		Colors:    []mgl32.Vec4{{1, 0, 0, 1}, {0, 1, 0, 1}, {0, 0, 1, 1}},
	}
}

func TestMeshDataValidate(t *testing.T) {
	assert.Error(t, (&graphics.MeshData{}).Validate(), "no positions")

	d := triangleData()
	d.Normals = []mgl32.Vec3{{0, 0, 1}}
	assert.Error(t, d.Validate(), "one normal for three positions")

	d = triangleData()
	d.Indices = []uint32{0, 1, 3}
	assert.Error(t, d.Validate(), "index out of range")

	assert.NoError(t, triangleData().Validate())
}

func TestMeshDataComputeNormals(t *testing.T) {
	d := triangleData()
	d.ComputeNormals()
	require.Len(t, d.Normals, 3)
	for _, n := range d.Normals {
		assertVec3(t, mgl32.Vec3{0, 0, 1}, n)
	}
	assert.Equal(t, graphics.Position|graphics.Normal|graphics.Color, d.Attributes())
}

func TestNewMeshInvalidData(t *testing.T) {
	rec := gltest.New()
	_, err := graphics.NewMesh(graphics.NewDevice(rec), &graphics.MeshData{})

	require.Error(t, err)
	assert.Equal(t, graphics.ResourceBindFailure, graphics.ErrorKindOf(err))
	assert.Zero(t, rec.Live("vao"))
}

func TestMeshUploadAndDispose(t *testing.T) {
	rec := gltest.New()
	d := graphics.NewDevice(rec)
	data := triangleData()
	data.Indices = []uint32{0, 1, 2}

	m, err := graphics.NewMesh(d, data)
	require.NoError(t, err)
	assert.Equal(t, graphics.Position|graphics.Color, m.Attributes())
	assert.Equal(t, 3, m.VertexCount())
	assert.Equal(t, 1, rec.Live("vao"))
	// positions, colours, indices
	assert.Equal(t, 3, rec.Live("buffer"))

	m.Dispose()
	assert.Zero(t, rec.Live("vao"))
	assert.Zero(t, rec.Live("buffer"))
}

func TestMeshCheck(t *testing.T) {
	m, err := graphics.NewMesh(graphics.NewDevice(gltest.New()), triangleData())
	require.NoError(t, err)

	assert.NoError(t, m.Check(graphics.Position|graphics.Color))
	err = m.Check(graphics.Position | graphics.UV)
	assert.ErrorIs(t, err, graphics.ErrAttributeMismatch)
	assert.Contains(t, err.Error(), "missing uv")
}

func TestMeshBindFeedsRequestedAttributes(t *testing.T) {
	rec := gltest.New()
	d := graphics.NewDevice(rec)
	m, err := graphics.NewMesh(d, triangleData())
	require.NoError(t, err)

	vs := graphics.ShaderSource(graphics.Position, "in vec3 position;\nvoid main() { gl_Position = vec4(position, 1.0); }\n")
	p, err := d.Program(vs, "void main() {}\n")
	require.NoError(t, err)

	p.Use()
	require.NoError(t, m.Bind(p, graphics.Position))
	m.Draw(graphics.Triangles)

	require.Len(t, rec.Draws, 1)
	draw := rec.Draws[0]
	assert.Equal(t, int32(3), draw.Count)
	assert.False(t, draw.Indexed)
	// only the position buffer is bound, the colours are not asked for
	assert.Len(t, draw.Attributes, 1)
}

func TestMeshBindMissingVertexInput(t *testing.T) {
	rec := gltest.New()
	d := graphics.NewDevice(rec)
	m, err := graphics.NewMesh(d, triangleData())
	require.NoError(t, err)

	// the program never declares "color"
	p, err := d.Program("in vec3 position;\nvoid main() { gl_Position = vec4(position, 1.0); }\n", "void main() {}")
	require.NoError(t, err)

	err = m.Bind(p, graphics.Position|graphics.Color)
	assert.ErrorIs(t, err, graphics.ErrResourceBind)
}

func TestMeshUpdateAttribute(t *testing.T) {
	m, err := graphics.NewMesh(graphics.NewDevice(gltest.New()), triangleData())
	require.NoError(t, err)

	assert.NoError(t, m.UpdateAttribute(graphics.Position, make([]float32, 9)))
	assert.ErrorIs(t, m.UpdateAttribute(graphics.Position, make([]float32, 6)), graphics.ErrResourceBind)
	assert.ErrorIs(t, m.UpdateAttribute(graphics.UV, make([]float32, 6)), graphics.ErrAttributeMismatch)
}

func TestMeshDrawInstancedIndexed(t *testing.T) {
	rec := gltest.New()
	data := triangleData()
	data.Indices = []uint32{0, 1, 2, 2, 1, 0}
	m, err := graphics.NewMesh(graphics.NewDevice(rec), data)
	require.NoError(t, err)

	m.DrawInstanced(graphics.Triangles, 7)
	require.Len(t, rec.Draws, 1)
	assert.True(t, rec.Draws[0].Indexed)
	assert.Equal(t, int32(6), rec.Draws[0].Count)
	assert.Equal(t, int32(7), rec.Draws[0].Instances)
}
