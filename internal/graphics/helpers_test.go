package graphics_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func assertVec3(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	assert.Truef(t, want.ApproxEqualThreshold(got, 1e-5), "want %v, got %v", want, got)
}

func assertMat4(t *testing.T, want, got mgl32.Mat4) {
	t.Helper()
	assert.Truef(t, want.ApproxEqualThreshold(got, 1e-5), "want %v, got %v", want, got)
}
