package main

import (
	"image"
	"image/color"
	"math/rand/v2"

	"dust/internal/config"
	"dust/internal/graphics"
	"dust/internal/graphics/object"
	"dust/internal/graphics/renderer"
	"dust/internal/light"
	"dust/internal/material"

	"github.com/go-gl/mathgl/mgl32"
)

// demo owns the objects of the demo scene and the state animated per frame
type demo struct {
	scene     *renderer.Scene
	particles *object.ParticleSystem
	spinner   *object.Sphere
	disposers []interface{ Dispose() }
	elapsed   float32
}

func newLights() *light.Lights {
	return &light.Lights{
		Ambient: &light.AmbientLight{Color: mgl32.Vec3{1, 1, 1}, Intensity: 0.15},
		Directional: []*light.DirectionalLight{
			light.NewDirectionalLight(mgl32.Vec3{1, 0.95, 0.9}, 0.8, mgl32.Vec3{-0.5, -1, -0.3}),
		},
		Point: []*light.PointLight{
			light.NewPointLight(mgl32.Vec3{1, 0.4, 0.2}, 1.5, mgl32.Vec3{2, 1.5, 2},
				light.Attenuation{Constant: 1, Linear: 0.14, Quadratic: 0.07}),
		},
		Spot: []*light.SpotLight{
			light.NewSpotLight(mgl32.Vec3{0.3, 0.6, 1}, 2, mgl32.Vec3{0, 4, 0}, mgl32.Vec3{0, -1, 0},
				mgl32.DegToRad(25), light.DefaultAttenuation),
		},
		Model: light.BlinnPhong,
	}
}

// solidFace returns a one-colour square image for the skybox
func solidFace(c color.RGBA) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func newDemo(d *graphics.Device, s *config.Settings) (*demo, error) {
	dm := &demo{scene: renderer.NewScene(newLights())}
	keep := func(o interface{ Dispose() }) { dm.disposers = append(dm.disposers, o) }

	sky, err := graphics.NewCubeMap(d, [6]image.Image{
		solidFace(color.RGBA{90, 110, 160, 255}),
		solidFace(color.RGBA{90, 110, 160, 255}),
		solidFace(color.RGBA{150, 180, 230, 255}),
		solidFace(color.RGBA{40, 45, 60, 255}),
		solidFace(color.RGBA{90, 110, 160, 255}),
		solidFace(color.RGBA{90, 110, 160, 255}),
	})
	if err != nil {
		return nil, err
	}
	keep(sky)
	skybox, err := object.NewSkybox(d)
	if err != nil {
		return nil, err
	}
	keep(skybox)
	dm.scene.Add(renderer.NewGlue(skybox, &material.SkyboxMaterial{CubeMap: sky}))

	triangle, err := object.NewModel(d, &graphics.MeshData{
		Positions: []mgl32.Vec3{{-0.5, -0.5, 0}, {0.5, -0.5, 0}, {0, 0.5, 0}},
		Colors:    []mgl32.Vec4{{1, 0, 0, 1}, {0, 1, 0, 1}, {0, 0, 1, 1}},
	})
	if err != nil {
		return nil, err
	}
	keep(triangle)
	triangle.SetTransformation(mgl32.Translate3D(0, 1.2, 0))
	dm.scene.Add(renderer.NewGlue(triangle, &material.VertexColorMaterial{}))

	sphere, err := object.NewSphere(d, 0.6, 24, 32)
	if err != nil {
		return nil, err
	}
	keep(sphere)
	sphere.SetTransformation(mgl32.Translate3D(-1.5, 0, 0))
	dm.spinner = sphere
	dm.scene.Add(renderer.NewGlue(sphere, material.NewPhongMaterial(mgl32.Vec4{0.8, 0.2, 0.2, 1})))

	axes, err := object.NewAxes(d, 1.5, 0.02)
	if err != nil {
		return nil, err
	}
	keep(axes)
	dm.scene.Add(renderer.NewGlue(axes, &material.VertexColorMaterial{}))

	cube := object.BoxData(mgl32.Vec3{-0.2, -0.2, -0.2}, mgl32.Vec3{0.2, 0.2, 0.2}, material.White)
	var grid []mgl32.Mat4
	for x := -2; x <= 2; x++ {
		for z := -2; z <= 2; z++ {
			grid = append(grid, mgl32.Translate3D(float32(x), -1, float32(z)))
		}
	}
	cubes, err := object.NewInstancedModel(d, cube, grid)
	if err != nil {
		return nil, err
	}
	keep(cubes)
	dm.scene.Add(renderer.NewGlue(cubes, material.NewPhongMaterial(mgl32.Vec4{0.3, 0.7, 0.4, 1})))

	imposters, err := object.NewImposters(d, []mgl32.Vec3{{2, 0.5, -1}, {2.5, 0.8, -1.5}, {3, 0.3, -0.5}}, 0.3)
	if err != nil {
		return nil, err
	}
	keep(imposters)
	dm.scene.Add(renderer.NewGlue(imposters, material.NewColorMaterial(1, 0.9, 0.2)))

	particles, err := object.NewParticleSystem(d, object.SphereData(0.04, 4, 6))
	if err != nil {
		return nil, err
	}
	keep(particles)
	particles.Acceleration = mgl32.Vec3{0, -2, 0}
	particles.SetTransformation(mgl32.Translate3D(1.5, -0.5, 1.5))
	dm.particles = particles
	if err := dm.resetParticles(); err != nil {
		return nil, err
	}
	dm.scene.Add(renderer.NewGlue(particles, material.NewColorMaterial(1, 0.6, 0.1)))

	glass, err := object.NewRectangle(d, 2, 2)
	if err != nil {
		return nil, err
	}
	keep(glass)
	glass.SetTransformation(mgl32.Translate3D(0, 0.5, 1.5))
	dm.scene.Add(renderer.NewGlue(glass, material.NewPhongMaterial(mgl32.Vec4{0.6, 0.8, 1, 0.35})))

	if s.Scene.Texture != "" {
		if err := dm.addPoster(d, s.Scene.Texture); err != nil {
			graphics.Logger().Warn("poster not shown", "texture", s.Scene.Texture, "error", err)
		}
	}

	marker, err := object.NewCircle(d, 1, 32)
	if err != nil {
		return nil, err
	}
	keep(marker)
	marker.SetTransformation(mgl32.Translate3D(40, 40, 0).Mul4(mgl32.Scale3D(20, 20, 1)))
	dm.scene.AddOverlay(marker, &material.ColorMaterial{Color: mgl32.Vec4{1, 1, 1, 0.8}})

	return dm, nil
}

// addPoster shows the image at path on a quad behind the scene
func (dm *demo) addPoster(d *graphics.Device, path string) error {
	textures := graphics.NewTextureCache(d)
	tex, err := textures.Get(path)
	if err != nil {
		return err
	}
	dm.disposers = append(dm.disposers, textures)
	aspect := float32(tex.Width()) / float32(tex.Height())
	poster, err := object.NewRectangle(d, 1.5*aspect, 1.5)
	if err != nil {
		return err
	}
	dm.disposers = append(dm.disposers, poster)
	poster.SetTransformation(mgl32.Translate3D(0, 0.5, -2.5))
	dm.scene.Add(renderer.NewGlue(poster, material.NewTextureMaterial(tex)))
	return nil
}

func (dm *demo) resetParticles() error {
	const n = 200
	starts := make([]mgl32.Vec3, n)
	velocities := make([]mgl32.Vec3, n)
	for i := range starts {
		velocities[i] = mgl32.Vec3{
			rand.Float32() - 0.5,
			2 + rand.Float32(),
			rand.Float32() - 0.5,
		}
	}
	return dm.particles.SetParticles(starts, velocities)
}

// update animates the scene by dt seconds
func (dm *demo) update(dt float32) error {
	dm.elapsed += dt
	dm.spinner.SetTransformation(mgl32.Translate3D(-1.5, 0, 0).Mul4(mgl32.HomogRotate3DY(dm.elapsed)))
	dm.particles.Time += dt
	if dm.particles.Time > 3 {
		return dm.resetParticles()
	}
	return nil
}

func (dm *demo) Dispose() {
	for _, o := range dm.disposers {
		o.Dispose()
	}
	dm.disposers = nil
}
