package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/gocarve/pkg/clip"
	"github.com/philipparndt/gocarve/pkg/geometry"
	"github.com/philipparndt/gocarve/pkg/mesh"
	"github.com/philipparndt/gocarve/pkg/meshio"
)

type App struct {
	model          *mesh.Mesh
	tube           *mesh.Mesh
	camera         rl.Camera3D
	cameraDistance float32
	cameraAngleX   float32
	cameraAngleY   float32
	cameraTarget   rl.Vector3
	showWireframe  bool
	showFilled     bool
	showTube       bool
}

func main() {
	center := flag.String("center", "", "overlay a bore tube: origin as x,y,z")
	axis := flag.String("axis", "0,0,1", "bore axis as x,y,z")
	start := flag.Float64("start", 0, "bore axial start offset")
	length := flag.Float64("length", 1, "bore axial length")
	radius := flag.Float64("radius", 1, "bore radius")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Println("Usage: gocarve-view [flags] <obj-file>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	model, err := meshio.Parse(flag.Arg(0))
	if err != nil {
		fmt.Printf("Error loading mesh file: %v\n", err)
		os.Exit(1)
	}
	if !model.HasNormals() {
		model.RecomputeNormals()
	}

	app := &App{
		model:      model,
		showFilled: true,
		showTube:   true,
	}

	if *center != "" {
		c, err := parseVec3(*center)
		if err != nil {
			fmt.Printf("Error: invalid -center: %v\n", err)
			os.Exit(1)
		}
		a, err := parseVec3(*axis)
		if err != nil {
			fmt.Printf("Error: invalid -axis: %v\n", err)
			os.Exit(1)
		}
		vol := clip.BoreVolume{
			Center:  c,
			Axis:    a,
			Start:   *start,
			Length:  *length,
			Profile: clip.ConstantProfile(*radius),
		}
		app.tube = clip.Tube(vol, 12, 24)
	}

	rl.InitWindow(1400, 900, "gocarve - clip preview")
	rl.SetTargetFPS(60)

	bbox := model.BoundingBox()
	bcenter := bbox.Center()
	size := bbox.Size()
	maxDim := math.Max(size.X, math.Max(size.Y, size.Z))
	if maxDim == 0 {
		maxDim = 1
	}

	app.cameraTarget = rl.Vector3{X: float32(bcenter.X), Y: float32(bcenter.Y), Z: float32(bcenter.Z)}
	app.cameraDistance = float32(maxDim * 2.0)
	app.cameraAngleX = 0.3
	app.cameraAngleY = 0.3
	app.camera = rl.Camera3D{
		Position:   rl.Vector3{X: 0, Y: 0, Z: app.cameraDistance},
		Target:     app.cameraTarget,
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       45.0,
		Projection: rl.CameraPerspective,
	}

	for !rl.WindowShouldClose() {
		app.handleInput()
		app.updateCamera()

		rl.BeginDrawing()
		rl.ClearBackground(rl.NewColor(15, 18, 25, 255))

		rl.BeginMode3D(app.camera)
		if app.showFilled {
			app.drawMesh()
		}
		if app.showWireframe {
			app.drawWireframe()
		}
		if app.showTube && app.tube != nil {
			app.drawTubeWireframe()
		}
		rl.EndMode3D()

		rl.DrawText("F: fill  W: wireframe  T: tube  Drag: orbit  Wheel: zoom", 10, 10, 16, rl.LightGray)
		rl.DrawText(fmt.Sprintf("%d triangles, %d vertices", model.TriangleCount(), model.VertexCount()),
			10, 32, 16, rl.LightGray)
		rl.EndDrawing()
	}

	rl.CloseWindow()
}

func (app *App) handleInput() {
	if rl.IsKeyPressed(rl.KeyF) {
		app.showFilled = !app.showFilled
	}
	if rl.IsKeyPressed(rl.KeyW) {
		app.showWireframe = !app.showWireframe
	}
	if rl.IsKeyPressed(rl.KeyT) {
		app.showTube = !app.showTube
	}

	if rl.IsMouseButtonDown(rl.MouseLeftButton) {
		delta := rl.GetMouseDelta()
		app.cameraAngleY += delta.X * 0.01
		app.cameraAngleX += delta.Y * 0.01
		limit := float32(math.Pi/2 - 0.01)
		if app.cameraAngleX > limit {
			app.cameraAngleX = limit
		}
		if app.cameraAngleX < -limit {
			app.cameraAngleX = -limit
		}
	}

	wheel := rl.GetMouseWheelMove()
	if wheel != 0 {
		app.cameraDistance *= 1 - wheel*0.1
		if app.cameraDistance < 0.01 {
			app.cameraDistance = 0.01
		}
	}
}

func (app *App) updateCamera() {
	cosX := float32(math.Cos(float64(app.cameraAngleX)))
	app.camera.Position = rl.Vector3{
		X: app.cameraTarget.X + app.cameraDistance*cosX*float32(math.Sin(float64(app.cameraAngleY))),
		Y: app.cameraTarget.Y + app.cameraDistance*float32(math.Sin(float64(app.cameraAngleX))),
		Z: app.cameraTarget.Z + app.cameraDistance*cosX*float32(math.Cos(float64(app.cameraAngleY))),
	}
	app.camera.Target = app.cameraTarget
}

// drawMesh renders all triangles with the three-light setup: a key
// light, a soft fill and a rim light.
func (app *App) drawMesh() {
	keyLightDir := geometry.NewVector3(-0.5, -0.8, -0.3).Normalize()
	fillLightDir := geometry.NewVector3(0.3, -0.2, 0.7).Normalize()
	rimLightDir := geometry.NewVector3(0.0, 0.5, -0.8).Normalize()

	for _, indices := range app.model.Submeshes {
		for i := 0; i+2 < len(indices); i += 3 {
			p0 := app.model.Positions[indices[i]]
			p1 := app.model.Positions[indices[i+1]]
			p2 := app.model.Positions[indices[i+2]]

			normal := p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()

			keyIntensity := math.Max(0, -normal.Dot(keyLightDir))
			fillIntensity := math.Max(0, -normal.Dot(fillLightDir)) * 0.4
			rimIntensity := math.Max(0, -normal.Dot(rimLightDir)) * 0.3

			totalIntensity := 0.15 + keyIntensity*0.7 + fillIntensity + rimIntensity
			totalIntensity = math.Min(1.0, totalIntensity)

			baseColor := 220.0
			color := rl.NewColor(
				uint8(baseColor*totalIntensity*0.5),
				uint8(baseColor*totalIntensity*0.6),
				uint8(baseColor*totalIntensity),
				255)

			rl.DrawTriangle3D(toRaylib(p0), toRaylib(p1), toRaylib(p2), color)
		}
	}
}

func (app *App) drawWireframe() {
	color := rl.NewColor(80, 160, 255, 180)
	for _, indices := range app.model.Submeshes {
		for i := 0; i+2 < len(indices); i += 3 {
			v0 := toRaylib(app.model.Positions[indices[i]])
			v1 := toRaylib(app.model.Positions[indices[i+1]])
			v2 := toRaylib(app.model.Positions[indices[i+2]])
			rl.DrawLine3D(v0, v1, color)
			rl.DrawLine3D(v1, v2, color)
			rl.DrawLine3D(v2, v0, color)
		}
	}
}

func (app *App) drawTubeWireframe() {
	color := rl.NewColor(255, 120, 80, 200)
	for _, indices := range app.tube.Submeshes {
		for i := 0; i+2 < len(indices); i += 3 {
			v0 := toRaylib(app.tube.Positions[indices[i]])
			v1 := toRaylib(app.tube.Positions[indices[i+1]])
			v2 := toRaylib(app.tube.Positions[indices[i+2]])
			rl.DrawLine3D(v0, v1, color)
			rl.DrawLine3D(v1, v2, color)
			rl.DrawLine3D(v2, v0, color)
		}
	}
}

func toRaylib(v geometry.Vector3) rl.Vector3 {
	return rl.Vector3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}

// parseVec3 parses a comma-separated "x,y,z" flag value
func parseVec3(s string) (geometry.Vector3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return geometry.Vector3{}, fmt.Errorf("expected x,y,z but got %q", s)
	}
	var coords [3]float64
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return geometry.Vector3{}, fmt.Errorf("invalid coordinate %q in %q", part, s)
		}
		coords[i] = v
	}
	return geometry.NewVector3(coords[0], coords[1], coords[2]), nil
}
