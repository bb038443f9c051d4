package gui

import (
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/orrery/internal/camera"
	"github.com/san-kum/orrery/internal/physics"
	"github.com/san-kum/orrery/internal/sim"
)

var planeNormal = rl.NewVector3(0, 0, 1)

func vec(v physics.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v.X()), float32(v.Y()), float32(v.Z()))
}

func rgba(c color.RGBA) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, c.A)
}

// toCamera3D converts a view transform in AU to a raylib perspective camera.
func toCamera3D(t camera.Transform) rl.Camera3D {
	return rl.NewCamera3D(vec(t.Eye), vec(t.Target), vec(t.Up), 45.0, rl.CameraPerspective)
}

// spinMarker is the end of the line drawn from the body center to show its
// rotation, one and a half radii out in the orbital plane.
func spinMarker(b sim.BodyState) physics.Vec3 {
	r := 1.5 * b.Radius / physics.AU
	sin, cos := math.Sincos(b.RotationAngle)
	return b.DisplayPosition().Add(physics.Vec3{r * cos, r * sin, 0})
}

func drawBody(b sim.BodyState) {
	center := vec(b.DisplayPosition())
	col := rgba(b.Color)
	rl.DrawSphere(center, float32(b.Radius/physics.AU), col)
	rl.DrawLine3D(center, vec(spinMarker(b)), ColSelect)

	if b.Rings != nil {
		for _, r := range []float64{b.Rings.Inner, b.Rings.Outer} {
			rl.DrawCircle3D(center, float32(r/physics.AU), planeNormal, 0, col)
		}
	}
}

// drawTrajectory connects the recorded samples with a line strip in the
// orbital plane.
func drawTrajectory(pts []physics.Point2) {
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		rl.DrawLine3D(
			rl.NewVector3(float32(a.X), float32(a.Y), 0),
			rl.NewVector3(float32(b.X), float32(b.Y), 0),
			ColTrail,
		)
	}
}
