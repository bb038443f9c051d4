package viz

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/orrery/internal/camera"
)

const (
	fovY  = 45.0 // degrees
	zNear = 1e-5 // AU
	zFar  = 100.0
)

// Projector maps world positions in AU to canvas sub-pixels through a
// camera transform and a perspective lens.
type Projector struct {
	mvp    mgl64.Mat4
	focal  float64
	width  int
	height int
}

// NewProjector builds the projection for a canvas of w x h sub-pixels.
// Braille sub-pixels are close enough to square that w/h is used as the
// aspect ratio directly.
func NewProjector(t camera.Transform, w, h int) Projector {
	aspect := float64(w) / float64(max(h, 1))
	proj := mgl64.Perspective(mgl64.DegToRad(fovY), aspect, zNear, zFar)
	return Projector{
		mvp:    proj.Mul4(t.Matrix()),
		focal:  1 / math.Tan(mgl64.DegToRad(fovY)/2),
		width:  w,
		height: h,
	}
}

// Project returns the sub-pixel of p and its clip-space w, which is the
// distance in front of the eye. ok is false for points behind the eye or
// outside the view frustum depth range.
func (p Projector) Project(v mgl64.Vec3) (x, y int, depth float64, ok bool) {
	clip := p.mvp.Mul4x1(v.Vec4(1))
	w := clip.W()
	if w <= zNear || w > zFar {
		return 0, 0, w, false
	}
	nx, ny := clip.X()/w, clip.Y()/w
	x = int(math.Round((nx + 1) / 2 * float64(p.width)))
	y = int(math.Round((1 - ny) / 2 * float64(p.height)))
	return x, y, w, true
}

// Radius converts a world radius at depth to sub-pixels.
func (p Projector) Radius(r, depth float64) int {
	if depth <= 0 {
		return 0
	}
	return int(r * p.focal / depth * float64(p.height) / 2)
}

// OnScreen reports whether (x, y) falls on the canvas, with margin sub-pixels
// of slack.
func (p Projector) OnScreen(x, y, margin int) bool {
	return x >= -margin && y >= -margin && x < p.width+margin && y < p.height+margin
}
