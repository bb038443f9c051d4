package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/orrery/internal/camera"
)

// frame is the input polled once per rendered frame.
type frame struct {
	zoomIn, zoomOut bool // level-triggered, true while held
	digit           int  // -1 when no digit key went down this frame

	pressed, released bool
	mouseX, mouseY    float64

	togglePause    bool
	faster, slower bool
}

func pollFrame() frame {
	f := frame{
		zoomIn:      rl.IsKeyDown(rl.KeyUp),
		zoomOut:     rl.IsKeyDown(rl.KeyDown),
		digit:       -1,
		pressed:     rl.IsMouseButtonPressed(rl.MouseLeftButton),
		released:    rl.IsMouseButtonReleased(rl.MouseLeftButton),
		togglePause: rl.IsKeyPressed(rl.KeySpace),
		faster:      rl.IsKeyPressed(rl.KeyRightBracket),
		slower:      rl.IsKeyPressed(rl.KeyLeftBracket),
	}
	for k := int32(rl.KeyZero); k <= rl.KeyNine; k++ {
		if rl.IsKeyPressed(k) {
			f.digit = int(k - rl.KeyZero)
			break
		}
	}
	pos := rl.GetMousePosition()
	f.mouseX, f.mouseY = float64(pos.X), float64(pos.Y)
	return f
}

// events translates a frame into camera events. A press starts the drag at
// the current pointer, the pointer move follows, and a release ends it.
func (f frame) events() []camera.Event {
	var evs []camera.Event
	if f.zoomIn {
		evs = append(evs, camera.ZoomIn{})
	}
	if f.zoomOut {
		evs = append(evs, camera.ZoomOut{})
	}
	if f.digit >= 0 {
		evs = append(evs, camera.SelectFocus{N: f.digit})
	}
	if f.pressed {
		evs = append(evs, camera.DragStart{X: f.mouseX, Y: f.mouseY})
	}
	evs = append(evs, camera.PointerMove{X: f.mouseX, Y: f.mouseY})
	if f.released {
		evs = append(evs, camera.DragEnd{})
	}
	return evs
}
