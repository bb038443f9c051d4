// Package gui renders a running simulation in a raylib window.
package gui

import (
	"fmt"
	"log"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/orrery/internal/audio"
	"github.com/san-kum/orrery/internal/camera"
	"github.com/san-kum/orrery/internal/physics"
	"github.com/san-kum/orrery/internal/sim"
)

// Theme Colors (Monochrome Hyper-Minimalist)
var (
	ColBg      = rl.NewColor(10, 10, 10, 255)    // Deep Black
	ColAccent  = rl.NewColor(180, 180, 180, 255) // Soft White
	ColSelect  = rl.NewColor(255, 255, 255, 255) // Bright White
	ColText    = rl.NewColor(140, 140, 140, 255) // Neutral Gray
	ColTextDim = rl.NewColor(60, 60, 60, 255)    // Dark Gray (Subtle)
	ColTrail   = rl.NewColor(70, 70, 90, 255)
)

const (
	screenWidth  = 1280
	screenHeight = 720
)

type App struct {
	Sim     *sim.Simulator
	Session camera.Session
	Name    string
	Camera  rl.Camera3D
	Running bool
	Font    rl.Font

	// StepsPerFrame ticks are advanced each frame while running.
	StepsPerFrame int

	Audio *audio.Processor
	Err   error

	snap sim.Snapshot
}

func initWindow(title string) {
	rl.InitWindow(screenWidth, screenHeight, title)
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

// loadFont loads Liberation Mono from the system path; raylib falls back to
// its built-in font when the file is missing.
func loadFont() rl.Font {
	font := rl.LoadFontEx("/usr/share/fonts/liberation/LiberationMono-Regular.ttf", 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

func NewApp(s *sim.Simulator, session camera.Session, name string) *App {
	a := &App{
		Sim:           s,
		Session:       session,
		Name:          name,
		Running:       true,
		StepsPerFrame: 1,
		snap:          s.Snapshot(),
	}
	a.Camera = toCamera3D(a.Session.View(positions(a.snap)))
	return a
}

// Run opens the window and blocks until it is closed or the simulation
// fails. With withAudio set, the focus body's speed is played as a tone.
func Run(s *sim.Simulator, session camera.Session, name string, withAudio bool) error {
	initWindow("orrery :: " + name)
	defer rl.CloseWindow()

	a := NewApp(s, session, name)
	a.Font = loadFont()

	if withAudio {
		proc := audio.NewProcessor()
		if err := proc.Start(); err != nil {
			log.Printf("audio disabled: %v", err)
		} else {
			a.Audio = proc
			defer proc.Stop()
		}
	}

	a.RunLoop()
	return a.Err
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeyQ) {
			return
		}
		a.Update(pollFrame())
		a.Draw()
	}
}

// Update applies one frame of input and advances the simulation.
func (a *App) Update(f frame) {
	if f.togglePause {
		a.Running = !a.Running
	}
	if f.faster {
		a.StepsPerFrame = min(a.StepsPerFrame*2, 64)
	}
	if f.slower {
		a.StepsPerFrame = max(a.StepsPerFrame/2, 1)
	}

	n := a.Sim.Len()
	for _, ev := range f.events() {
		a.Session = a.Session.Apply(ev, n)
	}

	if a.Running && a.Err == nil {
		for i := 0; i < a.StepsPerFrame; i++ {
			if err := a.Sim.Tick(); err != nil {
				a.Err = err
				a.Running = false
				log.Printf("simulation stopped: %v", err)
				break
			}
		}
	}

	a.snap = a.Sim.Snapshot()
	a.Camera = toCamera3D(a.Session.View(positions(a.snap)))

	if a.Audio != nil && a.Audio.Active {
		a.Audio.SetSpeed(a.snap.Bodies[a.Session.Focus].Velocity.Len())
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	rl.BeginMode3D(a.Camera)
	for _, b := range a.snap.Bodies {
		drawTrajectory(b.Trajectory)
	}
	for _, b := range a.snap.Bodies {
		drawBody(b)
	}
	rl.EndMode3D()

	a.DrawHUD()
	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	a.drawText("orrery", 30, 30, 24, ColSelect)
	a.drawText(fmt.Sprintf(":: %s", a.Name), 130, 34, 16, ColText)

	status := "RUNNING"
	col := ColSelect
	switch {
	case a.Err != nil:
		status = "HALTED"
		col = rl.Red
	case !a.Running:
		status = "PAUSED"
		col = ColTextDim
	}
	a.drawText(status, 1150, 30, 16, col)

	focus := a.snap.Bodies[a.Session.Focus]
	cam := a.Session.Camera
	a.drawText(fmt.Sprintf("DAY %.1f", a.snap.Days()), 30, 70, 16, ColAccent)
	a.drawText(fmt.Sprintf("FOCUS %d %s  %.2f km/s", a.Session.Focus, focus.Name, focus.Velocity.Len()/1000), 30, 92, 14, ColText)
	a.drawText(fmt.Sprintf("ZOOM %.5f AU  %s  x%d", cam.Zoom, cam.Mode, a.StepsPerFrame), 30, 112, 14, ColText)

	for i, b := range a.snap.Bodies {
		col := ColTextDim
		if i == a.Session.Focus {
			col = ColSelect
		}
		a.drawText(fmt.Sprintf("%d %s", i, b.Name), 1150, 70+int(i)*18, 14, col)
	}

	if a.Err != nil {
		a.drawText(a.Err.Error(), 30, 620, 14, rl.Red)
	}

	a.drawText("[DRAG] ORBIT  [UP/DOWN] ZOOM  [0-9] FOCUS  [SPACE] PAUSE  [[ ]] SPEED  [Q] QUIT", 480, 680, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), 30, 680, 14, ColTextDim)

	if a.Audio != nil && a.Audio.Active {
		bars := min(int(a.Audio.Level()*20), 20)
		a.drawText(fmt.Sprintf("TONE [%-20s] x%.2f", strings.Repeat("|", bars), a.Audio.Ratio()), 30, 650, 14, ColAccent)
	}
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

func positions(s sim.Snapshot) []physics.Vec3 {
	out := make([]physics.Vec3, len(s.Bodies))
	for i, b := range s.Bodies {
		out[i] = b.Position
	}
	return out
}
