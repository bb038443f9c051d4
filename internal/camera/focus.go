package camera

import "github.com/san-kum/orrery/internal/physics"

// Session is the interactive view state: the camera plus the index of the
// body it orbits.
type Session struct {
	Camera State
	Focus  int
}

// NewSession returns a session focused on focus, or on body 0 if focus is
// out of range for bodyCount.
func NewSession(cam State, focus, bodyCount int) Session {
	if focus < 0 || focus >= bodyCount {
		focus = 0
	}
	return Session{Camera: cam, Focus: focus}
}

// Apply routes ev to the camera or the focus selector. Selections outside
// [0, bodyCount) keep the current focus.
func (s Session) Apply(ev Event, bodyCount int) Session {
	if sel, ok := ev.(SelectFocus); ok {
		s.Focus = SelectIndex(s.Focus, sel.N, bodyCount)
		return s
	}
	s.Camera = Handle(s.Camera, ev)
	return s
}

// SelectIndex returns n if it names a body, and current otherwise.
func SelectIndex(current, n, bodyCount int) int {
	if n < 0 || n >= bodyCount {
		return current
	}
	return n
}

// View computes the transform around the focused position. positions are in
// meters and indexed like the body list.
func (s Session) View(positions []physics.Vec3) Transform {
	var focus physics.Vec3
	if s.Focus >= 0 && s.Focus < len(positions) {
		focus = positions[s.Focus]
	}
	return s.Camera.View(focus)
}
