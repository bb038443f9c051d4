package camera_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/orrery/internal/camera"
	"github.com/san-kum/orrery/internal/physics"
)

var _ = Describe("Orbit camera", func() {
	var s camera.State

	BeforeEach(func() {
		s = camera.New(1e-4, camera.DefaultLimits())
	})

	Describe("drag rotation", func() {
		It("starts idle", func() {
			Expect(s.Mode).To(Equal(camera.Idle))
		})

		It("enters Dragging on drag start and records the anchor", func() {
			s = camera.Handle(s, camera.DragStart{X: 10, Y: 20})
			Expect(s.Mode).To(Equal(camera.Dragging))
			Expect(s.LastX).To(Equal(10.0))
			Expect(s.LastY).To(Equal(20.0))
		})

		It("ignores pointer motion while idle", func() {
			next := camera.Handle(s, camera.PointerMove{X: 500, Y: 500})
			Expect(next).To(Equal(s))
		})

		It("rotates by the scaled delta from the last pointer position", func() {
			s = camera.Handle(s, camera.DragStart{X: 100, Y: 100})
			s = camera.Handle(s, camera.PointerMove{X: 120, Y: 90})
			Expect(s.Theta).To(BeNumerically("~", 20*0.005, 1e-12))
			Expect(s.Phi).To(BeNumerically("~", 10*0.005, 1e-12))

			s = camera.Handle(s, camera.PointerMove{X: 130, Y: 90})
			Expect(s.Theta).To(BeNumerically("~", 30*0.005, 1e-12))
		})

		It("tilts up when dragging up", func() {
			s = camera.Handle(s, camera.DragStart{X: 0, Y: 0})
			s = camera.Handle(s, camera.PointerMove{X: 0, Y: -50})
			Expect(s.Phi).To(BeNumerically(">", 0))
		})

		It("stops rotating after drag end", func() {
			s = camera.Handle(s, camera.DragStart{X: 0, Y: 0})
			s = camera.Handle(s, camera.PointerMove{X: 10, Y: 0})
			s = camera.Handle(s, camera.DragEnd{})
			Expect(s.Mode).To(Equal(camera.Idle))

			theta := s.Theta
			s = camera.Handle(s, camera.PointerMove{X: 1000, Y: 1000})
			Expect(s.Theta).To(Equal(theta))
		})

		It("does not mutate its input", func() {
			before := s
			_ = camera.Handle(s, camera.DragStart{X: 1, Y: 1})
			Expect(s).To(Equal(before))
		})

		It("clamps the elevation at the poles", func() {
			s = camera.Handle(s, camera.DragStart{X: 0, Y: 0})
			s = camera.Handle(s, camera.PointerMove{X: 0, Y: -1e6})
			Expect(s.Phi).To(Equal(math.Pi / 2))

			s = camera.Handle(s, camera.PointerMove{X: 0, Y: 1e6})
			Expect(s.Phi).To(Equal(-math.Pi / 2))
		})

		It("keeps the elevation in range under arbitrary drags", func() {
			rng := rand.New(rand.NewSource(1))
			for i := 0; i < 5000; i++ {
				x := rng.NormFloat64() * 1000
				y := rng.NormFloat64() * 1000
				switch rng.Intn(4) {
				case 0:
					s = camera.Handle(s, camera.DragStart{X: x, Y: y})
				case 1:
					s = camera.Handle(s, camera.DragEnd{})
				default:
					s = camera.Handle(s, camera.PointerMove{X: x, Y: y})
				}
				Expect(s.Phi).To(And(
					BeNumerically(">=", -math.Pi/2),
					BeNumerically("<=", math.Pi/2),
				))
			}
		})
	})

	Describe("zoom", func() {
		It("steps by the configured increment", func() {
			s = camera.Handle(s, camera.ZoomOut{})
			Expect(s.Zoom).To(BeNumerically("~", 1e-4+1e-3, 1e-15))
			s = camera.Handle(s, camera.ZoomIn{})
			Expect(s.Zoom).To(BeNumerically("~", 1e-4, 1e-15))
		})

		It("floors at the minimum", func() {
			for i := 0; i < 10; i++ {
				s = camera.Handle(s, camera.ZoomIn{})
			}
			Expect(s.Zoom).To(Equal(s.Limits.MinZoom))
		})

		It("ceilings at the maximum", func() {
			s.Limits.ZoomStep = 7
			for i := 0; i < 100; i++ {
				s = camera.Handle(s, camera.ZoomOut{})
			}
			Expect(s.Zoom).To(Equal(s.Limits.MaxZoom))
		})

		It("works in either mode", func() {
			s = camera.Handle(s, camera.DragStart{})
			s = camera.Handle(s, camera.ZoomOut{})
			Expect(s.Mode).To(Equal(camera.Dragging))
			Expect(s.Zoom).To(BeNumerically(">", 1e-4))
		})

		It("stays in range under arbitrary zoom sequences", func() {
			rng := rand.New(rand.NewSource(2))
			s.Limits.ZoomStep = 3.3
			for i := 0; i < 2000; i++ {
				if rng.Intn(2) == 0 {
					s = camera.Handle(s, camera.ZoomIn{})
				} else {
					s = camera.Handle(s, camera.ZoomOut{})
				}
				Expect(s.Zoom).To(And(
					BeNumerically(">=", s.Limits.MinZoom),
					BeNumerically("<=", s.Limits.MaxZoom),
				))
			}
		})

		It("clamps the initial zoom", func() {
			Expect(camera.New(1e9, camera.DefaultLimits()).Zoom).To(Equal(100.0))
		})
	})

	Describe("view transform", func() {
		It("looks at the focus from the zoom radius", func() {
			focus := physics.Vec3{physics.AU, 0, 0}
			s.Zoom = 2
			t := s.View(focus)

			Expect(t.Target.X()).To(BeNumerically("~", 1, 1e-12))
			Expect(t.Eye.X()).To(BeNumerically("~", 1, 1e-12))
			Expect(t.Eye.Z()).To(BeNumerically("~", 2, 1e-12))
			Expect(t.Up).To(Equal(physics.Vec3{0, 1, 0}))
		})

		It("places the eye by spherical coordinates", func() {
			s.Theta = math.Pi / 2
			s.Phi = math.Pi / 4
			s.Zoom = 1
			t := s.View(physics.Vec3{})

			Expect(t.Eye.X()).To(BeNumerically("~", math.Sqrt2/2, 1e-12))
			Expect(t.Eye.Y()).To(BeNumerically("~", math.Sqrt2/2, 1e-12))
			Expect(t.Eye.Z()).To(BeNumerically("~", 0, 1e-12))
			Expect(t.Distance()).To(BeNumerically("~", 1, 1e-12))
		})

		It("maps the target to the view origin", func() {
			s.Zoom = 3
			m := s.View(physics.Vec3{physics.AU, physics.AU, 0}).Matrix()
			origin := m.Mul4x1(physics.Vec3{1, 1, 0}.Vec4(1))
			Expect(origin.X()).To(BeNumerically("~", 0, 1e-9))
			Expect(origin.Y()).To(BeNumerically("~", 0, 1e-9))
			Expect(origin.Z()).To(BeNumerically("~", -3, 1e-9))
		})
	})
})

var _ = Describe("Focus selection", func() {
	var sess camera.Session

	BeforeEach(func() {
		sess = camera.NewSession(camera.New(1e-4, camera.DefaultLimits()), 3, 5)
	})

	It("starts on the requested body", func() {
		Expect(sess.Focus).To(Equal(3))
	})

	It("falls back to body 0 for an invalid initial focus", func() {
		Expect(camera.NewSession(sess.Camera, 9, 5).Focus).To(Equal(0))
	})

	DescribeTable("select",
		func(n, want int) {
			Expect(sess.Apply(camera.SelectFocus{N: n}, 5).Focus).To(Equal(want))
		},
		Entry("a valid index", 1, 1),
		Entry("the first body", 0, 0),
		Entry("the last body", 4, 4),
		Entry("one past the end", 5, 3),
		Entry("a large index", 9, 3),
		Entry("a negative index", -1, 3),
	)

	It("keeps the camera when changing focus", func() {
		sess.Camera.Theta = 1.25
		next := sess.Apply(camera.SelectFocus{N: 0}, 5)
		Expect(next.Camera).To(Equal(sess.Camera))
	})

	It("routes camera events to the camera", func() {
		next := sess.Apply(camera.ZoomOut{}, 5)
		Expect(next.Focus).To(Equal(3))
		Expect(next.Camera.Zoom).To(BeNumerically(">", sess.Camera.Zoom))
	})

	It("views the focused body", func() {
		positions := []physics.Vec3{{}, {physics.AU, 0, 0}, {}, {0, 2 * physics.AU, 0}, {}}
		Expect(sess.View(positions).Target).To(Equal(physics.Vec3{0, 2, 0}))
	})
})
