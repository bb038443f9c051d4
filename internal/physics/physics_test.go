package physics

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func mustBody(t *testing.T, index int, p Params) *Body {
	t.Helper()
	b, err := NewBody(index, p)
	if err != nil {
		t.Fatalf("NewBody: %v", err)
	}
	return b
}

func TestNewBodyValidation(t *testing.T) {
	tests := []struct {
		name string
		p    Params
		want error
	}{
		{"positive mass", Params{Mass: 1}, nil},
		{"zero mass", Params{Mass: 0}, ErrNonPositiveMass},
		{"negative mass", Params{Mass: -5}, ErrNonPositiveMass},
		{"NaN mass", Params{Mass: math.NaN()}, ErrNonPositiveMass},
		{"infinite mass", Params{Mass: math.Inf(1)}, ErrNonPositiveMass},
		{"negative radius", Params{Mass: 1, Radius: -1}, ErrNegativeRadius},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBody(0, tt.p)
			if !errors.Is(err, tt.want) {
				t.Errorf("NewBody() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPairForceThirdLaw(t *testing.T) {
	cases := []struct {
		pa, pb Vec3
		ma, mb float64
	}{
		{Vec3{0, 0, 0}, Vec3{AU, 0, 0}, SunMass, 5.972e24},
		{Vec3{1e9, -2e9, 3e8}, Vec3{-4e10, 7e9, 1e10}, 3.3e23, 1.9e27},
		{Vec3{5, 5, 5}, Vec3{5 + 1e4, 5, 5 - 3e3}, 1e3, 2e3},
	}

	for _, c := range cases {
		a := mustBody(t, 0, Params{Position: c.pa, Mass: c.ma})
		b := mustBody(t, 1, Params{Position: c.pb, Mass: c.mb})

		fab := PairForce(a, b)
		fba := PairForce(b, a)

		sum := fab.Add(fba)
		if sum.Len() > 1e-12*fab.Len() {
			t.Errorf("forces not opposite: %v vs %v", fab, fba)
		}

		forces := ComputeForces([]*Body{a, b})
		if forces[0] != forces[1].Mul(-1) {
			t.Errorf("ComputeForces not exactly opposite: %v vs %v", forces[0], forces[1])
		}
	}
}

func TestPairForceMagnitude(t *testing.T) {
	a := mustBody(t, 0, Params{Mass: SunMass})
	b := mustBody(t, 1, Params{Position: Vec3{AU, 0, 0}, Mass: 5.972e24})

	f := PairForce(b, a)
	want := G * SunMass * 5.972e24 / (AU * AU)

	if math.Abs(f.Len()-want)/want > 1e-12 {
		t.Errorf("magnitude = %g, want %g", f.Len(), want)
	}
	if f.X() >= 0 {
		t.Errorf("force on planet should point toward the star, got %v", f)
	}
}

func TestPairForceFloor(t *testing.T) {
	atFloor := G * 10 * 20 / (MinDistance * MinDistance)

	for _, d := range []float64{1, 10, 250, 999.9, MinDistance} {
		a := mustBody(t, 0, Params{Mass: 10})
		b := mustBody(t, 1, Params{Position: Vec3{0, d, 0}, Mass: 20})

		got := PairForce(a, b).Len()
		if math.Abs(got-atFloor)/atFloor > 1e-12 {
			t.Errorf("d=%g: magnitude = %g, want %g", d, got, atFloor)
		}
	}

	a := mustBody(t, 0, Params{Mass: 10})
	b := mustBody(t, 1, Params{Mass: 20})
	if f := PairForce(a, b); f != (Vec3{}) {
		t.Errorf("coincident bodies should exert no force, got %v", f)
	}
}

func TestComputeForcesDoesNotMutate(t *testing.T) {
	bodies := []*Body{
		mustBody(t, 0, Params{Mass: SunMass}),
		mustBody(t, 1, Params{Position: Vec3{AU, 0, 0}, Mass: 5.972e24}),
		mustBody(t, 2, Params{Position: Vec3{0, 2 * AU, 0}, Mass: 6.39e23}),
	}

	forces := ComputeForces(bodies)
	for _, b := range bodies {
		if b.Force != (Vec3{}) {
			t.Fatalf("body %d force mutated by ComputeForces", b.Index)
		}
	}

	net := forces[0].Add(forces[1]).Add(forces[2])
	if net.Len() > 1e-9*forces[0].Len() {
		t.Errorf("net internal force should vanish, got %v", net)
	}

	ApplyForces(bodies, forces)
	for i, b := range bodies {
		if b.Force != forces[i] {
			t.Errorf("body %d force = %v, want %v", i, b.Force, forces[i])
		}
	}
}

func TestAccelerationAndRecord(t *testing.T) {
	b := mustBody(t, 0, Params{Position: Vec3{2 * AU, -AU, 5}, Mass: 4})
	b.ApplyForce(Vec3{8, 0, -4})

	if a := b.Acceleration(); a != (Vec3{2, 0, -1}) {
		t.Errorf("Acceleration() = %v", a)
	}

	b.Record()
	p, ok := b.Trajectory.Last()
	if !ok || math.Abs(p.X-2) > 1e-15 || math.Abs(p.Y+1) > 1e-15 {
		t.Errorf("Record() stored %v", p)
	}
}

func TestRecordMatchesDisplayPosition(t *testing.T) {
	b := mustBody(t, 0, Params{
		Position: Vec3{AU, 0, 0},
		Velocity: Vec3{0, 29780, 0},
		Mass:     1,
	})
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 500; i++ {
		b.Position = b.Position.Add(b.Velocity.Mul(Day)).Add(Vec3{rng.Float64() * 1e3, rng.Float64() * 1e3, 0})
		b.Record()

		got, _ := b.Trajectory.Last()
		want := b.DisplayPosition()
		if got.X != want.X() || got.Y != want.Y() {
			t.Fatalf("step %d: recorded %+v, display position %v", i, got, want)
		}
		if want != ToDisplay(b.Position) {
			t.Fatalf("step %d: DisplayPosition %v != ToDisplay %v", i, want, ToDisplay(b.Position))
		}
	}
}

func TestConservedQuantities(t *testing.T) {
	v := CircularSpeed(SunMass, AU)
	bodies := []*Body{
		mustBody(t, 0, Params{Mass: SunMass}),
		mustBody(t, 1, Params{Position: Vec3{AU, 0, 0}, Velocity: Vec3{0, v, 0}, Mass: 5.972e24}),
	}

	e := TotalEnergy(bodies)
	if e >= 0 {
		t.Errorf("bound orbit should have negative energy, got %g", e)
	}

	p := Momentum(bodies)
	if math.Abs(p.Y()-5.972e24*v) > 1 {
		t.Errorf("Momentum() = %v", p)
	}

	l := AngularMomentum(bodies)
	if l.X() != 0 || l.Y() != 0 || l.Z() <= 0 {
		t.Errorf("AngularMomentum() = %v, want +z", l)
	}

	com := CenterOfMass(bodies)
	want := AU * 5.972e24 / (SunMass + 5.972e24)
	if math.Abs(com.X()-want) > 1 {
		t.Errorf("CenterOfMass().X = %g, want %g", com.X(), want)
	}
}

func TestIsFinite(t *testing.T) {
	b := mustBody(t, 0, Params{Mass: 1})
	if !b.IsFinite() {
		t.Error("fresh body should be finite")
	}
	b.Velocity = Vec3{math.NaN(), 0, 0}
	if b.IsFinite() {
		t.Error("NaN velocity should not be finite")
	}
}

func TestComputeForcesParallelMatchesSerial(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	bodies := make([]*Body, 40)
	for i := range bodies {
		bodies[i] = mustBody(t, i, Params{
			Position: Vec3{rng.NormFloat64() * AU, rng.NormFloat64() * AU, rng.NormFloat64() * 1e9},
			Mass:     1e24 * (1 + rng.Float64()*100),
		})
	}

	serial := ComputeForces(bodies)
	for _, workers := range []int{1, 3, 8, 64} {
		par := ComputeForcesParallel(bodies, workers)
		for i := range serial {
			diff := par[i].Sub(serial[i]).Len()
			if diff > 1e-9*serial[i].Len() {
				t.Errorf("workers=%d body %d: parallel %v, serial %v", workers, i, par[i], serial[i])
			}
		}
	}
}

func TestComputeForcesParallelSmallSystem(t *testing.T) {
	a := mustBody(t, 0, Params{Mass: SunMass})
	b := mustBody(t, 1, Params{Position: Vec3{AU, 0, 0}, Mass: 5.972e24})
	got := ComputeForcesParallel([]*Body{a, b}, 8)
	want := ComputeForces([]*Body{a, b})
	if got[0] != want[0] || got[1] != want[1] {
		t.Errorf("small system should take the serial path: %v vs %v", got, want)
	}
}
