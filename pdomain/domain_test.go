package pdomain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davemc0/particle/pvec"
)

func TestGenerateWithinRoundTrip(t *testing.T) {
	r := pvec.NewRng(11)
	cases := map[string]Domain{
		"point":     NewPoint(Vec3{1, 2, 3}),
		"line":      NewLine(Vec3{0, 0, 0}, Vec3{1, 1, 1}),
		"triangle":  NewTriangle(Vec3{0, 0, 0}, Vec3{1, 0, 0}, Vec3{0, 1, 0}),
		"rectangle": NewRectangle(Vec3{0, 0, 0}, Vec3{1, 0, 0}, Vec3{0, 1, 0}),
		"box":       NewBox(Vec3{-1, -1, -1}, Vec3{1, 1, 1}),
	}
	for name, d := range cases {
		d := d
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 200; i++ {
				p := d.Generate(r)
				assert.True(t, d.Within(p, r), "generated point should be within its own domain")
			}
		})
	}
}

func TestDiscGenerateWithin(t *testing.T) {
	r := pvec.NewRng(3)
	d, err := NewDisc(Vec3{0, 0, 0}, Vec3{0, 0, 1}, 2, 0.5)
	require.NoError(t, err)
	for i := 0; i < 200; i++ {
		p := d.Generate(r)
		assert.True(t, d.Within(p, r))
	}
}

func TestSphereGenerateWithin(t *testing.T) {
	r := pvec.NewRng(5)
	d, err := NewSphere(Vec3{1, 2, 3}, 4, 1)
	require.NoError(t, err)
	for i := 0; i < 200; i++ {
		p := d.Generate(r)
		assert.True(t, d.Within(p, r))
	}
}

func TestNewDiscRejectsNegativeRadius(t *testing.T) {
	_, err := NewDisc(Vec3{}, Vec3{0, 0, 1}, -1, 0)
	require.Error(t, err)
}

func TestNewDiscSwapsInvertedRadii(t *testing.T) {
	d, err := NewDisc(Vec3{}, Vec3{0, 0, 1}, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, float32(3), d.OuterRadius())
	assert.Equal(t, float32(1), d.InnerRadius())
}

func TestUnionSizeIsAdditive(t *testing.T) {
	a := NewPoint(Vec3{0, 0, 0})
	b, err := NewSphere(Vec3{0, 0, 0}, 2, 0)
	require.NoError(t, err)
	c, err := NewSphere(Vec3{0, 0, 0}, 1, 0)
	require.NoError(t, err)

	u := NewUnion(a, b, c)
	assert.InDelta(t, a.Size()+b.Size()+c.Size(), u.Size(), 1e-3)
}

func TestUnionGeneratesFromSomeMember(t *testing.T) {
	r := pvec.NewRng(9)
	a, err := NewSphere(Vec3{-10, 0, 0}, 0.5, 0)
	require.NoError(t, err)
	b, err := NewSphere(Vec3{10, 0, 0}, 0.5, 0)
	require.NoError(t, err)
	u := NewUnion(a, b)

	for i := 0; i < 50; i++ {
		p := u.Generate(r)
		assert.True(t, a.Within(p, r) || b.Within(p, r))
	}
}

func TestIsThinShell(t *testing.T) {
	shell, err := NewSphere(Vec3{}, 2, 2)
	require.NoError(t, err)
	assert.True(t, shell.IsThinShell())

	solid, err := NewSphere(Vec3{}, 2, 0)
	require.NoError(t, err)
	assert.False(t, solid.IsThinShell())
}

func TestPlaneWithin(t *testing.T) {
	d := NewPlane(Vec3{0, 0, 0}, Vec3{0, 1, 0})
	assert.True(t, d.Within(Vec3{5, 1, 0}, nil))
	assert.False(t, d.Within(Vec3{5, -1, 0}, nil))
}

func TestCylinderGenerateWithin(t *testing.T) {
	r := pvec.NewRng(21)
	d, err := NewCylinder(Vec3{1, 1, 1}, Vec3{1, 1, 5}, 2, 0.5)
	require.NoError(t, err)
	for i := 0; i < 500; i++ {
		p := d.Generate(r)
		assert.True(t, d.Within(p, r))
	}
}

func TestConeGenerateWithin(t *testing.T) {
	r := pvec.NewRng(22)
	d, err := NewCone(Vec3{0, 0, 0}, Vec3{0, 0, 4}, 2, 0)
	require.NoError(t, err)
	for i := 0; i < 500; i++ {
		p := d.Generate(r)
		assert.True(t, d.Within(p, r))
	}
}

func TestSphereShellGenerateWithin(t *testing.T) {
	r := pvec.NewRng(23)
	d, err := NewSphere(Vec3{0, 0, 0}, 3, 3)
	require.NoError(t, err)
	for i := 0; i < 500; i++ {
		p := d.Generate(r)
		dist := p.Len()
		assert.InDelta(t, 3, dist, 2e-3, "thin shell samples land on the surface")
		assert.True(t, d.Within(p, r))
	}
}

func TestLineGenerateWithin(t *testing.T) {
	r := pvec.NewRng(24)
	d := NewLine(Vec3{-3, 2, 1}, Vec3{5, -4, 2})
	for i := 0; i < 500; i++ {
		assert.True(t, d.Within(d.Generate(r), r))
	}
}

func TestUnionWeightsBySize(t *testing.T) {
	// Two solid spheres with radii 1 and 2: the second holds 8/9 of the
	// combined volume, so ~8/9 of the draws should land in it.
	r := pvec.NewRng(31)
	small, err := NewSphere(Vec3{-50, 0, 0}, 1, 0)
	require.NoError(t, err)
	big, err := NewSphere(Vec3{50, 0, 0}, 2, 0)
	require.NoError(t, err)
	u := NewUnion(small, big)

	const draws = 100000
	inBig := 0
	for i := 0; i < draws; i++ {
		if u.Generate(r)[0] > 0 {
			inBig++
		}
	}
	assert.InDelta(t, 8.0/9.0, float64(inBig)/draws, 0.01)
}

func TestSizeIsRawMeasureBelowOne(t *testing.T) {
	line := NewLine(Vec3{0, 0, 0}, Vec3{0.5, 0, 0})
	assert.InDelta(t, 0.5, line.Size(), 1e-6)

	tri := NewTriangle(Vec3{0, 0, 0}, Vec3{0.1, 0, 0}, Vec3{0, 0.1, 0})
	assert.InDelta(t, 0.005, tri.Size(), 1e-6)

	rect := NewRectangle(Vec3{0, 0, 0}, Vec3{0.5, 0, 0}, Vec3{0, 0.5, 0})
	assert.InDelta(t, 0.25, rect.Size(), 1e-6)

	box := NewBox(Vec3{0, 0, 0}, Vec3{0.5, 0.5, 0.5})
	assert.InDelta(t, 0.125, box.Size(), 1e-6)

	sph, err := NewSphere(Vec3{}, 0.1, 0)
	require.NoError(t, err)
	assert.InDelta(t, 4.0/3.0*3.14159265*0.001, sph.Size(), 1e-6)

	cyl, err := NewCylinder(Vec3{}, Vec3{0, 0, 0.5}, 0.1, 0)
	require.NoError(t, err)
	assert.InDelta(t, 3.14159265*0.01*0.5, cyl.Size(), 1e-6)

	cone, err := NewCone(Vec3{}, Vec3{0, 0, 0.3}, 0.1, 0)
	require.NoError(t, err)
	assert.InDelta(t, 3.14159265/3*0.01*0.3, cone.Size(), 1e-6)
}

func TestUnionWeightsSubUnitSizes(t *testing.T) {
	// A triangle of area 0.5 and a rectangle of area 0.25: the rectangle
	// should receive 1/3 of the draws, not the 1/2 a unit floor on Size
	// would produce.
	r := pvec.NewRng(37)
	tri := NewTriangle(Vec3{-50, 0, 0}, Vec3{-49, 0, 0}, Vec3{-50, 1, 0})
	rect := NewRectangle(Vec3{50, 0, 0}, Vec3{0.5, 0, 0}, Vec3{0, 0.5, 0})
	u := NewUnion(tri, rect)

	const draws = 100000
	inRect := 0
	for i := 0; i < draws; i++ {
		if u.Generate(r)[0] > 0 {
			inRect++
		}
	}
	assert.InDelta(t, 1.0/3.0, float64(inRect)/draws, 0.01)
}

func TestThinRingSizeIsCircumference(t *testing.T) {
	ring, err := NewDisc(Vec3{}, Vec3{0, 0, 1}, 2, 2)
	require.NoError(t, err)
	assert.InDelta(t, 4*3.14159265, ring.Size(), 1e-3)
}

func TestConstructorsRejectNaNRadius(t *testing.T) {
	nan := float32(0)
	nan /= nan
	_, err := NewSphere(Vec3{}, nan, 0)
	require.Error(t, err)
	_, err = NewCylinder(Vec3{}, Vec3{0, 0, 1}, 1, nan)
	require.Error(t, err)
	_, err = NewBlob(Vec3{}, nan)
	require.Error(t, err)
}

func TestBlobGeneratesAroundCenter(t *testing.T) {
	r := pvec.NewRng(41)
	d, err := NewBlob(Vec3{10, 0, 0}, 0.5)
	require.NoError(t, err)
	var sum Vec3
	const n = 2000
	for i := 0; i < n; i++ {
		sum = sum.Add(d.Generate(r))
	}
	mean := sum.Mul(1.0 / n)
	assert.InDelta(t, 10, mean[0], 0.1)
	assert.InDelta(t, 0, mean[1], 0.1)
}

func TestParametricUVRecoversCoordinates(t *testing.T) {
	d := NewRectangle(Vec3{1, 1, 0}, Vec3{2, 0, 0}, Vec3{0, 3, 0})
	s, v := d.ParametricUV(Vec3{2, 2.5, 0})
	assert.InDelta(t, 0.5, s, 1e-5)
	assert.InDelta(t, 0.5, v, 1e-5)
}
