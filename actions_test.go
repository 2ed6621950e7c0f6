package particle

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davemc0/particle/pdomain"
	"github.com/davemc0/particle/perror"
)

func seedParticles(t *testing.T, ctx *Context, h int, ps ...Particle) {
	t.Helper()
	g, err := ctx.group(h)
	require.NoError(t, err)
	for _, p := range ps {
		require.True(t, g.append(p), "test group too small")
	}
}

func TestGravityIntegratesOverDt(t *testing.T) {
	ctx, h := newTestContext(t, 10)
	ctx.SetTimeStep(0.5)
	seedParticles(t, ctx, h, Particle{Vel: Vec3{1, 0, 0}})

	require.NoError(t, ctx.Gravity(Vec3{0, -10, 0}))

	live, _ := ctx.Particles(h)
	assert.Equal(t, Vec3{1, -5, 0}, live[0].Vel)
}

func TestBouncePlaneNegatesNormalComponentOnly(t *testing.T) {
	ctx, h := newTestContext(t, 10)
	seedParticles(t, ctx, h, Particle{Pos: Vec3{0, 0.5, 0}, Vel: Vec3{3, -2, 1}})

	plane := pdomain.NewPlane(Vec3{0, 0, 0}, Vec3{0, 1, 0})
	require.NoError(t, ctx.Bounce(0, 1, 0, plane))

	live, _ := ctx.Particles(h)
	assert.InDelta(t, 3, live[0].Vel[0], 1e-5, "tangential x unchanged")
	assert.InDelta(t, 2, live[0].Vel[1], 1e-5, "normal component negated")
	assert.InDelta(t, 1, live[0].Vel[2], 1e-5, "tangential z unchanged")
}

func TestBouncePlaneAppliesFriction(t *testing.T) {
	ctx, h := newTestContext(t, 10)
	seedParticles(t, ctx, h, Particle{Pos: Vec3{0, 0.5, 0}, Vel: Vec3{4, -2, 0}})

	plane := pdomain.NewPlane(Vec3{0, 0, 0}, Vec3{0, 1, 0})
	require.NoError(t, ctx.Bounce(0.5, 1, 0, plane))

	live, _ := ctx.Particles(h)
	assert.InDelta(t, 2, live[0].Vel[0], 1e-5, "tangential halved by friction 0.5")
	assert.InDelta(t, 2, live[0].Vel[1], 1e-5)
}

func TestBouncePlaneSkipsFrictionBelowMinVel(t *testing.T) {
	ctx, h := newTestContext(t, 10)
	seedParticles(t, ctx, h, Particle{Pos: Vec3{0, 0.5, 0}, Vel: Vec3{0.1, -2, 0}})

	plane := pdomain.NewPlane(Vec3{0, 0, 0}, Vec3{0, 1, 0})
	require.NoError(t, ctx.Bounce(0.5, 1, 1.0, plane))

	live, _ := ctx.Particles(h)
	assert.InDelta(t, 0.1, live[0].Vel[0], 1e-5, "slow tangential motion keeps its speed")
}

func TestBounceSphereRoundTrip(t *testing.T) {
	// A particle dropped straight at a unit sphere reflects off the
	// surface and returns to its start two steps later.
	ctx, h := newTestContext(t, 10)
	seedParticles(t, ctx, h, Particle{Pos: Vec3{0, 0, 2}, Vel: Vec3{0, 0, -1}})
	sphere, err := pdomain.NewSphere(Vec3{0, 0, 0}, 1, 0)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		require.NoError(t, ctx.Bounce(0, 1, 0, sphere))
		require.NoError(t, ctx.Move(true, false))
	}

	live, _ := ctx.Particles(h)
	assert.InDelta(t, 2, live[0].Pos[2], 1e-3)
	assert.InDelta(t, 1, live[0].Vel[2], 1e-3)
}

func TestBounceSphereContainsInsideParticles(t *testing.T) {
	ctx, h := newTestContext(t, 100)
	sphere, err := pdomain.NewSphere(Vec3{0, 0, 0}, 1, 0)
	require.NoError(t, err)
	inside, err := pdomain.NewSphere(Vec3{0, 0, 0}, 0.5, 0)
	require.NoError(t, err)

	state := NewSourceState()
	state.VelDomain(pdomain.NewBox(Vec3{-2, -2, -2}, Vec3{2, 2, 2}))
	require.NoError(t, ctx.Source(100, inside, state))

	ctx.SetTimeStep(0.1)
	for i := 0; i < 200; i++ {
		require.NoError(t, ctx.Bounce(0, 1, 0, sphere))
		require.NoError(t, ctx.Move(true, false))
	}
	live, _ := ctx.Particles(h)
	require.NotEmpty(t, live)
	for _, p := range live {
		assert.LessOrEqual(t, p.Pos.Len(), float32(1.0001), "no particle escapes the sphere")
	}
}

func TestBounceThickSphereShellRejected(t *testing.T) {
	ctx, h := newTestContext(t, 10)
	seedParticles(t, ctx, h, Particle{})
	shell, err := pdomain.NewSphere(Vec3{}, 2, 1)
	require.NoError(t, err)
	requireKind(t, ctx.Bounce(0, 1, 0, shell), perror.InvalidValue)
}

func TestBounceConeNotImplemented(t *testing.T) {
	ctx, h := newTestContext(t, 10)
	seedParticles(t, ctx, h, Particle{})
	cone, err := pdomain.NewCone(Vec3{}, Vec3{0, 0, 1}, 1, 0)
	require.NoError(t, err)
	requireKind(t, ctx.Bounce(0, 1, 0, cone), perror.NotImplemented)
}

func TestAvoidSteersAroundPlane(t *testing.T) {
	ctx, h := newTestContext(t, 10)
	vel := Vec3{0.7, -0.7, 0}
	seedParticles(t, ctx, h, Particle{Pos: Vec3{0, 1, 0}, Vel: vel})

	plane := pdomain.NewPlane(Vec3{0, 0, 0}, Vec3{0, 1, 0})
	require.NoError(t, ctx.Avoid(plane, 1, 0.1, 2))

	live, _ := ctx.Particles(h)
	assert.InDelta(t, float64(vel.Len()), float64(live[0].Vel.Len()), 1e-4, "avoid preserves speed")
	assert.Greater(t, live[0].Vel[1], vel[1], "velocity bent away from the plane")
}

func TestAvoidConeNotImplemented(t *testing.T) {
	ctx, h := newTestContext(t, 10)
	seedParticles(t, ctx, h, Particle{})
	cone, err := pdomain.NewCone(Vec3{}, Vec3{0, 0, 1}, 1, 0)
	require.NoError(t, err)
	requireKind(t, ctx.Avoid(cone, 1, 0.1, 1), perror.NotImplemented)
}

func TestSortOrdersByLookProjection(t *testing.T) {
	ctx, h := newTestContext(t, 10)
	seedParticles(t, ctx, h,
		Particle{Pos: Vec3{0, 0, 5}},
		Particle{Pos: Vec3{0, 0, 1}},
		Particle{Pos: Vec3{0, 0, 3}},
		Particle{Pos: Vec3{0, 0, -2}},
	)

	require.NoError(t, ctx.Sort(Vec3{0, 0, 0}, Vec3{0, 0, 1}, false, false))

	live, _ := ctx.Particles(h)
	for i := 1; i < len(live); i++ {
		assert.GreaterOrEqual(t, live[i].Pos[2], live[i-1].Pos[2], "non-decreasing projection")
	}
}

func TestSortFrontToBackReversesOrder(t *testing.T) {
	ctx, h := newTestContext(t, 10)
	seedParticles(t, ctx, h,
		Particle{Pos: Vec3{0, 0, 1}},
		Particle{Pos: Vec3{0, 0, 5}},
	)

	require.NoError(t, ctx.Sort(Vec3{0, 0, 0}, Vec3{0, 0, 1}, true, false))

	live, _ := ctx.Particles(h)
	assert.Equal(t, float32(5), live[0].Pos[2])
	assert.Equal(t, float32(1), live[1].Pos[2])
}

func TestSortFrontToBackClampsSignedKey(t *testing.T) {
	// ClampNegative floors the signed key, so with FrontToBack the whole
	// front set collapses to key 0 and only behind-eye particles keep a
	// positive key, sorting last.
	ctx, h := newTestContext(t, 10)
	seedParticles(t, ctx, h,
		Particle{Pos: Vec3{0, 0, -2}},
		Particle{Pos: Vec3{0, 0, 1}},
		Particle{Pos: Vec3{0, 0, 3}},
	)

	require.NoError(t, ctx.Sort(Vec3{0, 0, 0}, Vec3{0, 0, 1}, true, true))

	live, _ := ctx.Particles(h)
	assert.Equal(t, float32(-2), live[2].Pos[2], "behind-eye particle sorts last")
	assert.Equal(t, float32(2), live[2].Tmp0)
	assert.Zero(t, live[0].Tmp0)
	assert.Zero(t, live[1].Tmp0)
}

func TestSinkRemovesByPosition(t *testing.T) {
	ctx, h := newTestContext(t, 10)
	seedParticles(t, ctx, h,
		Particle{Pos: Vec3{0, 0, -5}},
		Particle{Pos: Vec3{0, 0, 5}},
	)

	// Kill everything below the z = -3 floor.
	floor := pdomain.NewPlane(Vec3{0, 0, -3}, Vec3{0, 0, 1})
	require.NoError(t, ctx.Sink(false, floor))

	live, _ := ctx.Particles(h)
	require.Len(t, live, 1)
	assert.Equal(t, float32(5), live[0].Pos[2])
}

func TestSinkVelocityRemovesByVelocity(t *testing.T) {
	ctx, h := newTestContext(t, 10)
	seedParticles(t, ctx, h,
		Particle{Vel: Vec3{0, 0, 0.1}},
		Particle{Vel: Vec3{0, 0, 9}},
	)

	slow, err := pdomain.NewSphere(Vec3{}, 1, 0)
	require.NoError(t, err)
	require.NoError(t, ctx.SinkVelocity(true, slow))

	live, _ := ctx.Particles(h)
	require.Len(t, live, 1)
	assert.Equal(t, float32(9), live[0].Vel[2])
}

func TestDampingScalesInsideSpeedBand(t *testing.T) {
	ctx, h := newTestContext(t, 10)
	seedParticles(t, ctx, h,
		Particle{Vel: Vec3{2, 0, 0}},  // in band, damped
		Particle{Vel: Vec3{10, 0, 0}}, // above band, untouched
	)

	require.NoError(t, ctx.Damping(Vec3{0.5, 0.5, 0.5}, 1, 5))

	live, _ := ctx.Particles(h)
	assert.InDelta(t, 1, live[0].Vel[0], 1e-5)
	assert.InDelta(t, 10, live[1].Vel[0], 1e-5)
}

func TestSpeedClampBoundsSpeedPreservingDirection(t *testing.T) {
	ctx, h := newTestContext(t, 10)
	seedParticles(t, ctx, h,
		Particle{Vel: Vec3{10, 0, 0}},
		Particle{Vel: Vec3{0, 0.1, 0}},
	)

	require.NoError(t, ctx.SpeedClamp(1, 5))

	live, _ := ctx.Particles(h)
	assert.InDelta(t, 5, live[0].Vel[0], 1e-5)
	assert.InDelta(t, 1, live[1].Vel[1], 1e-5)
}

func TestTargetColorRelaxesTowardTarget(t *testing.T) {
	ctx, h := newTestContext(t, 10)
	ctx.SetTimeStep(0.1)
	seedParticles(t, ctx, h, Particle{Color: Vec3{0, 0, 0}, Alpha: 1})

	for i := 0; i < 200; i++ {
		require.NoError(t, ctx.TargetColor(Vec3{1, 1, 1}, Vec3{1, 1, 1}))
	}
	live, _ := ctx.Particles(h)
	assert.InDelta(t, 1, live[0].Color[0], 1e-3)
}

func TestOrbitPointRespectsMaxRadius(t *testing.T) {
	ctx, h := newTestContext(t, 10)
	seedParticles(t, ctx, h,
		Particle{Pos: Vec3{1, 0, 0}},
		Particle{Pos: Vec3{100, 0, 0}},
	)

	require.NoError(t, ctx.OrbitPoint(Vec3{0, 0, 0}, 1, 0.1, 10))

	live, _ := ctx.Particles(h)
	assert.Negative(t, live[0].Vel[0], "near particle pulled toward center")
	assert.Zero(t, live[1].Vel[0], "particle past rMax unaffected")
}

func TestExplosionPushesOutward(t *testing.T) {
	ctx, h := newTestContext(t, 10)
	seedParticles(t, ctx, h, Particle{Pos: Vec3{2, 0, 0}})

	require.NoError(t, ctx.Explosion(Vec3{0, 0, 0}, 2, 5, 1, 0.1))

	live, _ := ctx.Particles(h)
	assert.Positive(t, live[0].Vel[0], "shock front at the particle's radius pushes it outward")
}

func TestVortexReplacesVelocityInsideSilhouette(t *testing.T) {
	ctx, h := newTestContext(t, 10)
	// Midway up the axis, just off it: inside the silhouette for a wide
	// vortex (tightness 1 puts the silhouette at half rMax there).
	seedParticles(t, ctx, h, Particle{Pos: Vec3{0.1, 0, 2}, Vel: Vec3{9, 9, 9}, Mass: 1})

	require.NoError(t, ctx.Vortex(Vec3{0, 0, 0}, Vec3{0, 0, 1}, 1, 4, 1, 2, 3))

	live, _ := ctx.Particles(h)
	assert.InDelta(t, 2, live[0].Vel[2], 1e-4, "axial component replaced by upSpeed")
	swirl := math32.Hypot(live[0].Vel[0], live[0].Vel[1])
	assert.InDelta(t, 3, swirl, 1e-4, "swirl magnitude replaced by aroundSpeed")
}

func TestJetOnlyAffectsParticlesInShape(t *testing.T) {
	ctx, h := newTestContext(t, 10)
	seedParticles(t, ctx, h,
		Particle{Pos: Vec3{0, 0, 0}},
		Particle{Pos: Vec3{50, 0, 0}},
	)

	shape, err := pdomain.NewSphere(Vec3{}, 1, 0)
	require.NoError(t, err)
	require.NoError(t, ctx.Jet(shape, pdomain.NewPoint(Vec3{0, 7, 0})))

	live, _ := ctx.Particles(h)
	assert.Equal(t, float32(7), live[0].Vel[1])
	assert.Zero(t, live[1].Vel[1])
}

func TestFollowPullsTowardSuccessor(t *testing.T) {
	ctx, h := newTestContext(t, 10)
	seedParticles(t, ctx, h,
		Particle{Pos: Vec3{0, 0, 0}},
		Particle{Pos: Vec3{1, 0, 0}},
	)

	require.NoError(t, ctx.Follow(1, 0.1, 100))

	live, _ := ctx.Particles(h)
	assert.Positive(t, live[0].Vel[0], "first particle pulled toward its successor")
	assert.Zero(t, live[1].Vel[0], "last particle unaffected")
}

func TestGravitateIsSymmetric(t *testing.T) {
	ctx, h := newTestContext(t, 10)
	seedParticles(t, ctx, h,
		Particle{Pos: Vec3{-1, 0, 0}},
		Particle{Pos: Vec3{1, 0, 0}},
	)

	require.NoError(t, ctx.Gravitate(1, 0.1, 100))

	live, _ := ctx.Particles(h)
	assert.Positive(t, live[0].Vel[0])
	assert.Negative(t, live[1].Vel[0])
	assert.InDelta(t, 0, live[0].Vel[0]+live[1].Vel[0], 1e-6, "momentum conserved")
}

func TestMatchVelocityNudgesTowardNeighborhoodAverage(t *testing.T) {
	ctx, h := newTestContext(t, 10)
	seedParticles(t, ctx, h,
		Particle{Pos: Vec3{0, 0, 0}, Vel: Vec3{0, 0, 0}},
		Particle{Pos: Vec3{0.5, 0, 0}, Vel: Vec3{2, 0, 0}},
	)

	require.NoError(t, ctx.MatchVelocity(0.5, 0.01, 10))

	live, _ := ctx.Particles(h)
	assert.Positive(t, live[0].Vel[0], "still particle nudged toward its moving neighbor")
	assert.Less(t, live[1].Vel[0], float32(2), "moving particle nudged down toward its still neighbor")
}

func TestCopyVertexBThenRestoreReturnsHome(t *testing.T) {
	ctx, h := newTestContext(t, 10)
	ctx.SetTimeStep(0.1)
	seedParticles(t, ctx, h, Particle{Pos: Vec3{1, 2, 3}})

	require.NoError(t, ctx.CopyVertexB(true, false))
	require.NoError(t, ctx.RandomDisplace(pdomain.NewBox(Vec3{-5, -5, -5}, Vec3{5, 5, 5})))

	// Walk time down to zero the way a caller drives Restore.
	for tl := float32(2); tl > 0; tl -= 0.1 {
		require.NoError(t, ctx.Restore(tl, true, false))
		require.NoError(t, ctx.Move(true, false))
	}
	require.NoError(t, ctx.Restore(0, true, false))

	live, _ := ctx.Particles(h)
	assert.InDelta(t, 1, live[0].Pos[0], 1e-2)
	assert.InDelta(t, 2, live[0].Pos[1], 1e-2)
	assert.InDelta(t, 3, live[0].Pos[2], 1e-2)
	assert.Equal(t, Vec3{}, live[0].Vel, "velocity zeroed once time runs out")
}

func TestRandomVelocityReplacesRatherThanAdds(t *testing.T) {
	ctx, h := newTestContext(t, 10)
	seedParticles(t, ctx, h, Particle{Vel: Vec3{100, 100, 100}})

	require.NoError(t, ctx.RandomVelocity(pdomain.NewPoint(Vec3{1, 2, 3})))

	live, _ := ctx.Particles(h)
	assert.Equal(t, Vec3{1, 2, 3}, live[0].Vel)
}

func TestCallbackSeesEveryParticle(t *testing.T) {
	ctx, h := newTestContext(t, 10)
	seedParticles(t, ctx, h, Particle{Data: 1}, Particle{Data: 2})

	var seen []uint32
	require.NoError(t, ctx.Callback(func(p *Particle, _ any, dt float32) {
		assert.Equal(t, float32(1), dt)
		seen = append(seen, p.Data)
	}, nil))
	assert.ElementsMatch(t, []uint32{1, 2}, seen)
}

func TestVertexImmediateOverridesDataAndSamplesPosB(t *testing.T) {
	ctx, h := newTestContext(t, 10)
	state := NewSourceState()
	state.SetData(99)
	state.VertexBTracks(true)

	require.NoError(t, ctx.Vertex(Vec3{1, 1, 1}, state, 7))

	live, _ := ctx.Particles(h)
	require.Len(t, live, 1)
	assert.Equal(t, uint32(7), live[0].Data, "Vertex data argument wins over state")
	// Vertex ignores VertexBTracksPos and samples the B domain (here the
	// default origin point) instead of copying Pos.
	assert.Equal(t, Vec3{}, live[0].PosB)
	assert.Equal(t, Vec3{1, 1, 1}, live[0].Pos)
}

func TestSourceVertexBTracksPos(t *testing.T) {
	ctx, h := newTestContext(t, 10)
	state := NewSourceState() // VertexBTracksPos defaults on
	require.NoError(t, ctx.Source(5, pdomain.NewPoint(Vec3{4, 4, 4}), state))

	live, _ := ctx.Particles(h)
	require.NotEmpty(t, live)
	for _, p := range live {
		assert.Equal(t, p.Pos, p.PosB)
	}
}
