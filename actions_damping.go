package particle

// Damping scales each velocity component by 1 - (1-v3_i)*dt when speed is
// within [VLo, VHi].
type Damping struct {
	baseFlags
	V3       Vec3
	VLo, VHi float32
}

func (a *Damping) Execute(ec *ExecContext, begin, end int) error {
	dampComponents(ec, begin, end, a.V3, a.VLo, a.VHi,
		func(p *Particle) Vec3 { return p.Vel },
		func(p *Particle, v Vec3) { p.Vel = v })
	return nil
}

// RotDamping is Damping applied to rotational velocity.
type RotDamping struct {
	baseFlags
	V3       Vec3
	VLo, VHi float32
}

func (a *RotDamping) Execute(ec *ExecContext, begin, end int) error {
	dampComponents(ec, begin, end, a.V3, a.VLo, a.VHi,
		func(p *Particle) Vec3 { return p.RVel },
		func(p *Particle, v Vec3) { p.RVel = v })
	return nil
}

func dampComponents(ec *ExecContext, begin, end int, v3 Vec3, vLo, vHi float32, get func(*Particle) Vec3, set func(*Particle, Vec3)) {
	scale := Vec3{1 - (1-v3[0])*ec.Dt, 1 - (1-v3[1])*ec.Dt, 1 - (1-v3[2])*ec.Dt}
	for i := begin; i < end; i++ {
		p := ec.Group.At(i)
		v := get(p)
		speed := v.Len()
		if speed < vLo || speed > vHi {
			continue
		}
		set(p, Vec3{v[0] * scale[0], v[1] * scale[1], v[2] * scale[2]})
	}
}

// SpeedClamp rescales non-zero velocity to lie within [VMin, VMax],
// preserving direction.
type SpeedClamp struct {
	baseFlags
	VMin, VMax float32
}

func (a *SpeedClamp) Execute(ec *ExecContext, begin, end int) error {
	for i := begin; i < end; i++ {
		p := ec.Group.At(i)
		speed := p.Vel.Len()
		if speed < 1e-12 {
			continue
		}
		clamped := speed
		if clamped < a.VMin {
			clamped = a.VMin
		}
		if clamped > a.VMax {
			clamped = a.VMax
		}
		if clamped != speed {
			p.Vel = p.Vel.Mul(clamped / speed)
		}
	}
	return nil
}

// TargetColor relaxes color exponentially toward Target: x += (target-x) *
// Scale * dt, component-wise.
type TargetColor struct {
	baseFlags
	Target Vec3
	Scale  Vec3
}

func (a *TargetColor) Execute(ec *ExecContext, begin, end int) error {
	for i := begin; i < end; i++ {
		p := ec.Group.At(i)
		p.Color = relaxComponentwise(p.Color, a.Target, a.Scale, ec.Dt)
	}
	return nil
}

// TargetSize relaxes size exponentially toward Target, component-wise.
type TargetSize struct {
	baseFlags
	Target Vec3
	Scale  Vec3
}

func (a *TargetSize) Execute(ec *ExecContext, begin, end int) error {
	for i := begin; i < end; i++ {
		p := ec.Group.At(i)
		p.Size = relaxComponentwise(p.Size, a.Target, a.Scale, ec.Dt)
	}
	return nil
}

// TargetVelocity relaxes velocity exponentially toward Target (a single
// scalar Scale, not component-wise, since velocity's direction matters).
type TargetVelocity struct {
	baseFlags
	Target Vec3
	Scale  float32
}

func (a *TargetVelocity) Execute(ec *ExecContext, begin, end int) error {
	for i := begin; i < end; i++ {
		p := ec.Group.At(i)
		p.Vel = p.Vel.Add(a.Target.Sub(p.Vel).Mul(a.Scale * ec.Dt))
	}
	return nil
}

// TargetRotVelocity is TargetVelocity applied to rotational velocity.
type TargetRotVelocity struct {
	baseFlags
	Target Vec3
	Scale  float32
}

func (a *TargetRotVelocity) Execute(ec *ExecContext, begin, end int) error {
	for i := begin; i < end; i++ {
		p := ec.Group.At(i)
		p.RVel = p.RVel.Add(a.Target.Sub(p.RVel).Mul(a.Scale * ec.Dt))
	}
	return nil
}

func relaxComponentwise(x, target, scale Vec3, dt float32) Vec3 {
	return Vec3{
		x[0] + (target[0]-x[0])*scale[0]*dt,
		x[1] + (target[1]-x[1])*scale[1]*dt,
		x[2] + (target[2]-x[2])*scale[2]*dt,
	}
}
