package particle

// Move is the only action that advances position: Pos += Vel*dt when
// MoveVel is set, and Up += RVel*dt when MoveRVel is set. Age always
// advances by dt regardless of either flag.
type Move struct {
	baseFlags
	MoveVel  bool
	MoveRVel bool
}

func (a *Move) Execute(ec *ExecContext, begin, end int) error {
	for i := begin; i < end; i++ {
		p := ec.Group.At(i)
		if a.MoveVel {
			p.Pos = p.Pos.Add(p.Vel.Mul(ec.Dt))
		}
		if a.MoveRVel {
			p.Up = p.Up.Add(p.RVel.Mul(ec.Dt))
		}
		p.Age += ec.Dt
	}
	return nil
}

// CopyVertexB copies the current position and/or velocity into the
// secondary ("B") vertex slot used for motion-blurred rendering.
type CopyVertexB struct {
	baseFlags
	CopyPos bool
	CopyVel bool
}

func (a *CopyVertexB) Execute(ec *ExecContext, begin, end int) error {
	for i := begin; i < end; i++ {
		p := ec.Group.At(i)
		if a.CopyPos {
			p.PosB = p.Pos
		}
		if a.CopyVel {
			p.VelB = p.Vel
		}
	}
	return nil
}

// Restore drives a particle's position and/or orientation back to its
// PosB/UpB snapshot over TimeLeft seconds, along the quadratic
// constant-deceleration curve implied by the particle's current velocity:
// given a displacement d = target-pos and a time-to-arrival t, the unique
// acceleration that lands exactly on target at exactly t while starting
// from the current velocity v0 is a = 2*(d - v0*t)/t^2. Restore advances
// the velocity by a*dt; Move then advances the position as usual. TimeLeft
// is decremented by dt once per call regardless of which of
// RestorePos/RestoreRot is set.
type Restore struct {
	baseFlags
	TimeLeft   float32
	RestorePos bool
	RestoreRot bool
}

func (a *Restore) Execute(ec *ExecContext, begin, end int) error {
	if a.TimeLeft <= 0 {
		for i := begin; i < end; i++ {
			p := ec.Group.At(i)
			if a.RestorePos {
				p.Pos = p.PosB
				p.Vel = Vec3{}
			}
			if a.RestoreRot {
				p.Up = p.UpB
				p.RVel = Vec3{}
			}
		}
		return nil
	}
	for i := begin; i < end; i++ {
		p := ec.Group.At(i)
		if a.RestorePos {
			p.Vel = restoreVelocity(p.Pos, p.PosB, p.Vel, a.TimeLeft, ec.Dt)
		}
		if a.RestoreRot {
			p.RVel = restoreVelocity(p.Up, p.UpB, p.RVel, a.TimeLeft, ec.Dt)
		}
	}
	// A batched segment calls Execute once per working-set window; every
	// window sees the same TimeLeft and the decrement follows the last one.
	if end == ec.Group.Len() {
		a.TimeLeft -= ec.Dt
	}
	return nil
}

// restoreVelocity steps v0 by dt along the constant-acceleration curve
// that, starting from v0 and integrated for timeLeft seconds, lands x
// exactly on target: a = 2*(d - v0*t)/t^2 with d = target - x.
func restoreVelocity(x, target, v0 Vec3, timeLeft, dt float32) Vec3 {
	if timeLeft <= 1e-8 {
		return Vec3{}
	}
	d := target.Sub(x)
	accel := d.Sub(v0.Mul(timeLeft)).Mul(2 / (timeLeft * timeLeft))
	return v0.Add(accel.Mul(dt))
}
