package particle

import "github.com/davemc0/particle/perror"

// This file is the public action API: one method per action, each either
// appended to the list being recorded (inside NewActionList/EndActionList)
// or applied immediately to the whole current group, depending on the
// Context's current mode. See Context.dispatch.

// Source emits new particles at Rate per second from PosDom, with
// attributes drawn from state.
func (c *Context) Source(rate float32, posDom Domain, state SourceState) error {
	if !finite(rate) || rate < 0 {
		return perror.New(perror.InvalidValue, "Source", "rate must be finite and non-negative")
	}
	return c.dispatch(&Source{Rate: rate, PosDom: posDom, State: state})
}

// Vertex emits exactly one particle at a literal position. When recorded
// into a list it is stored as the equivalent Source(1, Point(pos), ...).
func (c *Context) Vertex(pos Vec3, state SourceState, data uint32) error {
	v := &Vertex{Pos: pos, State: state, Data: data}
	if c.inNewList {
		l, err := c.list(c.currentList)
		if err != nil {
			return err
		}
		l.append(v.AsSource())
		return nil
	}
	return c.dispatch(v)
}

// Gravity adds Dir*dt to every particle's velocity.
func (c *Context) Gravity(dir Vec3) error {
	return c.dispatch(&Gravity{Dir: dir})
}

// OrbitPoint pulls particles toward (or, for negative mag, away from) a
// fixed point.
func (c *Context) OrbitPoint(center Vec3, mag, epsilon, rMax float32) error {
	return c.dispatch(&OrbitPoint{Center: center, Mag: mag, Epsilon: epsilon, RMax: rMax})
}

// OrbitLine pulls particles toward the closest point on a line.
func (c *Context) OrbitLine(p, axis Vec3, mag, epsilon, rMax float32) error {
	return c.dispatch(&OrbitLine{P: p, Axis: axis, Mag: mag, Epsilon: epsilon, RMax: rMax})
}

// Explosion applies a Gaussian shock wave at distance radius from center;
// callers advance radius themselves between calls.
func (c *Context) Explosion(center Vec3, radius, mag, sigma, epsilon float32) error {
	return c.dispatch(&Explosion{Center: center, Radius: radius, Mag: mag, Sigma: sigma, Epsilon: epsilon})
}

// Vortex swirls particles inside its silhouette and pulls in particles
// outside it.
func (c *Context) Vortex(tip, axis Vec3, tightness, rMax, inSpeed, upSpeed, aroundSpeed float32) error {
	return c.dispatch(&Vortex{Tip: tip, Axis: axis, Tightness: tightness, RMax: rMax, InSpeed: inSpeed, UpSpeed: upSpeed, AroundSpeed: aroundSpeed})
}

// Jet accelerates particles inside shapeDom by samples drawn from accelDom.
func (c *Context) Jet(shapeDom, accelDom Domain) error {
	return c.dispatch(&Jet{ShapeDom: shapeDom, AccelDom: accelDom})
}

// RandomAccel adds a fresh sample from dom to velocity every step.
func (c *Context) RandomAccel(dom Domain) error {
	return c.dispatch(&RandomAccel{Dom: dom})
}

// RandomDisplace adds a fresh sample from dom to position every step.
func (c *Context) RandomDisplace(dom Domain) error {
	return c.dispatch(&RandomDisplace{Dom: dom})
}

// RandomVelocity replaces velocity with a fresh sample from dom.
func (c *Context) RandomVelocity(dom Domain) error {
	return c.dispatch(&RandomVelocity{Dom: dom})
}

// RandomRotVelocity replaces rotational velocity with a fresh sample from
// dom.
func (c *Context) RandomRotVelocity(dom Domain) error {
	return c.dispatch(&RandomRotVelocity{Dom: dom})
}

// Gravitate applies Newtonian pairwise attraction between every particle.
func (c *Context) Gravitate(mag, epsilon, rMax float32) error {
	return c.dispatch(&Gravitate{Mag: mag, Epsilon: epsilon, RMax: rMax})
}

// Follow attracts each particle toward its successor in the group's
// current order.
func (c *Context) Follow(mag, epsilon, rMax float32) error {
	return c.dispatch(&Follow{Mag: mag, Epsilon: epsilon, RMax: rMax})
}

// MatchVelocity nudges velocity toward the neighborhood average.
func (c *Context) MatchVelocity(mag, epsilon, rMax float32) error {
	return c.dispatch(&MatchVelocity{Mag: mag, Epsilon: epsilon, RMax: rMax})
}

// MatchRotVelocity nudges rotational velocity toward the neighborhood
// average.
func (c *Context) MatchRotVelocity(mag, epsilon, rMax float32) error {
	return c.dispatch(&MatchRotVelocity{Mag: mag, Epsilon: epsilon, RMax: rMax})
}

// Damping scales velocity components toward v3, gated by speed in
// [vLo, vHi].
func (c *Context) Damping(v3 Vec3, vLo, vHi float32) error {
	return c.dispatch(&Damping{V3: v3, VLo: vLo, VHi: vHi})
}

// RotDamping is Damping applied to rotational velocity.
func (c *Context) RotDamping(v3 Vec3, vLo, vHi float32) error {
	return c.dispatch(&RotDamping{V3: v3, VLo: vLo, VHi: vHi})
}

// SpeedClamp rescales velocity magnitude into [vMin, vMax].
func (c *Context) SpeedClamp(vMin, vMax float32) error {
	return c.dispatch(&SpeedClamp{VMin: vMin, VMax: vMax})
}

// TargetColor relaxes color toward target.
func (c *Context) TargetColor(target, scale Vec3) error {
	return c.dispatch(&TargetColor{Target: target, Scale: scale})
}

// TargetSize relaxes size toward target.
func (c *Context) TargetSize(target, scale Vec3) error {
	return c.dispatch(&TargetSize{Target: target, Scale: scale})
}

// TargetVelocity relaxes velocity toward target.
func (c *Context) TargetVelocity(target Vec3, scale float32) error {
	return c.dispatch(&TargetVelocity{Target: target, Scale: scale})
}

// TargetRotVelocity relaxes rotational velocity toward target.
func (c *Context) TargetRotVelocity(target Vec3, scale float32) error {
	return c.dispatch(&TargetRotVelocity{Target: target, Scale: scale})
}

// Avoid steers particles away from dom before they reach it.
func (c *Context) Avoid(dom Domain, mag, epsilon, lookAhead float32) error {
	return c.dispatch(&Avoid{Dom: dom, Mag: mag, Epsilon: epsilon, LookAhead: lookAhead})
}

// Bounce reflects velocity off dom's surface.
func (c *Context) Bounce(friction, resilience, fricMinVel float32, dom Domain) error {
	return c.dispatch(&Bounce{Friction: friction, Resilience: resilience, FricMinVel: fricMinVel, Dom: dom})
}

// Move is the only action that advances position and age.
func (c *Context) Move(moveVel, moveRVel bool) error {
	return c.dispatch(&Move{MoveVel: moveVel, MoveRVel: moveRVel})
}

// CopyVertexB snapshots position and/or velocity into the B slot.
func (c *Context) CopyVertexB(copyPos, copyVel bool) error {
	return c.dispatch(&CopyVertexB{CopyPos: copyPos, CopyVel: copyVel})
}

// Restore eases position and/or orientation back toward their B slot over
// timeLeft seconds.
func (c *Context) Restore(timeLeft float32, restorePos, restoreRot bool) error {
	return c.dispatch(&Restore{TimeLeft: timeLeft, RestorePos: restorePos, RestoreRot: restoreRot})
}

// KillOld removes particles whose age crosses ageLimit.
func (c *Context) KillOld(ageLimit float32, killLessThan bool) error {
	return c.dispatch(&KillOld{AgeLimit: ageLimit, KillLessThan: killLessThan})
}

// Sink removes particles inside (or outside) dom.
func (c *Context) Sink(killInside bool, dom Domain) error {
	return c.dispatch(&Sink{KillInside: killInside, Dom: dom})
}

// SinkVelocity removes particles whose velocity lies inside (or outside)
// velDom.
func (c *Context) SinkVelocity(killInside bool, velDom Domain) error {
	return c.dispatch(&SinkVelocity{KillInside: killInside, VelDom: velDom})
}

// Callback invokes fn for every particle.
func (c *Context) Callback(fn CallbackFn, userData any) error {
	return c.dispatch(&Callback{Fn: fn, UserData: userData})
}

// Sort orders the group by distance from eye along look.
func (c *Context) Sort(eye, look Vec3, frontToBack, clampNegative bool) error {
	return c.dispatch(&Sort{Eye: eye, Look: look, FrontToBack: frontToBack, ClampNegative: clampNegative})
}

// CallActionListAction records (or immediately performs) a recursive call
// to another list. Named distinctly from the Context.CallActionList method
// (which runs a list against the current group directly) since both are
// part of the public surface.
func (c *Context) CallActionListAction(listHandle int) error {
	return c.dispatch(&CallActionList{ListHandle: listHandle})
}
