package particle

import (
	"sort"

	"github.com/davemc0/particle/perror"
)

// CallbackFn receives a pointer to each particle, the opaque UserData the
// Callback action was constructed with, and the current time step.
type CallbackFn func(p *Particle, userData any, dt float32)

// Callback invokes Fn for every particle, letting callers read or mutate
// arbitrary particle state without a dedicated action. Fn must not resize
// the group.
type Callback struct {
	baseFlags
	Fn       CallbackFn
	UserData any
}

func (a *Callback) Execute(ec *ExecContext, begin, end int) error {
	if a.Fn == nil {
		return nil
	}
	for i := begin; i < end; i++ {
		a.Fn(ec.Group.At(i), a.UserData, ec.Dt)
	}
	return nil
}

// Sort orders the group ascending by its projection onto the Look axis
// from Eye, writing the sort key into Tmp0 and leaving it there for
// inspection or reuse. FrontToBack negates the key so the nearest
// particles sort last, the order a transparency pass wants. ClampNegative
// floors the signed key at zero, a cheap way to keep particles behind Eye
// from interleaving with the front set. Sorting depends on the whole
// group's current order, so it can never be segmented.
type Sort struct {
	wholeGroupFlag
	Eye           Vec3
	Look          Vec3
	FrontToBack   bool
	ClampNegative bool
}

func (a *Sort) Execute(ec *ExecContext, _, _ int) error {
	ps := ec.Group.Particles()
	sign := float32(1)
	if a.FrontToBack {
		sign = -1
	}
	for i := range ps {
		d := sign * ps[i].Pos.Sub(a.Eye).Dot(a.Look)
		if a.ClampNegative && d < 0 {
			d = 0
		}
		ps[i].Tmp0 = d
	}
	sort.Slice(ps, func(i, j int) bool { return ps[i].Tmp0 < ps[j].Tmp0 })
	return nil
}

// maxCallDepth bounds CallActionList recursion; exceeding it is a caller
// bug (a list that calls itself, directly or through a cycle), reported as
// WrongMode rather than allowed to overflow the stack.
const maxCallDepth = 64

// CallActionList recursively invokes another action list against the
// current group, as if its actions were inlined at this point.
type CallActionList struct {
	wholeGroupFlag
	ListHandle int
}

func (a *CallActionList) Execute(ec *ExecContext, _, _ int) error {
	if ec.ctx == nil {
		return perror.New(perror.WrongMode, "CallActionList", "no owning context available")
	}
	return ec.ctx.invokeList(a.ListHandle, ec.Group, ec.Log)
}
