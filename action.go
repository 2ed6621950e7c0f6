package particle

import "github.com/davemc0/particle/pvec"

// ExecContext carries everything an Action needs to run one call:
// the group window it acts on, the time step, a PRNG, a logger, and (for
// CallActionList) a way to recurse into the owning Context.
type ExecContext struct {
	Group *Group
	Dt    float32
	Rng   *pvec.Rng
	Log   Logger

	ctx *Context
}

// Action is one unit of behavior applied to all (or a working-set window
// of) particles in one step. KillsParticles and DoNotSegment are declared
// per action, not inferred from its type at the call site: each action
// literally returns its own flags.
type Action interface {
	// Execute applies the action to particles in [begin, end) of
	// ec.Group. Implementations that kill particles or that are
	// DoNotSegment are always called with begin==0, end==ec.Group.Len()
	// by the scheduler; the DoNotSegment actions (Source, Vertex, Sort,
	// the neighbor actions, CallActionList) ignore begin and end and act
	// on the whole group.
	Execute(ec *ExecContext, begin, end int) error

	// KillsParticles reports whether the action may remove particles. A
	// killing action runs alone on the whole group and may not share a
	// working-set sub-pass with non-killing actions.
	KillsParticles() bool

	// DoNotSegment reports whether the action's effect on particle i
	// depends on other particles or on the group's current length, and
	// so must run on the whole group in one call.
	DoNotSegment() bool
}

// baseFlags is embedded by actions that don't kill and don't need the
// whole group, which is most of them; it satisfies the two flag methods so
// each action type only needs to declare the exception.
type baseFlags struct{}

func (baseFlags) KillsParticles() bool { return false }
func (baseFlags) DoNotSegment() bool   { return false }

// killsFlag is embedded by actions that remove particles: Sink,
// SinkVelocity, KillOld.
type killsFlag struct{}

func (killsFlag) KillsParticles() bool { return true }
func (killsFlag) DoNotSegment() bool   { return true } // a whole-group pass is required anyway

// wholeGroupFlag is embedded by O(n^2) neighbor actions and Source/Sort,
// whose effect on particle i depends on the rest of the group.
type wholeGroupFlag struct{}

func (wholeGroupFlag) KillsParticles() bool { return false }
func (wholeGroupFlag) DoNotSegment() bool   { return true }
