package particle

import (
	"github.com/chewxy/math32"
	"github.com/google/uuid"

	"github.com/davemc0/particle/perror"
	"github.com/davemc0/particle/pvec"
)

// defaultWorkingSetBytes approximates a modern L2 slice; it only needs to
// be in the right ballpark since it just governs batching granularity.
const defaultWorkingSetBytes = 256 * 1024

// Context owns a set of particle groups and action lists and is the entry
// point for every simulation operation. A Context is not safe for
// concurrent use from multiple goroutines; run independent simulations in
// independent Contexts instead of sharing one.
type Context struct {
	id  uuid.UUID
	log Logger
	rng *pvec.Rng

	dt              float32
	workingSetBytes int

	groups       []*Group
	groupFree    []int
	currentGroup int

	lists       []*ActionList
	listFree    []int
	currentList int
	inNewList   bool

	callDepth int
}

// New creates a Context ready for use, with default logging, a
// default-seeded PRNG, and the default working-set size.
func New(opts ...Option) *Context {
	c := &Context{
		id:              uuid.New(),
		log:             NewNopLogger(),
		rng:             pvec.NewRng(0),
		dt:              1,
		workingSetBytes: defaultWorkingSetBytes,
		currentGroup:    -1,
		currentList:     -1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ID returns the Context's run identifier, used to disambiguate log output
// across concurrently running simulations.
func (c *Context) ID() uuid.UUID { return c.id }

// Seed reseeds the Context's PRNG deterministically.
func (c *Context) Seed(seed uint32) { c.rng.Seed(seed) }

// SetTimeStep sets the dt used by every subsequent immediate action call
// and by CallActionList.
func (c *Context) SetTimeStep(dt float32) { c.dt = dt }

// GetTimeStep returns the current dt.
func (c *Context) GetTimeStep() float32 { return c.dt }

// SetWorkingSetSize sets the approximate byte budget the segmentation
// scheduler uses to size its per-window particle batches.
func (c *Context) SetWorkingSetSize(bytes int) {
	if bytes < particleSize {
		bytes = particleSize
	}
	c.workingSetBytes = bytes
}

// ---- particle groups ----

// GenParticleGroups allocates count new, empty groups each with the given
// capacity and returns their handles. Handles are reused after deletion, so
// callers must not assume they're ever-increasing.
func (c *Context) GenParticleGroups(capacity, count int) ([]int, error) {
	if capacity < 0 || count < 0 {
		return nil, perror.New(perror.InvalidValue, "GenParticleGroups", "capacity and count must be non-negative")
	}
	handles := make([]int, 0, count)
	for i := 0; i < count; i++ {
		g := newGroup(capacity)
		var h int
		if n := len(c.groupFree); n > 0 {
			h = c.groupFree[n-1]
			c.groupFree = c.groupFree[:n-1]
			c.groups[h] = g
		} else {
			h = len(c.groups)
			c.groups = append(c.groups, g)
		}
		handles = append(handles, h)
		if c.currentGroup < 0 {
			c.currentGroup = h
		}
	}
	return handles, nil
}

func (c *Context) group(handle int) (*Group, error) {
	if handle < 0 || handle >= len(c.groups) || c.groups[handle] == nil {
		return nil, perror.New(perror.BadHandle, "group", "unknown or deleted group handle")
	}
	return c.groups[handle], nil
}

// DeleteParticleGroups frees groups and makes their handles available for
// reuse. Deleting the current group leaves GetCurrentGroup pointing at a
// now-invalid handle until SetCurrentGroup is called again.
func (c *Context) DeleteParticleGroups(handles ...int) error {
	for _, h := range handles {
		if _, err := c.group(h); err != nil {
			return err
		}
		c.groups[h] = nil
		c.groupFree = append(c.groupFree, h)
	}
	return nil
}

// SetCurrentGroup selects the group that immediate-mode action calls and
// CallActionList act on.
func (c *Context) SetCurrentGroup(handle int) error {
	if _, err := c.group(handle); err != nil {
		return err
	}
	c.currentGroup = handle
	return nil
}

// GetCurrentGroup returns the handle of the currently selected group, or -1
// if none is selected.
func (c *Context) GetCurrentGroup() int { return c.currentGroup }

// GetGroupCount returns the number of live (non-deleted) groups.
func (c *Context) GetGroupCount() int {
	n := 0
	for _, g := range c.groups {
		if g != nil {
			n++
		}
	}
	return n
}

// SetMaxParticles resizes a group's capacity, firing death callbacks for
// any particles truncated off the end.
func (c *Context) SetMaxParticles(handle, max int) error {
	g, err := c.group(handle)
	if err != nil {
		return err
	}
	if max < 0 {
		return perror.New(perror.InvalidValue, "SetMaxParticles", "capacity must be non-negative")
	}
	g.SetCapacity(max)
	return nil
}

// GetMaxParticles returns a group's capacity.
func (c *Context) GetMaxParticles(handle int) (int, error) {
	g, err := c.group(handle)
	if err != nil {
		return 0, err
	}
	return g.Capacity(), nil
}

// CopyGroup appends up to count particles from src, starting at start, onto
// the end of the current group, firing the destination's birth callbacks.
// It returns how many were actually copied (it stops early at the current
// group's capacity).
func (c *Context) CopyGroup(src, start, count int) (int, error) {
	if start < 0 || count < 0 {
		return 0, perror.New(perror.InvalidValue, "CopyGroup", "start and count must be non-negative")
	}
	srcG, err := c.group(src)
	if err != nil {
		return 0, err
	}
	dstG, err := c.group(c.currentGroup)
	if err != nil {
		return 0, perror.New(perror.WrongMode, "CopyGroup", "no current group selected")
	}
	return dstG.copyFrom(srcG, start, count), nil
}

// Particles returns a live slice of a group's particles; mutating it
// mutates the simulation directly. Callers must not resize the group while
// holding it.
func (c *Context) Particles(handle int) ([]Particle, error) {
	g, err := c.group(handle)
	if err != nil {
		return nil, err
	}
	return g.Particles(), nil
}

// Channels selects which attribute channels GetParticles copies out. A nil
// slice skips that channel; a non-nil slice must hold floatsPerParticle *
// count floats: 3 for Pos/Vel/Size, 4 for Color (RGB plus the adjacent
// Alpha), and 1 for Age.
type Channels struct {
	Pos   []float32
	Color []float32
	Vel   []float32
	Size  []float32
	Age   []float32
}

// GetParticles bulk-copies up to count particles' selected attribute
// channels, starting at start, into the caller's buffers, returning the
// number of particles copied.
func (c *Context) GetParticles(handle, start, count int, out Channels) (int, error) {
	g, err := c.group(handle)
	if err != nil {
		return 0, err
	}
	if start < 0 || count < 0 {
		return 0, perror.New(perror.InvalidValue, "GetParticles", "start and count must be non-negative")
	}
	if start >= g.Len() {
		return 0, nil
	}
	if start+count > g.Len() {
		count = g.Len() - start
	}
	if (out.Pos != nil && len(out.Pos) < 3*count) ||
		(out.Color != nil && len(out.Color) < 4*count) ||
		(out.Vel != nil && len(out.Vel) < 3*count) ||
		(out.Size != nil && len(out.Size) < 3*count) ||
		(out.Age != nil && len(out.Age) < count) {
		return 0, perror.New(perror.InvalidValue, "GetParticles", "output buffer too small for requested count")
	}
	ps := g.Particles()
	for i := 0; i < count; i++ {
		p := &ps[start+i]
		if out.Pos != nil {
			copy(out.Pos[3*i:], p.Pos[:])
		}
		if out.Color != nil {
			copy(out.Color[4*i:], p.Color[:])
			out.Color[4*i+3] = p.Alpha
		}
		if out.Vel != nil {
			copy(out.Vel[3*i:], p.Vel[:])
		}
		if out.Size != nil {
			copy(out.Size[3*i:], p.Size[:])
		}
		if out.Age != nil {
			out.Age[i] = p.Age
		}
	}
	return count, nil
}

// ParticleView is the zero-copy vertex-array view GetParticlePointer
// returns: the group's live backing slice plus the float stride between
// consecutive particles and the float offset of each renderable attribute
// within a record. Writing through the view mutates the simulation; the
// caller must not resize the group while holding it.
type ParticleView struct {
	Particles []Particle

	// FloatStride is the number of float32 slots from one particle's Pos
	// to the next particle's Pos.
	FloatStride int

	PosOffset   int
	UpOffset    int
	VelOffset   int
	SizeOffset  int
	ColorOffset int // Alpha is at ColorOffset+3, making a 4-float RGBA read valid
	AgeOffset   int
}

// GetParticlePointer returns a ParticleView over the group's backing
// array. An empty group has no array to view, so this is WrongMode, per
// the documented error contract.
func (c *Context) GetParticlePointer(handle int) (ParticleView, error) {
	g, err := c.group(handle)
	if err != nil {
		return ParticleView{}, err
	}
	if g.Len() == 0 {
		return ParticleView{}, perror.New(perror.WrongMode, "GetParticlePointer", "group is empty")
	}
	return ParticleView{
		Particles:   g.Particles(),
		FloatStride: particleSize / 4,
		PosOffset:   0,
		UpOffset:    6,
		VelOffset:   12,
		SizeOffset:  21,
		ColorOffset: 24,
		AgeOffset:   28,
	}, nil
}

// SetBirthCallback installs cb to be called whenever a particle is added to
// the group, with userData passed through unchanged.
func (c *Context) SetBirthCallback(handle int, cb BirthCallback, userData any) error {
	g, err := c.group(handle)
	if err != nil {
		return err
	}
	g.SetBirthCallback(cb, userData)
	return nil
}

// SetDeathCallback installs cb to be called whenever a particle is removed
// from the group, with userData passed through unchanged.
func (c *Context) SetDeathCallback(handle int, cb DeathCallback, userData any) error {
	g, err := c.group(handle)
	if err != nil {
		return err
	}
	g.SetDeathCallback(cb, userData)
	return nil
}

// ---- action lists ----

// GenActionLists allocates count empty list handles. Not legal while a
// list is being recorded.
func (c *Context) GenActionLists(count int) ([]int, error) {
	if c.inNewList {
		return nil, perror.New(perror.WrongMode, "GenActionLists", "cannot allocate lists while recording one")
	}
	if count < 0 {
		return nil, perror.New(perror.InvalidValue, "GenActionLists", "count must be non-negative")
	}
	handles := make([]int, 0, count)
	for i := 0; i < count; i++ {
		l := newActionList()
		var h int
		if n := len(c.listFree); n > 0 {
			h = c.listFree[n-1]
			c.listFree = c.listFree[:n-1]
			c.lists[h] = l
		} else {
			h = len(c.lists)
			c.lists = append(c.lists, l)
		}
		handles = append(handles, h)
	}
	return handles, nil
}

func (c *Context) list(handle int) (*ActionList, error) {
	if handle < 0 || handle >= len(c.lists) || c.lists[handle] == nil {
		return nil, perror.New(perror.BadHandle, "list", "unknown or deleted action list handle")
	}
	return c.lists[handle], nil
}

// NewActionList switches the Context into recording mode: every subsequent
// action method call appends to handle's list instead of executing
// immediately, until EndActionList.
func (c *Context) NewActionList(handle int) error {
	if _, err := c.list(handle); err != nil {
		return err
	}
	if c.inNewList {
		return perror.New(perror.WrongMode, "NewActionList", "already recording a list")
	}
	c.currentList = handle
	c.lists[handle].actions = nil
	c.lists[handle].kind = BindingInternal
	c.lists[handle].fn = nil
	c.inNewList = true
	return nil
}

// EndActionList leaves recording mode.
func (c *Context) EndActionList() error {
	if !c.inNewList {
		return perror.New(perror.WrongMode, "EndActionList", "not recording a list")
	}
	c.inNewList = false
	return nil
}

// DeleteActionLists frees lists and makes their handles available for
// reuse.
func (c *Context) DeleteActionLists(handles ...int) error {
	for _, h := range handles {
		if _, err := c.list(h); err != nil {
			return err
		}
		c.lists[h] = nil
		c.listFree = append(c.listFree, h)
	}
	return nil
}

// BindEmittedActionList associates a pre-compiled function with a list:
// after binding, CallActionList dispatches to fn instead of interpreting
// the recorded actions. kind says how fn was produced (CPU- or
// GPU-compiled); passing BindingInternal unbinds and restores normal
// interpretation.
func (c *Context) BindEmittedActionList(handle int, fn CompiledFn, kind BindingKind) error {
	l, err := c.list(handle)
	if err != nil {
		return err
	}
	if kind == BindingInternal {
		l.kind = BindingInternal
		l.fn = nil
		return nil
	}
	if kind != BindingCompiledCPU && kind != BindingCompiledGPU {
		return perror.New(perror.InvalidValue, "BindEmittedActionList", "unknown binding kind")
	}
	if fn == nil {
		return perror.New(perror.InvalidValue, "BindEmittedActionList", "nil function for a compiled binding")
	}
	l.kind = kind
	l.fn = fn
	if c.log.DebugEnabled() {
		c.log.Debugf("ctx %s: list %d bound (kind %d)", c.id, handle, kind)
	}
	return nil
}

// CallActionList runs a list's recorded actions against the current group.
func (c *Context) CallActionList(handle int) error {
	if c.currentGroup < 0 {
		return perror.New(perror.WrongMode, "CallActionList", "no current group selected")
	}
	g, err := c.group(c.currentGroup)
	if err != nil {
		return err
	}
	if c.log.DebugEnabled() {
		c.log.Debugf("ctx %s: CallActionList(%d) on group %d (%d particles)", c.id, handle, c.currentGroup, g.Len())
	}
	return c.invokeList(handle, g, c.log)
}

// invokeList is the shared implementation behind the top-level
// CallActionList method and the CallActionList action (which lets a list
// invoke another list from within a segmented run).
func (c *Context) invokeList(handle int, g *Group, log Logger) error {
	if c.callDepth >= maxCallDepth {
		return perror.New(perror.WrongMode, "CallActionList", "maximum action-list call depth exceeded")
	}
	l, err := c.list(handle)
	if err != nil {
		return err
	}
	c.callDepth++
	defer func() { c.callDepth-- }()

	ec := &ExecContext{Group: g, Dt: c.dt, Rng: c.rng, Log: log, ctx: c}
	if l.bound() {
		// A re-entrant internal run (CallActionList action inside the
		// compiled function's own list) must not re-dispatch to fn, so the
		// binding is stashed for the duration and restored on return.
		prevKind, prevFn := l.kind, l.fn
		l.kind, l.fn = BindingInternal, nil
		defer func() { l.kind, l.fn = prevKind, prevFn }()
		prevFn(l, g, c.dt, particlesPerWindow(c.workingSetBytes))
		return nil
	}
	return runActionList(ec, l.actions, c.workingSetBytes)
}

// dispatch either records a into the list currently being built, or runs
// it immediately against the current group, per whichever mode the
// Context is in. Every exported per-action method (Gravity, Source, Move,
// ...) funnels through this.
func (c *Context) dispatch(a Action) error {
	if c.inNewList {
		l, err := c.list(c.currentList)
		if err != nil {
			return err
		}
		l.append(a)
		return nil
	}
	if c.currentGroup < 0 {
		return perror.New(perror.WrongMode, "dispatch", "no current group selected")
	}
	g, err := c.group(c.currentGroup)
	if err != nil {
		return err
	}
	ec := &ExecContext{Group: g, Dt: c.dt, Rng: c.rng, Log: c.log, ctx: c}
	return runActionList(ec, []Action{a}, c.workingSetBytes)
}

// finite reports whether every argument is a finite float32, the
// precondition behind the InvalidValue-on-NaN contract.
func finite(xs ...float32) bool {
	for _, x := range xs {
		if math32.IsNaN(x) || math32.IsInf(x, 0) {
			return false
		}
	}
	return true
}
