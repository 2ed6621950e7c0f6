package particle

// BindingKind distinguishes how an ActionList is executed.
type BindingKind int

const (
	// BindingInternal runs the list's actions one by one through the
	// scheduler, the default for every list built with NewActionList.
	// Passing BindingInternal to BindEmittedActionList unbinds a
	// previously bound function.
	BindingInternal BindingKind = iota
	// BindingCompiledCPU runs a caller-supplied CompiledFn compiled for
	// the host CPU instead of the recorded action slice.
	BindingCompiledCPU
	// BindingCompiledGPU is the same dispatch path for a kernel that runs
	// on a device; the engine treats it identically and leaves device
	// memory management to the caller.
	BindingCompiledGPU
)

// CompiledFn is a caller-supplied replacement for a list's normal
// segmentation-scheduled execution. The engine passes the list whose
// actions the function replaces, the group to act on, the current dt, and
// the block size (particles per working-set window) the scheduler would
// have used, so a compiled kernel can tile the same way.
type CompiledFn func(list *ActionList, group *Group, dt float32, blockSize int)

// ActionList is a handle's worth of recorded actions, executed in order
// against the current group each time CallActionList runs it (or applied
// immediately as each action method is called, outside of NewActionList's
// recording mode).
type ActionList struct {
	actions []Action
	kind    BindingKind
	fn      CompiledFn
}

func newActionList() *ActionList {
	return &ActionList{kind: BindingInternal}
}

func (l *ActionList) append(a Action) {
	l.actions = append(l.actions, a)
}

func (l *ActionList) bound() bool { return l.kind != BindingInternal && l.fn != nil }
