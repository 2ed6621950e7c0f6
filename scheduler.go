package particle

// segment is either a solo pass (an action that kills particles or whose
// effect depends on the whole group, run once against [0, Len())), or a
// batch of ordinary actions run together across successive working-set
// windows so each window's particle data stays hot in cache across every
// action in the batch before the next window is touched.
type segment struct {
	actions []Action
	solo    bool
}

// buildSegments groups a flat action list into segments: a run of
// consecutive actions that neither kill particles nor require the whole
// group becomes one batched segment; any action that does either of those
// runs alone as its own segment.
func buildSegments(actions []Action) []segment {
	var segs []segment
	var batch []Action
	flush := func() {
		if len(batch) > 0 {
			segs = append(segs, segment{actions: batch})
			batch = nil
		}
	}
	for _, a := range actions {
		if a.KillsParticles() || a.DoNotSegment() {
			flush()
			segs = append(segs, segment{actions: []Action{a}, solo: true})
			continue
		}
		batch = append(batch, a)
	}
	flush()
	return segs
}

// minParticlesPerWindow keeps the scheduler from degenerating to zero-sized
// windows when workingSetBytes is smaller than a single particle.
const minParticlesPerWindow = 1

func particlesPerWindow(workingSetBytes int) int {
	n := workingSetBytes / particleSize
	if n < minParticlesPerWindow {
		return minParticlesPerWindow
	}
	return n
}

// runActionList executes actions against group using the segmentation
// scheduler. A batched segment keeps each working-set window of particles
// resident in cache across every action in the segment before the next
// window is touched, amortizing memory traffic.
func runActionList(ec *ExecContext, actions []Action, workingSetBytes int) error {
	if err := assertInternal(ec.Group != nil, "runActionList", "nil group in execution context"); err != nil {
		return err
	}
	windowSize := particlesPerWindow(workingSetBytes)
	segs := buildSegments(actions)
	if ec.Log.DebugEnabled() && len(actions) > 1 {
		ec.Log.Debugf("scheduler: %d actions in %d segments, window %d particles", len(actions), len(segs), windowSize)
	}
	for _, seg := range segs {
		if seg.solo {
			if err := seg.actions[0].Execute(ec, 0, ec.Group.Len()); err != nil {
				return err
			}
			continue
		}
		for start := 0; start < ec.Group.Len(); start += windowSize {
			end := start + windowSize
			if end > ec.Group.Len() {
				end = ec.Group.Len()
			}
			for _, a := range seg.actions {
				if err := a.Execute(ec, start, end); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
