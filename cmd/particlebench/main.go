// Command particlebench runs a small fountain-and-gravity simulation for a
// fixed number of steps and reports steady-state particle counts. It is a
// smoke test and a rough demo of the segmentation scheduler's behavior
// under different working-set sizes.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/muesli/termenv"

	"github.com/davemc0/particle"
	"github.com/davemc0/particle/pdomain"
)

func main() {
	steps := flag.Int("steps", 500, "number of simulation steps to run")
	maxParticles := flag.Int("max", 60000, "group capacity")
	seed := flag.Uint("seed", 1, "PRNG seed")
	workingSet := flag.Int("working-set", 256*1024, "scheduler working-set size in bytes")
	flag.Parse()

	out := termenv.NewOutput(os.Stdout)

	ctx := particle.New(
		particle.WithSeed(uint32(*seed)),
		particle.WithWorkingSetBytes(*workingSet),
	)
	ctx.SetTimeStep(1.0 / 30.0)

	handles, err := ctx.GenParticleGroups(*maxParticles, 1)
	if err != nil {
		fatal(out, err)
	}
	groupHandle := handles[0]
	if err := ctx.SetCurrentGroup(groupHandle); err != nil {
		fatal(out, err)
	}

	origin, err := pdomain.NewSphere(particle.Vec3{0, 0, 0}, 0.25, 0)
	if err != nil {
		fatal(out, err)
	}

	state := particle.NewSourceState()
	state.VelPoint(particle.Vec3{0, 8, 0})
	state.StartingAge(0, 0.3)

	for i := 0; i < *steps; i++ {
		if err := ctx.Source(400, origin, state); err != nil {
			fatal(out, err)
		}
		if err := ctx.Gravity(particle.Vec3{0, -9.8, 0}); err != nil {
			fatal(out, err)
		}
		if err := ctx.Move(true, true); err != nil {
			fatal(out, err)
		}
		if err := ctx.KillOld(8, false); err != nil {
			fatal(out, err)
		}

		if i%50 == 0 {
			capacity, err := ctx.GetMaxParticles(groupHandle)
			if err != nil {
				fatal(out, err)
			}
			live, err := ctx.Particles(groupHandle)
			if err != nil {
				fatal(out, err)
			}
			line := fmt.Sprintf("step=%4d live=%5d cap=%5d", i, len(live), capacity)
			fmt.Println(out.String(line).Foreground(termenv.ANSIGreen))
		}
	}
}

func fatal(out *termenv.Output, err error) {
	fmt.Fprintln(os.Stderr, out.String(err.Error()).Foreground(termenv.ANSIRed))
	os.Exit(1)
}
