// Package particles implements the fixed-step particle world.
//
// A [World] owns a fixed pool of particles. Each particle has immutable
// [Static] data and two copies of its dynamic [State]: the state after the
// most recent fixed step and the state one step before it. Rendering blends
// the two using the fraction returned by [World.Update]:
//
//	w, _ := particles.New(particles.DefaultConfig())
//	for frame := range ticks {
//	    alpha := w.Update(frame.Delta)
//	    for i := 0; i < w.Len(); i++ {
//	        prev, curr := w.Previous(i), w.Current(i)
//	        // blend prev/curr by alpha
//	    }
//	}
//
// # Time stepping
//
// Update banks the frame delta (clamped to [0, MaxFrameTime]) and spends it
// in whole steps of 1/Rate seconds. Whatever is left over becomes the
// interpolation fraction, always in [0, 1).
//
// # Recycling
//
// A particle whose x exceeds the world width or whose y drops below zero is
// respawned in place at the top edge. Both of its snapshots are overwritten
// in the same step so the next frame does not blend across the screen.
//
// # Thread Safety
//
// A World is NOT thread-safe. The owner drives Update and reads snapshots
// from the same goroutine.
package particles
