// Package anim drives the page's two animations: the scan progress waveform
// and the text reveal (typewriter and scramble).
//
// Both are pure functions of explicit state. The waveform is recomputed
// from elapsed time on every frame; a reveal Sequence is stepped by Advance.
// Play and Stage add the timers, one per playing sequence, and guarantee
// that a cancelled, retriggered or torn down sequence renders nothing more.
package anim
