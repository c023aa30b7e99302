// Package timing implements the frame-paced ramps used by dialogue playback:
// alpha fades clamped to [0, 1] and the proportional reveal ratio behind the
// typewriter effect.
//
// All ramp functions are pure. The Fade and Reveal types carry the
// accumulated value for one live drawable.
package timing

// InstantRate completes any ramp within a single frame. It is substituted for
// the base rate when the player taps to skip an animation.
const InstantRate = 1_000_000.0

func pick(rate float64, instant bool) float64 {
	if instant {
		return InstantRate
	}
	return rate
}

// FadeIn advances an alpha value toward 1.
func FadeIn(current, dt, rate float64, instant bool) float64 {
	next := current + dt*pick(rate, instant)
	if next > 1 {
		return 1
	}
	if next < 0 {
		return 0
	}
	return next
}

// FadeOut advances an alpha value toward 0.
func FadeOut(current, dt, rate float64, instant bool) float64 {
	next := current - dt*pick(rate, instant)
	if next < 0 {
		return 0
	}
	if next > 1 {
		return 1
	}
	return next
}

// Fade is the alpha accumulator attached to one drawable.
type Fade struct {
	Alpha float64
}

// In ramps the alpha up and returns the new value.
func (f *Fade) In(dt, rate float64, instant bool) float64 {
	f.Alpha = FadeIn(f.Alpha, dt, rate, instant)
	return f.Alpha
}

// Out ramps the alpha down and returns the new value.
func (f *Fade) Out(dt, rate float64, instant bool) float64 {
	f.Alpha = FadeOut(f.Alpha, dt, rate, instant)
	return f.Alpha
}

// Shown reports whether the fade has reached full opacity.
func (f *Fade) Shown() bool { return f.Alpha >= 1 }

// Hidden reports whether the fade has reached full transparency.
func (f *Fade) Hidden() bool { return f.Alpha <= 0 }
