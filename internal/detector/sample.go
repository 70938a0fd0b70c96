package detector

// HandSample is either a complete set of 21 valid landmarks for one hand or
// absent. Partial detector output never becomes a present sample, so code
// downstream of NewHandSample never has to re-check individual points.
type HandSample struct {
	points  [NumLandmarks]Landmark
	present bool
}

// NoHand returns the absent sample.
func NoHand() HandSample {
	return HandSample{}
}

// NewHandSample validates points once at the boundary. It needs at least
// NumLandmarks entries, every one of the first NumLandmarks valid; extra
// trailing points are ignored. On failure it returns NoHand and false.
func NewHandSample(points []Landmark) (HandSample, bool) {
	if len(points) < NumLandmarks {
		return NoHand(), false
	}

	var s HandSample
	for i := 0; i < NumLandmarks; i++ {
		if !points[i].Valid() {
			return NoHand(), false
		}
		s.points[i] = points[i]
	}
	s.present = true
	return s, true
}

// Present reports whether the sample holds a hand.
func (s HandSample) Present() bool {
	return s.present
}

// Point returns landmark i. For an absent sample or an out-of-range index it
// returns Missing.
func (s HandSample) Point(i int) Landmark {
	if !s.present || i < 0 || i >= NumLandmarks {
		return Missing
	}
	return s.points[i]
}

// Points returns a copy of all landmarks, or nil for an absent sample.
func (s HandSample) Points() []Landmark {
	if !s.present {
		return nil
	}
	out := make([]Landmark, NumLandmarks)
	copy(out, s.points[:])
	return out
}
