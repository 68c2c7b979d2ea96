package timeline

import "bilingo/internal/narration"

// Segment is one row's audio-visual unit: a still frame held for
// TotalDuration with audio1 at t=0 and audio2 at Audio2Offset.
type Segment struct {
	Index         int
	Slide         string
	Audio1        narration.Asset
	Audio2        narration.Asset
	Duration1     float64
	Duration2     float64
	SentencePause float64
	SlidePause    float64
	Path          string
}

// Audio2Offset is when the second clip starts.
func (s Segment) Audio2Offset() float64 {
	return s.Duration1 + s.SentencePause
}

// TotalDuration is the hold time of the segment.
func (s Segment) TotalDuration() float64 {
	return TotalDuration(s.Duration1, s.Duration2, s.SentencePause, s.SlidePause)
}

// TotalDuration returns d1 + sentencePause + d2 + slidePause.
func TotalDuration(d1, d2, sentencePause, slidePause float64) float64 {
	return d1 + sentencePause + d2 + slidePause
}
