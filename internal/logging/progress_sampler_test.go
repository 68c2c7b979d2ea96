package logging

import "testing"

func TestNewProgressSamplerDefaults(t *testing.T) {
	for _, size := range []float64{0, -3} {
		s := NewProgressSampler(size)
		if s.bucketSize != 10 {
			t.Fatalf("bucketSize for %v = %v, want 10", size, s.bucketSize)
		}
		if s.lastBucket != -1 {
			t.Fatalf("lastBucket = %d, want -1", s.lastBucket)
		}
	}
}

func TestProgressSamplerNil(t *testing.T) {
	var s *ProgressSampler
	if !s.ShouldLog(50, "generate") {
		t.Fatal("nil sampler should always log")
	}
	s.Reset()
}

func TestProgressSamplerBuckets(t *testing.T) {
	s := NewProgressSampler(25)
	steps := []struct {
		percent float64
		want    bool
	}{
		{0, true},
		{10, false},
		{25, true},
		{40, false},
		{50, true},
		{100, true},
		{120, false},
	}
	for _, step := range steps {
		if got := s.ShouldLog(step.percent, "generate"); got != step.want {
			t.Fatalf("ShouldLog(%v) = %v, want %v", step.percent, got, step.want)
		}
	}
}

func TestProgressSamplerStageChangeResetsBucket(t *testing.T) {
	s := NewProgressSampler(10)
	s.ShouldLog(90, "slides")
	if !s.ShouldLog(0, "  concat  ") {
		t.Fatal("stage change should log")
	}
	if s.lastStage != "concat" {
		t.Fatalf("lastStage = %q, want trimmed value", s.lastStage)
	}
	if s.ShouldLog(-1, "concat") {
		t.Fatal("unknown percent on the same stage should not log")
	}
	s.Reset()
	if !s.ShouldLog(0, "concat") {
		t.Fatal("reset sampler should log again")
	}
}
