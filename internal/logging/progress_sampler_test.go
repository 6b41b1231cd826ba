package logging

import "testing"

func TestNewProgressSampler(t *testing.T) {
	tests := []struct {
		name     string
		interval int64
		want     int64
	}{
		{"default for zero", 0, DefaultProgressInterval},
		{"default for negative", -1, DefaultProgressInterval},
		{"custom interval", 1000, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewProgressSampler(tt.interval)
			if s.interval != tt.want {
				t.Errorf("interval = %d, want %d", s.interval, tt.want)
			}
			if s.lastBucket != -1 {
				t.Errorf("lastBucket = %d, want -1", s.lastBucket)
			}
		})
	}
}

func TestProgressSampler_NilSampler(t *testing.T) {
	var s *ProgressSampler
	if !s.ShouldLog(50, "a.mrc") {
		t.Error("ShouldLog on nil sampler should always return true")
	}
	s.Reset()
}

func TestProgressSampler_Intervals(t *testing.T) {
	s := NewProgressSampler(100)

	if !s.ShouldLog(0, "a.mrc") {
		t.Error("first call should log")
	}
	if s.ShouldLog(99, "a.mrc") {
		t.Error("99 should not log (same bucket)")
	}
	if !s.ShouldLog(100, "a.mrc") {
		t.Error("100 should log (new bucket)")
	}
	if s.ShouldLog(150, "a.mrc") {
		t.Error("150 should not log (same bucket)")
	}
	if !s.ShouldLog(420, "a.mrc") {
		t.Error("420 should log after skipping buckets")
	}
}

func TestProgressSampler_SourceChange(t *testing.T) {
	s := NewProgressSampler(100)
	s.ShouldLog(250, "a.mrc")

	if !s.ShouldLog(10, "  b.mrc  ") {
		t.Error("new source should log")
	}
	if s.lastSource != "b.mrc" {
		t.Errorf("lastSource = %q, want trimmed b.mrc", s.lastSource)
	}
	if s.ShouldLog(20, "b.mrc") {
		t.Error("same bucket after source change should not log")
	}
}

func TestProgressSampler_Reset(t *testing.T) {
	s := NewProgressSampler(100)
	s.ShouldLog(50, "a.mrc")
	s.Reset()

	if s.lastSource != "" || s.lastBucket != -1 {
		t.Errorf("state after reset = %q/%d", s.lastSource, s.lastBucket)
	}
	if !s.ShouldLog(50, "a.mrc") {
		t.Error("should log after reset")
	}
}
