package logging

import "strings"

// DefaultProgressInterval is the record count between progress lines.
const DefaultProgressInterval = 100_000

// ProgressSampler suppresses repetitive progress logs for streams whose total
// size is unknown. It emits when the count crosses an interval boundary or
// when the source changes.
type ProgressSampler struct {
	interval   int64
	lastSource string
	lastBucket int64
}

// NewProgressSampler constructs a sampler with the given interval. Values
// below one select DefaultProgressInterval.
func NewProgressSampler(interval int64) *ProgressSampler {
	if interval <= 0 {
		interval = DefaultProgressInterval
	}
	return &ProgressSampler{interval: interval, lastBucket: -1}
}

// ShouldLog reports whether progress at count records into source should be
// logged. A nil sampler logs everything.
func (s *ProgressSampler) ShouldLog(count int64, source string) bool {
	if s == nil {
		return true
	}
	source = strings.TrimSpace(source)
	if source != s.lastSource {
		s.lastSource = source
		s.lastBucket = count / s.interval
		return true
	}
	bucket := count / s.interval
	if bucket > s.lastBucket {
		s.lastBucket = bucket
		return true
	}
	return false
}

// Reset clears the sampler state.
func (s *ProgressSampler) Reset() {
	if s == nil {
		return
	}
	s.lastSource = ""
	s.lastBucket = -1
}
