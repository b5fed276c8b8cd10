package dashboard

import (
	"maps"
	"sync"
	"time"

	"github.com/Umesh49/ZeroTrace/internal/chatbot"
)

const timeSeriesMinutes = 60

// Stats accumulates real-time statistics from pipeline events.
type Stats struct {
	mu sync.RWMutex

	totalQueries  uint64
	answeredCount uint64
	fallbackCount uint64
	confidenceSum float64
	durationSum   float64

	kindCounts      map[string]uint64
	handlerCounts   map[string]uint64
	matchTypeCounts map[string]uint64
	intentCounts    map[string]uint64
	sourceCounts    map[string]uint64
	confidenceHist  [10]uint64 // buckets: [0.0-0.1), [0.1-0.2), ..., [0.9-1.0]

	// Per-minute buckets for the last 60 minutes
	timeBuckets [timeSeriesMinutes]timeBucket
}

type timeBucket struct {
	minute    time.Time // truncated to minute
	count     uint64
	fallbacks uint64
}

// NewStats creates a new stats accumulator.
func NewStats() *Stats {
	return &Stats{
		kindCounts:      make(map[string]uint64),
		handlerCounts:   make(map[string]uint64),
		matchTypeCounts: make(map[string]uint64),
		intentCounts:    make(map[string]uint64),
		sourceCounts:    make(map[string]uint64),
	}
}

// Record ingests a single pipeline event.
func (s *Stats) Record(event *Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.totalQueries++
	fallback := event.Kind == chatbot.KindFallback
	if fallback {
		s.fallbackCount++
	} else {
		s.answeredCount++
	}
	s.durationSum += float64(event.DurationUS)
	s.kindCounts[string(event.Kind)]++
	if event.Source != "" {
		s.sourceCounts[event.Source]++
	}
	if event.Handler != "" {
		s.handlerCounts[event.Handler]++
	}
	for _, in := range event.Intents {
		s.intentCounts[in]++
	}

	// Only scored matches carry a confidence.
	if event.Kind == chatbot.KindMatch {
		s.matchTypeCounts[event.MatchType]++
		s.confidenceSum += event.Confidence
		bucket := min(int(event.Confidence*10), 9)
		s.confidenceHist[bucket]++
	}

	// Time series
	now := event.Timestamp.Truncate(time.Minute)
	idx := now.Minute() % timeSeriesMinutes
	if s.timeBuckets[idx].minute != now {
		s.timeBuckets[idx] = timeBucket{minute: now}
	}
	s.timeBuckets[idx].count++
	if fallback {
		s.timeBuckets[idx].fallbacks++
	}
}

// Snapshot returns a point-in-time copy of the stats.
func (s *Stats) Snapshot() *StatsSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &StatsSnapshot{
		TotalQueries:        s.totalQueries,
		AnsweredCount:       s.answeredCount,
		FallbackCount:       s.fallbackCount,
		KindCounts:          maps.Clone(s.kindCounts),
		HandlerCounts:       maps.Clone(s.handlerCounts),
		MatchTypeCounts:     maps.Clone(s.matchTypeCounts),
		IntentCounts:        maps.Clone(s.intentCounts),
		SourceCounts:        maps.Clone(s.sourceCounts),
		ConfidenceHistogram: s.confidenceHist,
	}

	if matched := s.kindCounts[string(chatbot.KindMatch)]; matched > 0 {
		snap.AvgConfidence = s.confidenceSum / float64(matched)
	}
	if s.totalQueries > 0 {
		snap.AvgDurationUS = s.durationSum / float64(s.totalQueries)
	}

	// Build time series from buckets (last 60 minutes, chronological)
	now := time.Now().UTC().Truncate(time.Minute)
	cutoff := now.Add(-timeSeriesMinutes * time.Minute)
	for i := 0; i < timeSeriesMinutes; i++ {
		t := cutoff.Add(time.Duration(i+1) * time.Minute)
		b := s.timeBuckets[t.Minute()%timeSeriesMinutes]
		point := TimeSeriesPoint{Timestamp: t}
		if b.minute.Equal(t) {
			point.Count = b.count
			point.Fallbacks = b.fallbacks
		}
		snap.TimeSeries = append(snap.TimeSeries, point)
	}

	return snap
}
