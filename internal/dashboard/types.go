package dashboard

import (
	"time"

	"github.com/Umesh49/ZeroTrace/internal/pipeline"
)

// Event wraps a pipeline event with a unique dashboard ID.
type Event struct {
	ID string `json:"id"`
	pipeline.Event
}

// WSMessage is the envelope for all WebSocket messages.
type WSMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// StatsSnapshot is a point-in-time snapshot of accumulated statistics.
type StatsSnapshot struct {
	TotalQueries        uint64            `json:"total_queries"`
	AnsweredCount       uint64            `json:"answered_count"`
	FallbackCount       uint64            `json:"fallback_count"`
	AvgConfidence       float64           `json:"avg_confidence"`
	AvgDurationUS       float64           `json:"avg_duration_us"`
	KindCounts          map[string]uint64 `json:"kind_counts"`
	HandlerCounts       map[string]uint64 `json:"handler_counts"`
	MatchTypeCounts     map[string]uint64 `json:"match_type_counts"`
	IntentCounts        map[string]uint64 `json:"intent_counts"`
	SourceCounts        map[string]uint64 `json:"source_counts"`
	ConfidenceHistogram [10]uint64        `json:"confidence_histogram"`
	TimeSeries          []TimeSeriesPoint `json:"time_series"`
}

// TimeSeriesPoint is a single point in the 60-minute time series.
type TimeSeriesPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Count     uint64    `json:"count"`
	Fallbacks uint64    `json:"fallbacks"`
}

// InitialState is sent to clients on WebSocket connect.
type InitialState struct {
	Events    []*Event       `json:"events"`
	Stats     *StatsSnapshot `json:"stats"`
	Knowledge map[string]int `json:"knowledge"`
}
