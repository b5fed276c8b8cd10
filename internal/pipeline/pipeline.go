package pipeline

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/Umesh49/ZeroTrace/internal/audit"
	"github.com/Umesh49/ZeroTrace/internal/chatbot"
)

// Sources tag where a query came from.
const (
	SourceCLI    = "cli"
	SourceAPI    = "api"
	SourceOpenAI = "openai"
)

// EventObserver is a callback function that receives pipeline events.
type EventObserver func(event Event)

// Event is the per-query record handed to observers. Like the audit log it
// carries match metadata only.
type Event struct {
	Timestamp  time.Time    `json:"timestamp"`
	RequestID  string       `json:"request_id"`
	Source     string       `json:"source"`
	Kind       chatbot.Kind `json:"kind"`
	Handler    string       `json:"handler,omitempty"`
	MatchType  string       `json:"match_type,omitempty"`
	MatchTitle string       `json:"match_title,omitempty"`
	Confidence float64      `json:"confidence"`
	Intents    []string     `json:"intents"`
	DurationUS int64        `json:"duration_us"`
}

// Pipeline answers queries with the engine, then audits and publishes them.
type Pipeline struct {
	engine      *chatbot.Engine
	auditLogger *audit.Logger
	processed   atomic.Uint64

	observerMu sync.RWMutex
	observers  []EventObserver
}

// New creates a Pipeline around engine.
func New(engine *chatbot.Engine, auditLogger *audit.Logger) *Pipeline {
	if auditLogger == nil {
		auditLogger = audit.NopLogger()
	}
	return &Pipeline{
		engine:      engine,
		auditLogger: auditLogger,
	}
}

// Engine returns the engine the pipeline answers with.
func (p *Pipeline) Engine() *chatbot.Engine {
	return p.engine
}

// Processed returns how many queries the pipeline has answered.
func (p *Pipeline) Processed() uint64 {
	return p.processed.Load()
}

// Process answers one message.
func (p *Pipeline) Process(source, text string) *Result {
	start := time.Now()
	reply := p.engine.Respond(text)
	elapsed := time.Since(start)
	p.processed.Add(1)

	res := &Result{
		RequestID: "req-" + uuid.NewString(),
		Source:    source,
		Reply:     reply,
		Duration:  elapsed,
	}

	entry := audit.Entry{
		Timestamp:  start.UTC(),
		RequestID:  res.RequestID,
		Source:     source,
		Kind:       string(reply.Kind),
		Handler:    reply.Handler,
		Candidates: reply.Candidates,
		Intents:    reply.Intents.Strings(),
		TokenCount: len(reply.Tokens),
		DurationUS: elapsed.Microseconds(),
	}
	if m := reply.Match; m != nil {
		entry.MatchType = string(m.Type)
		entry.MatchTitle = m.Item.Title()
		entry.Score = m.Score
		entry.Confidence = m.Confidence
	}
	// An unwritable audit log must not cost the user an answer.
	_ = p.auditLogger.Log(entry)

	p.notify(Event{
		Timestamp:  entry.Timestamp,
		RequestID:  res.RequestID,
		Source:     source,
		Kind:       reply.Kind,
		Handler:    reply.Handler,
		MatchType:  entry.MatchType,
		MatchTitle: entry.MatchTitle,
		Confidence: entry.Confidence,
		Intents:    entry.Intents,
		DurationUS: entry.DurationUS,
	})

	return res
}

// AddObserver registers a callback that will be invoked for every pipeline event.
func (p *Pipeline) AddObserver(fn EventObserver) {
	p.observerMu.Lock()
	defer p.observerMu.Unlock()
	p.observers = append(p.observers, fn)
}

// notify sends an event to all registered observers.
func (p *Pipeline) notify(event Event) {
	p.observerMu.RLock()
	observers := p.observers
	p.observerMu.RUnlock()

	for _, fn := range observers {
		fn(event)
	}
}
